package entity

import "time"

// Roles válidos para User.
const (
	RolComercial = "Comercial"
	RolProductor = "Productor"
	RolCliente   = "Cliente"
	RolAdmin     = "Admin"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Nombre       string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Rol          string // Comercial, Productor, Cliente, Admin
	Activo       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
