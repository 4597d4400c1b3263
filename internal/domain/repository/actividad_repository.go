package repository

import "github.com/JohanStiven-dev/evidenciastigo/internal/domain/entity"

// FiltroActividades filtros de listado (todos opcionales).
type FiltroActividades struct {
	Ciudad     string
	Canal      string
	Semana     string
	Status     string
	SubStatus  string
	FechaDesde string // YYYY-MM-DD
	FechaHasta string // YYYY-MM-DD
	Limit      int
	Offset     int
}

// ActividadRepository define el puerto de persistencia para Actividad (DIP).
type ActividadRepository interface {
	Create(a *entity.Actividad) error
	GetByID(id string) (*entity.Actividad, error)
	// GetForUpdate carga la actividad con bloqueo exclusivo de fila
	// (SELECT ... FOR UPDATE). Solo tiene sentido dentro de una transacción.
	GetForUpdate(id string) (*entity.Actividad, error)
	// UpdateEstado escribe status/sub_status y updated_at.
	UpdateEstado(id, status, subStatus string) error
	// Update escribe los campos generales (nunca status/sub_status).
	Update(a *entity.Actividad) error
	List(f FiltroActividades) ([]*entity.Actividad, int, error)
}
