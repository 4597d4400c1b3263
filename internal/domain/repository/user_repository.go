package repository

import "github.com/JohanStiven-dev/evidenciastigo/internal/domain/entity"

// UserRepository define el puerto del directorio de usuarios (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error
	// ListByRol devuelve los usuarios ACTIVOS con el rol dado. La política
	// de notificaciones lo consulta en cada evaluación, nunca cachea: la
	// membresía de rol puede cambiar entre eventos.
	ListByRol(rol string) ([]*entity.User, error)
}
