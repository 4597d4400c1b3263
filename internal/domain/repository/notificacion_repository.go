package repository

import (
	"time"

	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/entity"
)

// NotificacionRepository define el puerto de persistencia para
// Notificacion. Las filas fallidas se conservan para inspección.
type NotificacionRepository interface {
	Create(n *entity.Notificacion) error
	GetByID(id string) (*entity.Notificacion, error)
	MarkEnviada(id string, enviadoAt time.Time, retryCount int) error
	MarkFallida(id, errorMsg string, retryCount int) error
	MarkLeida(id string) error
	ListByUser(userID string, limit, offset int) ([]*entity.Notificacion, error)
	ListByEstado(estado string, limit, offset int) ([]*entity.Notificacion, error)
}
