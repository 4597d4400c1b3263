package repository

import "github.com/JohanStiven-dev/evidenciastigo/internal/domain/entity"

// BitacoraRepository define el puerto del registro de auditoría.
// Append-only: solo inserción y lectura.
type BitacoraRepository interface {
	Create(b *entity.Bitacora) error
	ListByActividad(actividadID string) ([]*entity.Bitacora, error)
}
