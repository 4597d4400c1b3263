package repository

import "github.com/JohanStiven-dev/evidenciastigo/internal/domain/entity"

// EvidenciaRepository define el puerto de persistencia para Evidencia.
type EvidenciaRepository interface {
	Create(e *entity.Evidencia) error
	GetByID(id string) (*entity.Evidencia, error)
	UpdateStatus(id, status, motivoRechazo string) error
	Delete(id string) error
	ListByItem(presupuestoItemID string) ([]*entity.Evidencia, error)
	// ListByActividad devuelve todas las evidencias de la actividad a
	// través de los ítems de su presupuesto. El agregador de aprobación
	// vuelve a consultar esto en cada decisión: nunca un contador.
	ListByActividad(actividadID string) ([]*entity.Evidencia, error)
}
