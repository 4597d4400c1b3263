package repository

import "github.com/JohanStiven-dev/evidenciastigo/internal/domain/entity"

// PresupuestoRepository define el puerto de persistencia para Presupuesto
// y sus ítems.
type PresupuestoRepository interface {
	Create(p *entity.Presupuesto) error
	GetByID(id string) (*entity.Presupuesto, error)
	GetByActividadID(actividadID string) (*entity.Presupuesto, error)
	// GetForUpdate bloquea la fila del presupuesto; la mutación de ítems
	// serializa sobre este bloqueo.
	GetForUpdate(id string) (*entity.Presupuesto, error)
	Update(p *entity.Presupuesto) error

	CreateItem(item *entity.PresupuestoItem) error
	GetItemByID(id string) (*entity.PresupuestoItem, error)
	UpdateItem(item *entity.PresupuestoItem) error
	DeleteItem(id string) error
	ListItems(presupuestoID string) ([]*entity.PresupuestoItem, error)
}
