package repository

import "github.com/JohanStiven-dev/evidenciastigo/internal/domain/entity"

// ProyectoRepository define el puerto de persistencia para Proyecto.
type ProyectoRepository interface {
	Create(p *entity.Proyecto) error
	GetByID(id string) (*entity.Proyecto, error)
	List(limit, offset int) ([]*entity.Proyecto, error)
}
