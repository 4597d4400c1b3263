package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/entity"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/repository"
)

var _ repository.ProyectoRepository = (*ProyectoRepo)(nil)

// ProyectoRepo implementación sobre PostgreSQL (usable con pool o tx).
type ProyectoRepo struct {
	q Querier
}

// NewProyectoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProyectoRepository(q Querier) *ProyectoRepo {
	return &ProyectoRepo{q: q}
}

// Create persiste un proyecto nuevo.
func (r *ProyectoRepo) Create(p *entity.Proyecto) error {
	query := `
		INSERT INTO proyectos (id, nombre, cliente_id, descripcion, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.Nombre, p.ClienteID, p.Descripcion, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert proyecto: %w", err)
	}
	return nil
}

// GetByID obtiene un proyecto por ID.
func (r *ProyectoRepo) GetByID(id string) (*entity.Proyecto, error) {
	query := `SELECT id, nombre, cliente_id, descripcion, created_at, updated_at FROM proyectos WHERE id = $1`
	var p entity.Proyecto
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.Nombre, &p.ClienteID, &p.Descripcion, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get proyecto: %w", err)
	}
	return &p, nil
}

// List lista proyectos paginados.
func (r *ProyectoRepo) List(limit, offset int) ([]*entity.Proyecto, error) {
	query := `SELECT id, nombre, cliente_id, descripcion, created_at, updated_at FROM proyectos ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list proyectos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Proyecto
	for rows.Next() {
		var p entity.Proyecto
		if err := rows.Scan(&p.ID, &p.Nombre, &p.ClienteID, &p.Descripcion, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan proyecto: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
