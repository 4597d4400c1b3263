package postgres

import (
	"context"
	"fmt"

	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/entity"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/repository"
)

var _ repository.BitacoraRepository = (*BitacoraRepo)(nil)

// BitacoraRepo implementación sobre PostgreSQL (usable con pool o tx).
// La tabla es append-only: no existen UPDATE ni DELETE.
type BitacoraRepo struct {
	q Querier
}

// NewBitacoraRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBitacoraRepository(q Querier) *BitacoraRepo {
	return &BitacoraRepo{q: q}
}

// Create inserta una entrada de bitácora.
func (r *BitacoraRepo) Create(b *entity.Bitacora) error {
	query := `
		INSERT INTO bitacoras (id, actividad_id, user_id, accion, desde_estado, hacia_estado, motivo, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		b.ID, b.ActividadID, b.UserID, b.Accion, b.DesdeEstado, b.HaciaEstado, b.Motivo, b.IPAddress, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert bitacora: %w", err)
	}
	return nil
}

// ListByActividad lista la historia completa de una actividad, más
// reciente primero.
func (r *BitacoraRepo) ListByActividad(actividadID string) ([]*entity.Bitacora, error) {
	query := `
		SELECT id, actividad_id, user_id, accion, desde_estado, hacia_estado, motivo, ip_address, created_at
		FROM bitacoras WHERE actividad_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, actividadID)
	if err != nil {
		return nil, fmt.Errorf("list bitacoras: %w", err)
	}
	defer rows.Close()
	var list []*entity.Bitacora
	for rows.Next() {
		var b entity.Bitacora
		if err := rows.Scan(
			&b.ID, &b.ActividadID, &b.UserID, &b.Accion, &b.DesdeEstado, &b.HaciaEstado,
			&b.Motivo, &b.IPAddress, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan bitacora: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
