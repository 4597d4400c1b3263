package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/JohanStiven-dev/evidenciastigo/internal/domain"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/entity"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/repository"
)

var _ repository.PresupuestoRepository = (*PresupuestoRepo)(nil)

const presupuestoColumns = `id, actividad_id, total_cop, estado_presupuesto, comentario_global, orden_compra_path, created_at, updated_at`

const presupuestoItemColumns = `id, presupuesto_id, item, cantidad, costo_unitario_cop, subtotal_cop, impuesto_cop, comentario, created_at, updated_at`

// PresupuestoRepo implementación sobre PostgreSQL (usable con pool o tx).
type PresupuestoRepo struct {
	q Querier
}

// NewPresupuestoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPresupuestoRepository(q Querier) *PresupuestoRepo {
	return &PresupuestoRepo{q: q}
}

// Create persiste un presupuesto nuevo. La columna actividad_id es única:
// una actividad solo tiene un presupuesto.
func (r *PresupuestoRepo) Create(p *entity.Presupuesto) error {
	query := `
		INSERT INTO presupuestos (id, actividad_id, total_cop, estado_presupuesto, comentario_global, orden_compra_path, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.ActividadID, p.TotalCOP, p.EstadoPresupuesto, p.ComentarioGlobal, p.OrdenCompraPath,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert presupuesto: %w", err)
	}
	return nil
}

// GetByID obtiene un presupuesto por ID.
func (r *PresupuestoRepo) GetByID(id string) (*entity.Presupuesto, error) {
	query := `SELECT ` + presupuestoColumns + ` FROM presupuestos WHERE id = $1`
	return r.scanOne(query, id)
}

// GetByActividadID obtiene el presupuesto de una actividad.
func (r *PresupuestoRepo) GetByActividadID(actividadID string) (*entity.Presupuesto, error) {
	query := `SELECT ` + presupuestoColumns + ` FROM presupuestos WHERE actividad_id = $1`
	return r.scanOne(query, actividadID)
}

// GetForUpdate obtiene el presupuesto con bloqueo exclusivo de fila.
func (r *PresupuestoRepo) GetForUpdate(id string) (*entity.Presupuesto, error) {
	query := `SELECT ` + presupuestoColumns + ` FROM presupuestos WHERE id = $1 FOR UPDATE`
	return r.scanOne(query, id)
}

func (r *PresupuestoRepo) scanOne(query string, args ...any) (*entity.Presupuesto, error) {
	var p entity.Presupuesto
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&p.ID, &p.ActividadID, &p.TotalCOP, &p.EstadoPresupuesto, &p.ComentarioGlobal, &p.OrdenCompraPath,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get presupuesto: %w", err)
	}
	return &p, nil
}

// Update actualiza la cabecera del presupuesto.
func (r *PresupuestoRepo) Update(p *entity.Presupuesto) error {
	query := `
		UPDATE presupuestos SET total_cop = $2, estado_presupuesto = $3, comentario_global = $4,
			orden_compra_path = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.TotalCOP, p.EstadoPresupuesto, p.ComentarioGlobal, p.OrdenCompraPath, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update presupuesto: %w", err)
	}
	return nil
}

// CreateItem persiste un ítem de presupuesto.
func (r *PresupuestoRepo) CreateItem(item *entity.PresupuestoItem) error {
	query := `
		INSERT INTO presupuesto_items (id, presupuesto_id, item, cantidad, costo_unitario_cop, subtotal_cop, impuesto_cop, comentario, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.PresupuestoID, item.Item, item.Cantidad, item.CostoUnitarioCOP,
		item.SubtotalCOP, item.ImpuestoCOP, item.Comentario, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert presupuesto item: %w", err)
	}
	return nil
}

// GetItemByID obtiene un ítem por ID.
func (r *PresupuestoRepo) GetItemByID(id string) (*entity.PresupuestoItem, error) {
	query := `SELECT ` + presupuestoItemColumns + ` FROM presupuesto_items WHERE id = $1`
	var it entity.PresupuestoItem
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&it.ID, &it.PresupuestoID, &it.Item, &it.Cantidad, &it.CostoUnitarioCOP,
		&it.SubtotalCOP, &it.ImpuestoCOP, &it.Comentario, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get presupuesto item: %w", err)
	}
	return &it, nil
}

// UpdateItem actualiza un ítem existente.
func (r *PresupuestoRepo) UpdateItem(item *entity.PresupuestoItem) error {
	query := `
		UPDATE presupuesto_items SET item = $2, cantidad = $3, costo_unitario_cop = $4,
			subtotal_cop = $5, impuesto_cop = $6, comentario = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Item, item.Cantidad, item.CostoUnitarioCOP,
		item.SubtotalCOP, item.ImpuestoCOP, item.Comentario, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update presupuesto item: %w", err)
	}
	return nil
}

// DeleteItem elimina un ítem por ID.
func (r *PresupuestoRepo) DeleteItem(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM presupuesto_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete presupuesto item: %w", err)
	}
	return nil
}

// ListItems lista los ítems de un presupuesto.
func (r *PresupuestoRepo) ListItems(presupuestoID string) ([]*entity.PresupuestoItem, error) {
	query := `SELECT ` + presupuestoItemColumns + ` FROM presupuesto_items WHERE presupuesto_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, presupuestoID)
	if err != nil {
		return nil, fmt.Errorf("list presupuesto items: %w", err)
	}
	defer rows.Close()
	var list []*entity.PresupuestoItem
	for rows.Next() {
		var it entity.PresupuestoItem
		if err := rows.Scan(
			&it.ID, &it.PresupuestoID, &it.Item, &it.Cantidad, &it.CostoUnitarioCOP,
			&it.SubtotalCOP, &it.ImpuestoCOP, &it.Comentario, &it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan presupuesto item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}
