package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/entity"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/repository"
)

var _ repository.EvidenciaRepository = (*EvidenciaRepo)(nil)

const evidenciaColumns = `id, presupuesto_item_id, tipo, archivo_path, archivo_nombre, mime, peso_bytes, comentario, status, motivo_rechazo, created_at, updated_at`

// EvidenciaRepo implementación sobre PostgreSQL (usable con pool o tx).
type EvidenciaRepo struct {
	q Querier
}

// NewEvidenciaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEvidenciaRepository(q Querier) *EvidenciaRepo {
	return &EvidenciaRepo{q: q}
}

// Create persiste una evidencia nueva.
func (r *EvidenciaRepo) Create(e *entity.Evidencia) error {
	query := `
		INSERT INTO evidencias (id, presupuesto_item_id, tipo, archivo_path, archivo_nombre, mime, peso_bytes, comentario, status, motivo_rechazo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.PresupuestoItemID, e.Tipo, e.ArchivoPath, e.ArchivoNombre, e.Mime, e.PesoBytes,
		e.Comentario, e.Status, e.MotivoRechazo, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert evidencia: %w", err)
	}
	return nil
}

// GetByID obtiene una evidencia por ID.
func (r *EvidenciaRepo) GetByID(id string) (*entity.Evidencia, error) {
	query := `SELECT ` + evidenciaColumns + ` FROM evidencias WHERE id = $1`
	var e entity.Evidencia
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&e.ID, &e.PresupuestoItemID, &e.Tipo, &e.ArchivoPath, &e.ArchivoNombre, &e.Mime, &e.PesoBytes,
		&e.Comentario, &e.Status, &e.MotivoRechazo, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get evidencia: %w", err)
	}
	return &e, nil
}

// UpdateStatus escribe la decisión sobre la evidencia.
func (r *EvidenciaRepo) UpdateStatus(id, status, motivoRechazo string) error {
	query := `UPDATE evidencias SET status = $2, motivo_rechazo = $3, updated_at = $4 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status, motivoRechazo, time.Now())
	if err != nil {
		return fmt.Errorf("update status evidencia: %w", err)
	}
	return nil
}

// Delete elimina una evidencia por ID.
func (r *EvidenciaRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM evidencias WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete evidencia: %w", err)
	}
	return nil
}

// ListByItem lista las evidencias de un ítem de presupuesto.
func (r *EvidenciaRepo) ListByItem(presupuestoItemID string) ([]*entity.Evidencia, error) {
	query := `SELECT ` + evidenciaColumns + ` FROM evidencias WHERE presupuesto_item_id = $1 ORDER BY created_at`
	return r.list(query, presupuestoItemID)
}

// ListByActividad lista todas las evidencias de la actividad, uniendo a
// través de los ítems y el presupuesto. El agregador de aprobación
// depende de que esta consulta sea el estado completo y actual.
func (r *EvidenciaRepo) ListByActividad(actividadID string) ([]*entity.Evidencia, error) {
	query := `
		SELECT e.id, e.presupuesto_item_id, e.tipo, e.archivo_path, e.archivo_nombre, e.mime, e.peso_bytes,
			e.comentario, e.status, e.motivo_rechazo, e.created_at, e.updated_at
		FROM evidencias e
		JOIN presupuesto_items i ON i.id = e.presupuesto_item_id
		JOIN presupuestos p ON p.id = i.presupuesto_id
		WHERE p.actividad_id = $1
		ORDER BY e.created_at`
	return r.list(query, actividadID)
}

func (r *EvidenciaRepo) list(query string, args ...any) ([]*entity.Evidencia, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list evidencias: %w", err)
	}
	defer rows.Close()
	var list []*entity.Evidencia
	for rows.Next() {
		var e entity.Evidencia
		if err := rows.Scan(
			&e.ID, &e.PresupuestoItemID, &e.Tipo, &e.ArchivoPath, &e.ArchivoNombre, &e.Mime, &e.PesoBytes,
			&e.Comentario, &e.Status, &e.MotivoRechazo, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan evidencia: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
