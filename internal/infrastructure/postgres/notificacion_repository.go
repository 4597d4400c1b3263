package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/entity"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/repository"
)

var _ repository.NotificacionRepository = (*NotificacionRepo)(nil)

const notificacionColumns = `id, user_id, actividad_id, tipo_evento, canal, payload, estado, enviado_at, error_msg, retry_count, created_at, updated_at`

// NotificacionRepo implementación sobre PostgreSQL (usable con pool o tx).
type NotificacionRepo struct {
	q Querier
}

// NewNotificacionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewNotificacionRepository(q Querier) *NotificacionRepo {
	return &NotificacionRepo{q: q}
}

// Create persiste una notificación nueva. El payload se guarda como JSONB.
func (r *NotificacionRepo) Create(n *entity.Notificacion) error {
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	query := `
		INSERT INTO notificaciones (id, user_id, actividad_id, tipo_evento, canal, payload, estado, enviado_at, error_msg, retry_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = r.q.Exec(context.Background(), query,
		n.ID, n.UserID, n.ActividadID, n.TipoEvento, n.Canal, payload, n.Estado,
		n.EnviadoAt, n.ErrorMsg, n.RetryCount, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notificacion: %w", err)
	}
	return nil
}

// GetByID obtiene una notificación por ID.
func (r *NotificacionRepo) GetByID(id string) (*entity.Notificacion, error) {
	query := `SELECT ` + notificacionColumns + ` FROM notificaciones WHERE id = $1`
	var n entity.Notificacion
	var payload []byte
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&n.ID, &n.UserID, &n.ActividadID, &n.TipoEvento, &n.Canal, &payload, &n.Estado,
		&n.EnviadoAt, &n.ErrorMsg, &n.RetryCount, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get notificacion: %w", err)
	}
	if err := json.Unmarshal(payload, &n.Payload); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	return &n, nil
}

// MarkEnviada marca la notificación como enviada con su hora de envío y
// el número de reintentos que necesitó.
func (r *NotificacionRepo) MarkEnviada(id string, enviadoAt time.Time, retryCount int) error {
	query := `UPDATE notificaciones SET estado = $2, enviado_at = $3, retry_count = $4, error_msg = '', updated_at = $5 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, entity.NotificacionEnviada, enviadoAt, retryCount, time.Now())
	if err != nil {
		return fmt.Errorf("mark notificacion enviada: %w", err)
	}
	return nil
}

// MarkFallida conserva la fila con el último error para inspección.
func (r *NotificacionRepo) MarkFallida(id, errorMsg string, retryCount int) error {
	query := `UPDATE notificaciones SET estado = $2, error_msg = $3, retry_count = $4, updated_at = $5 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, entity.NotificacionFallida, errorMsg, retryCount, time.Now())
	if err != nil {
		return fmt.Errorf("mark notificacion fallida: %w", err)
	}
	return nil
}

// MarkLeida marca la notificación como leída por su destinatario.
func (r *NotificacionRepo) MarkLeida(id string) error {
	query := `UPDATE notificaciones SET estado = $2, updated_at = $3 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, entity.NotificacionLeida, time.Now())
	if err != nil {
		return fmt.Errorf("mark notificacion leida: %w", err)
	}
	return nil
}

// ListByUser lista las notificaciones de un usuario, más reciente primero.
func (r *NotificacionRepo) ListByUser(userID string, limit, offset int) ([]*entity.Notificacion, error) {
	query := `SELECT ` + notificacionColumns + ` FROM notificaciones WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(query, userID, limit, offset)
}

// ListByEstado lista notificaciones por estado de entrega (inspección de
// fallidas, reproceso manual).
func (r *NotificacionRepo) ListByEstado(estado string, limit, offset int) ([]*entity.Notificacion, error) {
	query := `SELECT ` + notificacionColumns + ` FROM notificaciones WHERE estado = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(query, estado, limit, offset)
}

func (r *NotificacionRepo) list(query string, args ...any) ([]*entity.Notificacion, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notificaciones: %w", err)
	}
	defer rows.Close()
	var list []*entity.Notificacion
	for rows.Next() {
		var n entity.Notificacion
		var payload []byte
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.ActividadID, &n.TipoEvento, &n.Canal, &payload, &n.Estado,
			&n.EnviadoAt, &n.ErrorMsg, &n.RetryCount, &n.CreatedAt, &n.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan notificacion: %w", err)
		}
		if err := json.Unmarshal(payload, &n.Payload); err != nil {
			return nil, fmt.Errorf("unmarshal payload: %w", err)
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}
