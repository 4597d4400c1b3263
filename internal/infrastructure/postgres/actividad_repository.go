package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/entity"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/repository"
)

var _ repository.ActividadRepository = (*ActividadRepo)(nil)

const actividadColumns = `id, proyecto_id, comercial_id, productor_id, agencia, codigos, semana,
		responsable_actividad, segmento, clase_ppto, canal, ciudad, punto_venta, direccion,
		fecha, hora_inicio, hora_fin, status, sub_status, valor_total,
		responsable_canal, celular_responsable, recursos_agencia, created_at, updated_at`

// ActividadRepo implementación sobre PostgreSQL (usable con pool o tx).
type ActividadRepo struct {
	q Querier
}

// NewActividadRepository construye el adaptador. Pasar pool o tx (Querier).
func NewActividadRepository(q Querier) *ActividadRepo {
	return &ActividadRepo{q: q}
}

// Create persiste una actividad nueva.
func (r *ActividadRepo) Create(a *entity.Actividad) error {
	query := `
		INSERT INTO actividades (id, proyecto_id, comercial_id, productor_id, agencia, codigos, semana,
			responsable_actividad, segmento, clase_ppto, canal, ciudad, punto_venta, direccion,
			fecha, hora_inicio, hora_fin, status, sub_status, valor_total,
			responsable_canal, celular_responsable, recursos_agencia, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.ProyectoID, a.ComercialID, a.ProductorID, a.Agencia, a.Codigos, a.Semana,
		a.ResponsableActividad, a.Segmento, a.ClasePpto, a.Canal, a.Ciudad, a.PuntoVenta, a.Direccion,
		a.Fecha, a.HoraInicio, a.HoraFin, a.Status, a.SubStatus, a.ValorTotal,
		a.ResponsableCanal, a.CelularResponsable, a.RecursosAgencia, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert actividad: %w", err)
	}
	return nil
}

// GetByID obtiene una actividad por ID.
func (r *ActividadRepo) GetByID(id string) (*entity.Actividad, error) {
	query := `SELECT ` + actividadColumns + ` FROM actividades WHERE id = $1`
	return r.scanOne(query, id)
}

// GetForUpdate obtiene la actividad con bloqueo exclusivo de fila.
func (r *ActividadRepo) GetForUpdate(id string) (*entity.Actividad, error) {
	query := `SELECT ` + actividadColumns + ` FROM actividades WHERE id = $1 FOR UPDATE`
	return r.scanOne(query, id)
}

func (r *ActividadRepo) scanOne(query string, args ...any) (*entity.Actividad, error) {
	var a entity.Actividad
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&a.ID, &a.ProyectoID, &a.ComercialID, &a.ProductorID, &a.Agencia, &a.Codigos, &a.Semana,
		&a.ResponsableActividad, &a.Segmento, &a.ClasePpto, &a.Canal, &a.Ciudad, &a.PuntoVenta, &a.Direccion,
		&a.Fecha, &a.HoraInicio, &a.HoraFin, &a.Status, &a.SubStatus, &a.ValorTotal,
		&a.ResponsableCanal, &a.CelularResponsable, &a.RecursosAgencia, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get actividad: %w", err)
	}
	return &a, nil
}

// UpdateEstado escribe status/sub_status y updated_at.
func (r *ActividadRepo) UpdateEstado(id, status, subStatus string) error {
	query := `UPDATE actividades SET status = $2, sub_status = $3, updated_at = $4 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status, subStatus, time.Now())
	if err != nil {
		return fmt.Errorf("update estado actividad: %w", err)
	}
	return nil
}

// Update escribe los campos generales (nunca status/sub_status).
func (r *ActividadRepo) Update(a *entity.Actividad) error {
	query := `
		UPDATE actividades SET proyecto_id = $2, productor_id = $3, agencia = $4, codigos = $5, semana = $6,
			responsable_actividad = $7, segmento = $8, clase_ppto = $9, canal = $10, ciudad = $11,
			punto_venta = $12, direccion = $13, fecha = $14, hora_inicio = $15, hora_fin = $16,
			valor_total = $17, responsable_canal = $18, celular_responsable = $19, recursos_agencia = $20,
			updated_at = $21
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.ProyectoID, a.ProductorID, a.Agencia, a.Codigos, a.Semana,
		a.ResponsableActividad, a.Segmento, a.ClasePpto, a.Canal, a.Ciudad,
		a.PuntoVenta, a.Direccion, a.Fecha, a.HoraInicio, a.HoraFin,
		a.ValorTotal, a.ResponsableCanal, a.CelularResponsable, a.RecursosAgencia,
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update actividad: %w", err)
	}
	return nil
}

// List devuelve actividades filtradas con el total sin paginar.
func (r *ActividadRepo) List(f repository.FiltroActividades) ([]*entity.Actividad, int, error) {
	where, args := buildActividadFilter(f)

	countQuery := `SELECT COUNT(*) FROM actividades` + where
	var total int
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count actividades: %w", err)
	}

	query := `SELECT ` + actividadColumns + ` FROM actividades` + where +
		` ORDER BY fecha DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) +
		` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list actividades: %w", err)
	}
	defer rows.Close()

	var list []*entity.Actividad
	for rows.Next() {
		var a entity.Actividad
		if err := rows.Scan(
			&a.ID, &a.ProyectoID, &a.ComercialID, &a.ProductorID, &a.Agencia, &a.Codigos, &a.Semana,
			&a.ResponsableActividad, &a.Segmento, &a.ClasePpto, &a.Canal, &a.Ciudad, &a.PuntoVenta, &a.Direccion,
			&a.Fecha, &a.HoraInicio, &a.HoraFin, &a.Status, &a.SubStatus, &a.ValorTotal,
			&a.ResponsableCanal, &a.CelularResponsable, &a.RecursosAgencia, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan actividad: %w", err)
		}
		list = append(list, &a)
	}
	return list, total, rows.Err()
}

func buildActividadFilter(f repository.FiltroActividades) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, strings.Replace(cond, "?", "$"+strconv.Itoa(len(args)), 1))
	}
	if f.Ciudad != "" {
		add("ciudad = ?", f.Ciudad)
	}
	if f.Canal != "" {
		add("canal = ?", f.Canal)
	}
	if f.Semana != "" {
		add("semana = ?", f.Semana)
	}
	if f.Status != "" {
		add("status = ?", f.Status)
	}
	if f.SubStatus != "" {
		add("sub_status = ?", f.SubStatus)
	}
	if f.FechaDesde != "" {
		add("fecha >= ?", f.FechaDesde)
	}
	if f.FechaHasta != "" {
		add("fecha <= ?", f.FechaHasta)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
