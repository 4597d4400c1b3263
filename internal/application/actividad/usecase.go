package actividad

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JohanStiven-dev/evidenciastigo/internal/application/dto"
	"github.com/JohanStiven-dev/evidenciastigo/internal/application/notificacion"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/entity"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/repository"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/workflow"
	"github.com/JohanStiven-dev/evidenciastigo/pkg/logger"
)

// UseCase implementa el ciclo de vida de la actividad: creación,
// transición de estado con bloqueo de fila, y actualización genérica con
// token de concurrencia optimista.
type UseCase struct {
	tx      TxRunner
	actRepo repository.ActividadRepository
	bitRepo repository.BitacoraRepository
	policy  *notificacion.Policy
	notif   Notificador
	log     *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	tx TxRunner,
	actRepo repository.ActividadRepository,
	bitRepo repository.BitacoraRepository,
	policy *notificacion.Policy,
	notif Notificador,
	log *logger.Logger,
) *UseCase {
	return &UseCase{tx: tx, actRepo: actRepo, bitRepo: bitRepo, policy: policy, notif: notif, log: log}
}

// ETag deriva el token de concurrencia optimista del updated_at, con el
// mismo formato que expone el header: `"<millis unix>"`.
func ETag(updatedAt time.Time) string {
	return `"` + strconv.FormatInt(updatedAt.UnixMilli(), 10) + `"`
}

// Crear crea la actividad en (Planificación, Borrador) junto con su
// presupuesto inicial sembrado con el valor total, todo en una
// transacción con sus dos entradas de bitácora. Solo el rol Comercial.
func (uc *UseCase) Crear(ctx context.Context, in dto.CreateActividadRequest, actorID, actorRol, ip string) (*dto.ActividadResponse, error) {
	if actorRol != entity.RolComercial {
		return nil, domain.ErrForbidden
	}
	if in.Agencia == "" || in.Codigos == "" || in.Fecha == "" {
		return nil, domain.ErrInvalidInput
	}
	fecha, err := time.Parse("2006-01-02", in.Fecha)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	if in.ValorTotal.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	a := &entity.Actividad{
		ID:                   uuid.New().String(),
		ComercialID:          actorID,
		Agencia:              in.Agencia,
		Codigos:              in.Codigos,
		Semana:               entity.SemanaISO(fecha),
		ResponsableActividad: in.ResponsableActividad,
		Segmento:             in.Segmento,
		ClasePpto:            in.ClasePpto,
		Canal:                in.Canal,
		Ciudad:               in.Ciudad,
		PuntoVenta:           in.PuntoVenta,
		Direccion:            in.Direccion,
		Fecha:                fecha,
		HoraInicio:           in.HoraInicio,
		HoraFin:              in.HoraFin,
		Status:               workflow.StatusPlanificacion,
		SubStatus:            workflow.SubStatusBorrador,
		ValorTotal:           in.ValorTotal,
		ResponsableCanal:     in.ResponsableCanal,
		CelularResponsable:   in.CelularResponsable,
		RecursosAgencia:      in.RecursosAgencia,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if in.ProyectoID != "" {
		pid := in.ProyectoID
		a.ProyectoID = &pid
	}
	if in.ProductorID != "" {
		prid := in.ProductorID
		a.ProductorID = &prid
	}

	err = uc.tx.Run(ctx, func(
		actRepo repository.ActividadRepository,
		pptoRepo repository.PresupuestoRepository,
		_ repository.EvidenciaRepository,
		bitRepo repository.BitacoraRepository,
	) error {
		if err := actRepo.Create(a); err != nil {
			return fmt.Errorf("crear actividad: %w", err)
		}
		if err := bitRepo.Create(&entity.Bitacora{
			ID:          uuid.New().String(),
			ActividadID: a.ID,
			UserID:      actorID,
			Accion:      entity.AccionCreacionActividad,
			HaciaEstado: a.Estado(),
			Motivo:      "Actividad creada por Comercial.",
			IPAddress:   ip,
			CreatedAt:   now,
		}); err != nil {
			return fmt.Errorf("bitácora de creación: %w", err)
		}
		// Presupuesto inicial automático basado en valor_total.
		if err := pptoRepo.Create(&entity.Presupuesto{
			ID:                uuid.New().String(),
			ActividadID:       a.ID,
			TotalCOP:          a.ValorTotal,
			EstadoPresupuesto: entity.PresupuestoPendiente,
			ComentarioGlobal:  "Presupuesto inicial basado en valor total de actividad.",
			CreatedAt:         now,
			UpdatedAt:         now,
		}); err != nil {
			return fmt.Errorf("crear presupuesto inicial: %w", err)
		}
		return bitRepo.Create(&entity.Bitacora{
			ID:          uuid.New().String(),
			ActividadID: a.ID,
			UserID:      actorID,
			Accion:      entity.AccionCreacionPresupuesto,
			Motivo:      "Presupuesto auto-generado al crear actividad.",
			IPAddress:   ip,
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}

	// La notificación al cliente sale recién al pasar a 'En Revisión'.
	return toResponse(a), nil
}

// CambiarEstado aplica una transición (status, sub_status) bajo bloqueo
// exclusivo de fila. La escritura del estado es incondicional; la tabla
// de transiciones nombradas solo decide qué notificación emitir después
// del commit. Un fallo de notificación jamás revierte la transición ni
// llega al caller.
func (uc *UseCase) CambiarEstado(ctx context.Context, id, actorID, actorRol, ip string, in dto.CambioEstadoRequest) (*dto.ActividadResponse, error) {
	if in.NewStatus == "" || in.NewSubStatus == "" {
		return nil, domain.ErrInvalidInput
	}
	if !workflow.SubStatusValido(in.NewStatus, in.NewSubStatus) {
		return nil, domain.ErrInvalidInput
	}

	var (
		updated *entity.Actividad
		tr      *workflow.Transicion
	)
	err := uc.tx.Run(ctx, func(
		actRepo repository.ActividadRepository,
		_ repository.PresupuestoRepository,
		_ repository.EvidenciaRepository,
		bitRepo repository.BitacoraRepository,
	) error {
		a, err := actRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.ErrNotFound
		}
		desde := a.Estado()
		tr = workflow.Match(a.SubStatus, in.NewSubStatus, actorRol)
		if tr != nil && tr.RequiereMotivo && strings.TrimSpace(in.Motivo) == "" {
			return domain.ErrInvalidInput
		}

		if err := actRepo.UpdateEstado(id, in.NewStatus, in.NewSubStatus); err != nil {
			return fmt.Errorf("actualizar estado: %w", err)
		}
		a.Status = in.NewStatus
		a.SubStatus = in.NewSubStatus
		a.UpdatedAt = time.Now()
		updated = a

		return bitRepo.Create(&entity.Bitacora{
			ID:          uuid.New().String(),
			ActividadID: id,
			UserID:      actorID,
			Accion:      entity.AccionCambioEstado,
			DesdeEstado: desde,
			HaciaEstado: a.Estado(),
			Motivo:      in.Motivo,
			IPAddress:   ip,
			CreatedAt:   time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	// Post-commit: la notificación de la transición nombrada, si la hay.
	if tr != nil {
		specs, perr := uc.policy.PorEvento(string(tr.Evento), updated, in.Motivo)
		if perr != nil {
			uc.log.Error().Err(perr).
				Str("actividad_id", id).
				Str("evento", string(tr.Evento)).
				Msg("evaluar política de notificación")
		} else {
			uc.notif.EncolarTodas(specs)
		}
	}
	return toResponse(updated), nil
}

// Actualizar escribe los campos generales de la actividad (nunca
// status/sub_status) con control de concurrencia optimista: si el token
// If-Match no coincide con el updated_at actual, Conflict.
func (uc *UseCase) Actualizar(ctx context.Context, id string, in dto.UpdateActividadRequest, ifMatch, actorID, ip string) (*dto.ActividadResponse, string, error) {
	var updated *entity.Actividad
	err := uc.tx.Run(ctx, func(
		actRepo repository.ActividadRepository,
		_ repository.PresupuestoRepository,
		_ repository.EvidenciaRepository,
		bitRepo repository.BitacoraRepository,
	) error {
		a, err := actRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.ErrNotFound
		}
		if ifMatch != "" && ifMatch != ETag(a.UpdatedAt) {
			return domain.ErrConflict
		}
		if err := aplicarCampos(a, in); err != nil {
			return err
		}
		a.UpdatedAt = time.Now()
		if err := actRepo.Update(a); err != nil {
			return fmt.Errorf("actualizar actividad: %w", err)
		}
		updated = a
		return bitRepo.Create(&entity.Bitacora{
			ID:          uuid.New().String(),
			ActividadID: id,
			UserID:      actorID,
			Accion:      entity.AccionActualizacion,
			Motivo:      "Campos generales actualizados",
			IPAddress:   ip,
			CreatedAt:   time.Now(),
		})
	})
	if err != nil {
		return nil, "", err
	}
	return toResponse(updated), ETag(updated.UpdatedAt), nil
}

// aplicarCampos copia los campos presentes del request a la entidad.
// Fecha recalcula la semana ISO. ValorTotal nunca baja de cero.
func aplicarCampos(a *entity.Actividad, in dto.UpdateActividadRequest) error {
	if in.ProductorID != nil {
		a.ProductorID = in.ProductorID
	}
	if in.Agencia != nil {
		a.Agencia = *in.Agencia
	}
	if in.Codigos != nil {
		a.Codigos = *in.Codigos
	}
	if in.ResponsableActividad != nil {
		a.ResponsableActividad = *in.ResponsableActividad
	}
	if in.Segmento != nil {
		a.Segmento = *in.Segmento
	}
	if in.ClasePpto != nil {
		a.ClasePpto = *in.ClasePpto
	}
	if in.Canal != nil {
		a.Canal = *in.Canal
	}
	if in.Ciudad != nil {
		a.Ciudad = *in.Ciudad
	}
	if in.PuntoVenta != nil {
		a.PuntoVenta = *in.PuntoVenta
	}
	if in.Direccion != nil {
		a.Direccion = *in.Direccion
	}
	if in.Fecha != nil {
		fecha, err := time.Parse("2006-01-02", *in.Fecha)
		if err != nil {
			return domain.ErrInvalidInput
		}
		a.Fecha = fecha
		a.Semana = entity.SemanaISO(fecha)
	}
	if in.HoraInicio != nil {
		a.HoraInicio = *in.HoraInicio
	}
	if in.HoraFin != nil {
		a.HoraFin = *in.HoraFin
	}
	if in.ValorTotal != nil {
		if in.ValorTotal.LessThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
		a.ValorTotal = *in.ValorTotal
	}
	if in.ResponsableCanal != nil {
		a.ResponsableCanal = *in.ResponsableCanal
	}
	if in.CelularResponsable != nil {
		a.CelularResponsable = *in.CelularResponsable
	}
	if in.RecursosAgencia != nil {
		a.RecursosAgencia = *in.RecursosAgencia
	}
	return nil
}

// PorID devuelve la actividad o NotFound.
func (uc *UseCase) PorID(ctx context.Context, id string) (*dto.ActividadResponse, error) {
	a, err := uc.actRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	return toResponse(a), nil
}

// Listar devuelve actividades filtradas y paginadas. Visibilidad
// compartida: todos los roles ven todas las actividades.
func (uc *UseCase) Listar(ctx context.Context, f repository.FiltroActividades) (*dto.ActividadListResponse, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	items, total, err := uc.actRepo.List(f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ActividadResponse, 0, len(items))
	for _, a := range items {
		out = append(out, *toResponse(a))
	}
	return &dto.ActividadListResponse{
		Items: out,
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset, Total: total},
	}, nil
}

// Bitacora devuelve el registro de auditoría de la actividad.
func (uc *UseCase) Bitacora(ctx context.Context, actividadID string) ([]dto.BitacoraResponse, error) {
	logs, err := uc.bitRepo.ListByActividad(actividadID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BitacoraResponse, 0, len(logs))
	for _, b := range logs {
		out = append(out, dto.BitacoraResponse{
			ID:          b.ID,
			ActividadID: b.ActividadID,
			UserID:      b.UserID,
			Accion:      b.Accion,
			DesdeEstado: b.DesdeEstado,
			HaciaEstado: b.HaciaEstado,
			Motivo:      b.Motivo,
			IPAddress:   b.IPAddress,
			CreatedAt:   b.CreatedAt,
		})
	}
	return out, nil
}

func toResponse(a *entity.Actividad) *dto.ActividadResponse {
	if a == nil {
		return nil
	}
	return &dto.ActividadResponse{
		ID:                   a.ID,
		ProyectoID:           a.ProyectoID,
		ComercialID:          a.ComercialID,
		ProductorID:          a.ProductorID,
		Agencia:              a.Agencia,
		Codigos:              a.Codigos,
		Semana:               a.Semana,
		ResponsableActividad: a.ResponsableActividad,
		Segmento:             a.Segmento,
		ClasePpto:            a.ClasePpto,
		Canal:                a.Canal,
		Ciudad:               a.Ciudad,
		PuntoVenta:           a.PuntoVenta,
		Direccion:            a.Direccion,
		Fecha:                a.Fecha.Format("2006-01-02"),
		HoraInicio:           a.HoraInicio,
		HoraFin:              a.HoraFin,
		Status:               a.Status,
		SubStatus:            a.SubStatus,
		ValorTotal:           a.ValorTotal,
		ResponsableCanal:     a.ResponsableCanal,
		CelularResponsable:   a.CelularResponsable,
		RecursosAgencia:      a.RecursosAgencia,
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}
}
