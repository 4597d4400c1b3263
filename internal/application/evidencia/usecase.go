package evidencia

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JohanStiven-dev/evidenciastigo/internal/application/dto"
	"github.com/JohanStiven-dev/evidenciastigo/internal/application/notificacion"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/entity"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/repository"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/workflow"
	"github.com/JohanStiven-dev/evidenciastigo/pkg/logger"
)

// UseCase implementa la carga, validación y agregación de evidencias.
// La decisión del cliente sobre la última evidencia pendiente es la que
// dispara la finalización automática de la actividad.
type UseCase struct {
	tx       TxRunner
	actRepo  repository.ActividadRepository
	eviRepo  repository.EvidenciaRepository
	pptoRepo repository.PresupuestoRepository
	store    FileStore
	policy   *notificacion.Policy
	notif    Notificador
	log      *logger.Logger
}

func NewUseCase(
	tx TxRunner,
	actRepo repository.ActividadRepository,
	eviRepo repository.EvidenciaRepository,
	pptoRepo repository.PresupuestoRepository,
	store FileStore,
	policy *notificacion.Policy,
	notif Notificador,
	log *logger.Logger,
) *UseCase {
	return &UseCase{tx: tx, actRepo: actRepo, eviRepo: eviRepo, pptoRepo: pptoRepo, store: store, policy: policy, notif: notif, log: log}
}

// SubirInput es la entrada de carga de una evidencia (multipart, no JSON).
type SubirInput struct {
	PresupuestoItemID string
	Tipo              string
	ArchivoNombre     string
	Mime              string
	Contenido         []byte
	Comentario        string
}

func tipoValido(tipo string) bool {
	switch tipo {
	case entity.EvidenciaFotoRecibo, entity.EvidenciaFotoActividad, entity.EvidenciaOtro:
		return true
	}
	return false
}

// Subir guarda el archivo en el almacén y registra la evidencia en
// estado pendiente, notificando a Comerciales y Clientes de la carga.
// Solo el Productor (o Admin) carga evidencias.
func (uc *UseCase) Subir(ctx context.Context, actorRol string, in SubirInput) (*dto.EvidenciaResponse, error) {
	if actorRol != entity.RolProductor && actorRol != entity.RolAdmin {
		return nil, domain.ErrForbidden
	}
	if in.PresupuestoItemID == "" || strings.TrimSpace(in.ArchivoNombre) == "" || len(in.Contenido) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Tipo == "" {
		in.Tipo = entity.EvidenciaOtro
	}
	if !tipoValido(in.Tipo) {
		return nil, domain.ErrInvalidInput
	}

	item, err := uc.pptoRepo.GetItemByID(in.PresupuestoItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	ppto, err := uc.pptoRepo.GetByID(item.PresupuestoID)
	if err != nil {
		return nil, err
	}
	if ppto == nil {
		return nil, domain.ErrNotFound
	}

	path, err := uc.store.Save(ppto.ActividadID, in.ArchivoNombre, in.Contenido)
	if err != nil {
		return nil, fmt.Errorf("guardar archivo de evidencia: %w", err)
	}

	now := time.Now()
	e := &entity.Evidencia{
		ID:                uuid.New().String(),
		PresupuestoItemID: in.PresupuestoItemID,
		Tipo:              in.Tipo,
		ArchivoPath:       path,
		ArchivoNombre:     in.ArchivoNombre,
		Mime:              in.Mime,
		PesoBytes:         int64(len(in.Contenido)),
		Comentario:        in.Comentario,
		Status:            entity.EvidenciaPendiente,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.eviRepo.Create(e); err != nil {
		if derr := uc.store.Delete(path); derr != nil {
			uc.log.Warn().Err(derr).Str("path", path).Msg("limpiar archivo huérfano")
		}
		return nil, err
	}

	// Best-effort: la carga queda registrada aunque la notificación falle.
	if act, aerr := uc.actRepo.GetByID(ppto.ActividadID); aerr != nil || act == nil {
		uc.log.Error().Err(aerr).Str("actividad_id", ppto.ActividadID).Msg("cargar actividad para notificar evidencia")
	} else if specs, perr := uc.policy.EvidenciaCargada(act, item.Item, e.Tipo); perr != nil {
		uc.log.Error().Err(perr).Str("actividad_id", act.ID).Msg("evaluar política de evidencia cargada")
	} else {
		uc.notif.EncolarTodas(specs)
	}
	return toResponse(e), nil
}

// CambiarStatus registra la decisión del cliente sobre una evidencia.
// Si la evidencia ya está en el estado solicitado la operación es un
// no-op idempotente: sin bitácora y sin notificaciones. Tras aprobar,
// vuelve a consultar TODAS las evidencias de la actividad bajo el
// bloqueo de su fila; si no queda ninguna pendiente ni rechazada, la
// actividad pasa a (Finalizada, Completado) en la misma transacción.
func (uc *UseCase) CambiarStatus(ctx context.Context, evidenciaID, actorID, actorRol, ip string, in dto.CambioStatusEvidenciaRequest) (*dto.EvidenciaResponse, error) {
	if actorRol != entity.RolCliente && actorRol != entity.RolAdmin {
		return nil, domain.ErrForbidden
	}
	if in.Status != entity.EvidenciaAprobada && in.Status != entity.EvidenciaRechazada {
		return nil, domain.ErrInvalidInput
	}
	if in.Status == entity.EvidenciaRechazada && strings.TrimSpace(in.MotivoRechazo) == "" {
		return nil, domain.ErrInvalidInput
	}

	var (
		updated    *entity.Evidencia
		act        *entity.Actividad
		item       *entity.PresupuestoItem
		cambiada   bool
		finalizada bool
	)
	err := uc.tx.Run(ctx, func(
		actRepo repository.ActividadRepository,
		pptoRepo repository.PresupuestoRepository,
		eviRepo repository.EvidenciaRepository,
		bitRepo repository.BitacoraRepository,
	) error {
		e, err := eviRepo.GetByID(evidenciaID)
		if err != nil {
			return err
		}
		if e == nil {
			return domain.ErrNotFound
		}
		item, err = pptoRepo.GetItemByID(e.PresupuestoItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		ppto, err := pptoRepo.GetByID(item.PresupuestoID)
		if err != nil {
			return err
		}
		if ppto == nil {
			return domain.ErrNotFound
		}

		// Bloqueo de la actividad ANTES de decidir: dos decisiones
		// concurrentes sobre la misma actividad serializan aquí.
		act, err = actRepo.GetForUpdate(ppto.ActividadID)
		if err != nil {
			return err
		}
		if act == nil {
			return domain.ErrNotFound
		}

		// Relectura bajo el bloqueo; la decisión idempotente se toma
		// sobre el estado comprometido, no sobre la primera lectura.
		e, err = eviRepo.GetByID(evidenciaID)
		if err != nil {
			return err
		}
		if e == nil {
			return domain.ErrNotFound
		}
		if e.Status == in.Status {
			updated = e
			return nil
		}

		motivo := ""
		bitMotivo := "Evidencia aprobada"
		if in.Status == entity.EvidenciaRechazada {
			motivo = in.MotivoRechazo
			bitMotivo = in.MotivoRechazo
		}
		if err := eviRepo.UpdateStatus(e.ID, in.Status, motivo); err != nil {
			return fmt.Errorf("actualizar status de evidencia: %w", err)
		}
		desde := e.Status
		e.Status = in.Status
		e.MotivoRechazo = motivo
		e.UpdatedAt = time.Now()
		updated = e
		cambiada = true

		if err := bitRepo.Create(&entity.Bitacora{
			ID:          uuid.New().String(),
			ActividadID: act.ID,
			UserID:      actorID,
			Accion:      entity.AccionValidacionEvidencia,
			DesdeEstado: fmt.Sprintf("Evidencia %s: %s", e.ID, desde),
			HaciaEstado: fmt.Sprintf("Evidencia %s: %s", e.ID, e.Status),
			Motivo:      bitMotivo,
			IPAddress:   ip,
			CreatedAt:   time.Now(),
		}); err != nil {
			return err
		}

		if in.Status != entity.EvidenciaAprobada {
			return nil
		}

		// Agregación: siempre reconsultar, nunca un contador.
		todas, err := eviRepo.ListByActividad(act.ID)
		if err != nil {
			return err
		}
		if len(todas) == 0 || !todasAprobadas(todas) {
			return nil
		}

		desdeAct := act.Estado()
		if err := actRepo.UpdateEstado(act.ID, workflow.StatusFinalizada, workflow.SubStatusCompletado); err != nil {
			return fmt.Errorf("finalizar actividad: %w", err)
		}
		act.Status = workflow.StatusFinalizada
		act.SubStatus = workflow.SubStatusCompletado
		act.UpdatedAt = time.Now()
		finalizada = true

		return bitRepo.Create(&entity.Bitacora{
			ID:          uuid.New().String(),
			ActividadID: act.ID,
			UserID:      actorID,
			Accion:      entity.AccionFinalizacionAuto,
			DesdeEstado: desdeAct,
			HaciaEstado: act.Estado(),
			Motivo:      "Todas las evidencias fueron aprobadas.",
			IPAddress:   ip,
			CreatedAt:   time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	// Post-commit: las notificaciones nunca afectan el resultado.
	switch {
	case cambiada && updated.Status == entity.EvidenciaRechazada:
		specs, perr := uc.policy.EvidenciaRechazada(act, item.Item, in.MotivoRechazo)
		if perr != nil {
			uc.log.Error().Err(perr).Str("actividad_id", act.ID).Msg("evaluar política de evidencia rechazada")
		} else {
			uc.notif.EncolarTodas(specs)
		}
	case finalizada:
		specs, perr := uc.policy.ActividadFinalizada(act)
		if perr != nil {
			uc.log.Error().Err(perr).Str("actividad_id", act.ID).Msg("evaluar política de finalización")
		} else {
			uc.notif.EncolarTodas(specs)
		}
	}
	return toResponse(updated), nil
}

func todasAprobadas(evidencias []*entity.Evidencia) bool {
	for _, e := range evidencias {
		if e.Status != entity.EvidenciaAprobada {
			return false
		}
	}
	return true
}

// Eliminar borra la evidencia y su archivo. Solo el Productor (o Admin).
func (uc *UseCase) Eliminar(ctx context.Context, evidenciaID, actorRol string) error {
	if actorRol != entity.RolProductor && actorRol != entity.RolAdmin {
		return domain.ErrForbidden
	}
	e, err := uc.eviRepo.GetByID(evidenciaID)
	if err != nil {
		return err
	}
	if e == nil {
		return domain.ErrNotFound
	}
	if err := uc.eviRepo.Delete(evidenciaID); err != nil {
		return err
	}
	if derr := uc.store.Delete(e.ArchivoPath); derr != nil {
		uc.log.Warn().Err(derr).Str("path", e.ArchivoPath).Msg("borrar archivo de evidencia")
	}
	return nil
}

// ListarPorItem lista las evidencias de un ítem de presupuesto.
func (uc *UseCase) ListarPorItem(ctx context.Context, presupuestoItemID string) ([]dto.EvidenciaResponse, error) {
	evidencias, err := uc.eviRepo.ListByItem(presupuestoItemID)
	if err != nil {
		return nil, err
	}
	return toResponses(evidencias), nil
}

// ListarPorActividad lista todas las evidencias de una actividad a
// través de los ítems de su presupuesto.
func (uc *UseCase) ListarPorActividad(ctx context.Context, actividadID string) ([]dto.EvidenciaResponse, error) {
	evidencias, err := uc.eviRepo.ListByActividad(actividadID)
	if err != nil {
		return nil, err
	}
	return toResponses(evidencias), nil
}

// Descargar devuelve el contenido del archivo junto con su nombre y mime.
func (uc *UseCase) Descargar(ctx context.Context, evidenciaID string) ([]byte, string, string, error) {
	e, err := uc.eviRepo.GetByID(evidenciaID)
	if err != nil {
		return nil, "", "", err
	}
	if e == nil {
		return nil, "", "", domain.ErrNotFound
	}
	contenido, err := uc.store.Open(e.ArchivoPath)
	if err != nil {
		return nil, "", "", fmt.Errorf("leer archivo de evidencia: %w", err)
	}
	return contenido, e.ArchivoNombre, e.Mime, nil
}

func toResponse(e *entity.Evidencia) *dto.EvidenciaResponse {
	return &dto.EvidenciaResponse{
		ID:                e.ID,
		PresupuestoItemID: e.PresupuestoItemID,
		Tipo:              e.Tipo,
		ArchivoPath:       e.ArchivoPath,
		ArchivoNombre:     e.ArchivoNombre,
		Mime:              e.Mime,
		PesoBytes:         e.PesoBytes,
		Comentario:        e.Comentario,
		Status:            e.Status,
		MotivoRechazo:     e.MotivoRechazo,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

func toResponses(evidencias []*entity.Evidencia) []dto.EvidenciaResponse {
	out := make([]dto.EvidenciaResponse, 0, len(evidencias))
	for _, e := range evidencias {
		out = append(out, *toResponse(e))
	}
	return out
}
