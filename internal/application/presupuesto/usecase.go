package presupuesto

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JohanStiven-dev/evidenciastigo/internal/application/dto"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/entity"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/repository"
	"github.com/JohanStiven-dev/evidenciastigo/pkg/logger"
)

// UseCase implementa la gestión del presupuesto de una actividad y el
// guardián de consistencia: la suma de subtotales nunca excede el valor
// total de la actividad dueña.
type UseCase struct {
	tx       TxRunner
	pptoRepo repository.PresupuestoRepository
	actRepo  repository.ActividadRepository
	log      *logger.Logger
}

func NewUseCase(tx TxRunner, pptoRepo repository.PresupuestoRepository, actRepo repository.ActividadRepository, log *logger.Logger) *UseCase {
	return &UseCase{tx: tx, pptoRepo: pptoRepo, actRepo: actRepo, log: log}
}

// ETag devuelve el token de concurrencia optimista de la cabecera.
func ETag(updatedAt time.Time) string {
	return "\"" + strconv.FormatInt(updatedAt.UnixMilli(), 10) + "\""
}

func puedeMutar(rol string) bool {
	return rol == entity.RolComercial || rol == entity.RolProductor || rol == entity.RolAdmin
}

// PorActividad devuelve el presupuesto de la actividad con sus ítems.
func (uc *UseCase) PorActividad(ctx context.Context, actividadID string) (*dto.PresupuestoResponse, string, error) {
	p, err := uc.pptoRepo.GetByActividadID(actividadID)
	if err != nil {
		return nil, "", err
	}
	if p == nil {
		return nil, "", domain.ErrNotFound
	}
	items, err := uc.pptoRepo.ListItems(p.ID)
	if err != nil {
		return nil, "", err
	}
	return toResponse(p, items), ETag(p.UpdatedAt), nil
}

// Crear da de alta un presupuesto para una actividad que no lo tiene.
// Si la actividad ya tiene presupuesto la operación es un conflicto.
func (uc *UseCase) Crear(ctx context.Context, in dto.CreatePresupuestoRequest, actorID, actorRol, ip string) (*dto.PresupuestoResponse, error) {
	if !puedeMutar(actorRol) {
		return nil, domain.ErrForbidden
	}
	if in.ActividadID == "" || in.TotalCOP.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	var creado *entity.Presupuesto
	err := uc.tx.Run(ctx, func(
		actRepo repository.ActividadRepository,
		pptoRepo repository.PresupuestoRepository,
		_ repository.EvidenciaRepository,
		bitRepo repository.BitacoraRepository,
	) error {
		a, err := actRepo.GetByID(in.ActividadID)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.ErrNotFound
		}
		existente, err := pptoRepo.GetByActividadID(in.ActividadID)
		if err != nil {
			return err
		}
		if existente != nil {
			return domain.ErrConflict
		}

		now := time.Now()
		creado = &entity.Presupuesto{
			ID:                uuid.New().String(),
			ActividadID:       in.ActividadID,
			TotalCOP:          in.TotalCOP,
			EstadoPresupuesto: entity.PresupuestoPendiente,
			ComentarioGlobal:  in.ComentarioGlobal,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := pptoRepo.Create(creado); err != nil {
			return err
		}
		return bitRepo.Create(&entity.Bitacora{
			ID:          uuid.New().String(),
			ActividadID: in.ActividadID,
			UserID:      actorID,
			Accion:      entity.AccionCreacionPresupuesto,
			Motivo:      "Presupuesto creado manualmente.",
			IPAddress:   ip,
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}
	return toResponse(creado, nil), nil
}

// Actualizar escribe la cabecera del presupuesto con control de
// concurrencia optimista sobre If-Match.
func (uc *UseCase) Actualizar(ctx context.Context, id string, in dto.UpdatePresupuestoRequest, ifMatch, actorID, actorRol, ip string) (*dto.PresupuestoResponse, string, error) {
	if !puedeMutar(actorRol) {
		return nil, "", domain.ErrForbidden
	}

	var updated *entity.Presupuesto
	err := uc.tx.Run(ctx, func(
		_ repository.ActividadRepository,
		pptoRepo repository.PresupuestoRepository,
		_ repository.EvidenciaRepository,
		bitRepo repository.BitacoraRepository,
	) error {
		p, err := pptoRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if ifMatch != "" && ifMatch != ETag(p.UpdatedAt) {
			return domain.ErrConflict
		}

		if in.TotalCOP != nil {
			if in.TotalCOP.IsNegative() {
				return domain.ErrInvalidInput
			}
			p.TotalCOP = *in.TotalCOP
		}
		if in.EstadoPresupuesto != nil {
			if *in.EstadoPresupuesto != entity.PresupuestoPendiente && *in.EstadoPresupuesto != entity.PresupuestoAprobado {
				return domain.ErrInvalidInput
			}
			p.EstadoPresupuesto = *in.EstadoPresupuesto
		}
		if in.ComentarioGlobal != nil {
			p.ComentarioGlobal = *in.ComentarioGlobal
		}
		p.UpdatedAt = time.Now()
		if err := pptoRepo.Update(p); err != nil {
			return fmt.Errorf("actualizar presupuesto: %w", err)
		}
		updated = p

		return bitRepo.Create(&entity.Bitacora{
			ID:          uuid.New().String(),
			ActividadID: p.ActividadID,
			UserID:      actorID,
			Accion:      entity.AccionActualizacionPpto,
			Motivo:      "Cabecera de presupuesto actualizada.",
			IPAddress:   ip,
			CreatedAt:   time.Now(),
		})
	})
	if err != nil {
		return nil, "", err
	}
	items, err := uc.pptoRepo.ListItems(updated.ID)
	if err != nil {
		return nil, "", err
	}
	return toResponse(updated, items), ETag(updated.UpdatedAt), nil
}

// AgregarItem crea un ítem validando el guardián de consistencia: bajo
// el bloqueo de la fila del presupuesto, la suma de subtotales más el
// propuesto no puede exceder estrictamente el valor total de la
// actividad. Ante rechazo no se persiste nada.
func (uc *UseCase) AgregarItem(ctx context.Context, presupuestoID string, in dto.CreatePresupuestoItemRequest, actorID, actorRol, ip string) (*dto.PresupuestoItemResponse, error) {
	if !puedeMutar(actorRol) {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(in.Item) == "" || in.Cantidad <= 0 || in.CostoUnitarioCOP.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	subtotal := in.SubtotalCOP
	if subtotal.IsZero() {
		subtotal = in.CostoUnitarioCOP.Mul(decimal.NewFromInt(int64(in.Cantidad)))
	}
	if subtotal.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	var creado *entity.PresupuestoItem
	err := uc.tx.Run(ctx, func(
		actRepo repository.ActividadRepository,
		pptoRepo repository.PresupuestoRepository,
		_ repository.EvidenciaRepository,
		bitRepo repository.BitacoraRepository,
	) error {
		p, err := pptoRepo.GetForUpdate(presupuestoID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		a, err := actRepo.GetByID(p.ActividadID)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.ErrNotFound
		}

		acumulado, err := sumaSubtotales(pptoRepo, p.ID, "")
		if err != nil {
			return err
		}
		if acumulado.Add(subtotal).GreaterThan(a.ValorTotal) {
			return domain.ErrPresupuestoExcedido
		}

		now := time.Now()
		creado = &entity.PresupuestoItem{
			ID:               uuid.New().String(),
			PresupuestoID:    p.ID,
			Item:             in.Item,
			Cantidad:         in.Cantidad,
			CostoUnitarioCOP: in.CostoUnitarioCOP,
			SubtotalCOP:      subtotal,
			ImpuestoCOP:      in.ImpuestoCOP,
			Comentario:       in.Comentario,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := pptoRepo.CreateItem(creado); err != nil {
			return err
		}
		return bitRepo.Create(&entity.Bitacora{
			ID:          uuid.New().String(),
			ActividadID: p.ActividadID,
			UserID:      actorID,
			Accion:      entity.AccionActualizacionPpto,
			Motivo:      fmt.Sprintf("Ítem %q agregado al presupuesto.", in.Item),
			IPAddress:   ip,
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}
	return toItemResponse(creado), nil
}

// ActualizarItem modifica un ítem existente con el mismo guardián; el
// subtotal anterior del ítem se excluye de la suma acumulada.
func (uc *UseCase) ActualizarItem(ctx context.Context, itemID string, in dto.UpdatePresupuestoItemRequest, actorID, actorRol, ip string) (*dto.PresupuestoItemResponse, error) {
	if !puedeMutar(actorRol) {
		return nil, domain.ErrForbidden
	}

	var updated *entity.PresupuestoItem
	err := uc.tx.Run(ctx, func(
		actRepo repository.ActividadRepository,
		pptoRepo repository.PresupuestoRepository,
		_ repository.EvidenciaRepository,
		bitRepo repository.BitacoraRepository,
	) error {
		item, err := pptoRepo.GetItemByID(itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		p, err := pptoRepo.GetForUpdate(item.PresupuestoID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		a, err := actRepo.GetByID(p.ActividadID)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.ErrNotFound
		}

		if in.Item != nil {
			if strings.TrimSpace(*in.Item) == "" {
				return domain.ErrInvalidInput
			}
			item.Item = *in.Item
		}
		if in.Cantidad != nil {
			if *in.Cantidad <= 0 {
				return domain.ErrInvalidInput
			}
			item.Cantidad = *in.Cantidad
		}
		if in.CostoUnitarioCOP != nil {
			if in.CostoUnitarioCOP.IsNegative() {
				return domain.ErrInvalidInput
			}
			item.CostoUnitarioCOP = *in.CostoUnitarioCOP
		}
		if in.SubtotalCOP != nil {
			if in.SubtotalCOP.IsNegative() {
				return domain.ErrInvalidInput
			}
			item.SubtotalCOP = *in.SubtotalCOP
		} else if in.Cantidad != nil || in.CostoUnitarioCOP != nil {
			item.SubtotalCOP = item.CostoUnitarioCOP.Mul(decimal.NewFromInt(int64(item.Cantidad)))
		}
		if in.ImpuestoCOP != nil {
			item.ImpuestoCOP = in.ImpuestoCOP
		}
		if in.Comentario != nil {
			item.Comentario = *in.Comentario
		}

		acumulado, err := sumaSubtotales(pptoRepo, p.ID, item.ID)
		if err != nil {
			return err
		}
		if acumulado.Add(item.SubtotalCOP).GreaterThan(a.ValorTotal) {
			return domain.ErrPresupuestoExcedido
		}

		item.UpdatedAt = time.Now()
		if err := pptoRepo.UpdateItem(item); err != nil {
			return fmt.Errorf("actualizar ítem de presupuesto: %w", err)
		}
		updated = item

		return bitRepo.Create(&entity.Bitacora{
			ID:          uuid.New().String(),
			ActividadID: p.ActividadID,
			UserID:      actorID,
			Accion:      entity.AccionActualizacionPpto,
			Motivo:      fmt.Sprintf("Ítem %q actualizado.", item.Item),
			IPAddress:   ip,
			CreatedAt:   time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}
	return toItemResponse(updated), nil
}

// EliminarItem borra un ítem y sus evidencias asociadas quedan huérfanas
// a nivel de base de datos (ON DELETE CASCADE).
func (uc *UseCase) EliminarItem(ctx context.Context, itemID, actorID, actorRol, ip string) error {
	if !puedeMutar(actorRol) {
		return domain.ErrForbidden
	}
	return uc.tx.Run(ctx, func(
		_ repository.ActividadRepository,
		pptoRepo repository.PresupuestoRepository,
		_ repository.EvidenciaRepository,
		bitRepo repository.BitacoraRepository,
	) error {
		item, err := pptoRepo.GetItemByID(itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		p, err := pptoRepo.GetForUpdate(item.PresupuestoID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if err := pptoRepo.DeleteItem(itemID); err != nil {
			return err
		}
		return bitRepo.Create(&entity.Bitacora{
			ID:          uuid.New().String(),
			ActividadID: p.ActividadID,
			UserID:      actorID,
			Accion:      entity.AccionActualizacionPpto,
			Motivo:      fmt.Sprintf("Ítem %q eliminado del presupuesto.", item.Item),
			IPAddress:   ip,
			CreatedAt:   time.Now(),
		})
	})
}

// sumaSubtotales acumula los subtotales del presupuesto excluyendo, si
// se indica, el ítem que está siendo reemplazado.
func sumaSubtotales(pptoRepo repository.PresupuestoRepository, presupuestoID, excluirItemID string) (decimal.Decimal, error) {
	items, err := pptoRepo.ListItems(presupuestoID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, it := range items {
		if it.ID == excluirItemID {
			continue
		}
		total = total.Add(it.SubtotalCOP)
	}
	return total, nil
}

func toItemResponse(it *entity.PresupuestoItem) *dto.PresupuestoItemResponse {
	return &dto.PresupuestoItemResponse{
		ID:               it.ID,
		PresupuestoID:    it.PresupuestoID,
		Item:             it.Item,
		Cantidad:         it.Cantidad,
		CostoUnitarioCOP: it.CostoUnitarioCOP,
		SubtotalCOP:      it.SubtotalCOP,
		ImpuestoCOP:      it.ImpuestoCOP,
		Comentario:       it.Comentario,
		CreatedAt:        it.CreatedAt,
		UpdatedAt:        it.UpdatedAt,
	}
}

func toResponse(p *entity.Presupuesto, items []*entity.PresupuestoItem) *dto.PresupuestoResponse {
	out := &dto.PresupuestoResponse{
		ID:                p.ID,
		ActividadID:       p.ActividadID,
		TotalCOP:          p.TotalCOP,
		EstadoPresupuesto: p.EstadoPresupuesto,
		ComentarioGlobal:  p.ComentarioGlobal,
		OrdenCompraPath:   p.OrdenCompraPath,
		Items:             make([]dto.PresupuestoItemResponse, 0, len(items)),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	for _, it := range items {
		out.Items = append(out.Items, *toItemResponse(it))
	}
	return out
}
