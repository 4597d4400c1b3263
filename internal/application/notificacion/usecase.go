package notificacion

import (
	"github.com/JohanStiven-dev/evidenciastigo/internal/application/dto"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/entity"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/repository"
)

// UseCase consultas y mutaciones del buzón de notificaciones.
type UseCase struct {
	repo repository.NotificacionRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.NotificacionRepository) *UseCase {
	return &UseCase{repo: repo}
}

// ListarPorUsuario devuelve las notificaciones del usuario autenticado.
func (uc *UseCase) ListarPorUsuario(userID string, limit, offset int) ([]dto.NotificacionResponse, error) {
	items, err := uc.repo.ListByUser(userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return toResponses(items), nil
}

// ListarFallidas vista de monitoreo: filas en estado fallido, retenidas
// con su error_msg. Solo Admin.
func (uc *UseCase) ListarFallidas(limit, offset int) ([]dto.NotificacionResponse, error) {
	items, err := uc.repo.ListByEstado(entity.NotificacionFallida, limit, offset)
	if err != nil {
		return nil, err
	}
	return toResponses(items), nil
}

// MarcarLeida la marca el destinatario; Forbidden si no es suya.
func (uc *UseCase) MarcarLeida(id, userID string) error {
	n, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if n == nil {
		return domain.ErrNotFound
	}
	if n.UserID != userID {
		return domain.ErrForbidden
	}
	return uc.repo.MarkLeida(id)
}

func toResponses(items []*entity.Notificacion) []dto.NotificacionResponse {
	out := make([]dto.NotificacionResponse, 0, len(items))
	for _, n := range items {
		out = append(out, dto.NotificacionResponse{
			ID:          n.ID,
			UserID:      n.UserID,
			ActividadID: n.ActividadID,
			TipoEvento:  n.TipoEvento,
			Canal:       n.Canal,
			Asunto:      n.Payload.Asunto,
			Plantilla:   n.Payload.Plantilla,
			Contexto:    n.Payload.Contexto,
			Estado:      n.Estado,
			EnviadoAt:   n.EnviadoAt,
			ErrorMsg:    n.ErrorMsg,
			RetryCount:  n.RetryCount,
			CreatedAt:   n.CreatedAt,
		})
	}
	return out
}
