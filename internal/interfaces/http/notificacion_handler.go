package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/JohanStiven-dev/evidenciastigo/internal/application/dto"
	"github.com/JohanStiven-dev/evidenciastigo/internal/application/notificacion"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain"
)

// NotificacionHandler maneja el buzón de notificaciones (protegido).
type NotificacionHandler struct {
	uc *notificacion.UseCase
}

// NewNotificacionHandler construye el handler.
func NewNotificacionHandler(uc *notificacion.UseCase) *NotificacionHandler {
	return &NotificacionHandler{uc: uc}
}

// ListMine godoc
// @Summary      Notificaciones del usuario autenticado
// @Tags         notificaciones
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {array}  dto.NotificacionResponse
// @Router       /api/notificaciones [get]
func (h *NotificacionHandler) ListMine(c *fiber.Ctx) error {
	out, err := h.uc.ListarPorUsuario(GetUserID(c), c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ListFallidas godoc
// @Summary      Notificaciones fallidas (monitoreo, solo Admin)
// @Tags         notificaciones
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {array}  dto.NotificacionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/notificaciones/fallidas [get]
func (h *NotificacionHandler) ListFallidas(c *fiber.Ctx) error {
	out, err := h.uc.ListarFallidas(c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// MarkLeida godoc
// @Summary      Marcar notificación como leída
// @Tags         notificaciones
// @Security     Bearer
// @Param        id  path  string  true  "ID de la notificación"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notificaciones/{id}/leida [post]
func (h *NotificacionHandler) MarkLeida(c *fiber.Ctx) error {
	if err := h.uc.MarcarLeida(c.Params("id"), GetUserID(c)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "notificación no encontrada"})
		}
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "la notificación no es tuya"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
