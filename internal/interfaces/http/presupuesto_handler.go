package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/JohanStiven-dev/evidenciastigo/internal/application/dto"
	"github.com/JohanStiven-dev/evidenciastigo/internal/application/presupuesto"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain"
)

// PresupuestoHandler maneja el presupuesto de una actividad y sus ítems
// (protegido).
type PresupuestoHandler struct {
	uc *presupuesto.UseCase
}

// NewPresupuestoHandler construye el handler.
func NewPresupuestoHandler(uc *presupuesto.UseCase) *PresupuestoHandler {
	return &PresupuestoHandler{uc: uc}
}

// GetByActividad godoc
// @Summary      Presupuesto de una actividad con sus ítems
// @Tags         presupuestos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la actividad"
// @Success      200  {object}  dto.PresupuestoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/actividades/{id}/presupuesto [get]
func (h *PresupuestoHandler) GetByActividad(c *fiber.Ctx) error {
	out, etag, err := h.uc.PorActividad(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "presupuesto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set("ETag", etag)
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear presupuesto para una actividad sin él
// @Tags         presupuestos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePresupuestoRequest  true  "actividad_id, total_cop"
// @Success      201   {object}  dto.PresupuestoResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/presupuestos [post]
func (h *PresupuestoHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePresupuestoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Crear(c.Context(), in, GetUserID(c), GetRol(c), c.IP())
	if err != nil {
		return h.mapError(c, err, "la actividad ya tiene presupuesto")
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar cabecera del presupuesto
// @Tags         presupuestos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id        path    string  true   "ID del presupuesto"
// @Param        If-Match  header  string  false  "Token de concurrencia optimista"
// @Param        body      body    dto.UpdatePresupuestoRequest  true  "Campos a actualizar"
// @Success      200  {object}  dto.PresupuestoResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/presupuestos/{id} [put]
func (h *PresupuestoHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePresupuestoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, etag, err := h.uc.Actualizar(c.Context(), c.Params("id"), in, c.Get("If-Match"), GetUserID(c), GetRol(c), c.IP())
	if err != nil {
		return h.mapError(c, err, "el presupuesto cambió desde tu última lectura")
	}
	c.Set("ETag", etag)
	return c.JSON(out)
}

// AddItem godoc
// @Summary      Agregar ítem al presupuesto
// @Tags         presupuestos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del presupuesto"
// @Param        body  body  dto.CreatePresupuestoItemRequest  true  "Datos del ítem"
// @Success      201   {object}  dto.PresupuestoItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/presupuestos/{id}/items [post]
func (h *PresupuestoHandler) AddItem(c *fiber.Ctx) error {
	var in dto.CreatePresupuestoItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.AgregarItem(c.Context(), c.Params("id"), in, GetUserID(c), GetRol(c), c.IP())
	if err != nil {
		return h.mapError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateItem godoc
// @Summary      Actualizar ítem del presupuesto
// @Tags         presupuestos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        itemId  path  string  true  "ID del ítem"
// @Param        body    body  dto.UpdatePresupuestoItemRequest  true  "Campos a actualizar"
// @Success      200     {object}  dto.PresupuestoItemResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/presupuesto-items/{itemId} [put]
func (h *PresupuestoHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.UpdatePresupuestoItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.ActualizarItem(c.Context(), c.Params("itemId"), in, GetUserID(c), GetRol(c), c.IP())
	if err != nil {
		return h.mapError(c, err, "")
	}
	return c.JSON(out)
}

// DeleteItem godoc
// @Summary      Eliminar ítem del presupuesto
// @Tags         presupuestos
// @Security     Bearer
// @Param        itemId  path  string  true  "ID del ítem"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/presupuesto-items/{itemId} [delete]
func (h *PresupuestoHandler) DeleteItem(c *fiber.Ctx) error {
	if err := h.uc.EliminarItem(c.Context(), c.Params("itemId"), GetUserID(c), GetRol(c), c.IP()); err != nil {
		return h.mapError(c, err, "")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// mapError traduce los errores de dominio del presupuesto a HTTP. El
// guardián de consistencia responde 400 con código propio.
func (h *PresupuestoHandler) mapError(c *fiber.Ctx, err error, conflictMsg string) error {
	switch {
	case errors.Is(err, domain.ErrPresupuestoExcedido):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "PRESUPUESTO_EXCEDIDO", Message: "la suma de subtotales excede el valor total de la actividad"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "campos inválidos"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso sobre el presupuesto"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrConflict):
		if conflictMsg == "" {
			conflictMsg = "conflicto de concurrencia"
		}
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: conflictMsg})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
