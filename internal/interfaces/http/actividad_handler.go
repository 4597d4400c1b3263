package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/JohanStiven-dev/evidenciastigo/internal/application/actividad"
	"github.com/JohanStiven-dev/evidenciastigo/internal/application/dto"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/repository"
)

// ActividadHandler maneja las peticiones HTTP del ciclo de vida de
// actividades (protegido).
type ActividadHandler struct {
	uc *actividad.UseCase
}

// NewActividadHandler construye el handler.
func NewActividadHandler(uc *actividad.UseCase) *ActividadHandler {
	return &ActividadHandler{uc: uc}
}

// Create godoc
// @Summary      Crear actividad
// @Tags         actividades
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateActividadRequest  true  "Datos de la actividad"
// @Success      201   {object}  dto.ActividadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/actividades [post]
func (h *ActividadHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateActividadRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Crear(c.Context(), in, GetUserID(c), GetRol(c), c.IP())
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo el rol Comercial crea actividades"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "agencia, codigos y fecha (YYYY-MM-DD) son requeridos; valor_total no negativo"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar actividades
// @Tags         actividades
// @Security     Bearer
// @Produce      json
// @Param        ciudad      query  string  false  "Ciudad"
// @Param        canal       query  string  false  "Canal"
// @Param        semana      query  string  false  "Semana ISO"
// @Param        status      query  string  false  "Status"
// @Param        sub_status  query  string  false  "Sub-status"
// @Param        desde       query  string  false  "Fecha desde (YYYY-MM-DD)"
// @Param        hasta       query  string  false  "Fecha hasta (YYYY-MM-DD)"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ActividadListResponse
// @Router       /api/actividades [get]
func (h *ActividadHandler) List(c *fiber.Ctx) error {
	f := repository.FiltroActividades{
		Ciudad:     c.Query("ciudad"),
		Canal:      c.Query("canal"),
		Semana:     c.Query("semana"),
		Status:     c.Query("status"),
		SubStatus:  c.Query("sub_status"),
		FechaDesde: c.Query("desde"),
		FechaHasta: c.Query("hasta"),
		Limit:      c.QueryInt("limit", 20),
		Offset:     c.QueryInt("offset", 0),
	}
	out, err := h.uc.Listar(c.Context(), f)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener actividad por ID
// @Tags         actividades
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la actividad"
// @Success      200  {object}  dto.ActividadResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/actividades/{id} [get]
func (h *ActividadHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.PorID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "actividad no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set("ETag", actividad.ETag(out.UpdatedAt))
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar campos generales (nunca status/sub_status)
// @Tags         actividades
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id        path    string  true   "ID de la actividad"
// @Param        If-Match  header  string  false  "Token de concurrencia optimista"
// @Param        body      body    dto.UpdateActividadRequest  true  "Campos a actualizar"
// @Success      200  {object}  dto.ActividadResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/actividades/{id} [put]
func (h *ActividadHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateActividadRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, etag, err := h.uc.Actualizar(c.Context(), c.Params("id"), in, c.Get("If-Match"), GetUserID(c), c.IP())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "actividad no encontrada"})
		}
		if errors.Is(err, domain.ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "la actividad cambió desde tu última lectura"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "campos inválidos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set("ETag", etag)
	return c.JSON(out)
}

// CambiarEstado godoc
// @Summary      Transición de estado del ciclo de vida
// @Tags         actividades
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la actividad"
// @Param        body  body  dto.CambioEstadoRequest  true  "newStatus, newSubStatus, motivo"
// @Success      200   {object}  dto.ActividadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/actividades/{id}/cambiar-estado [post]
func (h *ActividadHandler) CambiarEstado(c *fiber.Ctx) error {
	var in dto.CambioEstadoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CambiarEstado(c.Context(), c.Params("id"), GetUserID(c), GetRol(c), c.IP(), in)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "actividad no encontrada"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "estado inválido o motivo requerido para esta transición"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Bitacora godoc
// @Summary      Historia de auditoría de la actividad
// @Tags         actividades
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la actividad"
// @Success      200  {array}  dto.BitacoraResponse
// @Router       /api/actividades/{id}/bitacora [get]
func (h *ActividadHandler) Bitacora(c *fiber.Ctx) error {
	out, err := h.uc.Bitacora(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
