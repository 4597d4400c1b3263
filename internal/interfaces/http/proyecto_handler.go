package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/JohanStiven-dev/evidenciastigo/internal/application/dto"
	"github.com/JohanStiven-dev/evidenciastigo/internal/application/proyecto"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain"
)

// ProyectoHandler maneja los proyectos agrupadores (protegido).
type ProyectoHandler struct {
	uc *proyecto.UseCase
}

// NewProyectoHandler construye el handler.
func NewProyectoHandler(uc *proyecto.UseCase) *ProyectoHandler {
	return &ProyectoHandler{uc: uc}
}

// Create godoc
// @Summary      Crear proyecto (Comercial o Admin)
// @Tags         proyectos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProyectoRequest  true  "Proyecto"
// @Success      201  {object}  dto.ProyectoResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/proyectos [post]
func (h *ProyectoHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateProyectoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "BAD_REQUEST", Message: "body inválido"})
	}
	out, err := h.uc.Crear(c.Context(), req, GetRol(c))
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para crear proyectos"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: "nombre y cliente_id (rol Cliente) son requeridos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar proyectos
// @Tags         proyectos
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {array}  dto.ProyectoResponse
// @Router       /api/proyectos [get]
func (h *ProyectoHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.Listar(c.Context(), c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener proyecto por ID
// @Tags         proyectos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del proyecto"
// @Success      200  {object}  dto.ProyectoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/proyectos/{id} [get]
func (h *ProyectoHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.PorID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "proyecto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
