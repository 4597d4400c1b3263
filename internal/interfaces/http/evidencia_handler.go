package http

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/JohanStiven-dev/evidenciastigo/internal/application/dto"
	"github.com/JohanStiven-dev/evidenciastigo/internal/application/evidencia"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain"
)

// EvidenciaHandler maneja carga, validación y descarga de evidencias
// (protegido).
type EvidenciaHandler struct {
	uc *evidencia.UseCase
}

// NewEvidenciaHandler construye el handler.
func NewEvidenciaHandler(uc *evidencia.UseCase) *EvidenciaHandler {
	return &EvidenciaHandler{uc: uc}
}

// Upload godoc
// @Summary      Cargar evidencia (multipart)
// @Tags         evidencias
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        itemId   path      string  true   "ID del ítem de presupuesto"
// @Param        archivo  formData  file    true   "Archivo de evidencia"
// @Param        tipo     formData  string  false  "foto_recibo | foto_actividad | otro"
// @Success      201  {object}  dto.EvidenciaResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/presupuesto-items/{itemId}/evidencias [post]
func (h *EvidenciaHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("archivo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "archivo es requerido"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "no se pudo leer el archivo"})
	}
	defer f.Close()
	contenido, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "no se pudo leer el archivo"})
	}

	out, err := h.uc.Subir(c.Context(), GetRol(c), evidencia.SubirInput{
		PresupuestoItemID: c.Params("itemId"),
		Tipo:              c.FormValue("tipo"),
		ArchivoNombre:     fh.Filename,
		Mime:              fh.Header.Get("Content-Type"),
		Contenido:         contenido,
		Comentario:        c.FormValue("comentario"),
	})
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo el Productor carga evidencias"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ítem de presupuesto no encontrado"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tipo o archivo inválido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CambiarStatus godoc
// @Summary      Aprobar o rechazar una evidencia
// @Tags         evidencias
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la evidencia"
// @Param        body  body  dto.CambioStatusEvidenciaRequest  true  "status, motivoRechazo"
// @Success      200   {object}  dto.EvidenciaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/evidencias/{id}/cambiar-status [post]
func (h *EvidenciaHandler) CambiarStatus(c *fiber.Ctx) error {
	var in dto.CambioStatusEvidenciaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CambiarStatus(c.Context(), c.Params("id"), GetUserID(c), GetRol(c), c.IP(), in)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo el Cliente valida evidencias"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "evidencia no encontrada"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status debe ser aprobado o rechazado; el rechazo requiere motivoRechazo"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar evidencia
// @Tags         evidencias
// @Security     Bearer
// @Param        id  path  string  true  "ID de la evidencia"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/evidencias/{id} [delete]
func (h *EvidenciaHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Eliminar(c.Context(), c.Params("id"), GetRol(c)); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo el Productor elimina evidencias"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "evidencia no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListByItem godoc
// @Summary      Listar evidencias de un ítem
// @Tags         evidencias
// @Security     Bearer
// @Produce      json
// @Param        itemId  path  string  true  "ID del ítem de presupuesto"
// @Success      200  {array}  dto.EvidenciaResponse
// @Router       /api/presupuesto-items/{itemId}/evidencias [get]
func (h *EvidenciaHandler) ListByItem(c *fiber.Ctx) error {
	out, err := h.uc.ListarPorItem(c.Context(), c.Params("itemId"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ListByActividad godoc
// @Summary      Listar todas las evidencias de una actividad
// @Tags         evidencias
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la actividad"
// @Success      200  {array}  dto.EvidenciaResponse
// @Router       /api/actividades/{id}/evidencias [get]
func (h *EvidenciaHandler) ListByActividad(c *fiber.Ctx) error {
	out, err := h.uc.ListarPorActividad(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Download godoc
// @Summary      Descargar el archivo de una evidencia
// @Tags         evidencias
// @Security     Bearer
// @Param        id  path  string  true  "ID de la evidencia"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/evidencias/{id}/archivo [get]
func (h *EvidenciaHandler) Download(c *fiber.Ctx) error {
	contenido, nombre, mime, err := h.uc.Descargar(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "evidencia no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if mime != "" {
		c.Set("Content-Type", mime)
	}
	c.Set("Content-Disposition", `attachment; filename="`+nombre+`"`)
	return c.Send(contenido)
}
