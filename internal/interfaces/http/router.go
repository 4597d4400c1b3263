package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/JohanStiven-dev/evidenciastigo/internal/application/actividad"
	"github.com/JohanStiven-dev/evidenciastigo/internal/application/auth"
	"github.com/JohanStiven-dev/evidenciastigo/internal/application/evidencia"
	"github.com/JohanStiven-dev/evidenciastigo/internal/application/notificacion"
	"github.com/JohanStiven-dev/evidenciastigo/internal/application/presupuesto"
	"github.com/JohanStiven-dev/evidenciastigo/internal/application/proyecto"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ActividadUC    *actividad.UseCase
	PresupuestoUC  *presupuesto.UseCase
	EvidenciaUC    *evidencia.UseCase
	NotificacionUC *notificacion.UseCase
	ProyectoUC     *proyecto.UseCase
	AuthUC         *auth.AuthUseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Actividades (protegido)
	actividades := protected.Group("/actividades")
	actividadHandler := NewActividadHandler(deps.ActividadUC)
	actividades.Post("/", actividadHandler.Create)
	actividades.Get("/", actividadHandler.List)
	actividades.Get("/:id", actividadHandler.GetByID)
	actividades.Put("/:id", actividadHandler.Update)
	actividades.Post("/:id/cambiar-estado", actividadHandler.CambiarEstado)
	actividades.Get("/:id/bitacora", actividadHandler.Bitacora)

	// Presupuestos (protegido)
	presupuestoHandler := NewPresupuestoHandler(deps.PresupuestoUC)
	actividades.Get("/:id/presupuesto", presupuestoHandler.GetByActividad)
	presupuestos := protected.Group("/presupuestos")
	presupuestos.Post("/", presupuestoHandler.Create)
	presupuestos.Put("/:id", presupuestoHandler.Update)
	presupuestos.Post("/:id/items", presupuestoHandler.AddItem)
	items := protected.Group("/presupuesto-items")
	items.Put("/:itemId", presupuestoHandler.UpdateItem)
	items.Delete("/:itemId", presupuestoHandler.DeleteItem)

	// Evidencias (protegido)
	evidenciaHandler := NewEvidenciaHandler(deps.EvidenciaUC)
	items.Post("/:itemId/evidencias", evidenciaHandler.Upload)
	items.Get("/:itemId/evidencias", evidenciaHandler.ListByItem)
	actividades.Get("/:id/evidencias", evidenciaHandler.ListByActividad)
	evidencias := protected.Group("/evidencias")
	evidencias.Post("/:id/cambiar-status", evidenciaHandler.CambiarStatus)
	evidencias.Get("/:id/archivo", evidenciaHandler.Download)
	evidencias.Delete("/:id", evidenciaHandler.Delete)

	// Proyectos (protegido)
	proyectos := protected.Group("/proyectos")
	proyectoHandler := NewProyectoHandler(deps.ProyectoUC)
	proyectos.Post("/", proyectoHandler.Create)
	proyectos.Get("/", proyectoHandler.List)
	proyectos.Get("/:id", proyectoHandler.GetByID)

	// Notificaciones (protegido)
	notificaciones := protected.Group("/notificaciones")
	notificacionHandler := NewNotificacionHandler(deps.NotificacionUC)
	notificaciones.Get("/", notificacionHandler.ListMine)
	notificaciones.Get("/fallidas", RequireRole(entity.RolAdmin), notificacionHandler.ListFallidas)
	notificaciones.Post("/:id/leida", notificacionHandler.MarkLeida)
}
