package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/JohanStiven-dev/evidenciastigo/internal/application/actividad"
	"github.com/JohanStiven-dev/evidenciastigo/internal/application/auth"
	"github.com/JohanStiven-dev/evidenciastigo/internal/application/evidencia"
	"github.com/JohanStiven-dev/evidenciastigo/internal/application/notificacion"
	"github.com/JohanStiven-dev/evidenciastigo/internal/application/presupuesto"
	"github.com/JohanStiven-dev/evidenciastigo/internal/application/proyecto"
	"github.com/JohanStiven-dev/evidenciastigo/internal/infrastructure/mail"
	"github.com/JohanStiven-dev/evidenciastigo/internal/infrastructure/postgres"
	"github.com/JohanStiven-dev/evidenciastigo/internal/infrastructure/storage"
	httpRouter "github.com/JohanStiven-dev/evidenciastigo/internal/interfaces/http"
	"github.com/JohanStiven-dev/evidenciastigo/pkg/config"
	"github.com/JohanStiven-dev/evidenciastigo/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	actividadRepo := postgres.NewActividadRepository(pool)
	presupuestoRepo := postgres.NewPresupuestoRepository(pool)
	evidenciaRepo := postgres.NewEvidenciaRepository(pool)
	bitacoraRepo := postgres.NewBitacoraRepository(pool)
	notificacionRepo := postgres.NewNotificacionRepository(pool)
	proyectoRepo := postgres.NewProyectoRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	store, err := storage.NewLocalStore(cfg.Storage.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("almacén de archivos")
	}

	// Política + despachador de notificaciones. El despachador persiste
	// cada intención antes de encolarla y reintenta con backoff.
	policy := notificacion.NewPolicy(userRepo, cfg.App.BaseURL)
	dispatcher := notificacion.NewDispatcher(notificacionRepo, mail.NewGomailSender(cfg.SMTP), log, notificacion.Config{
		Workers:     cfg.Notif.Workers,
		MaxIntentos: cfg.Notif.MaxIntentos,
		BaseDelay:   cfg.Notif.BaseDelay,
	})
	dispatcher.Start()
	defer dispatcher.Stop()

	actividadUC := actividad.NewUseCase(txRunner, actividadRepo, bitacoraRepo, policy, dispatcher, log)
	presupuestoUC := presupuesto.NewUseCase(txRunner, presupuestoRepo, actividadRepo, log)
	evidenciaUC := evidencia.NewUseCase(txRunner, actividadRepo, evidenciaRepo, presupuestoRepo, store, policy, dispatcher, log)
	notificacionUC := notificacion.NewUseCase(notificacionRepo)
	proyectoUC := proyecto.NewUseCase(proyectoRepo, userRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    25 * 1024 * 1024, // evidencias: fotos de hasta 25 MB
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Evidencias TIGO API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ActividadUC:    actividadUC,
		PresupuestoUC:  presupuestoUC,
		EvidenciaUC:    evidenciaUC,
		NotificacionUC: notificacionUC,
		ProyectoUC:     proyectoUC,
		AuthUC:         authUC,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
