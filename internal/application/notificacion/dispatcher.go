package notificacion

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/entity"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/repository"
	"github.com/JohanStiven-dev/evidenciastigo/pkg/logger"
)

// Config del despachador.
type Config struct {
	Workers     int           // slots concurrentes (default 5)
	MaxIntentos int           // intentos totales por notificación (default 3)
	BaseDelay   time.Duration // backoff exponencial: base, se duplica (default 1s)
	BufferSize  int           // tamaño del canal de trabajos
}

// Dispatcher es la cola durable de trabajo: persiste cada notificación en
// estado pendiente y la entrega en workers asíncronos con reintentos
// acotados. El caller nunca bloquea en la entrega ni recibe errores del
// transporte; el resultado queda en la fila (estado, error_msg,
// retry_count). Las filas fallidas se conservan para inspección.
type Dispatcher struct {
	repo repository.NotificacionRepository
	mail MailSender
	log  *logger.Logger
	cfg  Config

	jobs chan job
	quit chan struct{}
	wg   sync.WaitGroup
}

type job struct {
	notificacionID string
	spec           Spec
}

// NewDispatcher construye el despachador con los defaults del dominio:
// 5 workers, 3 intentos, backoff base 1s.
func NewDispatcher(repo repository.NotificacionRepository, mail MailSender, log *logger.Logger, cfg Config) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 5
	}
	if cfg.MaxIntentos <= 0 {
		cfg.MaxIntentos = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 256
	}
	return &Dispatcher{
		repo: repo,
		mail: mail,
		log:  log,
		cfg:  cfg,
		jobs: make(chan job, cfg.BufferSize),
		quit: make(chan struct{}),
	}
}

// Start arranca los workers.
func (d *Dispatcher) Start() {
	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	d.log.Info().Int("workers", d.cfg.Workers).Msg("despachador de notificaciones iniciado")
}

// Stop detiene los workers y espera a que terminen el trabajo en curso.
// Los trabajos aún encolados quedan como filas pendientes en la DB.
func (d *Dispatcher) Stop() {
	close(d.quit)
	d.wg.Wait()
}

// Encolar persiste la Notificacion en estado pendiente y entrega el
// trabajo al pool. No bloquea más allá del insert: si el buffer está
// lleno, la entrega se hace en una goroutine aparte.
func (d *Dispatcher) Encolar(spec Spec) error {
	actividadID := spec.ActividadID
	n := &entity.Notificacion{
		ID:         uuid.New().String(),
		UserID:     spec.UserID,
		TipoEvento: spec.TipoEvento,
		Canal:      spec.Canal,
		Payload: entity.PayloadNotificacion{
			Asunto:    spec.Asunto,
			Plantilla: spec.Plantilla,
			Contexto:  spec.Contexto,
		},
		Estado:    entity.NotificacionPendiente,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if actividadID != "" {
		n.ActividadID = &actividadID
	}
	if err := d.repo.Create(n); err != nil {
		return err
	}

	j := job{notificacionID: n.ID, spec: spec}
	select {
	case d.jobs <- j:
	default:
		go func() {
			select {
			case d.jobs <- j:
			case <-d.quit:
			}
		}()
	}
	return nil
}

// EncolarTodas encola un lote de specs; los errores de persistencia se
// registran y no interrumpen el resto del lote.
func (d *Dispatcher) EncolarTodas(specs []Spec) {
	for _, s := range specs {
		if err := d.Encolar(s); err != nil {
			d.log.Error().Err(err).
				Str("user_id", s.UserID).
				Str("tipo_evento", s.TipoEvento).
				Msg("encolar notificación")
		}
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case <-d.quit:
			return
		case j := <-d.jobs:
			d.procesar(j)
		}
	}
}

// procesar intenta la entrega con backoff exponencial hasta agotar el
// presupuesto de intentos. El fallo de cada intento queda aislado al
// trabajo: un worker nunca tumba el proceso.
func (d *Dispatcher) procesar(j job) {
	delay := d.cfg.BaseDelay
	var lastErr error
	for intento := 1; intento <= d.cfg.MaxIntentos; intento++ {
		lastErr = d.mail.Send(j.spec.Email, j.spec.Asunto, j.spec.Plantilla, j.spec.Contexto)
		if lastErr == nil {
			if err := d.repo.MarkEnviada(j.notificacionID, time.Now(), intento-1); err != nil {
				d.log.Error().Err(err).Str("notificacion_id", j.notificacionID).Msg("marcar notificación enviada")
			}
			return
		}
		d.log.Warn().Err(lastErr).
			Str("notificacion_id", j.notificacionID).
			Int("intento", intento).
			Msg("intento de envío fallido")
		if intento == d.cfg.MaxIntentos {
			break
		}
		select {
		case <-time.After(delay):
		case <-d.quit:
			// Apagado en medio del backoff: la fila queda en su estado
			// actual y será visible como pendiente.
			return
		}
		delay *= 2
	}
	// Presupuesto agotado: la fila se marca fallida y se conserva.
	if err := d.repo.MarkFallida(j.notificacionID, lastErr.Error(), d.cfg.MaxIntentos-1); err != nil {
		d.log.Error().Err(err).Str("notificacion_id", j.notificacionID).Msg("marcar notificación fallida")
	}
}
