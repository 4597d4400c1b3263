package entity

import "time"

// Canales de entrega.
const (
	CanalEmail = "email"
	CanalApp   = "app"
	CanalSMS   = "sms"
)

// Estados de entrega de una notificación.
const (
	NotificacionPendiente = "pendiente"
	NotificacionEnviada   = "enviado"
	NotificacionFallida   = "fallido"
	NotificacionLeida     = "leida"
)

// Tipos de evento notificables.
const (
	EventoActividadCreada     = "actividad_creada"
	EventoActividadConfirmada = "actividad_confirmada"
	EventoActividadCorreccion = "actividad_correccion"
	EventoEvidenciaLista      = "evidencia_lista_revision"
	EventoActividadFinalizada = "actividad_finalizada"
	EventoEvidenciaCargada    = "evidencia_subida"
	EventoEvidenciaRechazada  = "evidencia_rechazada"
)

// PayloadNotificacion es el contenido a renderizar: asunto, plantilla y
// contexto tipado por evento (nada de blobs dinámicos).
type PayloadNotificacion struct {
	Asunto    string            `json:"asunto"`
	Plantilla string            `json:"plantilla"`
	Contexto  map[string]string `json:"contexto"`
}

// Notificacion es un mensaje saliente con ciclo de vida de entrega
// propio. La crea la política de notificaciones; la muta el despachador
// según el resultado del envío, y el destinatario al marcarla leída.
type Notificacion struct {
	ID          string
	UserID      string
	ActividadID *string
	TipoEvento  string
	Canal       string
	Payload     PayloadNotificacion
	Estado      string
	EnviadoAt   *time.Time
	ErrorMsg    string
	RetryCount  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
