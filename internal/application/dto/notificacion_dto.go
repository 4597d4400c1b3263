package dto

import "time"

// NotificacionResponse representación de salida de una notificación.
type NotificacionResponse struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	ActividadID *string           `json:"actividad_id,omitempty"`
	TipoEvento  string            `json:"tipo_evento"`
	Canal       string            `json:"canal"`
	Asunto      string            `json:"asunto"`
	Plantilla   string            `json:"plantilla"`
	Contexto    map[string]string `json:"contexto,omitempty"`
	Estado      string            `json:"estado"`
	EnviadoAt   *time.Time        `json:"enviado_at,omitempty"`
	ErrorMsg    string            `json:"error_msg,omitempty"`
	RetryCount  int               `json:"retry_count"`
	CreatedAt   time.Time         `json:"created_at"`
}
