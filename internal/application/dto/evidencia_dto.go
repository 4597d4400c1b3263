package dto

import "time"

// CambioStatusEvidenciaRequest decisión del cliente sobre una evidencia.
type CambioStatusEvidenciaRequest struct {
	Status        string `json:"status"` // aprobado | rechazado
	MotivoRechazo string `json:"motivoRechazo"`
}

// EvidenciaResponse representación de salida de una evidencia.
type EvidenciaResponse struct {
	ID                string    `json:"id"`
	PresupuestoItemID string    `json:"presupuesto_item_id"`
	Tipo              string    `json:"tipo"`
	ArchivoPath       string    `json:"archivo_path"`
	ArchivoNombre     string    `json:"archivo_nombre"`
	Mime              string    `json:"mime,omitempty"`
	PesoBytes         int64     `json:"peso_bytes,omitempty"`
	Comentario        string    `json:"comentario,omitempty"`
	Status            string    `json:"status"`
	MotivoRechazo     string    `json:"motivo_rechazo,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
