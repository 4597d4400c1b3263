package entity

import "time"

// Tipos de evidencia.
const (
	EvidenciaFotoRecibo    = "foto_recibo"
	EvidenciaFotoActividad = "foto_actividad"
	EvidenciaOtro          = "otro"
)

// Estados de una evidencia. Solo el rol Cliente (o Admin) la muta vía la
// operación de aprobación; el Productor la crea en pendiente.
const (
	EvidenciaPendiente = "pendiente"
	EvidenciaAprobada  = "aprobado"
	EvidenciaRechazada = "rechazado"
)

// Evidencia es un artefacto de prueba (archivo) adjunto a un
// PresupuestoItem, sujeto a aprobación del cliente.
type Evidencia struct {
	ID                string
	PresupuestoItemID string
	Tipo              string
	ArchivoPath       string
	ArchivoNombre     string
	Mime              string
	PesoBytes         int64
	Comentario        string
	Status            string
	MotivoRechazo     string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
