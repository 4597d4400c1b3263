package entity

import "time"

// Acciones registradas en la bitácora.
const (
	AccionCreacionActividad   = "Creación de Actividad"
	AccionCreacionPresupuesto = "Creación de Presupuesto Inicial"
	AccionCambioEstado        = "Cambio de Estado"
	AccionActualizacion       = "Actualización de Actividad"
	AccionActualizacionPpto   = "Actualización de Presupuesto"
	AccionValidacionEvidencia = "Validación de Evidencia"
	AccionFinalizacionAuto    = "Finalización Automática"
)

// Bitacora es el registro inmutable (append-only) de cada acción que
// cambia estado sobre una actividad. Nunca se actualiza ni se borra.
type Bitacora struct {
	ID          string
	ActividadID string
	UserID      string
	Accion      string
	DesdeEstado string
	HaciaEstado string
	Motivo      string
	IPAddress   string
	CreatedAt   time.Time
}
