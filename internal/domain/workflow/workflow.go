// Package workflow define el catálogo de estados del ciclo de vida de una
// actividad y la tabla de transiciones nombradas que gobierna el fan-out
// de notificaciones.
package workflow

import "github.com/JohanStiven-dev/evidenciastigo/internal/domain/entity"

// Estados (fase gruesa) de una actividad.
const (
	StatusPlanificacion = "Planificación"
	StatusConfirmada    = "Confirmada"
	StatusEnCurso       = "En Curso"
	StatusFinalizada    = "Finalizada"
)

// Sub-estados (fase fina), cada uno válido solo bajo estados concretos.
const (
	SubStatusBorrador           = "Borrador"
	SubStatusEnRevision         = "En Revisión"
	SubStatusRechazado          = "Rechazado"
	SubStatusProgramada         = "Programada"
	SubStatusEnEjecucion        = "En Ejecución"
	SubStatusCargandoEvidencias = "Cargando Evidencias"
	SubStatusAprobacionFinal    = "Aprobación Final"
	SubStatusCompletado         = "Completado"
	SubStatusCancelado          = "Cancelado" // terminal
)

// subStatusPorStatus define qué sub-estados son legales bajo cada estado.
var subStatusPorStatus = map[string][]string{
	StatusPlanificacion: {SubStatusBorrador, SubStatusEnRevision, SubStatusRechazado},
	StatusConfirmada:    {SubStatusProgramada},
	StatusEnCurso:       {SubStatusEnEjecucion, SubStatusCargandoEvidencias, SubStatusAprobacionFinal},
	StatusFinalizada:    {SubStatusCompletado, SubStatusCancelado},
}

// StatusValido indica si el status existe en el catálogo.
func StatusValido(status string) bool {
	_, ok := subStatusPorStatus[status]
	return ok
}

// SubStatusValido indica si el par (status, subStatus) es legal según el
// catálogo. Un sub-estado vacío es legal bajo cualquier status.
func SubStatusValido(status, subStatus string) bool {
	if subStatus == "" {
		return StatusValido(status)
	}
	for _, s := range subStatusPorStatus[status] {
		if s == subStatus {
			return true
		}
	}
	return false
}

// Evento es el nombre de la notificación que dispara una transición
// nombrada.
type Evento string

// Eventos de las transiciones nombradas.
const (
	EventoActividadCreada     Evento = entity.EventoActividadCreada
	EventoActividadConfirmada Evento = entity.EventoActividadConfirmada
	EventoCorreccionRequerida Evento = entity.EventoActividadCorreccion
	EventoEvidenciasListas    Evento = entity.EventoEvidenciaLista
	EventoActividadFinalizada Evento = entity.EventoActividadFinalizada
	EventoEvidenciaRechazada  Evento = entity.EventoEvidenciaRechazada
)

// Transicion es una entrada de la tabla de transiciones nombradas: el
// triple (desde, hacia, rol) y el evento de notificación que dispara.
// RequiereMotivo marca las transiciones de rechazo cuya razón es
// obligatoria al momento de aplicar el cambio.
type Transicion struct {
	Desde          string
	Hacia          string
	Rol            string
	Evento         Evento
	RequiereMotivo bool
}

// tabla de transiciones nombradas. Las transiciones que no figuran aquí
// igual se persisten: la tabla gobierna únicamente la semántica de
// notificación, no es una compuerta de estado.
var tabla = []Transicion{
	{Desde: SubStatusBorrador, Hacia: SubStatusEnRevision, Rol: entity.RolComercial, Evento: EventoActividadCreada},
	{Desde: SubStatusEnRevision, Hacia: SubStatusProgramada, Rol: entity.RolCliente, Evento: EventoActividadConfirmada},
	{Desde: SubStatusEnRevision, Hacia: SubStatusRechazado, Rol: entity.RolCliente, Evento: EventoCorreccionRequerida, RequiereMotivo: true},
	{Desde: SubStatusCargandoEvidencias, Hacia: SubStatusAprobacionFinal, Rol: entity.RolProductor, Evento: EventoEvidenciasListas},
	{Desde: SubStatusAprobacionFinal, Hacia: SubStatusCompletado, Rol: entity.RolCliente, Evento: EventoActividadFinalizada},
	{Desde: SubStatusAprobacionFinal, Hacia: SubStatusCargandoEvidencias, Rol: entity.RolCliente, Evento: EventoEvidenciaRechazada, RequiereMotivo: true},
}

// Match busca la transición nombrada para (desde, hacia, rol). Devuelve
// nil si el triple no está en la tabla: el caller persiste el cambio de
// estado igualmente pero no emite notificación.
func Match(desde, hacia, rol string) *Transicion {
	for i := range tabla {
		t := &tabla[i]
		if t.Desde == desde && t.Hacia == hacia && t.Rol == rol {
			return t
		}
	}
	return nil
}

// RequiereMotivo indica si el triple corresponde a una transición de
// rechazo cuya razón es obligatoria.
func RequiereMotivo(desde, hacia, rol string) bool {
	t := Match(desde, hacia, rol)
	return t != nil && t.RequiereMotivo
}
