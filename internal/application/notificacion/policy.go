package notificacion

import (
	"fmt"

	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/entity"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/repository"
)

// Policy mapea (evento, actividad, partes involucradas) a la lista de
// notificaciones a emitir. "Notificar a todos los usuarios con rol X"
// resuelve la membresía contra el directorio de usuarios EN el momento de
// la evaluación, nunca cacheada: en este dominio los usuarios del mismo
// rol son visores intercambiables de actividades compartidas.
type Policy struct {
	users   repository.UserRepository
	baseURL string
}

// NewPolicy construye la política sobre el directorio de usuarios.
func NewPolicy(users repository.UserRepository, baseURL string) *Policy {
	return &Policy{users: users, baseURL: baseURL}
}

// contextoBase campos comunes a todas las plantillas de actividad.
func (p *Policy) contextoBase(a *entity.Actividad, evento string) map[string]string {
	return map[string]string{
		"activityId":      a.ID,
		"eventType":       evento,
		"activityCodigos": a.Codigos,
		"activityAgencia": a.Agencia,
		"activityCiudad":  a.Ciudad,
		"activityFecha":   a.Fecha.Format("2006-01-02"),
		"activityLink":    fmt.Sprintf("%s/actividades/%s", p.baseURL, a.ID),
	}
}

// broadcast genera una Spec por cada usuario activo del rol, con el
// contexto personalizado con su nombre.
func (p *Policy) broadcast(rol, asunto, plantilla, evento string, a *entity.Actividad, extra map[string]string) ([]Spec, error) {
	users, err := p.users.ListByRol(rol)
	if err != nil {
		return nil, fmt.Errorf("listar usuarios con rol %s: %w", rol, err)
	}
	specs := make([]Spec, 0, len(users))
	for _, u := range users {
		ctx := p.contextoBase(a, evento)
		for k, v := range extra {
			ctx[k] = v
		}
		ctx["userName"] = u.Nombre
		specs = append(specs, Spec{
			UserID:      u.ID,
			Email:       u.Email,
			ActividadID: a.ID,
			TipoEvento:  evento,
			Canal:       entity.CanalEmail,
			Asunto:      asunto,
			Plantilla:   plantilla,
			Contexto:    ctx,
		})
	}
	return specs, nil
}

// ActividadCreada notifica a todos los Clientes: el Comercial envió la
// actividad a revisión (Borrador → En Revisión).
func (p *Policy) ActividadCreada(a *entity.Actividad) ([]Spec, error) {
	asunto := "Nueva Actividad Creada: " + a.Codigos
	return p.broadcast(entity.RolCliente, asunto, "activityCreated", entity.EventoActividadCreada, a, nil)
}

// ActividadConfirmada notifica a todos los Comerciales y Productores: el
// Cliente aprobó la propuesta (En Revisión → Programada).
func (p *Policy) ActividadConfirmada(a *entity.Actividad) ([]Spec, error) {
	asunto := "Actividad Aprobada: " + a.Codigos
	com, err := p.broadcast(entity.RolComercial, asunto, "activityConfirmed", entity.EventoActividadConfirmada, a, nil)
	if err != nil {
		return nil, err
	}
	prod, err := p.broadcast(entity.RolProductor, asunto, "activityConfirmed", entity.EventoActividadConfirmada, a, nil)
	if err != nil {
		return nil, err
	}
	return append(com, prod...), nil
}

// CorreccionRequerida notifica a todos los Comerciales con el motivo del
// rechazo (En Revisión → Rechazado).
func (p *Policy) CorreccionRequerida(a *entity.Actividad, motivo string) ([]Spec, error) {
	asunto := "Corrección Requerida para Actividad: " + a.Codigos
	return p.broadcast(entity.RolComercial, asunto, "activityCorrectionRequired", entity.EventoActividadCorreccion, a,
		map[string]string{"motivo": motivo})
}

// EvidenciasListas notifica a todos los Comerciales: el Productor terminó
// de cargar evidencias (Cargando Evidencias → Aprobación Final).
func (p *Policy) EvidenciasListas(a *entity.Actividad) ([]Spec, error) {
	asunto := "Evidencias listas para revisión: " + a.Codigos
	return p.broadcast(entity.RolComercial, asunto, "evidenceReadyForReview", entity.EventoEvidenciaLista, a, nil)
}

// ActividadFinalizada notifica a Comerciales, Productores y Clientes
// (aprobación final o finalización automática).
func (p *Policy) ActividadFinalizada(a *entity.Actividad) ([]Spec, error) {
	asunto := "Actividad Finalizada: " + a.Codigos
	var all []Spec
	for _, rol := range []string{entity.RolComercial, entity.RolProductor, entity.RolCliente} {
		specs, err := p.broadcast(rol, asunto, "activityFinalized", entity.EventoActividadFinalizada, a, nil)
		if err != nil {
			return nil, err
		}
		all = append(all, specs...)
	}
	return all, nil
}

// EvidenciaCargada notifica a Comerciales y Clientes que el Productor
// cargó una nueva evidencia sobre un ítem.
func (p *Policy) EvidenciaCargada(a *entity.Actividad, itemNombre, tipo string) ([]Spec, error) {
	asunto := "Nueva Evidencia Cargada: " + a.Codigos
	extra := map[string]string{"itemName": itemNombre, "evidenceType": tipo}
	com, err := p.broadcast(entity.RolComercial, asunto, "evidenceUploaded", entity.EventoEvidenciaCargada, a, extra)
	if err != nil {
		return nil, err
	}
	cli, err := p.broadcast(entity.RolCliente, asunto, "evidenceUploaded", entity.EventoEvidenciaCargada, a, extra)
	if err != nil {
		return nil, err
	}
	return append(com, cli...), nil
}

// EvidenciaRechazada notifica a Productores y Comerciales con el motivo y
// el ítem afectado.
func (p *Policy) EvidenciaRechazada(a *entity.Actividad, itemNombre, motivo string) ([]Spec, error) {
	if itemNombre == "" {
		itemNombre = "Item desconocido"
	}
	asunto := "Evidencia Rechazada: " + a.Codigos
	extra := map[string]string{"itemName": itemNombre, "rejectionReason": motivo}
	prod, err := p.broadcast(entity.RolProductor, asunto, "evidenceRejected", entity.EventoEvidenciaRechazada, a, extra)
	if err != nil {
		return nil, err
	}
	com, err := p.broadcast(entity.RolComercial, asunto, "evidenceRejected", entity.EventoEvidenciaRechazada, a, extra)
	if err != nil {
		return nil, err
	}
	return append(prod, com...), nil
}

// PorEvento despacha al constructor correspondiente del evento de una
// transición nombrada.
func (p *Policy) PorEvento(evento string, a *entity.Actividad, motivo string) ([]Spec, error) {
	switch evento {
	case entity.EventoActividadCreada:
		return p.ActividadCreada(a)
	case entity.EventoActividadConfirmada:
		return p.ActividadConfirmada(a)
	case entity.EventoActividadCorreccion:
		return p.CorreccionRequerida(a, motivo)
	case entity.EventoEvidenciaLista:
		return p.EvidenciasListas(a)
	case entity.EventoActividadFinalizada:
		return p.ActividadFinalizada(a)
	case entity.EventoEvidenciaRechazada:
		return p.EvidenciaRechazada(a, "", motivo)
	}
	return nil, nil
}
