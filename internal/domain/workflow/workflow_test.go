package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/entity"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/workflow"
)

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo de estados
// ──────────────────────────────────────────────────────────────────────────────

// Cada sub-estado debe ser legal solo bajo su status del catálogo.
func TestSubStatusValido_CatalogoCompleto(t *testing.T) {
	legales := map[string][]string{
		workflow.StatusPlanificacion: {workflow.SubStatusBorrador, workflow.SubStatusEnRevision, workflow.SubStatusRechazado},
		workflow.StatusConfirmada:    {workflow.SubStatusProgramada},
		workflow.StatusEnCurso:       {workflow.SubStatusEnEjecucion, workflow.SubStatusCargandoEvidencias, workflow.SubStatusAprobacionFinal},
		workflow.StatusFinalizada:    {workflow.SubStatusCompletado, workflow.SubStatusCancelado},
	}

	todos := []string{
		workflow.SubStatusBorrador, workflow.SubStatusEnRevision, workflow.SubStatusRechazado,
		workflow.SubStatusProgramada, workflow.SubStatusEnEjecucion, workflow.SubStatusCargandoEvidencias,
		workflow.SubStatusAprobacionFinal, workflow.SubStatusCompletado, workflow.SubStatusCancelado,
	}

	for status, subs := range legales {
		permitidos := map[string]bool{}
		for _, s := range subs {
			permitidos[s] = true
		}
		for _, sub := range todos {
			got := workflow.SubStatusValido(status, sub)
			assert.Equal(t, permitidos[sub], got,
				"(%s, %s) legalidad incorrecta", status, sub)
		}
	}
}

func TestSubStatusValido_StatusDesconocido(t *testing.T) {
	assert.False(t, workflow.SubStatusValido("Inventada", workflow.SubStatusBorrador))
	assert.False(t, workflow.StatusValido("Inventada"))
}

func TestSubStatusValido_SubStatusVacio(t *testing.T) {
	// Un sub-estado vacío es legal bajo cualquier status del catálogo.
	assert.True(t, workflow.SubStatusValido(workflow.StatusPlanificacion, ""))
	assert.False(t, workflow.SubStatusValido("Inventada", ""))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tabla de transiciones nombradas
// ──────────────────────────────────────────────────────────────────────────────

func TestMatch_TablaCompleta(t *testing.T) {
	casos := []struct {
		desde, hacia, rol string
		evento            workflow.Evento
		motivo            bool
	}{
		{workflow.SubStatusBorrador, workflow.SubStatusEnRevision, entity.RolComercial, workflow.EventoActividadCreada, false},
		{workflow.SubStatusEnRevision, workflow.SubStatusProgramada, entity.RolCliente, workflow.EventoActividadConfirmada, false},
		{workflow.SubStatusEnRevision, workflow.SubStatusRechazado, entity.RolCliente, workflow.EventoCorreccionRequerida, true},
		{workflow.SubStatusCargandoEvidencias, workflow.SubStatusAprobacionFinal, entity.RolProductor, workflow.EventoEvidenciasListas, false},
		{workflow.SubStatusAprobacionFinal, workflow.SubStatusCompletado, entity.RolCliente, workflow.EventoActividadFinalizada, false},
		{workflow.SubStatusAprobacionFinal, workflow.SubStatusCargandoEvidencias, entity.RolCliente, workflow.EventoEvidenciaRechazada, true},
	}
	for _, c := range casos {
		tr := workflow.Match(c.desde, c.hacia, c.rol)
		assert.NotNil(t, tr, "transición (%s → %s, %s) debe existir", c.desde, c.hacia, c.rol)
		if tr != nil {
			assert.Equal(t, c.evento, tr.Evento)
			assert.Equal(t, c.motivo, tr.RequiereMotivo)
		}
	}
}

// Un triple fuera de la tabla no dispara notificación: Match devuelve nil.
func TestMatch_TransicionNoNombrada(t *testing.T) {
	// Rol equivocado para una transición existente.
	assert.Nil(t, workflow.Match(workflow.SubStatusBorrador, workflow.SubStatusEnRevision, entity.RolProductor))
	// Par de sub-estados que no figura.
	assert.Nil(t, workflow.Match(workflow.SubStatusProgramada, workflow.SubStatusEnEjecucion, entity.RolProductor))
	// Cancelación: se persiste pero nunca notifica.
	assert.Nil(t, workflow.Match(workflow.SubStatusEnEjecucion, workflow.SubStatusCancelado, entity.RolComercial))
}

func TestRequiereMotivo(t *testing.T) {
	assert.True(t, workflow.RequiereMotivo(workflow.SubStatusEnRevision, workflow.SubStatusRechazado, entity.RolCliente))
	assert.True(t, workflow.RequiereMotivo(workflow.SubStatusAprobacionFinal, workflow.SubStatusCargandoEvidencias, entity.RolCliente))
	assert.False(t, workflow.RequiereMotivo(workflow.SubStatusBorrador, workflow.SubStatusEnRevision, entity.RolComercial))
	assert.False(t, workflow.RequiereMotivo("x", "y", "z"))
}
