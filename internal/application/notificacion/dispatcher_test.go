package notificacion_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JohanStiven-dev/evidenciastigo/internal/application/notificacion"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/entity"
	"github.com/JohanStiven-dev/evidenciastigo/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

// memNotificacionRepo guarda las filas en memoria, seguro para workers.
type memNotificacionRepo struct {
	mu    sync.Mutex
	filas map[string]*entity.Notificacion
}

func newMemNotificacionRepo() *memNotificacionRepo {
	return &memNotificacionRepo{filas: map[string]*entity.Notificacion{}}
}

func (r *memNotificacionRepo) Create(n *entity.Notificacion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *n
	r.filas[n.ID] = &cp
	return nil
}

func (r *memNotificacionRepo) GetByID(id string) (*entity.Notificacion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.filas[id]
	if !ok {
		return nil, nil
	}
	cp := *n
	return &cp, nil
}

func (r *memNotificacionRepo) MarkEnviada(id string, enviadoAt time.Time, retryCount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.filas[id]
	n.Estado = entity.NotificacionEnviada
	n.EnviadoAt = &enviadoAt
	n.RetryCount = retryCount
	n.ErrorMsg = ""
	return nil
}

func (r *memNotificacionRepo) MarkFallida(id, errorMsg string, retryCount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.filas[id]
	n.Estado = entity.NotificacionFallida
	n.ErrorMsg = errorMsg
	n.RetryCount = retryCount
	return nil
}

func (r *memNotificacionRepo) MarkLeida(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filas[id].Estado = entity.NotificacionLeida
	return nil
}

func (r *memNotificacionRepo) ListByUser(userID string, limit, offset int) ([]*entity.Notificacion, error) {
	return nil, nil
}

func (r *memNotificacionRepo) ListByEstado(estado string, limit, offset int) ([]*entity.Notificacion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Notificacion
	for _, n := range r.filas {
		if n.Estado == estado {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

// unica devuelve la única fila del repo.
func (r *memNotificacionRepo) unica(t *testing.T) *entity.Notificacion {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.Len(t, r.filas, 1)
	for _, n := range r.filas {
		cp := *n
		return &cp
	}
	return nil
}

// fakeMail falla los primeros `fallos` envíos y luego entrega.
type fakeMail struct {
	mu       sync.Mutex
	fallos   int
	enviados int
}

func (f *fakeMail) Send(to, asunto, plantilla string, contexto map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fallos > 0 {
		f.fallos--
		return errors.New("smtp: connection refused")
	}
	f.enviados++
	return nil
}

func (f *fakeMail) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enviados
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func testSpec() notificacion.Spec {
	return notificacion.Spec{
		UserID:      "u-cliente",
		Email:       "marta@cliente.co",
		ActividadID: "act-1",
		TipoEvento:  entity.EventoActividadCreada,
		Canal:       entity.CanalEmail,
		Asunto:      "Nueva Actividad Creada: ACT-001",
		Plantilla:   "activityCreated",
		Contexto:    map[string]string{"userName": "Marta"},
	}
}

// esperar sondea hasta que cond sea verdadera o venza el plazo.
func esperar(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condición no alcanzada dentro del plazo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Dispatcher
// ──────────────────────────────────────────────────────────────────────────────

func TestEncolar_PersistePendienteAntesDeEntregar(t *testing.T) {
	repo := newMemNotificacionRepo()
	// Sin Start(): nadie consume, la fila queda pendiente.
	d := notificacion.NewDispatcher(repo, &fakeMail{}, testLogger(), notificacion.Config{})

	require.NoError(t, d.Encolar(testSpec()))

	n := repo.unica(t)
	assert.Equal(t, entity.NotificacionPendiente, n.Estado)
	assert.Equal(t, "u-cliente", n.UserID)
	require.NotNil(t, n.ActividadID)
	assert.Equal(t, "act-1", *n.ActividadID)
	assert.Equal(t, "activityCreated", n.Payload.Plantilla)
}

func TestDispatcher_EntregaALaPrimera(t *testing.T) {
	repo := newMemNotificacionRepo()
	mail := &fakeMail{}
	d := notificacion.NewDispatcher(repo, mail, testLogger(), notificacion.Config{BaseDelay: time.Millisecond})
	d.Start()
	defer d.Stop()

	require.NoError(t, d.Encolar(testSpec()))

	esperar(t, func() bool { return repo.unica(t).Estado == entity.NotificacionEnviada })
	n := repo.unica(t)
	assert.Equal(t, 0, n.RetryCount, "sin reintentos")
	assert.NotNil(t, n.EnviadoAt)
	assert.Equal(t, 1, mail.total())
}

func TestDispatcher_ReintentaYEntrega(t *testing.T) {
	repo := newMemNotificacionRepo()
	mail := &fakeMail{fallos: 2}
	d := notificacion.NewDispatcher(repo, mail, testLogger(), notificacion.Config{
		MaxIntentos: 3,
		BaseDelay:   time.Millisecond,
	})
	d.Start()
	defer d.Stop()

	require.NoError(t, d.Encolar(testSpec()))

	esperar(t, func() bool { return repo.unica(t).Estado == entity.NotificacionEnviada })
	n := repo.unica(t)
	assert.Equal(t, 2, n.RetryCount, "dos fallos previos a la entrega")
	assert.Empty(t, n.ErrorMsg)
}

func TestDispatcher_AgotaIntentos_FilaFallidaSeConserva(t *testing.T) {
	repo := newMemNotificacionRepo()
	mail := &fakeMail{fallos: 99}
	d := notificacion.NewDispatcher(repo, mail, testLogger(), notificacion.Config{
		MaxIntentos: 3,
		BaseDelay:   time.Millisecond,
	})
	d.Start()
	defer d.Stop()

	require.NoError(t, d.Encolar(testSpec()))

	esperar(t, func() bool { return repo.unica(t).Estado == entity.NotificacionFallida })
	n := repo.unica(t)
	assert.Equal(t, 2, n.RetryCount)
	assert.Equal(t, "smtp: connection refused", n.ErrorMsg, "el último error queda en la fila")

	fallidas, err := repo.ListByEstado(entity.NotificacionFallida, 10, 0)
	require.NoError(t, err)
	assert.Len(t, fallidas, 1, "la fila fallida nunca se borra")
}

func TestEncolarTodas_LoteCompleto(t *testing.T) {
	repo := newMemNotificacionRepo()
	mail := &fakeMail{}
	d := notificacion.NewDispatcher(repo, mail, testLogger(), notificacion.Config{BaseDelay: time.Millisecond})
	d.Start()
	defer d.Stop()

	specs := make([]notificacion.Spec, 0, 5)
	for i := 0; i < 5; i++ {
		specs = append(specs, testSpec())
	}
	d.EncolarTodas(specs)

	esperar(t, func() bool { return mail.total() == 5 })
}

// ──────────────────────────────────────────────────────────────────────────────
// Policy
// ──────────────────────────────────────────────────────────────────────────────

type memUserRepo struct{ users []*entity.User }

func (r *memUserRepo) Create(u *entity.User) error                   { return nil }
func (r *memUserRepo) GetByID(id string) (*entity.User, error)       { return nil, nil }
func (r *memUserRepo) GetByEmail(email string) (*entity.User, error) { return nil, nil }
func (r *memUserRepo) Update(u *entity.User) error                   { return nil }
func (r *memUserRepo) ListByRol(rol string) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.users {
		if u.Rol == rol && u.Activo {
			out = append(out, u)
		}
	}
	return out, nil
}
func testActividad() *entity.Actividad {
	return &entity.Actividad{
		ID:         "act-1",
		Agencia:    "BTL Norte",
		Codigos:    "ACT-001",
		Ciudad:     "Barranquilla",
		Fecha:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		ValorTotal: decimal.NewFromInt(100000),
	}
}

func testPolicy() *notificacion.Policy {
	users := &memUserRepo{users: []*entity.User{
		{ID: "u-comercial", Nombre: "Laura", Email: "laura@tigo.co", Rol: entity.RolComercial, Activo: true},
		{ID: "u-productor", Nombre: "Pedro", Email: "pedro@agencia.co", Rol: entity.RolProductor, Activo: true},
		{ID: "u-cliente1", Nombre: "Marta", Email: "marta@cliente.co", Rol: entity.RolCliente, Activo: true},
		{ID: "u-cliente2", Nombre: "Iván", Email: "ivan@cliente.co", Rol: entity.RolCliente, Activo: true},
		{ID: "u-excliente", Nombre: "Ex", Email: "ex@cliente.co", Rol: entity.RolCliente, Activo: false},
	}}
	return notificacion.NewPolicy(users, "https://evidencias.tigo.co")
}

func TestPolicy_ActividadCreada_TodosLosClientesActivos(t *testing.T) {
	specs, err := testPolicy().ActividadCreada(testActividad())
	require.NoError(t, err)

	require.Len(t, specs, 2, "solo clientes activos")
	assert.Equal(t, "u-cliente1", specs[0].UserID)
	assert.Equal(t, "u-cliente2", specs[1].UserID)
	assert.Equal(t, "Nueva Actividad Creada: ACT-001", specs[0].Asunto)
	assert.Equal(t, "activityCreated", specs[0].Plantilla)
	assert.Equal(t, "Marta", specs[0].Contexto["userName"], "contexto personalizado por destinatario")
	assert.Equal(t, "Iván", specs[1].Contexto["userName"])
	assert.Equal(t, "https://evidencias.tigo.co/actividades/act-1", specs[0].Contexto["activityLink"])
}

func TestPolicy_ActividadConfirmada_ComercialesYProductores(t *testing.T) {
	specs, err := testPolicy().ActividadConfirmada(testActividad())
	require.NoError(t, err)

	require.Len(t, specs, 2)
	assert.Equal(t, "u-comercial", specs[0].UserID)
	assert.Equal(t, "u-productor", specs[1].UserID)
}

func TestPolicy_CorreccionRequerida_LlevaElMotivo(t *testing.T) {
	specs, err := testPolicy().CorreccionRequerida(testActividad(), "Faltan códigos de punto de venta.")
	require.NoError(t, err)

	require.Len(t, specs, 1)
	assert.Equal(t, "u-comercial", specs[0].UserID)
	assert.Equal(t, "Faltan códigos de punto de venta.", specs[0].Contexto["motivo"])
}

func TestPolicy_ActividadFinalizada_TodosLosRoles(t *testing.T) {
	specs, err := testPolicy().ActividadFinalizada(testActividad())
	require.NoError(t, err)
	assert.Len(t, specs, 4, "comercial + productor + dos clientes")
}

func TestPolicy_EvidenciaCargada_ComercialesYClientes(t *testing.T) {
	specs, err := testPolicy().EvidenciaCargada(testActividad(), "Refrigerios", entity.EvidenciaFotoRecibo)
	require.NoError(t, err)

	require.Len(t, specs, 3, "un comercial y dos clientes activos")
	assert.Equal(t, "u-comercial", specs[0].UserID)
	assert.Equal(t, "u-cliente1", specs[1].UserID)
	assert.Equal(t, "u-cliente2", specs[2].UserID)
	assert.Equal(t, "Nueva Evidencia Cargada: ACT-001", specs[0].Asunto)
	assert.Equal(t, "evidenceUploaded", specs[0].Plantilla)
	assert.Equal(t, "Refrigerios", specs[0].Contexto["itemName"])
	assert.Equal(t, entity.EvidenciaFotoRecibo, specs[0].Contexto["evidenceType"])
}

func TestPolicy_EvidenciaRechazada_ItemYMotivo(t *testing.T) {
	specs, err := testPolicy().EvidenciaRechazada(testActividad(), "Refrigerios", "Foto borrosa.")
	require.NoError(t, err)

	require.Len(t, specs, 2, "productores y comerciales")
	assert.Equal(t, "u-productor", specs[0].UserID)
	assert.Equal(t, "Refrigerios", specs[0].Contexto["itemName"])
	assert.Equal(t, "Foto borrosa.", specs[0].Contexto["rejectionReason"])
}

func TestPolicy_EvidenciaRechazada_ItemDesconocido(t *testing.T) {
	specs, err := testPolicy().EvidenciaRechazada(testActividad(), "", "Foto borrosa.")
	require.NoError(t, err)
	require.NotEmpty(t, specs)
	assert.Equal(t, "Item desconocido", specs[0].Contexto["itemName"])
}

func TestPolicy_PorEvento_EventoDesconocido(t *testing.T) {
	specs, err := testPolicy().PorEvento("evento_inexistente", testActividad(), "")
	require.NoError(t, err)
	assert.Empty(t, specs)
}

// ──────────────────────────────────────────────────────────────────────────────
// Buzón
// ──────────────────────────────────────────────────────────────────────────────

func TestMarcarLeida_SoloElDestinatario(t *testing.T) {
	repo := newMemNotificacionRepo()
	require.NoError(t, repo.Create(&entity.Notificacion{
		ID:     "n-1",
		UserID: "u-cliente",
		Estado: entity.NotificacionEnviada,
	}))
	uc := notificacion.NewUseCase(repo)

	err := uc.MarcarLeida("n-1", "u-otro")
	assert.ErrorIs(t, err, domain.ErrForbidden, "la notificación no es suya")

	require.NoError(t, uc.MarcarLeida("n-1", "u-cliente"))
	n, _ := repo.GetByID("n-1")
	assert.Equal(t, entity.NotificacionLeida, n.Estado)
}

func TestMarcarLeida_NoEncontrada(t *testing.T) {
	uc := notificacion.NewUseCase(newMemNotificacionRepo())
	assert.ErrorIs(t, uc.MarcarLeida("no-existe", "u-cliente"), domain.ErrNotFound)
}
