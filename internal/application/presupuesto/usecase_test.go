package presupuesto_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JohanStiven-dev/evidenciastigo/internal/application/dto"
	"github.com/JohanStiven-dev/evidenciastigo/internal/application/presupuesto"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/entity"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/repository"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/workflow"
	"github.com/JohanStiven-dev/evidenciastigo/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	actividades  map[string]*entity.Actividad
	presupuestos map[string]*entity.Presupuesto
	items        map[string]*entity.PresupuestoItem
	bitacoras    []*entity.Bitacora
}

func newMemStore() *memStore {
	return &memStore{
		actividades:  map[string]*entity.Actividad{},
		presupuestos: map[string]*entity.Presupuesto{},
		items:        map[string]*entity.PresupuestoItem{},
	}
}

type memActividadRepo struct{ s *memStore }

func (r *memActividadRepo) Create(a *entity.Actividad) error {
	r.s.actividades[a.ID] = a
	return nil
}
func (r *memActividadRepo) GetByID(id string) (*entity.Actividad, error) {
	a, ok := r.s.actividades[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}
func (r *memActividadRepo) GetForUpdate(id string) (*entity.Actividad, error) {
	return r.GetByID(id)
}
func (r *memActividadRepo) UpdateEstado(id, status, subStatus string) error { return nil }
func (r *memActividadRepo) Update(a *entity.Actividad) error                { return nil }
func (r *memActividadRepo) List(f repository.FiltroActividades) ([]*entity.Actividad, int, error) {
	return nil, 0, nil
}

type memPresupuestoRepo struct{ s *memStore }

func (r *memPresupuestoRepo) Create(p *entity.Presupuesto) error {
	for _, e := range r.s.presupuestos {
		if e.ActividadID == p.ActividadID {
			return domain.ErrConflict
		}
	}
	cp := *p
	r.s.presupuestos[p.ID] = &cp
	return nil
}
func (r *memPresupuestoRepo) GetByID(id string) (*entity.Presupuesto, error) {
	p, ok := r.s.presupuestos[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}
func (r *memPresupuestoRepo) GetByActividadID(actividadID string) (*entity.Presupuesto, error) {
	for _, p := range r.s.presupuestos {
		if p.ActividadID == actividadID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}
func (r *memPresupuestoRepo) GetForUpdate(id string) (*entity.Presupuesto, error) {
	return r.GetByID(id)
}
func (r *memPresupuestoRepo) Update(p *entity.Presupuesto) error {
	cp := *p
	r.s.presupuestos[p.ID] = &cp
	return nil
}
func (r *memPresupuestoRepo) CreateItem(item *entity.PresupuestoItem) error {
	cp := *item
	r.s.items[item.ID] = &cp
	return nil
}
func (r *memPresupuestoRepo) GetItemByID(id string) (*entity.PresupuestoItem, error) {
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}
func (r *memPresupuestoRepo) UpdateItem(item *entity.PresupuestoItem) error {
	cp := *item
	r.s.items[item.ID] = &cp
	return nil
}
func (r *memPresupuestoRepo) DeleteItem(id string) error {
	delete(r.s.items, id)
	return nil
}
func (r *memPresupuestoRepo) ListItems(presupuestoID string) ([]*entity.PresupuestoItem, error) {
	var out []*entity.PresupuestoItem
	for _, it := range r.s.items {
		if it.PresupuestoID == presupuestoID {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memEvidenciaRepo struct{}

func (r *memEvidenciaRepo) Create(e *entity.Evidencia) error                    { return nil }
func (r *memEvidenciaRepo) GetByID(id string) (*entity.Evidencia, error)        { return nil, nil }
func (r *memEvidenciaRepo) UpdateStatus(id, status, motivoRechazo string) error { return nil }
func (r *memEvidenciaRepo) Delete(id string) error                              { return nil }
func (r *memEvidenciaRepo) ListByItem(id string) ([]*entity.Evidencia, error)   { return nil, nil }
func (r *memEvidenciaRepo) ListByActividad(id string) ([]*entity.Evidencia, error) {
	return nil, nil
}

type memBitacoraRepo struct{ s *memStore }

func (r *memBitacoraRepo) Create(b *entity.Bitacora) error {
	r.s.bitacoras = append(r.s.bitacoras, b)
	return nil
}
func (r *memBitacoraRepo) ListByActividad(actividadID string) ([]*entity.Bitacora, error) {
	return r.s.bitacoras, nil
}

type fakeTx struct{ s *memStore }

func (f *fakeTx) Run(_ context.Context, fn func(
	repository.ActividadRepository,
	repository.PresupuestoRepository,
	repository.EvidenciaRepository,
	repository.BitacoraRepository,
) error) error {
	return fn(&memActividadRepo{f.s}, &memPresupuestoRepo{f.s}, &memEvidenciaRepo{}, &memBitacoraRepo{f.s})
}

func newTestUseCase(s *memStore) *presupuesto.UseCase {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	return presupuesto.NewUseCase(&fakeTx{s}, &memPresupuestoRepo{s}, &memActividadRepo{s}, log)
}

func seed(s *memStore, valorTotal int64) (*entity.Actividad, *entity.Presupuesto) {
	a := &entity.Actividad{
		ID:         "act-1",
		Codigos:    "ACT-001",
		Status:     workflow.StatusPlanificacion,
		SubStatus:  workflow.SubStatusBorrador,
		ValorTotal: decimal.NewFromInt(valorTotal),
	}
	s.actividades[a.ID] = a
	p := &entity.Presupuesto{
		ID:                "ppto-1",
		ActividadID:       a.ID,
		TotalCOP:          a.ValorTotal,
		EstadoPresupuesto: entity.PresupuestoPendiente,
	}
	s.presupuestos[p.ID] = p
	return a, p
}

func seedItem(s *memStore, id string, subtotal int64) *entity.PresupuestoItem {
	it := &entity.PresupuestoItem{
		ID:            id,
		PresupuestoID: "ppto-1",
		Item:          "Transporte",
		Cantidad:      1,
		SubtotalCOP:   decimal.NewFromInt(subtotal),
	}
	s.items[id] = it
	return it
}

// ──────────────────────────────────────────────────────────────────────────────
// Guardián de consistencia de presupuesto
// ──────────────────────────────────────────────────────────────────────────────

func TestAgregarItem_DentroDelPresupuesto(t *testing.T) {
	s := newMemStore()
	seed(s, 100000)
	seedItem(s, "item-1", 60000)
	uc := newTestUseCase(s)

	out, err := uc.AgregarItem(context.Background(), "ppto-1", dto.CreatePresupuestoItemRequest{
		Item:             "Refrigerios",
		Cantidad:         4,
		CostoUnitarioCOP: decimal.NewFromInt(10000),
	}, "u-comercial", entity.RolComercial, "")
	require.NoError(t, err)
	assert.True(t, out.SubtotalCOP.Equal(decimal.NewFromInt(40000)), "subtotal por defecto cantidad×costo")
	assert.Len(t, s.items, 2)
}

func TestAgregarItem_ExcedePresupuesto_NadaSePersiste(t *testing.T) {
	s := newMemStore()
	seed(s, 100000)
	seedItem(s, "item-1", 60000)
	uc := newTestUseCase(s)

	_, err := uc.AgregarItem(context.Background(), "ppto-1", dto.CreatePresupuestoItemRequest{
		Item:             "Sonido",
		Cantidad:         1,
		CostoUnitarioCOP: decimal.NewFromInt(40001),
	}, "u-comercial", entity.RolComercial, "")
	assert.ErrorIs(t, err, domain.ErrPresupuestoExcedido)
	assert.Len(t, s.items, 1, "el ítem rechazado no se persiste")
	assert.Empty(t, s.bitacoras, "sin bitácora ante rechazo")
}

func TestAgregarItem_LlenaExactoElPresupuesto(t *testing.T) {
	s := newMemStore()
	seed(s, 100000)
	seedItem(s, "item-1", 60000)
	uc := newTestUseCase(s)

	// El límite es inclusivo: la suma PUEDE igualar el valor total.
	_, err := uc.AgregarItem(context.Background(), "ppto-1", dto.CreatePresupuestoItemRequest{
		Item:             "Sonido",
		Cantidad:         1,
		CostoUnitarioCOP: decimal.NewFromInt(40000),
	}, "u-comercial", entity.RolComercial, "")
	assert.NoError(t, err)
}

func TestActualizarItem_ExcluyeSuSubtotalAnterior(t *testing.T) {
	s := newMemStore()
	seed(s, 100000)
	seedItem(s, "item-1", 60000)
	seedItem(s, "item-2", 30000)
	uc := newTestUseCase(s)

	// 60000 → 70000: contra los 30000 del otro ítem suma 100000, legal.
	nuevo := decimal.NewFromInt(70000)
	out, err := uc.ActualizarItem(context.Background(), "item-1",
		dto.UpdatePresupuestoItemRequest{SubtotalCOP: &nuevo}, "u-comercial", entity.RolComercial, "")
	require.NoError(t, err)
	assert.True(t, out.SubtotalCOP.Equal(nuevo))

	// 70000 → 80000: 80000 + 30000 excede 100000.
	excede := decimal.NewFromInt(80000)
	_, err = uc.ActualizarItem(context.Background(), "item-1",
		dto.UpdatePresupuestoItemRequest{SubtotalCOP: &excede}, "u-comercial", entity.RolComercial, "")
	assert.ErrorIs(t, err, domain.ErrPresupuestoExcedido)
	assert.True(t, s.items["item-1"].SubtotalCOP.Equal(nuevo), "el rechazo no toca el ítem")
}

func TestActualizarItem_RecalculaSubtotalSiCambiaCantidad(t *testing.T) {
	s := newMemStore()
	seed(s, 100000)
	it := seedItem(s, "item-1", 20000)
	it.Cantidad = 2
	it.CostoUnitarioCOP = decimal.NewFromInt(10000)
	uc := newTestUseCase(s)

	cantidad := 5
	out, err := uc.ActualizarItem(context.Background(), "item-1",
		dto.UpdatePresupuestoItemRequest{Cantidad: &cantidad}, "u-comercial", entity.RolComercial, "")
	require.NoError(t, err)
	assert.True(t, out.SubtotalCOP.Equal(decimal.NewFromInt(50000)), "sin subtotal explícito se recalcula")
}

// ──────────────────────────────────────────────────────────────────────────────
// Cabecera del presupuesto
// ──────────────────────────────────────────────────────────────────────────────

func TestCrear_ActividadYaConPresupuesto_Conflicto(t *testing.T) {
	s := newMemStore()
	seed(s, 100000)
	uc := newTestUseCase(s)

	_, err := uc.Crear(context.Background(), dto.CreatePresupuestoRequest{
		ActividadID: "act-1",
		TotalCOP:    decimal.NewFromInt(50000),
	}, "u-comercial", entity.RolComercial, "")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCrear_ActividadInexistente(t *testing.T) {
	s := newMemStore()
	uc := newTestUseCase(s)

	_, err := uc.Crear(context.Background(), dto.CreatePresupuestoRequest{
		ActividadID: "no-existe",
		TotalCOP:    decimal.NewFromInt(50000),
	}, "u-comercial", entity.RolComercial, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestActualizar_TokenDesactualizado_Conflicto(t *testing.T) {
	s := newMemStore()
	_, p := seed(s, 100000)
	uc := newTestUseCase(s)

	total := decimal.NewFromInt(200000)
	_, _, err := uc.Actualizar(context.Background(), p.ID,
		dto.UpdatePresupuestoRequest{TotalCOP: &total}, `"999"`, "u-comercial", entity.RolComercial, "")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.True(t, s.presupuestos[p.ID].TotalCOP.Equal(decimal.NewFromInt(100000)))
}

func TestActualizar_EstadoInvalido(t *testing.T) {
	s := newMemStore()
	_, p := seed(s, 100000)
	uc := newTestUseCase(s)

	estado := "Congelado"
	_, _, err := uc.Actualizar(context.Background(), p.ID,
		dto.UpdatePresupuestoRequest{EstadoPresupuesto: &estado},
		presupuesto.ETag(p.UpdatedAt), "u-comercial", entity.RolComercial, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMutaciones_ClienteNoPuede(t *testing.T) {
	s := newMemStore()
	seed(s, 100000)
	uc := newTestUseCase(s)

	_, err := uc.AgregarItem(context.Background(), "ppto-1", dto.CreatePresupuestoItemRequest{
		Item: "Sonido", Cantidad: 1, CostoUnitarioCOP: decimal.NewFromInt(1000),
	}, "u-cliente", entity.RolCliente, "")
	assert.ErrorIs(t, err, domain.ErrForbidden, "el Cliente solo lee el presupuesto")

	err = uc.EliminarItem(context.Background(), "item-1", "u-cliente", entity.RolCliente, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestEliminarItem_ConBitacora(t *testing.T) {
	s := newMemStore()
	seed(s, 100000)
	seedItem(s, "item-1", 60000)
	uc := newTestUseCase(s)

	require.NoError(t, uc.EliminarItem(context.Background(), "item-1", "u-comercial", entity.RolComercial, ""))
	assert.NotContains(t, s.items, "item-1")
	require.Len(t, s.bitacoras, 1)
	assert.Equal(t, entity.AccionActualizacionPpto, s.bitacoras[0].Accion)
}
