package consignment_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/consignaciones-api/internal/application/consignment"
	appinventory "github.com/jhoicas/consignaciones-api/internal/application/inventory"
	"github.com/jhoicas/consignaciones-api/internal/application/units"
	"github.com/jhoicas/consignaciones-api/internal/domain"
	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
	"github.com/jhoicas/consignaciones-api/internal/domain/repository"
	"github.com/jhoicas/consignaciones-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	repos    repository.Repositories
	registry *units.Registry
	workflow *consignment.Workflow
	units    []*entity.InventoryUnit
}

func newFixture(t *testing.T, serials ...string) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	ctx := context.Background()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p1", Code: "CEL-01", Name: "Celular"}))
	require.NoError(t, repos.Consignees.Create(ctx, &entity.Consignee{ID: "k1", Name: "Tienda Norte", Active: true}))
	require.NoError(t, repos.Consignees.Create(ctx, &entity.Consignee{ID: "k2", Name: "Tienda Cerrada", Active: false}))

	ledger := appinventory.NewLedger(store, repos, nil, zerolog.Nop())
	reg := units.NewRegistry(store, repos, ledger, units.Config{DefaultWarrantyMonths: 6}, zerolog.Nop())
	f := &fixture{repos: repos, registry: reg, workflow: consignment.NewWorkflow(store, repos, ledger, consignment.Config{}, zerolog.Nop())}
	if len(serials) > 0 {
		created, err := reg.RegisterBatch(ctx, units.RegisterBatchInput{ProductID: "p1", Serials: serials, Cost: decimal.NewFromInt(30)})
		require.NoError(t, err)
		f.units = created
	}
	return f
}

func (f *fixture) lines(price int64) []consignment.LineInput {
	out := make([]consignment.LineInput, len(f.units))
	for i, u := range f.units {
		out[i] = consignment.LineInput{ProductID: u.ProductID, UnitID: u.ID, Price: decimal.NewFromInt(price)}
	}
	return out
}

func (f *fixture) stock(t *testing.T) int {
	t.Helper()
	p, err := f.repos.Products.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	return p.Stock
}

func (f *fixture) consignee(t *testing.T, id string) *entity.Consignee {
	t.Helper()
	c, err := f.repos.Consignees.GetByID(context.Background(), id)
	require.NoError(t, err)
	return c
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_ConsignaUnidadesYDescuentaStock(t *testing.T) {
	f := newFixture(t, "S1", "S2")
	ctx := context.Background()
	require.Equal(t, 2, f.stock(t))

	v, err := f.workflow.Create(ctx, consignment.CreateInput{ConsigneeID: "k1", Lines: f.lines(50)})
	require.NoError(t, err)
	assert.Equal(t, "CON-001", v.Consignment.Number)
	assert.Equal(t, entity.ConsignmentPending, v.Consignment.Status)
	assert.True(t, v.Consignment.TotalValue.Equal(decimal.NewFromInt(100)))
	assert.True(t, v.Consignment.PendingValue.Equal(decimal.NewFromInt(100)))
	assert.Len(t, v.Lines, 2)
	assert.Equal(t, 0, f.stock(t))

	u, err := f.registry.GetBySerial(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, entity.UnitConsigned, u.State)
	assert.Equal(t, "k1", u.ConsigneeID)

	k := f.consignee(t, "k1")
	assert.True(t, k.TotalConsigned.Equal(decimal.NewFromInt(100)))
	assert.True(t, k.PendingBalance.Equal(decimal.NewFromInt(100)))

	_, err = f.workflow.Create(ctx, consignment.CreateInput{ConsigneeID: "k1", Lines: f.lines(50)[:1]})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidOperation), "una unidad no puede estar en dos consignaciones abiertas")
	assert.Equal(t, []string{"S1"}, domain.RefsOf(err))
}

func TestCreate_Rechazos(t *testing.T) {
	f := newFixture(t, "S1")
	ctx := context.Background()

	_, err := f.workflow.Create(ctx, consignment.CreateInput{ConsigneeID: "nadie", Lines: f.lines(10)})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = f.workflow.Create(ctx, consignment.CreateInput{ConsigneeID: "k2", Lines: f.lines(10)})
	assert.True(t, errors.Is(err, domain.ErrInvalidOperation), "consignatario inactivo")

	_, err = f.workflow.Create(ctx, consignment.CreateInput{ConsigneeID: "k1"})
	assert.True(t, errors.Is(err, domain.ErrInvalidOperation))

	_, err = f.workflow.Create(ctx, consignment.CreateInput{ConsigneeID: "k1", Lines: []consignment.LineInput{
		{ProductID: "p1", UnitID: "no-existe", Price: decimal.NewFromInt(1)},
	}})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = f.workflow.Create(ctx, consignment.CreateInput{ConsigneeID: "k1", Lines: []consignment.LineInput{
		{ProductID: "otro", UnitID: f.units[0].ID, Price: decimal.NewFromInt(1)},
	}})
	assert.True(t, errors.Is(err, domain.ErrInvalidOperation), "producto distinto al de la unidad")

	assert.Equal(t, 1, f.stock(t), "ningún rechazo debe tocar el stock")
}

func TestCreate_NumeracionSecuencial(t *testing.T) {
	f := newFixture(t, "S1", "S2")
	ctx := context.Background()
	lines := f.lines(10)
	v1, err := f.workflow.Create(ctx, consignment.CreateInput{ConsigneeID: "k1", Lines: lines[:1]})
	require.NoError(t, err)
	v2, err := f.workflow.Create(ctx, consignment.CreateInput{ConsigneeID: "k1", Lines: lines[1:]})
	require.NoError(t, err)
	assert.Equal(t, "CON-001", v1.Consignment.Number)
	assert.Equal(t, "CON-002", v2.Consignment.Number)
}

// ──────────────────────────────────────────────────────────────────────────────
// ReportSale / ReportReturn
// ──────────────────────────────────────────────────────────────────────────────

func TestReportSale_PasaAEnProceso(t *testing.T) {
	f := newFixture(t, "S1", "S2")
	ctx := context.Background()
	v, err := f.workflow.Create(ctx, consignment.CreateInput{ConsigneeID: "k1", Lines: f.lines(50)})
	require.NoError(t, err)

	v, err = f.workflow.ReportSale(ctx, v.Consignment.ID, []string{v.Lines[0].ID}, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.ConsignmentInProgress, v.Consignment.Status)

	u, err := f.registry.GetBySerial(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, entity.UnitSold, u.State)
	require.NotNil(t, u.Margin)
	assert.True(t, u.Margin.Equal(decimal.NewFromInt(20)))

	_, err = f.workflow.ReportSale(ctx, v.Consignment.ID, []string{v.Lines[0].ID}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidOperation), "una línea VENDIDA es terminal")

	_, err = f.workflow.ReportReturn(ctx, consignment.ReturnInput{ConsignmentID: v.Consignment.ID, LineIDs: []string{v.Lines[0].ID}})
	assert.True(t, errors.Is(err, domain.ErrInvalidOperation), "VENDIDO no vuelve a DEVUELTO")

	_, err = f.workflow.ReportSale(ctx, v.Consignment.ID, []string{"ajena"}, nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidOperation))
	assert.Equal(t, []string{"ajena"}, domain.RefsOf(err))
}

func TestReportReturn_TodoDevueltoCancela(t *testing.T) {
	f := newFixture(t, "S1")
	ctx := context.Background()
	v, err := f.workflow.Create(ctx, consignment.CreateInput{ConsigneeID: "k1", Lines: f.lines(50)})
	require.NoError(t, err)
	require.Equal(t, 0, f.stock(t))

	v, err = f.workflow.ReportReturn(ctx, consignment.ReturnInput{ConsignmentID: v.Consignment.ID, LineIDs: []string{v.Lines[0].ID}})
	require.NoError(t, err)
	assert.Equal(t, entity.ConsignmentCancelled, v.Consignment.Status)
	assert.True(t, v.Consignment.TotalValue.IsZero())
	assert.True(t, v.Consignment.PendingValue.IsZero())
	assert.Equal(t, 1, f.stock(t))

	u, err := f.registry.GetBySerial(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, entity.UnitAvailable, u.State)
	assert.Empty(t, u.ConsigneeID)

	k := f.consignee(t, "k1")
	assert.True(t, k.TotalConsigned.IsZero())
	assert.True(t, k.PendingBalance.IsZero())

	again, err := f.workflow.Recompute(ctx, v.Consignment.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ConsignmentCancelled, again.Consignment.Status, "recalcular sin eventos no cambia el estado")
}

func TestReportReturn_Defectuosas(t *testing.T) {
	f := newFixture(t, "S1", "S2")
	ctx := context.Background()
	v, err := f.workflow.Create(ctx, consignment.CreateInput{ConsigneeID: "k1", Lines: f.lines(40)})
	require.NoError(t, err)

	_, err = f.workflow.ReportReturn(ctx, consignment.ReturnInput{
		ConsignmentID:    v.Consignment.ID,
		LineIDs:          []string{v.Lines[0].ID},
		DefectiveLineIDs: []string{v.Lines[1].ID},
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidOperation))

	_, err = f.workflow.ReportReturn(ctx, consignment.ReturnInput{
		ConsignmentID:    v.Consignment.ID,
		LineIDs:          []string{v.Lines[0].ID, v.Lines[1].ID},
		DefectiveLineIDs: []string{v.Lines[1].ID},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.stock(t), "solo la unidad sana vuelve al stock")

	u, err := f.registry.GetBySerial(ctx, "S2")
	require.NoError(t, err)
	assert.Equal(t, entity.UnitDefective, u.State)
}

func TestGetYListado(t *testing.T) {
	f := newFixture(t, "S1")
	ctx := context.Background()
	v, err := f.workflow.Create(ctx, consignment.CreateInput{ConsigneeID: "k1", Lines: f.lines(10)})
	require.NoError(t, err)

	got, err := f.workflow.Get(ctx, v.Consignment.ID)
	require.NoError(t, err)
	assert.Len(t, got.Lines, 1)

	list, err := f.workflow.ListByConsignee(ctx, "k1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.workflow.Get(ctx, "no-existe")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

// runConcurrently lanza n llamadas a fn y devuelve sus errores.
func runConcurrently(n int, fn func() error) []error {
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = fn()
		}(i)
	}
	wg.Wait()
	return errs
}

func countSuccesses(t *testing.T, errs []error) int {
	t.Helper()
	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, errors.Is(err, domain.ErrInvalidOperation), "error inesperado: %v", err)
	}
	return ok
}

func TestCreate_ConcurrenteMismaUnidadSoloUnoGana(t *testing.T) {
	f := newFixture(t, "S1")
	ctx := context.Background()

	errs := runConcurrently(8, func() error {
		_, err := f.workflow.Create(ctx, consignment.CreateInput{ConsigneeID: "k1", Lines: f.lines(100)})
		return err
	})

	assert.Equal(t, 1, countSuccesses(t, errs), "la unidad se consigna una sola vez")
	assert.Equal(t, 0, f.stock(t))
	assert.True(t, f.consignee(t, "k1").TotalConsigned.Equal(decimal.NewFromInt(100)))
	list, err := f.workflow.ListByConsignee(ctx, "k1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestReportSale_ConcurrenteMismaLineaSoloUnoGana(t *testing.T) {
	f := newFixture(t, "S1", "S2")
	ctx := context.Background()
	v, err := f.workflow.Create(ctx, consignment.CreateInput{ConsigneeID: "k1", Lines: f.lines(100)})
	require.NoError(t, err)
	lineID := v.Lines[0].ID

	errs := runConcurrently(8, func() error {
		_, err := f.workflow.ReportSale(ctx, v.Consignment.ID, []string{lineID}, nil)
		return err
	})

	assert.Equal(t, 1, countSuccesses(t, errs), "la línea se vende una sola vez")
	got, err := f.workflow.Get(ctx, v.Consignment.ID)
	require.NoError(t, err)
	sold := 0
	for _, l := range got.Lines {
		if l.State == entity.DetailSold {
			sold++
		}
	}
	assert.Equal(t, 1, sold)
	assert.Equal(t, entity.ConsignmentInProgress, got.Consignment.Status)
}
