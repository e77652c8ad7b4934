package units

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinventory "github.com/jhoicas/consignaciones-api/internal/application/inventory"
	"github.com/jhoicas/consignaciones-api/internal/domain"
	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
	"github.com/jhoicas/consignaciones-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store    *memory.Store
	registry *Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	ledger := appinventory.NewLedger(store, repos, nil, zerolog.Nop())
	reg := NewRegistry(store, repos, ledger, Config{DefaultWarrantyMonths: 6}, zerolog.Nop())
	reg.now = func() time.Time { return testNow }

	ctx := context.Background()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID: "p1", Code: "CEL-01", Name: "Celular", MinStock: 1, WarningStock: 3, Status: entity.StockStatusOutOfStock,
	}))
	require.NoError(t, repos.Customers.Create(ctx, &entity.Customer{ID: "c1", Name: "Comprador"}))
	return &fixture{store: store, registry: reg}
}

func (f *fixture) stock(t *testing.T) int {
	t.Helper()
	p, err := f.store.Repositories().Products.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	return p.Stock
}

func ptr[T any](v T) *T { return &v }

// ──────────────────────────────────────────────────────────────────────────────
// Register / RegisterBatch
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_NormalizaSerialYSumaStock(t *testing.T) {
	f := newFixture(t)
	u, err := f.registry.Register(context.Background(), RegisterInput{
		ProductID: "p1", Serial: "  sn-001 ", Cost: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assert.Equal(t, "SN-001", u.Serial)
	assert.Equal(t, entity.UnitAvailable, u.State)
	assert.Equal(t, 6, u.WarrantyMonths)
	assert.Equal(t, testNow.AddDate(0, 6, 0), u.WarrantyExpiry)
	assert.Equal(t, 1, f.stock(t))

	_, err = f.registry.Register(context.Background(), RegisterInput{ProductID: "p1", Serial: "SN-001"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.Equal(t, 1, f.stock(t), "un registro rechazado no debe tocar el stock")
}

func TestRegister_ProductoInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.registry.Register(context.Background(), RegisterInput{ProductID: "nope", Serial: "X"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRegisterBatch_DuplicadosEnElLote(t *testing.T) {
	f := newFixture(t)
	_, err := f.registry.RegisterBatch(context.Background(), RegisterBatchInput{
		ProductID: "p1", Serials: []string{"A", "a "}, Cost: decimal.NewFromInt(10),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidOperation))
	assert.Equal(t, []string{"A"}, domain.RefsOf(err))

	units, err := f.registry.ListByProduct(context.Background(), "p1", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, units, "no debe crearse ninguna unidad")
	assert.Equal(t, 0, f.stock(t))
}

func TestRegisterBatch_SerialesExistentesNoInsertaNinguno(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.registry.RegisterBatch(ctx, RegisterBatchInput{ProductID: "p1", Serials: []string{"A", "B"}})
	require.NoError(t, err)

	_, err = f.registry.RegisterBatch(ctx, RegisterBatchInput{ProductID: "p1", Serials: []string{"C", "A", "B"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.ElementsMatch(t, []string{"A", "B"}, domain.RefsOf(err))

	_, err = f.registry.GetBySerial(ctx, "C")
	assert.True(t, errors.Is(err, domain.ErrNotFound), "C no debe haberse insertado")
	assert.Equal(t, 2, f.stock(t))
}

// ──────────────────────────────────────────────────────────────────────────────
// Sell
// ──────────────────────────────────────────────────────────────────────────────

func TestSell_RegistraMargenYDescuentaStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.registry.Register(ctx, RegisterInput{ProductID: "p1", Serial: "SN-001", Cost: decimal.NewFromInt(100)})
	require.NoError(t, err)
	before := f.stock(t)

	saleDate := testNow.AddDate(0, 1, 0)
	u, err := f.registry.Sell(ctx, SellInput{
		Serial: "sn-001", BuyerID: "c1", SalePrice: decimal.NewFromInt(150), Method: "EFECTIVO", Date: &saleDate,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.UnitSold, u.State)
	require.NotNil(t, u.Margin)
	assert.True(t, u.Margin.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, saleDate.AddDate(0, 6, 0), u.WarrantyExpiry, "la garantía corre desde la venta")
	assert.Equal(t, before-1, f.stock(t))
}

func TestSell_Rechazos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.registry.Register(ctx, RegisterInput{ProductID: "p1", Serial: "SN-1"})
	require.NoError(t, err)

	_, err = f.registry.Sell(ctx, SellInput{Serial: "SN-404", BuyerID: "c1"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = f.registry.Sell(ctx, SellInput{Serial: "SN-1", BuyerID: "nadie"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = f.registry.Sell(ctx, SellInput{Serial: "SN-1", BuyerID: "c1"})
	require.NoError(t, err)
	_, err = f.registry.Sell(ctx, SellInput{Serial: "SN-1", BuyerID: "c1"})
	assert.True(t, errors.Is(err, domain.ErrInvalidOperation))
	assert.Contains(t, err.Error(), entity.UnitSold)
}

func TestSell_ConcurrenteSoloUnoGana(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.registry.Register(ctx, RegisterInput{ProductID: "p1", Serial: "SN-RACE"})
	require.NoError(t, err)

	const callers = 8
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.registry.Sell(ctx, SellInput{Serial: "SN-RACE", BuyerID: "c1", SalePrice: decimal.NewFromInt(10)})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, errors.Is(err, domain.ErrInvalidOperation))
	}
	assert.Equal(t, 1, ok, "exactamente una venta debe confirmarse")
	assert.Equal(t, 0, f.stock(t))
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateFields
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateFields_TransicionesYStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.registry.Register(ctx, RegisterInput{ProductID: "p1", Serial: "U1"})
	require.NoError(t, err)
	require.Equal(t, 1, f.stock(t))

	_, err = f.registry.UpdateFields(ctx, "U1", UnitPatch{State: ptr(entity.UnitSold)})
	assert.True(t, errors.Is(err, domain.ErrInvalidOperation), "la venta solo pasa por Sell")

	u, err := f.registry.UpdateFields(ctx, "U1", UnitPatch{State: ptr(entity.UnitDefective)})
	require.NoError(t, err)
	assert.Equal(t, entity.UnitDefective, u.State)
	assert.Equal(t, 0, f.stock(t))

	_, err = f.registry.UpdateFields(ctx, "U1", UnitPatch{State: ptr(entity.UnitAvailable)})
	require.NoError(t, err)
	assert.Equal(t, 1, f.stock(t))

	_, err = f.registry.Sell(ctx, SellInput{Serial: "U1", BuyerID: "c1", SalePrice: decimal.NewFromInt(5)})
	require.NoError(t, err)
	assert.Equal(t, 0, f.stock(t))

	_, err = f.registry.UpdateFields(ctx, "U1", UnitPatch{State: ptr(entity.UnitReturned)})
	require.NoError(t, err)
	assert.Equal(t, 1, f.stock(t))

	u, err = f.registry.UpdateFields(ctx, "U1", UnitPatch{State: ptr(entity.UnitAvailable)})
	require.NoError(t, err)
	assert.Equal(t, 1, f.stock(t), "DEVUELTO ya cuenta como stock")
	assert.Empty(t, u.BuyerID)

	_, err = f.registry.UpdateFields(ctx, "U1", UnitPatch{State: ptr(entity.UnitReturned)})
	assert.True(t, errors.Is(err, domain.ErrInvalidOperation), "DISPONIBLE -> DEVUELTO no está en el grafo")
}

func TestUpdateFields_StockPorPertenenciaABodega(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.registry.Register(ctx, RegisterInput{ProductID: "p1", Serial: "R1"})
	require.NoError(t, err)

	_, err = f.registry.UpdateFields(ctx, "R1", UnitPatch{State: ptr(entity.UnitReserved)})
	require.NoError(t, err)
	assert.Equal(t, 1, f.stock(t), "una reserva no saca la unidad de bodega")

	_, err = f.registry.UpdateFields(ctx, "R1", UnitPatch{State: ptr(entity.UnitAvailable)})
	require.NoError(t, err)
	assert.Equal(t, 1, f.stock(t), "liberar la reserva no duplica el stock")

	_, err = f.registry.Sell(ctx, SellInput{Serial: "R1", BuyerID: "c1", SalePrice: decimal.NewFromInt(5)})
	require.NoError(t, err)
	_, err = f.registry.UpdateFields(ctx, "R1", UnitPatch{State: ptr(entity.UnitReturned)})
	require.NoError(t, err)
	require.Equal(t, 1, f.stock(t))

	_, err = f.registry.UpdateFields(ctx, "R1", UnitPatch{State: ptr(entity.UnitDefective)})
	require.NoError(t, err)
	assert.Equal(t, 0, f.stock(t), "la devolución defectuosa sale del stock")

	list, err := f.store.Repositories().Movements.ListByProduct(ctx, "p1", nil, nil, 10, 0)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	assert.Equal(t, entity.MovementExit, list[0].Type)
}

func TestSell_SinStockPorAjusteSeRechaza(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.registry.Register(ctx, RegisterInput{ProductID: "p1", Serial: "AJ1"})
	require.NoError(t, err)

	ledger := appinventory.NewLedger(f.store, f.store.Repositories(), nil, zerolog.Nop())
	_, _, err = ledger.RecordMovement(ctx, appinventory.RecordMovementInput{
		ProductID: "p1", Type: entity.MovementAdjust, Quantity: 0, Reason: "conteo físico",
	})
	require.NoError(t, err)

	_, err = f.registry.Sell(ctx, SellInput{Serial: "AJ1", BuyerID: "c1", SalePrice: decimal.NewFromInt(5)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidOperation), "el stock nunca queda negativo")

	u, err := f.registry.GetBySerial(ctx, "AJ1")
	require.NoError(t, err)
	assert.Equal(t, entity.UnitAvailable, u.State, "la venta rechazada no cambia la unidad")
	assert.Equal(t, 0, f.stock(t))
}

func TestUpdateFields_RecalculaGarantiaDesdeVenta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.registry.Register(ctx, RegisterInput{ProductID: "p1", Serial: "G1"})
	require.NoError(t, err)
	saleDate := testNow.AddDate(0, 2, 0)
	_, err = f.registry.Sell(ctx, SellInput{Serial: "G1", BuyerID: "c1", Date: &saleDate})
	require.NoError(t, err)

	u, err := f.registry.UpdateFields(ctx, "G1", UnitPatch{WarrantyMonths: ptr(12), Notes: ptr("extendida")})
	require.NoError(t, err)
	assert.Equal(t, saleDate.AddDate(0, 12, 0), u.WarrantyExpiry)
	assert.Equal(t, "extendida", u.Notes)
}

// ──────────────────────────────────────────────────────────────────────────────
// LookupWarranty
// ──────────────────────────────────────────────────────────────────────────────

func TestLookupWarranty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.registry.Register(ctx, RegisterInput{ProductID: "p1", Serial: "W1", WarrantyMonths: ptr(1)})
	require.NoError(t, err)

	res, err := f.registry.LookupWarranty(ctx, "w1")
	require.NoError(t, err)
	assert.True(t, res.InWarranty)
	assert.Equal(t, 31, res.DaysRemaining)
	assert.False(t, res.SoldByUs)

	f.registry.now = func() time.Time { return testNow.AddDate(1, 0, 0) }
	res, err = f.registry.LookupWarranty(ctx, "W1")
	require.NoError(t, err)
	assert.False(t, res.InWarranty)
	assert.Equal(t, 0, res.DaysRemaining)

	_, err = f.registry.LookupWarranty(ctx, "NO-EXISTE")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
