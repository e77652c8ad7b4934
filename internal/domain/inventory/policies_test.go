package inventory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/consignaciones-api/internal/domain"
	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
	"github.com/jhoicas/consignaciones-api/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tipos de movimiento
// ──────────────────────────────────────────────────────────────────────────────

func TestMovementKind_Efectos(t *testing.T) {
	cases := []struct {
		name    string
		kind    inventory.MovementKind
		current int
		qty     int
		want    int
	}{
		{"entrada suma", inventory.Entry, 5, 3, 8},
		{"salida resta", inventory.Exit, 5, 3, 2},
		{"salida deja en cero", inventory.Exit, 3, 3, 0},
		{"ajuste fija el valor", inventory.Adjust, 5, 12, 12},
		{"ajuste a cero", inventory.Adjust, 5, 0, 0},
		{"devolucion suma", inventory.Return, 0, 2, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.kind.Apply(tc.current, tc.qty)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMovementKind_Rechazos(t *testing.T) {
	cases := []struct {
		name    string
		kind    inventory.MovementKind
		current int
		qty     int
	}{
		{"entrada cero", inventory.Entry, 5, 0},
		{"salida negativa", inventory.Exit, 5, -1},
		{"salida mayor al stock", inventory.Exit, 2, 3},
		{"ajuste negativo", inventory.Adjust, 5, -1},
		{"devolucion cero", inventory.Return, 5, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.kind.Apply(tc.current, tc.qty)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidOperation))
		})
	}
}

func TestMovementKind_Delta(t *testing.T) {
	d, err := inventory.Adjust.Delta(10, 4)
	require.NoError(t, err)
	assert.Equal(t, -6, d)

	d, err = inventory.Entry.Delta(10, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, d)
}

func TestKindOf(t *testing.T) {
	k, err := inventory.KindOf(entity.MovementAdjust)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementAdjust, k.Type)

	_, err = inventory.KindOf("TRASLADO")
	assert.True(t, errors.Is(err, domain.ErrInvalidOperation))
}

// ──────────────────────────────────────────────────────────────────────────────
// Estado de stock
// ──────────────────────────────────────────────────────────────────────────────

func TestStockStatus_Umbrales(t *testing.T) {
	assert.Equal(t, entity.StockStatusOutOfStock, inventory.StockStatus(0, 2, 5))
	assert.Equal(t, entity.StockStatusCritical, inventory.StockStatus(2, 2, 5))
	assert.Equal(t, entity.StockStatusWarning, inventory.StockStatus(5, 2, 5))
	assert.Equal(t, entity.StockStatusOK, inventory.StockStatus(6, 2, 5))
}

func TestEntersLowStock(t *testing.T) {
	assert.True(t, inventory.EntersLowStock(entity.StockStatusOK, entity.StockStatusWarning))
	assert.True(t, inventory.EntersLowStock(entity.StockStatusOK, entity.StockStatusOutOfStock))
	assert.False(t, inventory.EntersLowStock(entity.StockStatusWarning, entity.StockStatusCritical))
	assert.False(t, inventory.EntersLowStock(entity.StockStatusOK, entity.StockStatusOK))
}

// ──────────────────────────────────────────────────────────────────────────────
// Estados de unidad
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckManualTransition(t *testing.T) {
	require.NoError(t, inventory.CheckManualTransition(entity.UnitAvailable, entity.UnitDefective))
	require.NoError(t, inventory.CheckManualTransition(entity.UnitSold, entity.UnitReturned))
	require.NoError(t, inventory.CheckManualTransition(entity.UnitReturned, entity.UnitAvailable))
	require.NoError(t, inventory.CheckManualTransition(entity.UnitSold, entity.UnitSold), "sin cambio de estado")

	for _, tc := range []struct{ from, to string }{
		{entity.UnitAvailable, entity.UnitSold},
		{entity.UnitAvailable, entity.UnitConsigned},
		{entity.UnitConsigned, entity.UnitAvailable},
		{entity.UnitSold, entity.UnitAvailable},
		{entity.UnitAvailable, "PERDIDO"},
	} {
		err := inventory.CheckManualTransition(tc.from, tc.to)
		assert.Truef(t, errors.Is(err, domain.ErrInvalidOperation), "%s -> %s", tc.from, tc.to)
	}
}

func TestStockDelta(t *testing.T) {
	assert.Equal(t, 1, inventory.StockDelta(entity.UnitSold, entity.UnitReturned))
	assert.Equal(t, 1, inventory.StockDelta(entity.UnitConsigned, entity.UnitAvailable))
	assert.Equal(t, 1, inventory.StockDelta(entity.UnitDefective, entity.UnitAvailable))
	assert.Equal(t, -1, inventory.StockDelta(entity.UnitAvailable, entity.UnitDefective))
	assert.Equal(t, -1, inventory.StockDelta(entity.UnitAvailable, entity.UnitSold))
	assert.Equal(t, 0, inventory.StockDelta(entity.UnitReturned, entity.UnitAvailable))
	assert.Equal(t, 0, inventory.StockDelta(entity.UnitAvailable, entity.UnitReserved))
	assert.Equal(t, 0, inventory.StockDelta(entity.UnitReserved, entity.UnitAvailable), "RESERVADO sigue en bodega")
	assert.Equal(t, -1, inventory.StockDelta(entity.UnitReturned, entity.UnitDefective), "DEVUELTO ya había sumado stock")
}

// ──────────────────────────────────────────────────────────────────────────────
// Garantía, costo y seriales
// ──────────────────────────────────────────────────────────────────────────────

func TestEvaluateWarranty(t *testing.T) {
	base := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	expiry := inventory.WarrantyExpiry(base, 6)
	assert.Equal(t, time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC), expiry)

	st := inventory.EvaluateWarranty(expiry, expiry.AddDate(0, 0, -10).Add(-time.Hour))
	assert.True(t, st.InWarranty)
	assert.Equal(t, 10, st.DaysRemaining)

	st = inventory.EvaluateWarranty(expiry, expiry.Add(-time.Hour))
	assert.True(t, st.InWarranty)
	assert.Equal(t, 0, st.DaysRemaining)

	st = inventory.EvaluateWarranty(expiry, expiry)
	assert.False(t, st.InWarranty)
	assert.Equal(t, 0, st.DaysRemaining)
}

func TestResolveCost_Precedencia(t *testing.T) {
	unit := decimal.NewFromInt(10)
	group := decimal.NewFromInt(20)
	base := decimal.NewFromInt(30)
	zero := decimal.Zero

	assert.True(t, inventory.ResolveCost(&unit, &group, &base).Equal(unit))
	assert.True(t, inventory.ResolveCost(nil, &group, &base).Equal(group))
	assert.True(t, inventory.ResolveCost(nil, nil, &base).Equal(base))
	assert.True(t, inventory.ResolveCost(nil, nil, nil).IsZero())
	assert.True(t, inventory.ResolveCost(&zero, &group, &base).IsZero(), "un costo explícito en cero se respeta")
}

func TestNormalizeSerialYDuplicados(t *testing.T) {
	assert.Equal(t, "AB-12", inventory.NormalizeSerial("  ab-12\t"))
	assert.Equal(t, "ÑANDÚ", inventory.NormalizeSerial("ñandú"))
	assert.Equal(t, []string{"A", "B"}, inventory.DuplicateSerials([]string{"A", "B", "A", "B", "A", "C"}))
	assert.Empty(t, inventory.DuplicateSerials([]string{"A", "B"}))
}
