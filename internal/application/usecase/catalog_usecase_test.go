package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/consignaciones-api/internal/application/dto"
	"github.com/jhoicas/consignaciones-api/internal/application/usecase"
	"github.com/jhoicas/consignaciones-api/internal/domain"
	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
	"github.com/jhoicas/consignaciones-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// ProductUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestProductUseCase_CreateDerivaEstado(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore().Repositories().Products)
	ctx := context.Background()

	out, err := uc.Create(ctx, dto.CreateProductRequest{
		Code: "  CEL-01 ", Name: "Celular", BaseCost: decimal.NewFromInt(500), MinStock: 2, WarningStock: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, "CEL-01", out.Code)
	assert.Equal(t, 0, out.Stock)
	assert.Equal(t, entity.StockStatusOutOfStock, out.Status)

	got, err := uc.GetByID(ctx, out.ID)
	require.NoError(t, err)
	assert.True(t, got.BaseCost.Equal(decimal.NewFromInt(500)))

	_, err = uc.Create(ctx, dto.CreateProductRequest{Code: "CEL-01", Name: "Otro"})
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestProductUseCase_Validaciones(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore().Repositories().Products)
	ctx := context.Background()

	for name, in := range map[string]dto.CreateProductRequest{
		"código vacío":    {Code: "  ", Name: "X"},
		"costo negativo":  {Code: "A", Name: "X", BaseCost: decimal.NewFromInt(-1)},
		"umbral negativo": {Code: "A", Name: "X", MinStock: -1},
	} {
		_, err := uc.Create(ctx, in)
		assert.True(t, errors.Is(err, domain.ErrInvalidOperation), name)
	}

	_, err := uc.GetByID(ctx, "nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestProductUseCase_ListOrdenaPorCodigo(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore().Repositories().Products)
	ctx := context.Background()
	for _, code := range []string{"C", "A", "B"} {
		_, err := uc.Create(ctx, dto.CreateProductRequest{Code: code, Name: code})
		require.NoError(t, err)
	}
	out, err := uc.List(ctx, dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "A", out.Items[0].Code)
	assert.Equal(t, "B", out.Items[1].Code)
	assert.Equal(t, 2, out.Page.Limit)
}

// ──────────────────────────────────────────────────────────────────────────────
// ConsigneeUseCase y CustomerUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestConsigneeUseCase_CreateConSaldosEnCero(t *testing.T) {
	uc := usecase.NewConsigneeUseCase(memory.NewStore().Repositories().Consignees)
	ctx := context.Background()

	out, err := uc.Create(ctx, dto.CreateConsigneeRequest{Name: " Tienda Norte ", TaxID: "900123"})
	require.NoError(t, err)
	assert.Equal(t, "Tienda Norte", out.Name)
	assert.True(t, out.Active)
	assert.True(t, out.PendingBalance.IsZero())

	_, err = uc.Create(ctx, dto.CreateConsigneeRequest{Name: "Copia", TaxID: "900123"})
	assert.True(t, errors.Is(err, domain.ErrConflict))

	_, err = uc.Create(ctx, dto.CreateConsigneeRequest{Name: "Sin documento"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateConsigneeRequest{Name: "Otro sin documento"})
	require.NoError(t, err, "el documento vacío no cuenta como duplicado")

	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Tienda Norte", list[0].Name)

	_, err = uc.GetByID(ctx, "nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCustomerUseCase_CreateYGet(t *testing.T) {
	uc := usecase.NewCustomerUseCase(memory.NewStore().Repositories().Customers)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateCustomerRequest{Name: "   "})
	assert.True(t, errors.Is(err, domain.ErrInvalidOperation))

	out, err := uc.Create(ctx, dto.CreateCustomerRequest{Name: "Ana", Email: " ana@example.com "})
	require.NoError(t, err)
	got, err := uc.GetByID(ctx, out.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", got.Email)

	_, err = uc.GetByID(ctx, "nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
