package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
)

// ConsigneeRepository define el puerto de persistencia para consignatarios.
type ConsigneeRepository interface {
	Create(ctx context.Context, consignee *entity.Consignee) error
	GetByID(ctx context.Context, id string) (*entity.Consignee, error)
	// AdjustBalances suma los deltas como acumuladores (consigned += c, paid += p,
	// pending += c - p) y devuelve el consignatario resultante.
	AdjustBalances(ctx context.Context, id string, consignedDelta, paidDelta decimal.Decimal) (*entity.Consignee, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Consignee, error)
}
