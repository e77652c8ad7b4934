package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
)

// ConsignmentRepository define el puerto de persistencia para cabeceras y líneas de consignación.
type ConsignmentRepository interface {
	Create(ctx context.Context, consignment *entity.Consignment) error
	CreateDetails(ctx context.Context, details []*entity.ConsignmentDetail) error
	GetByID(ctx context.Context, id string) (*entity.Consignment, error)
	// GetForUpdate bloquea la cabecera; todas las mutaciones de líneas pasan por ella.
	GetForUpdate(ctx context.Context, id string) (*entity.Consignment, error)
	ListDetails(ctx context.Context, consignmentID string) ([]*entity.ConsignmentDetail, error)
	UpdateDetail(ctx context.Context, detail *entity.ConsignmentDetail) error
	// AdjustTotals suma los deltas como acumuladores (total += totalDelta, paid += paidDelta,
	// pending += totalDelta - paidDelta) y devuelve la cabecera resultante.
	AdjustTotals(ctx context.Context, id string, totalDelta, paidDelta decimal.Decimal) (*entity.Consignment, error)
	UpdateStatus(ctx context.Context, id, status string) error
	// HighestNumber devuelve el mayor consecutivo existente ("" si no hay consignaciones).
	HighestNumber(ctx context.Context) (string, error)
	ListByConsignee(ctx context.Context, consigneeID string) ([]*entity.Consignment, error)
}
