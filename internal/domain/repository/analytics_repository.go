package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
)

// ConsignmentTotals sumas globales de la cartera de consignación.
type ConsignmentTotals struct {
	TotalConsigned decimal.Decimal
	TotalPaid      decimal.Decimal
	TotalPending   decimal.Decimal
}

// AnalyticsRepository define las consultas de lectura del tablero y la cartera.
// Las implementaciones son read-only (no modifican datos).
type AnalyticsRepository interface {
	CountConsignmentsByStatus(ctx context.Context) (map[string]int, error)
	CountUnitsByState(ctx context.Context) (map[string]int, error)
	ConsigneeTotals(ctx context.Context) (ConsignmentTotals, error)
	// Receivables devuelve los consignatarios con saldo pendiente > 0, mayor saldo primero.
	Receivables(ctx context.Context, limit int) ([]*entity.Consignee, error)
}
