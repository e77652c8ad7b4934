package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
	"github.com/jhoicas/consignaciones-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el tablero y la cartera.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// CountConsignmentsByStatus agrupa las consignaciones por estado.
func (r *AnalyticsRepo) CountConsignmentsByStatus(ctx context.Context) (map[string]int, error) {
	return r.countBy(ctx, `SELECT status, COUNT(*) FROM consignments GROUP BY status`)
}

// CountUnitsByState agrupa las unidades por estado.
func (r *AnalyticsRepo) CountUnitsByState(ctx context.Context) (map[string]int, error) {
	return r.countBy(ctx, `SELECT state, COUNT(*) FROM inventory_units GROUP BY state`)
}

func (r *AnalyticsRepo) countBy(ctx context.Context, query string) (map[string]int, error) {
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count by: %w", err)
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var (
			key string
			n   int
		)
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		out[key] = n
	}
	return out, rows.Err()
}

// ConsigneeTotals suma los acumulados de todos los consignatarios.
func (r *AnalyticsRepo) ConsigneeTotals(ctx context.Context) (repository.ConsignmentTotals, error) {
	var t repository.ConsignmentTotals
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_consigned), 0), COALESCE(SUM(total_paid), 0), COALESCE(SUM(pending_balance), 0)
		FROM consignees`).Scan(&t.TotalConsigned, &t.TotalPaid, &t.TotalPending)
	if err != nil {
		return t, fmt.Errorf("consignee totals: %w", err)
	}
	return t, nil
}

// Receivables lista los consignatarios con saldo pendiente, mayor saldo primero.
func (r *AnalyticsRepo) Receivables(ctx context.Context, limit int) ([]*entity.Consignee, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+consigneeColumns+` FROM consignees
		WHERE pending_balance > 0
		ORDER BY pending_balance DESC, name
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("receivables: %w", err)
	}
	return collectConsignees(rows)
}
