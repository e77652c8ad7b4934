package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
	"github.com/jhoicas/consignaciones-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo registro de pagos (append-only: no hay UPDATE ni DELETE).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador.
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Create inserta un pago.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO payments (id, consignee_id, consignment_id, amount, method, currency, currency_rate, date, reference, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.ConsigneeID, nullString(p.ConsignmentID), p.Amount, p.Method, p.Currency, p.CurrencyRate,
		p.Date, p.Reference, p.Notes, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// ListByConsignee lista los pagos por fecha.
func (r *PaymentRepo) ListByConsignee(ctx context.Context, consigneeID string) ([]*entity.Payment, error) {
	if !isUUID(consigneeID) {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, consignee_id, consignment_id, amount, method, currency, currency_rate, date, reference, notes, created_at
		FROM payments WHERE consignee_id = $1 ORDER BY date, created_at`, consigneeID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Payment
	for rows.Next() {
		var (
			p             entity.Payment
			consignmentID *string
		)
		if err := rows.Scan(&p.ID, &p.ConsigneeID, &consignmentID, &p.Amount, &p.Method, &p.Currency,
			&p.CurrencyRate, &p.Date, &p.Reference, &p.Notes, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		p.ConsignmentID = derefString(consignmentID)
		list = append(list, &p)
	}
	return list, rows.Err()
}
