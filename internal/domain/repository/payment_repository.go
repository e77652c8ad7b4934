package repository

import (
	"context"

	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
)

// PaymentRepository define el puerto del registro de pagos (append-only).
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	ListByConsignee(ctx context.Context, consigneeID string) ([]*entity.Payment, error)
}
