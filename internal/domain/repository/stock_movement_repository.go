package repository

import (
	"context"
	"time"

	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
)

// StockMovementRepository define el puerto del diario de stock (solo inserción y consulta).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
}
