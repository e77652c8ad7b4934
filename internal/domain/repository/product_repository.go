package repository

import (
	"context"

	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los Get devuelven (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// UpdateStock fija stock y estado derivado; solo lo usa el libro de stock.
	UpdateStock(ctx context.Context, id string, stock int, status string) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
}
