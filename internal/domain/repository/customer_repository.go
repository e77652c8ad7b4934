package repository

import (
	"context"

	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para compradores directos.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
}
