package ports

import (
	"context"

	"github.com/jhoicas/consignaciones-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn retorna error se hace Rollback y ninguna escritura queda aplicada.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error
}
