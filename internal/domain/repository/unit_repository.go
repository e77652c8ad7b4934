package repository

import (
	"context"

	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
)

// UnitRepository define el puerto de persistencia para unidades serializadas.
// Los Get devuelven (nil, nil) si la unidad no existe.
type UnitRepository interface {
	Create(ctx context.Context, unit *entity.InventoryUnit) error
	// CreateBatch inserta todas las unidades o ninguna (dentro de la tx del llamador).
	CreateBatch(ctx context.Context, units []*entity.InventoryUnit) error
	GetBySerial(ctx context.Context, serial string) (*entity.InventoryUnit, error)
	// GetBySerialForUpdate bloquea la fila: el chequeo de estado y la transición ocurren en la misma tx.
	GetBySerialForUpdate(ctx context.Context, serial string) (*entity.InventoryUnit, error)
	// GetByIDsForUpdate devuelve y bloquea las unidades encontradas; las ausentes se omiten.
	GetByIDsForUpdate(ctx context.Context, ids []string) ([]*entity.InventoryUnit, error)
	// ExistingSerials devuelve cuáles de los seriales dados ya están registrados.
	ExistingSerials(ctx context.Context, serials []string) ([]string, error)
	Update(ctx context.Context, unit *entity.InventoryUnit) error
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.InventoryUnit, error)
}
