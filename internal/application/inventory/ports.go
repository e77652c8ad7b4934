package inventory

import (
	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
	"github.com/jhoicas/consignaciones-api/internal/domain/inventory"
)

// StockChange es el resultado de aplicar un movimiento dentro de una tx.
// Se conserva hasta después del Commit para decidir si hay que notificar stock bajo.
type StockChange struct {
	Product        *entity.Product
	Movement       *entity.StockMovement
	PreviousStatus string
}

func (c *StockChange) entersLowStock() bool {
	return c != nil && inventory.EntersLowStock(c.PreviousStatus, c.Product.Status)
}
