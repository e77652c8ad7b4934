package inventory

import "github.com/jhoicas/consignaciones-api/internal/domain/entity"

// StockStatus clasifica el stock contra los umbrales del producto.
func StockStatus(stock, minStock, warningStock int) string {
	switch {
	case stock <= 0:
		return entity.StockStatusOutOfStock
	case stock <= minStock:
		return entity.StockStatusCritical
	case stock <= warningStock:
		return entity.StockStatusWarning
	}
	return entity.StockStatusOK
}

// EntersLowStock indica si el cambio de estado debe notificarse (OK -> no OK).
func EntersLowStock(previous, current string) bool {
	return previous == entity.StockStatusOK && current != entity.StockStatusOK
}
