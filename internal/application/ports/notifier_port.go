package ports

import "context"

// LowStockEvent se emite cuando un producto pasa de OK a un estado de stock bajo.
type LowStockEvent struct {
	ProductID    string `json:"product_id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	CurrentStock int    `json:"current_stock"`
	MinStock     int    `json:"min_stock"`
	Status       string `json:"status"`
}

// LowStockNotifier es el puerto de salida para alertas de stock bajo.
// Se invoca después del Commit; su error nunca revierte el movimiento.
type LowStockNotifier interface {
	NotifyLowStock(ctx context.Context, event LowStockEvent) error
}
