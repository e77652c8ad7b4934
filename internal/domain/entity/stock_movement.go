package entity

import "time"

// Tipos de movimiento del libro de stock.
const (
	MovementEntry  = "ENTRADA"
	MovementExit   = "SALIDA"
	MovementAdjust = "AJUSTE"
	MovementReturn = "DEVOLUCION"
)

// StockMovement es un asiento del diario de stock (append-only).
type StockMovement struct {
	ID            string
	ProductID     string
	Type          string
	Quantity      int
	PreviousStock int
	NewStock      int
	Reference     string // unidad, consignación, lote de importación, etc.
	Reason        string
	CreatedAt     time.Time
}
