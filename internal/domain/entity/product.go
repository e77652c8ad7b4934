package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados derivados de stock. Nunca se asignan directamente: se recalculan desde los umbrales.
const (
	StockStatusOK         = "OK"
	StockStatusWarning    = "ADVERTENCIA"
	StockStatusCritical   = "CRITICO"
	StockStatusOutOfStock = "AGOTADO"
)

// Product representa un producto cuyo stock se compone de unidades serializadas.
// Stock solo lo mutan el libro de stock y el registro de unidades.
type Product struct {
	ID           string
	Code         string // código único
	Name         string
	BaseCost     decimal.Decimal // costo base usado como respaldo en la importación masiva
	Stock        int
	MinStock     int // umbral crítico
	WarningStock int // umbral de advertencia
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
