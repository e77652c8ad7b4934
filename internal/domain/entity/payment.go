package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment es un abono de un consignatario, opcionalmente imputado a una consignación.
// Inmutable: las correcciones se hacen con un nuevo registro.
type Payment struct {
	ID            string
	ConsigneeID   string
	ConsignmentID string // vacío si es un abono a cuenta
	Amount        decimal.Decimal
	Method        string
	Currency      string
	CurrencyRate  *decimal.Decimal // tasa de cambio al momento del pago (opcional)
	Date          time.Time
	Reference     string
	Notes         string
	CreatedAt     time.Time
}
