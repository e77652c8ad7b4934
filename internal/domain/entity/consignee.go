package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Consignee es un revendedor que recibe unidades en consignación.
// Los totales solo se mueven desde el flujo de consignación y el libro de liquidaciones.
type Consignee struct {
	ID             string
	Name           string
	TaxID          string
	Email          string
	Phone          string
	Active         bool
	TotalConsigned decimal.Decimal
	TotalPaid      decimal.Decimal
	PendingBalance decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
