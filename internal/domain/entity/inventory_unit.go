package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una unidad serializada.
const (
	UnitAvailable = "DISPONIBLE"
	UnitReserved  = "RESERVADO"
	UnitConsigned = "CONSIGNADO"
	UnitSold      = "VENDIDO"
	UnitReturned  = "DEVUELTO"
	UnitDefective = "DEFECTUOSO"
)

// InventoryUnit es una unidad física identificada por serial.
// El serial se guarda normalizado (mayúsculas, sin espacios) y no cambia una vez asignado.
type InventoryUnit struct {
	ID             string
	ProductID      string
	Serial         string
	Cost           decimal.Decimal
	Origin         string
	Lot            string
	EntryDate      time.Time
	WarrantyMonths int
	WarrantyExpiry time.Time
	State          string
	BuyerID        string // cliente de una venta directa
	ConsigneeID    string // consignatario que tiene o vendió la unidad
	SalePrice      *decimal.Decimal
	Margin         *decimal.Decimal
	SaleDate       *time.Time
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
