package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterUnitRequest body para POST /api/units.
type RegisterUnitRequest struct {
	ProductID      string          `json:"product_id" validate:"required"`
	Serial         string          `json:"serial" validate:"required,max=100"`
	Cost           decimal.Decimal `json:"cost" validate:"dgte0"`
	Origin         string          `json:"origin" validate:"max=100"`
	Lot            string          `json:"lot" validate:"max=100"`
	WarrantyMonths *int            `json:"warranty_months,omitempty" validate:"omitempty,min=0"`
	EntryDate      *time.Time      `json:"entry_date,omitempty"`
	Notes          string          `json:"notes"`
}

// RegisterBatchRequest body para POST /api/units/batch.
type RegisterBatchRequest struct {
	ProductID      string          `json:"product_id" validate:"required"`
	Serials        []string        `json:"serials" validate:"required,min=1,dive,required"`
	Cost           decimal.Decimal `json:"cost" validate:"dgte0"`
	Origin         string          `json:"origin" validate:"max=100"`
	Lot            string          `json:"lot" validate:"max=100"`
	WarrantyMonths *int            `json:"warranty_months,omitempty" validate:"omitempty,min=0"`
	EntryDate      *time.Time      `json:"entry_date,omitempty"`
	Notes          string          `json:"notes"`
}

// SellUnitRequest body para POST /api/units/:serial/sell.
type SellUnitRequest struct {
	BuyerID   string          `json:"buyer_id" validate:"required"`
	SalePrice decimal.Decimal `json:"sale_price" validate:"dgte0"`
	Method    string          `json:"method" validate:"max=50"`
	Date      *time.Time      `json:"date,omitempty"`
	Notes     string          `json:"notes"`
}

// UpdateUnitRequest body para PATCH /api/units/:serial. Campos ausentes no cambian.
type UpdateUnitRequest struct {
	State          *string          `json:"state,omitempty" validate:"omitempty,oneof=DISPONIBLE RESERVADO CONSIGNADO VENDIDO DEVUELTO DEFECTUOSO"`
	Cost           *decimal.Decimal `json:"cost,omitempty"`
	Origin         *string          `json:"origin,omitempty"`
	Lot            *string          `json:"lot,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
	WarrantyMonths *int             `json:"warranty_months,omitempty" validate:"omitempty,min=0"`
}

// UnitResponse salida de una unidad.
type UnitResponse struct {
	ID             string           `json:"id"`
	ProductID      string           `json:"product_id"`
	Serial         string           `json:"serial"`
	Cost           decimal.Decimal  `json:"cost"`
	Origin         string           `json:"origin,omitempty"`
	Lot            string           `json:"lot,omitempty"`
	EntryDate      time.Time        `json:"entry_date"`
	WarrantyMonths int              `json:"warranty_months"`
	WarrantyExpiry time.Time        `json:"warranty_expiry"`
	State          string           `json:"state"`
	BuyerID        string           `json:"buyer_id,omitempty"`
	ConsigneeID    string           `json:"consignee_id,omitempty"`
	SalePrice      *decimal.Decimal `json:"sale_price,omitempty"`
	Margin         *decimal.Decimal `json:"margin,omitempty"`
	SaleDate       *time.Time       `json:"sale_date,omitempty"`
	Notes          string           `json:"notes,omitempty"`
}

// WarrantyResponse respuesta de GET /api/units/:serial/warranty.
type WarrantyResponse struct {
	Unit          UnitResponse `json:"unit"`
	InWarranty    bool         `json:"in_warranty"`
	DaysRemaining int          `json:"days_remaining"`
	SoldByUs      bool         `json:"sold_by_us"`
}

// ImportUnitRequest una unidad dentro de un grupo de importación.
type ImportUnitRequest struct {
	Serial string           `json:"serial" validate:"required"`
	Cost   *decimal.Decimal `json:"cost,omitempty"`
	Lot    string           `json:"lot"`
	Notes  string           `json:"notes"`
}

// ImportGroupRequest unidades de un producto (id o código).
type ImportGroupRequest struct {
	Product     string              `json:"product" validate:"required"`
	Units       []ImportUnitRequest `json:"units" validate:"required,min=1,dive"`
	CostDefault *decimal.Decimal    `json:"cost_default,omitempty"`
	LotDefault  string              `json:"lot_default"`
}

// ImportRequest body para POST /api/intake.
type ImportRequest struct {
	Origin         string               `json:"origin"`
	EntryDate      *time.Time           `json:"entry_date,omitempty"`
	Reference      string               `json:"reference"`
	WarrantyMonths *int                 `json:"warranty_months,omitempty" validate:"omitempty,min=0"`
	Groups         []ImportGroupRequest `json:"groups" validate:"required,min=1,dive"`
}
