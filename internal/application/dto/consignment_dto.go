package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConsignmentLineRequest una unidad a consignar.
type ConsignmentLineRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	UnitID    string          `json:"unit_id" validate:"required"`
	Price     decimal.Decimal `json:"price" validate:"dgte0"`
}

// CreateConsignmentRequest body para POST /api/consignments.
type CreateConsignmentRequest struct {
	ConsigneeID  string                   `json:"consignee_id" validate:"required"`
	Lines        []ConsignmentLineRequest `json:"lines" validate:"required,min=1,dive"`
	DeliveryDate *time.Time               `json:"delivery_date,omitempty"`
	DueDate      *time.Time               `json:"due_date,omitempty"`
	Notes        string                   `json:"notes"`
}

// ReportSaleRequest body para POST /api/consignments/:id/sales.
type ReportSaleRequest struct {
	LineIDs  []string   `json:"line_ids" validate:"required,min=1,dive,required"`
	SaleDate *time.Time `json:"sale_date,omitempty"`
}

// ReportReturnRequest body para POST /api/consignments/:id/returns.
type ReportReturnRequest struct {
	LineIDs          []string   `json:"line_ids" validate:"required,min=1,dive,required"`
	DefectiveLineIDs []string   `json:"defective_line_ids,omitempty" validate:"omitempty,dive,required"`
	ReturnDate       *time.Time `json:"return_date,omitempty"`
}

// ConsignmentLineResponse una línea de consignación.
type ConsignmentLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	UnitID    string          `json:"unit_id"`
	Serial    string          `json:"serial"`
	Price     decimal.Decimal `json:"price"`
	State     string          `json:"state"`
	ClosedAt  *time.Time      `json:"closed_at,omitempty"`
}

// ConsignmentResponse cabecera con líneas (las líneas se omiten en listados).
type ConsignmentResponse struct {
	ID           string                    `json:"id"`
	Number       string                    `json:"number"`
	ConsigneeID  string                    `json:"consignee_id"`
	DeliveryDate time.Time                 `json:"delivery_date"`
	DueDate      *time.Time                `json:"due_date,omitempty"`
	TotalValue   decimal.Decimal           `json:"total_value"`
	PaidValue    decimal.Decimal           `json:"paid_value"`
	PendingValue decimal.Decimal           `json:"pending_value"`
	Status       string                    `json:"status"`
	Notes        string                    `json:"notes,omitempty"`
	Lines        []ConsignmentLineResponse `json:"lines,omitempty"`
}

// RegisterPaymentRequest body para POST /api/consignees/:id/payments.
type RegisterPaymentRequest struct {
	Amount        decimal.Decimal  `json:"amount" validate:"dgt0"`
	Method        string           `json:"method" validate:"required,max=50"`
	ConsignmentID string           `json:"consignment_id,omitempty"`
	Currency      string           `json:"currency,omitempty" validate:"omitempty,len=3"`
	CurrencyRate  *decimal.Decimal `json:"currency_rate,omitempty"`
	Reference     string           `json:"reference" validate:"max=200"`
	Notes         string           `json:"notes"`
	Date          *time.Time       `json:"date,omitempty"`
}

// PaymentResponse un pago registrado.
type PaymentResponse struct {
	ID            string           `json:"id"`
	ConsigneeID   string           `json:"consignee_id"`
	ConsignmentID string           `json:"consignment_id,omitempty"`
	Amount        decimal.Decimal  `json:"amount"`
	Method        string           `json:"method"`
	Currency      string           `json:"currency"`
	CurrencyRate  *decimal.Decimal `json:"currency_rate,omitempty"`
	Date          time.Time        `json:"date"`
	Reference     string           `json:"reference,omitempty"`
	Notes         string           `json:"notes,omitempty"`
}
