package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateConsigneeRequest body para POST /api/consignees.
type CreateConsigneeRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	TaxID string `json:"tax_id" validate:"max=30"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"max=30"`
}

// ConsigneeResponse salida de un consignatario con sus acumulados.
type ConsigneeResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	TaxID          string          `json:"tax_id,omitempty"`
	Email          string          `json:"email,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Active         bool            `json:"active"`
	TotalConsigned decimal.Decimal `json:"total_consigned"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	PendingBalance decimal.Decimal `json:"pending_balance"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	TaxID string `json:"tax_id" validate:"max=30"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"max=30"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
