package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	ConsignmentsByStatus map[string]int `json:"consignments_by_status"` // PENDIENTE, EN_PROCESO...
	UnitsByState         map[string]int `json:"units_by_state"`         // DISPONIBLE, CONSIGNADO...

	TotalConsigned decimal.Decimal `json:"total_consigned"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	TotalPending   decimal.Decimal `json:"total_pending"`

	GeneratedAt time.Time `json:"generated_at"`
}

// ConsignmentBalanceDTO saldo de una consignación dentro del estado de cuenta.
type ConsignmentBalanceDTO struct {
	ID           string          `json:"id"`
	Number       string          `json:"number"`
	Status       string          `json:"status"`
	DeliveryDate time.Time       `json:"delivery_date"`
	DueDate      *time.Time      `json:"due_date,omitempty"`
	TotalValue   decimal.Decimal `json:"total_value"`
	PaidValue    decimal.Decimal `json:"paid_value"`
	PendingValue decimal.Decimal `json:"pending_value"`
}

// ConsigneeBalanceDTO estado de cuenta de un consignatario.
// Reconciled indica que pending == consignado - pagado == Σ pendientes - abonos a cuenta.
type ConsigneeBalanceDTO struct {
	ConsigneeID         string                  `json:"consignee_id"`
	Name                string                  `json:"name"`
	TotalConsigned      decimal.Decimal         `json:"total_consigned"`
	TotalPaid           decimal.Decimal         `json:"total_paid"`
	PendingBalance      decimal.Decimal         `json:"pending_balance"`
	UnallocatedPayments decimal.Decimal         `json:"unallocated_payments"`
	Consignments        []ConsignmentBalanceDTO `json:"consignments"`
	Reconciled          bool                    `json:"reconciled"`
}

// ReceivableDTO un consignatario con saldo pendiente.
type ReceivableDTO struct {
	ConsigneeID    string          `json:"consignee_id"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone,omitempty"`
	PendingBalance decimal.Decimal `json:"pending_balance"`
	TotalConsigned decimal.Decimal `json:"total_consigned"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
}
