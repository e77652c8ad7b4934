package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una consignación.
const (
	ConsignmentPending    = "PENDIENTE"
	ConsignmentInProgress = "EN_PROCESO"
	ConsignmentSettled    = "LIQUIDADA"
	ConsignmentExpired    = "VENCIDA"
	ConsignmentCancelled  = "CANCELADA"
)

// Estados de una línea de consignación. VENDIDO y DEVUELTO son terminales.
const (
	DetailConsigned = "CONSIGNADO"
	DetailSold      = "VENDIDO"
	DetailReturned  = "DEVUELTO"
)

// Consignment es la cabecera de una entrega de unidades a un consignatario.
// PendingValue = TotalValue - PaidValue; TotalValue >= PaidValue siempre.
type Consignment struct {
	ID           string
	Number       string // CON-001, CON-002...
	ConsigneeID  string
	DeliveryDate time.Time
	DueDate      *time.Time
	TotalValue   decimal.Decimal
	PaidValue    decimal.Decimal
	PendingValue decimal.Decimal
	Status       string
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ConsignmentDetail es una línea: una unidad concreta a un precio pactado.
type ConsignmentDetail struct {
	ID            string
	ConsignmentID string
	ProductID     string
	UnitID        string
	Serial        string
	Price         decimal.Decimal
	State         string
	ClosedAt      *time.Time // fecha de venta o devolución
	CreatedAt     time.Time
}
