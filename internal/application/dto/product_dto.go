package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. El stock inicia en 0 y solo cambia
// con movimientos o unidades.
type CreateProductRequest struct {
	Code         string          `json:"code" validate:"required,max=100"`
	Name         string          `json:"name" validate:"required,max=200"`
	BaseCost     decimal.Decimal `json:"base_cost" validate:"dgte0"`
	MinStock     int             `json:"min_stock" validate:"min=0"`
	WarningStock int             `json:"warning_stock" validate:"min=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	BaseCost     decimal.Decimal `json:"base_cost"`
	Stock        int             `json:"stock"`
	MinStock     int             `json:"min_stock"`
	WarningStock int             `json:"warning_stock"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// RecordMovementRequest body para POST /api/products/:id/movements.
type RecordMovementRequest struct {
	Type      string `json:"type" validate:"required,oneof=ENTRADA SALIDA AJUSTE DEVOLUCION"`
	Quantity  int    `json:"quantity" validate:"min=0"`
	Reference string `json:"reference" validate:"max=200"`
	Reason    string `json:"reason" validate:"max=500"`
}

// MovementResponse un asiento del diario de stock.
type MovementResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	Type          string    `json:"type"`
	Quantity      int       `json:"quantity"`
	PreviousStock int       `json:"previous_stock"`
	NewStock      int       `json:"new_stock"`
	Reference     string    `json:"reference,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// RecordMovementResponse asiento creado y producto resultante.
type RecordMovementResponse struct {
	Movement MovementResponse `json:"movement"`
	Product  ProductResponse  `json:"product"`
}
