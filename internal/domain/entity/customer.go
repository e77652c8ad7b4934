package entity

import "time"

// Customer representa un comprador directo de unidades (venta fuera de consignación).
type Customer struct {
	ID        string
	Name      string
	TaxID     string // NIT o Cédula (Colombia)
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
