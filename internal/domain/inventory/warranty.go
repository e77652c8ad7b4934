package inventory

import (
	"math"
	"time"
)

// WarrantyExpiry calcula el vencimiento de garantía desde base (fecha de entrada o de venta).
func WarrantyExpiry(base time.Time, months int) time.Time {
	return base.AddDate(0, months, 0)
}

// WarrantyStatus resume la garantía de una unidad a la fecha now.
type WarrantyStatus struct {
	InWarranty    bool
	DaysRemaining int
}

// EvaluateWarranty devuelve si la garantía sigue vigente y los días restantes (mínimo 0).
func EvaluateWarranty(expiry, now time.Time) WarrantyStatus {
	if !now.Before(expiry) {
		return WarrantyStatus{}
	}
	days := int(math.Floor(expiry.Sub(now).Hours() / 24))
	if days < 0 {
		days = 0
	}
	return WarrantyStatus{InWarranty: true, DaysRemaining: days}
}
