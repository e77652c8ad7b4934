// Package consignment contiene las reglas puras del ciclo de vida de una consignación.
package consignment

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
)

// Recompute evalúa el estado de una consignación después de cada evento de línea o pago.
// El orden importa: CANCELADA se evalúa primero para que una consignación totalmente
// devuelta nunca quede como LIQUIDADA.
func Recompute(current string, lines []*entity.ConsignmentDetail, paid, pending decimal.Decimal) string {
	if len(lines) == 0 {
		return current
	}
	allClosed, allReturned, anySold := true, true, false
	for _, l := range lines {
		switch l.State {
		case entity.DetailSold:
			anySold = true
			allReturned = false
		case entity.DetailReturned:
		default:
			allClosed = false
			allReturned = false
		}
	}
	switch {
	case allClosed && allReturned:
		return entity.ConsignmentCancelled
	case allClosed && pending.LessThanOrEqual(decimal.Zero):
		return entity.ConsignmentSettled
	case anySold || paid.GreaterThan(decimal.Zero):
		return entity.ConsignmentInProgress
	}
	return current
}
