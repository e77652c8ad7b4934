package inventory

import "github.com/shopspring/decimal"

// ResolveCost aplica la precedencia de costo de la importación masiva:
// costo de la unidad -> costo por defecto del grupo -> costo base del producto -> 0.
func ResolveCost(unitCost, groupDefault, productBase *decimal.Decimal) decimal.Decimal {
	for _, c := range []*decimal.Decimal{unitCost, groupDefault, productBase} {
		if c != nil {
			return *c
		}
	}
	return decimal.Zero
}
