package inventory

import (
	"github.com/jhoicas/consignaciones-api/internal/domain"
	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
)

// unitTransitions es el grafo de estados permitidos de una unidad.
var unitTransitions = map[string][]string{
	entity.UnitAvailable: {entity.UnitConsigned, entity.UnitSold, entity.UnitDefective, entity.UnitReserved},
	entity.UnitReserved:  {entity.UnitAvailable},
	entity.UnitConsigned: {entity.UnitSold, entity.UnitAvailable, entity.UnitDefective},
	entity.UnitSold:      {entity.UnitReturned},
	entity.UnitReturned:  {entity.UnitAvailable, entity.UnitDefective},
	entity.UnitDefective: {entity.UnitAvailable},
}

// IsUnitState indica si s es un estado conocido.
func IsUnitState(s string) bool {
	_, ok := unitTransitions[s]
	return ok
}

// CanTransition indica si from -> to está en el grafo.
func CanTransition(from, to string) bool {
	for _, s := range unitTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CheckManualTransition valida un cambio de estado pedido por edición directa.
// VENDIDO y CONSIGNADO solo se alcanzan (y CONSIGNADO solo se abandona) por Sell y por el
// flujo de consignación.
func CheckManualTransition(from, to string) error {
	if from == to {
		return nil
	}
	if !IsUnitState(to) {
		return domain.Invalid("estado de unidad desconocido %q", to)
	}
	if from == entity.UnitConsigned {
		return domain.Invalid("la unidad está consignada; use el reporte de venta o devolución")
	}
	switch to {
	case entity.UnitSold:
		return domain.Invalid("una unidad solo pasa a %s mediante una venta", entity.UnitSold)
	case entity.UnitConsigned:
		return domain.Invalid("una unidad solo pasa a %s mediante una consignación", entity.UnitConsigned)
	}
	if !CanTransition(from, to) {
		return domain.Invalid("transición no permitida de %s a %s", from, to)
	}
	return nil
}

// countsAsStock indica si una unidad en ese estado está físicamente en bodega.
func countsAsStock(state string) bool {
	switch state {
	case entity.UnitAvailable, entity.UnitReserved, entity.UnitReturned:
		return true
	}
	return false
}

// StockDelta es el efecto en el stock del producto de mover una unidad de from a to.
func StockDelta(from, to string) int {
	a, b := countsAsStock(from), countsAsStock(to)
	switch {
	case !a && b:
		return 1
	case a && !b:
		return -1
	}
	return 0
}
