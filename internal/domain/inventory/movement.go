package inventory

import (
	"github.com/jhoicas/consignaciones-api/internal/domain"
	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
)

// MovementKind es la política de un tipo de movimiento: cómo transforma el stock actual.
// ENTRADA/SALIDA/DEVOLUCION son deltas; AJUSTE fija el valor absoluto.
type MovementKind struct {
	Type  string
	apply func(current, qty int) (int, error)
}

// Apply devuelve el nuevo stock o un error de negocio si el movimiento no es válido.
func (k MovementKind) Apply(current, qty int) (int, error) {
	return k.apply(current, qty)
}

// Delta devuelve la diferencia firmada que produce el movimiento.
func (k MovementKind) Delta(current, qty int) (int, error) {
	next, err := k.apply(current, qty)
	if err != nil {
		return 0, err
	}
	return next - current, nil
}

var (
	Entry = MovementKind{Type: entity.MovementEntry, apply: func(current, qty int) (int, error) {
		if qty <= 0 {
			return 0, domain.Invalid("la cantidad de una entrada debe ser mayor a cero")
		}
		return current + qty, nil
	}}

	Exit = MovementKind{Type: entity.MovementExit, apply: func(current, qty int) (int, error) {
		if qty <= 0 {
			return 0, domain.Invalid("la cantidad de una salida debe ser mayor a cero")
		}
		if qty > current {
			return 0, domain.Invalid("stock insuficiente: disponible %d, solicitado %d", current, qty)
		}
		return current - qty, nil
	}}

	// Adjust fija el stock en qty (conteo físico), no suma ni resta.
	Adjust = MovementKind{Type: entity.MovementAdjust, apply: func(_, qty int) (int, error) {
		if qty < 0 {
			return 0, domain.Invalid("el ajuste no puede dejar stock negativo")
		}
		return qty, nil
	}}

	Return = MovementKind{Type: entity.MovementReturn, apply: func(current, qty int) (int, error) {
		if qty <= 0 {
			return 0, domain.Invalid("la cantidad de una devolución debe ser mayor a cero")
		}
		return current + qty, nil
	}}
)

// KindOf resuelve el tipo textual a su política.
func KindOf(movementType string) (MovementKind, error) {
	switch movementType {
	case entity.MovementEntry:
		return Entry, nil
	case entity.MovementExit:
		return Exit, nil
	case entity.MovementAdjust:
		return Adjust, nil
	case entity.MovementReturn:
		return Return, nil
	}
	return MovementKind{}, domain.Invalid("tipo de movimiento desconocido %q", movementType)
}
