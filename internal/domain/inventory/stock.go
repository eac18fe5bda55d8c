// Package inventory contiene las reglas puras de stock por ubicación:
// cómo cada operación transforma una cantidad y qué se anota en el libro.
package inventory

import "github.com/jhoicas/shop-erp/internal/domain"

// Change describe el efecto de una operación sobre el stock de una ubicación.
type Change struct {
	Previous  int // stock antes de la operación
	New       int // stock después de la operación
	Requested int // variación solicitada (con signo)
	Applied   int // variación realmente aplicada (con signo)
	Shortfall int // unidades vendidas por encima del stock (solo ventas)
}

// Clamped indica que la variación aplicada difiere de la solicitada por el piso en cero.
func (c Change) Clamped() bool { return c.Applied != c.Requested }

// Receive suma mercancía. La cantidad debe ser positiva.
func Receive(current, qty int) (Change, error) {
	if qty <= 0 {
		return Change{}, domain.ErrInvalidQuantity
	}
	return Change{Previous: current, New: current + qty, Requested: qty, Applied: qty}, nil
}

// Adjust aplica un delta con piso en cero: un ajuste nunca deja stock negativo.
func Adjust(current, delta int) (Change, error) {
	if delta == 0 {
		return Change{}, domain.ErrInvalidQuantity
	}
	next := current + delta
	if next < 0 {
		next = 0
	}
	return Change{Previous: current, New: next, Requested: delta, Applied: next - current}, nil
}

// Sell descuenta una venta ya confirmada. Si no alcanza, el stock queda en cero
// y la diferencia se registra como faltante en vez de rechazar la venta.
func Sell(current, qty int) (Change, error) {
	if qty <= 0 {
		return Change{}, domain.ErrInvalidQuantity
	}
	next := current - qty
	shortfall := 0
	if next < 0 {
		shortfall = -next
		next = 0
	}
	return Change{Previous: current, New: next, Requested: -qty, Applied: next - current, Shortfall: shortfall}, nil
}

// Transfer mueve qty de una ubicación a otra. A diferencia de Sell, rechaza si el origen no alcanza.
func Transfer(source, dest, qty int) (out Change, in Change, err error) {
	if qty <= 0 {
		return Change{}, Change{}, domain.ErrInvalidQuantity
	}
	if source < qty {
		return Change{}, Change{}, domain.ErrInsufficientStock
	}
	out = Change{Previous: source, New: source - qty, Requested: -qty, Applied: -qty}
	in = Change{Previous: dest, New: dest + qty, Requested: qty, Applied: qty}
	return out, in, nil
}
