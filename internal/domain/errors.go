package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Inventario y punto de venta.
	ErrInvalidQuantity    = errors.New("cantidad inválida")
	ErrInvalidDiscount    = errors.New("el descuento debe estar entre 0 y 100")
	ErrInvalidLocation    = errors.New("ubicación inválida")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrOutOfStock         = errors.New("producto agotado en esta ubicación")
	ErrStockLimitReached  = errors.New("se alcanzó el stock máximo disponible")
	ErrEmptyCart          = errors.New("el carrito está vacío")
	ErrInvalidCartState   = errors.New("operación no permitida en el estado actual del carrito")
	ErrCheckoutInProgress = errors.New("hay un cobro en curso para este carrito")

	// ErrLedgerDesync indica que el stock y el libro de movimientos dejaron de cuadrar.
	// No es un fallo de negocio: rompe la invariante de reconciliación.
	ErrLedgerDesync = errors.New("stock y libro de movimientos desincronizados")
)

var businessErrors = []error{
	ErrNotFound, ErrUserNotFound, ErrEmailAlreadyExists, ErrInvalidInput, ErrDuplicate,
	ErrUnauthorized, ErrForbidden, ErrConflict,
	ErrInvalidQuantity, ErrInvalidDiscount, ErrInvalidLocation, ErrInsufficientStock,
	ErrOutOfStock, ErrStockLimitReached, ErrEmptyCart, ErrInvalidCartState, ErrCheckoutInProgress,
}

// IsBusinessError indica si err es un rechazo de validación o de regla de negocio.
// Cualquier otro error (almacenamiento, desincronización) es fatal para la operación.
func IsBusinessError(err error) bool {
	if err == nil || errors.Is(err, ErrLedgerDesync) {
		return false
	}
	for _, target := range businessErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
