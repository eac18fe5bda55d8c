package entity

import "github.com/shopspring/decimal"

// Estados del carrito durante una sesión de cobro.
const (
	CartEmpty       = "empty"
	CartBuilding    = "building"
	CartCheckingOut = "checking_out"
	CartCommitted   = "committed"
	CartFailed      = "failed"
)

// CartLine es una línea del carrito con precios congelados al agregarla.
type CartLine struct {
	ProductID       string          `json:"productId"`
	ProductName     string          `json:"productName"`
	SKU             string          `json:"sku,omitempty"`
	UnitPriceAtSale decimal.Decimal `json:"unitPriceAtSale"`
	BasePriceAtSale decimal.Decimal `json:"basePriceAtSale"`
	Quantity        int             `json:"quantity"`
}

// LineTotal precio unitario por cantidad.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPriceAtSale.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
