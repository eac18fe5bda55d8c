// Package sales contiene el cálculo de totales de una venta, independiente de cómo se almacene.
package sales

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/shop-erp/internal/domain"
	"github.com/jhoicas/shop-erp/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Totals montos de una venta redondeados a 2 decimales.
type Totals struct {
	Subtotal        decimal.Decimal
	DiscountAmount  decimal.Decimal
	Total           decimal.Decimal
	EstimatedProfit decimal.Decimal
}

// ValidateDiscount exige un porcentaje en [0, 100].
func ValidateDiscount(pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return domain.ErrInvalidDiscount
	}
	return nil
}

// ComputeTotals recalcula subtotal, descuento, total y utilidad estimada desde las líneas.
// Utilidad = Σ (precio de venta - precio base) * cantidad, sin prorratear el descuento.
func ComputeTotals(items []entity.SaleItem, discountPct decimal.Decimal) (Totals, error) {
	if err := ValidateDiscount(discountPct); err != nil {
		return Totals{}, err
	}
	subtotal := decimal.Zero
	profit := decimal.Zero
	for _, it := range items {
		if it.Quantity <= 0 {
			return Totals{}, domain.ErrInvalidQuantity
		}
		if it.UnitPriceAtSale.IsNegative() || it.BasePriceAtSale.IsNegative() {
			return Totals{}, domain.ErrInvalidInput
		}
		qty := decimal.NewFromInt(int64(it.Quantity))
		subtotal = subtotal.Add(it.UnitPriceAtSale.Mul(qty))
		profit = profit.Add(it.UnitPriceAtSale.Sub(it.BasePriceAtSale).Mul(qty))
	}
	subtotal = subtotal.Round(2)
	discount := subtotal.Mul(discountPct).Div(hundred).Round(2)
	return Totals{
		Subtotal:        subtotal,
		DiscountAmount:  discount,
		Total:           subtotal.Sub(discount).Round(2),
		EstimatedProfit: profit.Round(2),
	}, nil
}

// LineTotal total de una línea redondeado.
func LineTotal(unitPrice decimal.Decimal, qty int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(qty))).Round(2)
}
