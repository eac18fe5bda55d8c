package sales_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/shop-erp/internal/domain"
	"github.com/jhoicas/shop-erp/internal/domain/entity"
	"github.com/jhoicas/shop-erp/internal/domain/sales"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeTotals_DescuentoDiezPorciento(t *testing.T) {
	items := []entity.SaleItem{{ProductID: "x", Quantity: 2, UnitPriceAtSale: dec("10.00"), BasePriceAtSale: dec("6.00")}}

	got, err := sales.ComputeTotals(items, dec("10"))
	require.NoError(t, err)
	assert.True(t, got.Subtotal.Equal(dec("20.00")), "subtotal %s", got.Subtotal)
	assert.True(t, got.DiscountAmount.Equal(dec("2.00")), "descuento %s", got.DiscountAmount)
	assert.True(t, got.Total.Equal(dec("18.00")), "total %s", got.Total)
	assert.True(t, got.EstimatedProfit.Equal(dec("8.00")), "utilidad %s", got.EstimatedProfit)
}

func TestComputeTotals_Redondeo(t *testing.T) {
	items := []entity.SaleItem{{Quantity: 3, UnitPriceAtSale: dec("33.333"), BasePriceAtSale: dec("0")}}
	got, err := sales.ComputeTotals(items, dec("12.5"))
	require.NoError(t, err)
	assert.Equal(t, "100", got.Subtotal.String())
	assert.Equal(t, "12.5", got.DiscountAmount.String())
	assert.Equal(t, "87.5", got.Total.String())
}

func TestComputeTotals_Validaciones(t *testing.T) {
	item := entity.SaleItem{Quantity: 1, UnitPriceAtSale: dec("1")}
	cases := []struct {
		name  string
		items []entity.SaleItem
		pct   decimal.Decimal
		want  error
	}{
		{"descuento negativo", []entity.SaleItem{item}, dec("-1"), domain.ErrInvalidDiscount},
		{"descuento mayor a 100", []entity.SaleItem{item}, dec("100.01"), domain.ErrInvalidDiscount},
		{"cantidad cero", []entity.SaleItem{{Quantity: 0, UnitPriceAtSale: dec("1")}}, dec("0"), domain.ErrInvalidQuantity},
		{"precio negativo", []entity.SaleItem{{Quantity: 1, UnitPriceAtSale: dec("-1")}}, dec("0"), domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := sales.ComputeTotals(tc.items, tc.pct)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestValidateDiscount_Limites(t *testing.T) {
	assert.NoError(t, sales.ValidateDiscount(dec("0")))
	assert.NoError(t, sales.ValidateDiscount(dec("100")))
}
