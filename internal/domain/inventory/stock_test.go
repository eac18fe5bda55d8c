package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/shop-erp/internal/domain"
	"github.com/jhoicas/shop-erp/internal/domain/entity"
	"github.com/jhoicas/shop-erp/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Reglas de cada operación
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_RechazaCantidadNoPositiva(t *testing.T) {
	for _, qty := range []int{0, -1} {
		_, err := inventory.Receive(3, qty)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	}
	c, err := inventory.Receive(3, 4)
	require.NoError(t, err)
	assert.Equal(t, 7, c.New)
	assert.Equal(t, 4, c.Applied)
}

func TestAdjust_PisoEnCeroRegistraDeltaAplicado(t *testing.T) {
	c, err := inventory.Adjust(3, -100)
	require.NoError(t, err)
	assert.Equal(t, 0, c.New)
	assert.Equal(t, -3, c.Applied, "el delta aplicado es -3, no -100")
	assert.Equal(t, -100, c.Requested)
	assert.True(t, c.Clamped())

	c, err = inventory.Adjust(3, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, c.New)
	assert.False(t, c.Clamped())

	_, err = inventory.Adjust(3, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestSell_SobreventaQuedaEnCeroConFaltante(t *testing.T) {
	c, err := inventory.Sell(4, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, c.New)
	assert.Equal(t, -10, c.Requested)
	assert.Equal(t, 6, c.Shortfall)
	assert.Equal(t, -4, c.Applied)
}

func TestTransfer(t *testing.T) {
	out, in, err := inventory.Transfer(5, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, out.New)
	assert.Equal(t, -5, out.Applied)
	assert.Equal(t, 5, in.New)
	assert.Equal(t, 5, in.Applied)

	_, _, err = inventory.Transfer(2, 0, 3)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, _, err = inventory.Transfer(2, 0, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Replay y reconciliación
// ──────────────────────────────────────────────────────────────────────────────

func TestReplay_SumaEnOrdenDeLibroIncluyendoFaltantes(t *testing.T) {
	movs := []*entity.StockMovement{
		{Seq: 3, ProductID: "p1", LocationID: "a", Type: entity.MovementSale, QuantityChange: -10, NewQuantity: 0, Shortfall: 6},
		{Seq: 1, ProductID: "p1", LocationID: "a", Type: entity.MovementInitialStock, QuantityChange: 4, NewQuantity: 4},
		{Seq: 2, ProductID: "p1", LocationID: "b", Type: entity.MovementInitialStock, QuantityChange: 2, NewQuantity: 2},
	}
	got := inventory.Replay(movs)
	assert.Equal(t, 0, got[inventory.Key{ProductID: "p1", LocationID: "a"}])
	assert.Equal(t, 2, got[inventory.Key{ProductID: "p1", LocationID: "b"}])
}

func TestReconcile_ReportaDiferencias(t *testing.T) {
	p := &entity.Product{ID: "p1", Brand: "Acme", Model: "X", StockByLocation: map[string]int{"a": 5, "b": 1}}
	movs := []*entity.StockMovement{
		{Seq: 1, ProductID: "p1", ProductName: "Acme X", LocationID: "a", QuantityChange: 5},
		{Seq: 2, ProductID: "p1", ProductName: "Acme X", LocationID: "b", QuantityChange: 2},
		{Seq: 3, ProductID: "gone", ProductName: "Old Y", LocationID: "a", QuantityChange: 1},
	}
	diffs := inventory.Reconcile([]*entity.Product{p}, movs)
	require.Len(t, diffs, 2)
	assert.Equal(t, "gone", diffs[0].ProductID)
	assert.Equal(t, 1, diffs[0].LedgerStock)
	assert.Equal(t, "p1", diffs[1].ProductID)
	assert.Equal(t, "b", diffs[1].LocationID)
	assert.Equal(t, 1, diffs[1].LiveStock)
	assert.Equal(t, 2, diffs[1].LedgerStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Costo y valoración
// ──────────────────────────────────────────────────────────────────────────────

func TestWeightedAverageCost(t *testing.T) {
	got := inventory.WeightedAverageCost(10, decimal.NewFromInt(100), 10, decimal.NewFromInt(200))
	assert.True(t, got.Equal(decimal.NewFromInt(150)), "esperado 150, obtenido %s", got)

	assert.True(t, inventory.WeightedAverageCost(0, decimal.Zero, 0, decimal.Zero).IsZero())
}

func TestValue_UsaTotalCalculado(t *testing.T) {
	p := &entity.Product{
		ID: "p1", Brand: "Acme", Model: "X", Category: "Laptop",
		BasePrice: decimal.NewFromInt(10), SellingPrice: decimal.RequireFromString("15.50"),
		StockByLocation: map[string]int{"a": 2, "b": 3},
	}
	v := inventory.Value([]*entity.Product{p})
	assert.Equal(t, "50", v.TotalAtCost.String())
	assert.Equal(t, "77.5", v.TotalAtSalePrice.String())
	require.Len(t, v.Products, 1)
	assert.Equal(t, 5, v.Products[0].Quantity)
}

func TestStockByCategory(t *testing.T) {
	products := []*entity.Product{
		{Category: "Laptop", StockByLocation: map[string]int{"a": 2}},
		{Category: "Mouse", StockByLocation: map[string]int{"a": 7}},
		{Category: "Laptop", StockByLocation: map[string]int{"b": 1}},
		{Category: "Cable", StockByLocation: map[string]int{}},
	}
	got := inventory.StockByCategory(products, 5)
	require.Len(t, got, 2)
	assert.Equal(t, inventory.CategoryStock{Category: "Mouse", Quantity: 7}, got[0])
	assert.Equal(t, inventory.CategoryStock{Category: "Laptop", Quantity: 3}, got[1])
}
