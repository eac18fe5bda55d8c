package sales_test

import (
	"context"
	"testing"
	"time"

	memstorage "github.com/gofiber/storage/memory/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/shop-erp/internal/application/sales"
	"github.com/jhoicas/shop-erp/internal/domain"
	"github.com/jhoicas/shop-erp/internal/domain/entity"
	"github.com/jhoicas/shop-erp/internal/infrastructure/kvstore"
	"github.com/jhoicas/shop-erp/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type stubCounter struct{ low, out int }

func (s stubCounter) Counts() (int, int, error) { return s.low, s.out, nil }

type stubPDF struct {
	sale     *entity.Sale
	customer *entity.Customer
	location *entity.Location
}

func (g *stubPDF) GenerateReceiptPDF(_ context.Context, sale *entity.Sale, _ entity.Settings, c *entity.Customer, l *entity.Location) ([]byte, error) {
	g.sale, g.customer, g.location = sale, c, l
	return []byte("%PDF-1.3"), nil
}

type fixture struct {
	ledger    *sales.LedgerUseCase
	customers *kvstore.CustomerRepository
	store     *kvstore.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := kvstore.Open(memstorage.New(), "")
	require.NoError(t, err)
	return &fixture{
		ledger:    sales.NewLedgerUseCase(kvstore.NewTxRunner(store), kvstore.NewSaleRepository(store), memory.NewLocationRepository()),
		customers: kvstore.NewCustomerRepository(store),
		store:     store,
	}
}

func item(id string, qty int, price, base int64) entity.SaleItem {
	return entity.SaleItem{
		ProductID: id, ProductName: "Producto " + id, SKU: id, Quantity: qty,
		UnitPriceAtSale: decimal.NewFromInt(price), BasePriceAtSale: decimal.NewFromInt(base),
	}
}

func (f *fixture) record(t *testing.T, date time.Time, items ...entity.SaleItem) *entity.Sale {
	t.Helper()
	s, err := f.ledger.RecordSale(context.Background(), sales.RecordSaleInput{
		LocationID: entity.LocationShopDowntown, Items: items, DiscountPercentage: decimal.Zero, Date: date,
	})
	require.NoError(t, err)
	return s
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordSale_RecalculaTotalesYClienteAnonimo(t *testing.T) {
	f := newFixture(t)
	s, err := f.ledger.RecordSale(context.Background(), sales.RecordSaleInput{
		LocationID:         entity.LocationShopMall,
		Items:              []entity.SaleItem{item("a", 2, 100, 60), item("b", 1, 50, 20)},
		DiscountPercentage: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(250).Equal(s.Subtotal))
	assert.True(t, decimal.NewFromInt(25).Equal(s.DiscountAmount))
	assert.True(t, decimal.NewFromInt(225).Equal(s.Total))
	assert.True(t, decimal.NewFromInt(110).Equal(s.EstimatedProfit), "la utilidad no prorratea el descuento")
	assert.True(t, decimal.NewFromInt(200).Equal(s.Items[0].LineTotal))
	assert.Equal(t, entity.AnonymousCustomerName, s.CustomerName)
	assert.Nil(t, s.CustomerID)
}

func TestRecordSale_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.RecordSale(ctx, sales.RecordSaleInput{LocationID: entity.LocationShopMall})
	assert.ErrorIs(t, err, domain.ErrEmptyCart)

	_, err = f.ledger.RecordSale(ctx, sales.RecordSaleInput{LocationID: "luna", Items: []entity.SaleItem{item("a", 1, 1, 1)}})
	assert.ErrorIs(t, err, domain.ErrInvalidLocation)

	_, err = f.ledger.RecordSale(ctx, sales.RecordSaleInput{
		LocationID: entity.LocationShopMall, Items: []entity.SaleItem{item("a", 1, 1, 1)}, DiscountPercentage: decimal.NewFromInt(101),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDiscount)

	ghost := "no-existe"
	_, err = f.ledger.RecordSale(ctx, sales.RecordSaleInput{
		LocationID: entity.LocationShopMall, Items: []entity.SaleItem{item("a", 1, 1, 1)}, CustomerID: &ghost,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := f.ledger.QuerySales(sales.SaleFilter{})
	require.NoError(t, err)
	assert.Empty(t, list, "ninguna venta rechazada queda en el libro")
}

func TestRecordSale_CongelaNombreDelCliente(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.customers.Create(&entity.Customer{ID: "c1", Name: "Robert Blackwood", TotalSpent: decimal.Zero}))
	id := "c1"
	s, err := f.ledger.RecordSale(context.Background(), sales.RecordSaleInput{
		LocationID: entity.LocationShopMall, Items: []entity.SaleItem{item("a", 1, 80, 40)}, CustomerID: &id,
	})
	require.NoError(t, err)

	require.NoError(t, f.customers.Delete("c1"))
	got, err := f.ledger.GetSale(s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Robert Blackwood", got.CustomerName)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas y analítica
// ──────────────────────────────────────────────────────────────────────────────

func TestQuerySales_RangoInclusivoMasRecientePrimero(t *testing.T) {
	f := newFixture(t)
	d1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	d3 := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	f.record(t, d1, item("a", 1, 10, 5))
	s2 := f.record(t, d2, item("a", 1, 10, 5))
	s3 := f.record(t, d3, item("a", 1, 10, 5))

	list, err := f.ledger.QuerySales(sales.SaleFilter{From: &d2, To: &d3})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, s3.ID, list[0].ID)
	assert.Equal(t, s2.ID, list[1].ID)
}

func TestSummary_TotalesHistoricos(t *testing.T) {
	f := newFixture(t)
	now := time.Now().UTC()
	f.record(t, now, item("a", 2, 100, 60))
	f.record(t, now, item("b", 1, 50, 20))

	sum, err := f.ledger.Summary()
	require.NoError(t, err)
	assert.Equal(t, 2, sum.SalesCount)
	assert.Equal(t, 3, sum.UnitsSold)
	assert.True(t, decimal.NewFromInt(250).Equal(sum.TotalRevenue))
	assert.True(t, decimal.NewFromInt(110).Equal(sum.TotalProfit))
	assert.True(t, decimal.NewFromInt(125).Equal(sum.AverageTicket))
}

func TestDailySalesAndProfit_DiasSinVentasEnCero(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC)
	f.record(t, now.AddDate(0, 0, -2), item("a", 1, 100, 60))
	f.record(t, now, item("a", 1, 100, 60))
	f.record(t, now, item("b", 1, 50, 20))
	f.record(t, now.AddDate(0, 0, -30), item("a", 1, 100, 60))

	series, err := f.ledger.DailySalesAndProfit(3, now)
	require.NoError(t, err)
	require.Len(t, series, 3)
	assert.Equal(t, "2026-10-16", series[0].Date)
	assert.Equal(t, 1, series[0].Sales)
	assert.Equal(t, 0, series[1].Sales)
	assert.True(t, series[1].Revenue.IsZero())
	assert.Equal(t, "2026-10-18", series[2].Date)
	assert.Equal(t, 2, series[2].Sales)
	assert.True(t, decimal.NewFromInt(150).Equal(series[2].Revenue))
	assert.True(t, decimal.NewFromInt(70).Equal(series[2].Profit))
}

func TestTopSellingProducts_OrdenPorUnidadesConMargen(t *testing.T) {
	f := newFixture(t)
	now := time.Now().UTC()
	f.record(t, now, item("a", 1, 100, 60), item("b", 3, 10, 5))
	f.record(t, now, item("a", 1, 100, 60))

	top, err := f.ledger.TopSellingProducts(1, nil, nil)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "b", top[0].ProductID)
	assert.Equal(t, 3, top[0].QuantitySold)
	assert.True(t, decimal.NewFromInt(50).Equal(top[0].MarginPercentage))
}

func TestDashboard_HoyYMesConConteoDeStock(t *testing.T) {
	f := newFixture(t)
	f.record(t, time.Time{}, item("a", 1, 100, 60))

	summary, err := sales.NewDashboardUseCase(f.ledger, stubCounter{low: 2, out: 1}).GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TodayCount)
	assert.Equal(t, 1, summary.MonthlyCount)
	assert.True(t, decimal.NewFromInt(100).Equal(summary.TodaySales))
	assert.True(t, decimal.NewFromInt(40).Equal(summary.TodayProfit))
	assert.Equal(t, 2, summary.LowStockCount)
	assert.Equal(t, 1, summary.OutOfStockCount)
	require.Len(t, summary.TopProducts, 1)
	assert.NotEmpty(t, summary.DateLabel)
}

// ──────────────────────────────────────────────────────────────────────────────
// Comprobante
// ──────────────────────────────────────────────────────────────────────────────

func TestDownloadReceiptPDF_NombreYUbicacion(t *testing.T) {
	f := newFixture(t)
	s := f.record(t, time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC), item("a", 1, 100, 60))
	gen := &stubPDF{}
	uc := sales.NewReceiptUseCase(kvstore.NewSaleRepository(f.store), f.customers, memory.NewLocationRepository(), kvstore.NewSettingsRepository(f.store), gen)

	pdf, name, err := uc.DownloadReceiptPDF(context.Background(), s.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, "recibo_20261018_"+s.ID[len(s.ID)-8:]+".pdf", name)
	assert.Nil(t, gen.customer)
	require.NotNil(t, gen.location)
	assert.Equal(t, entity.LocationShopDowntown, gen.location.ID)

	_, _, err = uc.DownloadReceiptPDF(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
