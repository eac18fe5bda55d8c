package checkout_test

import (
	"context"
	"sync"
	"testing"

	memstorage "github.com/gofiber/storage/memory/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/shop-erp/internal/application/checkout"
	"github.com/jhoicas/shop-erp/internal/application/customer"
	"github.com/jhoicas/shop-erp/internal/application/dto"
	"github.com/jhoicas/shop-erp/internal/application/inventory"
	"github.com/jhoicas/shop-erp/internal/application/ports"
	"github.com/jhoicas/shop-erp/internal/application/sales"
	"github.com/jhoicas/shop-erp/internal/domain"
	"github.com/jhoicas/shop-erp/internal/domain/entity"
	"github.com/jhoicas/shop-erp/internal/domain/repository"
	"github.com/jhoicas/shop-erp/internal/infrastructure/kvstore"
	"github.com/jhoicas/shop-erp/internal/infrastructure/memory"
)

const cashier = "cajero-1"

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	runner       *kvstore.TxRunner
	productRepo  *kvstore.ProductRepository
	customerRepo *kvstore.CustomerRepository
	locations    *memory.LocationRepository

	cart      *checkout.CartUseCase
	stock     *inventory.StockUseCase
	products  *inventory.ProductUseCase
	customers *customer.CustomerUseCase
	reports   *inventory.ReportsUseCase
	ledger    *sales.LedgerUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := kvstore.Open(memstorage.New(), "")
	require.NoError(t, err)
	locations := memory.NewLocationRepository()
	runner := kvstore.NewTxRunner(store)
	productRepo := kvstore.NewProductRepository(store)
	movRepo := kvstore.NewStockMovementRepository(store)
	saleRepo := kvstore.NewSaleRepository(store)
	customerRepo := kvstore.NewCustomerRepository(store)

	f := &fixture{
		runner:       runner,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		locations:    locations,

		stock:     inventory.NewStockUseCase(runner, productRepo, locations, ports.NopNotifier{}),
		products:  inventory.NewProductUseCase(runner, productRepo, locations, entity.LocationCentralWarehouse),
		customers: customer.NewCustomerUseCase(runner, customerRepo),
		reports:   inventory.NewReportsUseCase(productRepo, movRepo, saleRepo, kvstore.NewSettingsRepository(store)),
		ledger:    sales.NewLedgerUseCase(runner, saleRepo, locations),
	}
	f.cart = checkout.NewCartUseCase(
		checkout.NewRegistry(entity.LocationShopDowntown),
		runner, f.ledger, f.stock, productRepo, locations, customerRepo, nil,
	)
	return f
}

// blockingRecorder retiene el primer registro de venta, ya dentro de la transacción
// del cobro, hasta que se cierre release.
type blockingRecorder struct {
	checkout.SaleRecorder
	once    sync.Once
	inside  chan struct{}
	release chan struct{}
}

func (r *blockingRecorder) RecordSaleInTx(
	saleRepo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
	in sales.RecordSaleInput,
) (*entity.Sale, error) {
	r.once.Do(func() {
		close(r.inside)
		<-r.release
	})
	return r.SaleRecorder.RecordSaleInTx(saleRepo, customerRepo, in)
}

func (f *fixture) product(t *testing.T, sku string, price int64, stock map[string]int) string {
	t.Helper()
	p, err := f.products.Create(context.Background(), "admin", dto.CreateProductRequest{
		SKU: sku, Category: "Laptop", Brand: "Innovatech", Model: "Modelo " + sku,
		BasePrice: decimal.NewFromInt(price / 2), SellingPrice: decimal.NewFromInt(price), BestPrice: decimal.NewFromInt(price),
		InitialStock: stock,
	})
	require.NoError(t, err)
	return p.ID
}

// ──────────────────────────────────────────────────────────────────────────────
// Armado del carrito
// ──────────────────────────────────────────────────────────────────────────────

func TestCart_NuevoEstaVacioEnUbicacionPorDefecto(t *testing.T) {
	f := newFixture(t)
	snap := f.cart.Get(cashier)
	assert.Equal(t, entity.CartEmpty, snap.State)
	assert.Equal(t, entity.LocationShopDowntown, snap.LocationID)
	assert.True(t, snap.Totals.Total.IsZero())
}

func TestAddLine_TopeEnStockDeLaUbicacion(t *testing.T) {
	f := newFixture(t)
	id := f.product(t, "LT001", 100, map[string]int{entity.LocationShopDowntown: 2})

	_, err := f.cart.AddLine(cashier, id)
	require.NoError(t, err)
	res, err := f.cart.AddLine(cashier, id)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Cart.Lines[0].Quantity)
	assert.Equal(t, entity.CartBuilding, res.Cart.State)

	_, err = f.cart.AddLine(cashier, id)
	assert.ErrorIs(t, err, domain.ErrStockLimitReached)
	assert.Equal(t, 2, f.cart.Get(cashier).ItemCount())
}

func TestAddLine_SinStockEnUbicacion(t *testing.T) {
	f := newFixture(t)
	id := f.product(t, "PC002", 100, map[string]int{entity.LocationCentralWarehouse: 5})
	_, err := f.cart.AddLine(cashier, id)
	assert.ErrorIs(t, err, domain.ErrOutOfStock)
}

func TestSetQuantity_RecortaYCeroQuita(t *testing.T) {
	f := newFixture(t)
	id := f.product(t, "LT001", 100, map[string]int{entity.LocationShopDowntown: 3})
	_, err := f.cart.AddLine(cashier, id)
	require.NoError(t, err)

	res, err := f.cart.SetQuantity(cashier, id, 10)
	require.NoError(t, err)
	assert.True(t, res.Capped)
	assert.Equal(t, 3, res.Cart.Lines[0].Quantity)

	res, err = f.cart.SetQuantity(cashier, id, 0)
	require.NoError(t, err)
	assert.Empty(t, res.Cart.Lines)
	assert.Equal(t, entity.CartEmpty, res.Cart.State)
}

func TestSetLocation_AjustaLineasAlNuevoStock(t *testing.T) {
	f := newFixture(t)
	both := f.product(t, "LT001", 100, map[string]int{entity.LocationShopDowntown: 3, entity.LocationShopMall: 1})
	only := f.product(t, "ACC003", 20, map[string]int{entity.LocationShopDowntown: 1})
	for _, id := range []string{both, both, both, only} {
		_, err := f.cart.AddLine(cashier, id)
		require.NoError(t, err)
	}

	res, err := f.cart.SetLocation(cashier, entity.LocationShopMall)
	require.NoError(t, err)
	assert.True(t, res.Capped)
	assert.Len(t, res.Adjustments, 2)
	require.Len(t, res.Cart.Lines, 1)
	assert.Equal(t, both, res.Cart.Lines[0].ProductID)
	assert.Equal(t, 1, res.Cart.Lines[0].Quantity)
	assert.Equal(t, entity.LocationShopMall, res.Cart.LocationID)
}

func TestSetLocation_Invalida(t *testing.T) {
	f := newFixture(t)
	_, err := f.cart.SetLocation(cashier, "luna")
	assert.ErrorIs(t, err, domain.ErrInvalidLocation)
}

func TestApplyDiscount_FueraDeRangoQuedaEnCero(t *testing.T) {
	f := newFixture(t)
	id := f.product(t, "LT001", 100, map[string]int{entity.LocationShopDowntown: 1})
	_, err := f.cart.AddLine(cashier, id)
	require.NoError(t, err)

	_, err = f.cart.ApplyDiscount(cashier, decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(90).Equal(f.cart.Get(cashier).Totals.Total))

	_, err = f.cart.ApplyDiscount(cashier, decimal.NewFromInt(150))
	assert.ErrorIs(t, err, domain.ErrInvalidDiscount)
	assert.True(t, f.cart.Get(cashier).DiscountPercentage.IsZero())
}

func TestSetCustomer_Inexistente(t *testing.T) {
	f := newFixture(t)
	ghost := "no-existe"
	_, err := f.cart.SetCustomer(cashier, &ghost)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cobro
// ──────────────────────────────────────────────────────────────────────────────

func TestCommit_CarritoVacio(t *testing.T) {
	f := newFixture(t)
	_, err := f.cart.Commit(context.Background(), cashier)
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestCommit_RegistraVentaDescuentaStockYSumaAlCliente(t *testing.T) {
	f := newFixture(t)
	id := f.product(t, "LT001", 100, map[string]int{entity.LocationShopDowntown: 3})
	c, err := f.customers.Create(dto.CreateCustomerRequest{Name: "Alice Goldwin", CustomerType: entity.CustomerVIP})
	require.NoError(t, err)

	_, err = f.cart.AddLine(cashier, id)
	require.NoError(t, err)
	_, err = f.cart.SetQuantity(cashier, id, 2)
	require.NoError(t, err)
	_, err = f.cart.SetCustomer(cashier, &c.ID)
	require.NoError(t, err)
	_, err = f.cart.ApplyDiscount(cashier, decimal.NewFromInt(5))
	require.NoError(t, err)

	res, err := f.cart.Commit(context.Background(), cashier)
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.True(t, decimal.NewFromInt(190).Equal(res.Sale.Total), "200 menos el 5%")
	assert.Equal(t, "Alice Goldwin", res.Sale.CustomerName)
	assert.Equal(t, entity.LocationShopDowntown, res.Sale.LocationID)

	assert.Equal(t, 1, f.stock.GetAvailable(id, entity.LocationShopDowntown))
	got, _ := f.customers.GetByID(c.ID)
	assert.True(t, decimal.NewFromInt(190).Equal(got.TotalSpent))

	snap := f.cart.Get(cashier)
	assert.Equal(t, entity.CartCommitted, snap.State)
	assert.Empty(t, snap.Lines)
	assert.Equal(t, entity.LocationShopDowntown, snap.LocationID, "la ubicación se conserva tras el cobro")

	d, err := f.reports.Reconcile()
	require.NoError(t, err)
	assert.Empty(t, d)
}

func TestCommit_SobreventaAvisaPeroRegistra(t *testing.T) {
	f := newFixture(t)
	id := f.product(t, "LT001", 100, map[string]int{entity.LocationShopDowntown: 1})
	_, err := f.cart.AddLine(cashier, id)
	require.NoError(t, err)

	// otra caja vende la última unidad antes del cobro
	_, err = f.stock.Adjust(context.Background(), inventory.AdjustInput{ProductID: id, LocationID: entity.LocationShopDowntown, Delta: -1})
	require.NoError(t, err)

	res, err := f.cart.Commit(context.Background(), cashier)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, 0, f.stock.GetAvailable(id, entity.LocationShopDowntown))

	d, err := f.reports.Reconcile()
	require.NoError(t, err)
	assert.Empty(t, d, "el faltante queda anotado y el libro sigue cuadrando")
}

func TestCommit_FalloConservaLineasYNoRegistraVenta(t *testing.T) {
	f := newFixture(t)
	id := f.product(t, "LT001", 100, map[string]int{entity.LocationShopDowntown: 2})
	_, err := f.cart.AddLine(cashier, id)
	require.NoError(t, err)
	require.NoError(t, f.products.Delete(context.Background(), id, "admin"))

	_, err = f.cart.Commit(context.Background(), cashier)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	snap := f.cart.Get(cashier)
	assert.Equal(t, entity.CartFailed, snap.State)
	assert.Len(t, snap.Lines, 1)
	assert.NotEmpty(t, snap.LastError)

	list, err := f.ledger.QuerySales(sales.SaleFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCommit_CobroEnCursoBloqueaOtroCobroYEdiciones(t *testing.T) {
	f := newFixture(t)
	id := f.product(t, "LT001", 100, map[string]int{entity.LocationShopDowntown: 3})
	other := f.product(t, "ACC003", 10, map[string]int{entity.LocationShopDowntown: 3})

	recorder := &blockingRecorder{SaleRecorder: f.ledger, inside: make(chan struct{}), release: make(chan struct{})}
	cart := checkout.NewCartUseCase(
		checkout.NewRegistry(entity.LocationShopDowntown),
		f.runner, recorder, f.stock, f.productRepo, f.locations, f.customerRepo, nil,
	)
	_, err := cart.AddLine(cashier, id)
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		firstRes *checkout.CheckoutResult
		firstErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstRes, firstErr = cart.Commit(context.Background(), cashier)
	}()
	<-recorder.inside

	_, err = cart.Commit(context.Background(), cashier)
	assert.ErrorIs(t, err, domain.ErrCheckoutInProgress, "un segundo cobro no se intercala")
	_, err = cart.AddLine(cashier, other)
	assert.ErrorIs(t, err, domain.ErrCheckoutInProgress, "el carrito no se edita durante el cobro")
	assert.Equal(t, entity.CartCheckingOut, cart.Get(cashier).State)

	close(recorder.release)
	wg.Wait()

	require.NoError(t, firstErr)
	require.Len(t, firstRes.Sale.Items, 1)
	assert.Equal(t, id, firstRes.Sale.Items[0].ProductID)

	list, err := f.ledger.QuerySales(sales.SaleFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1, "exactamente una venta registrada")
	assert.Equal(t, 2, f.stock.GetAvailable(id, entity.LocationShopDowntown))
	assert.Equal(t, 3, f.stock.GetAvailable(other, entity.LocationShopDowntown))
	assert.Equal(t, entity.CartCommitted, cart.Get(cashier).State)
}
