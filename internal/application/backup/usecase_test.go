package backup_test

import (
	"context"
	"testing"

	memstorage "github.com/gofiber/storage/memory/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/shop-erp/internal/application/backup"
	"github.com/jhoicas/shop-erp/internal/application/checkout"
	"github.com/jhoicas/shop-erp/internal/application/customer"
	"github.com/jhoicas/shop-erp/internal/application/inventory"
	"github.com/jhoicas/shop-erp/internal/application/sales"
	"github.com/jhoicas/shop-erp/internal/domain"
	"github.com/jhoicas/shop-erp/internal/domain/entity"
	"github.com/jhoicas/shop-erp/internal/infrastructure/kvstore"
	"github.com/jhoicas/shop-erp/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	uc      *backup.UseCase
	store   *kvstore.Store
	cart    *checkout.CartUseCase
	reports *inventory.ReportsUseCase
	stock   *inventory.StockUseCase
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

	stockUC := inventory.NewStockUseCase(runner, productRepo, locations, nil)
	productUC := inventory.NewProductUseCase(runner, productRepo, locations, entity.LocationCentralWarehouse)
	customerUC := customer.NewCustomerUseCase(runner, customerRepo)
	ledger := sales.NewLedgerUseCase(runner, saleRepo, locations)
	carts := checkout.NewRegistry(entity.LocationShopDowntown)
	cartUC := checkout.NewCartUseCase(carts, runner, ledger, stockUC, productRepo, locations, customerRepo, nil)

	return &fixture{
		uc:      backup.NewUseCase(store, locations, carts, productUC, customerUC, cartUC),
		store:   store,
		cart:    cartUC,
		reports: inventory.NewReportsUseCase(productRepo, movRepo, saleRepo, kvstore.NewSettingsRepository(store)),
		stock:   stockUC,
	}
}

func validDataset() *backup.Dataset {
	settings := entity.DefaultSettings()
	return &backup.Dataset{
		AppSettings: &settings,
		Products: []*entity.Product{{
			ID: "p1", SKU: "LT001", Model: "Spectre X1",
			BasePrice: decimal.NewFromInt(10), SellingPrice: decimal.NewFromInt(20), BestPrice: decimal.NewFromInt(18),
			StockByLocation: map[string]int{entity.LocationShopMall: 2},
		}},
		Movements: []*entity.StockMovement{{
			ProductID: "p1", LocationID: entity.LocationShopMall, Type: entity.MovementInitialStock, QuantityChange: 2, NewQuantity: 2,
		}},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Datos de demostración
// ──────────────────────────────────────────────────────────────────────────────

func TestSeed_CargaUnaSolaVez(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seeded, err := f.uc.Seed(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = f.uc.Seed(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)

	data, err := f.uc.Export(ctx)
	require.NoError(t, err)
	assert.Len(t, data.Products, 3)
	assert.Len(t, data.Customers, 2)
	assert.Len(t, data.Sales, 2)

	d, err := f.reports.Reconcile()
	require.NoError(t, err)
	assert.Empty(t, d, "las ventas de demostración pasan por el libro")
}

// ──────────────────────────────────────────────────────────────────────────────
// Exportación e importación
// ──────────────────────────────────────────────────────────────────────────────

func TestExportImport_IdaYVuelta(t *testing.T) {
	ctx := context.Background()
	src := newFixture(t)
	_, err := src.uc.Seed(ctx)
	require.NoError(t, err)
	exported, err := src.uc.Export(ctx)
	require.NoError(t, err)

	dst := newFixture(t)
	require.NoError(t, dst.uc.Import(ctx, exported))
	again, err := dst.uc.Export(ctx)
	require.NoError(t, err)

	assert.Equal(t, len(exported.Products), len(again.Products))
	assert.Equal(t, len(exported.Sales), len(again.Sales))
	assert.Equal(t, len(exported.Movements), len(again.Movements))
	assert.True(t, dst.store.IsSeeded())

	d, err := dst.reports.Reconcile()
	require.NoError(t, err)
	assert.Empty(t, d)

	seeded, err := dst.uc.Seed(ctx)
	require.NoError(t, err)
	assert.False(t, seeded, "la demostración no se carga encima de datos importados")
}

func TestImport_DescartaCarritosAbiertos(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.uc.Import(ctx, validDataset()))
	_, err := f.cart.SetLocation("cajero", entity.LocationShopMall)
	require.NoError(t, err)
	_, err = f.cart.AddLine("cajero", "p1")
	require.NoError(t, err)

	require.NoError(t, f.uc.Import(ctx, validDataset()))
	snap := f.cart.Get("cajero")
	assert.Empty(t, snap.Lines)
	assert.Equal(t, entity.LocationShopDowntown, snap.LocationID)
}

func TestImport_ValidacionesNoTocanElEstado(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name   string
		mutate func(d *backup.Dataset)
		want   error
	}{
		{"stock negativo", func(d *backup.Dataset) { d.Products[0].StockByLocation[entity.LocationShopMall] = -1 }, domain.ErrInvalidQuantity},
		{"ubicación desconocida", func(d *backup.Dataset) { d.Products[0].StockByLocation["luna"] = 1 }, domain.ErrInvalidLocation},
		{"producto repetido", func(d *backup.Dataset) { d.Products = append(d.Products, d.Products[0].Clone()) }, domain.ErrDuplicate},
		{"tipo de movimiento", func(d *backup.Dataset) { d.Movements[0].Type = "robo" }, domain.ErrInvalidInput},
		{"venta sin líneas", func(d *backup.Dataset) { d.Sales = []*entity.Sale{{ID: "s1"}} }, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.uc.Seed(ctx)
			require.NoError(t, err)
			before, _ := f.uc.Export(ctx)

			data := validDataset()
			tc.mutate(data)
			err = f.uc.Import(ctx, data)
			assert.ErrorIs(t, err, tc.want)

			after, _ := f.uc.Export(ctx)
			assert.Len(t, after.Products, len(before.Products))
			assert.Len(t, after.Movements, len(before.Movements))
		})
	}
}

func TestImport_Nil(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.uc.Import(context.Background(), nil), domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reset
// ──────────────────────────────────────────────────────────────────────────────

func TestReset_VaciaColeccionesYPermiteResembrar(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.uc.Seed(ctx)
	require.NoError(t, err)

	require.NoError(t, f.uc.Reset(ctx))
	data, err := f.uc.Export(ctx)
	require.NoError(t, err)
	assert.Empty(t, data.Products)
	assert.Empty(t, data.Sales)
	assert.Empty(t, data.Movements)
	assert.Empty(t, data.Customers)
	assert.NotNil(t, data.AppSettings)

	seeded, err := f.uc.Seed(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)
}
