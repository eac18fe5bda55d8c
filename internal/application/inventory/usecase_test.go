package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	memstorage "github.com/gofiber/storage/memory/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/shop-erp/internal/application/dto"
	"github.com/jhoicas/shop-erp/internal/application/inventory"
	"github.com/jhoicas/shop-erp/internal/application/ports"
	"github.com/jhoicas/shop-erp/internal/domain"
	"github.com/jhoicas/shop-erp/internal/domain/entity"
	"github.com/jhoicas/shop-erp/internal/domain/repository"
	"github.com/jhoicas/shop-erp/internal/infrastructure/kvstore"
	"github.com/jhoicas/shop-erp/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []string
	lvls []string
}

func (n *recordingNotifier) Notify(_ context.Context, level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lvls = append(n.lvls, level)
	n.msgs = append(n.msgs, message)
}

type fixture struct {
	stock    *inventory.StockUseCase
	products *inventory.ProductUseCase
	reports  *inventory.ReportsUseCase
	movRepo  *kvstore.StockMovementRepository
	prodRepo *kvstore.ProductRepository
	runner   *kvstore.TxRunner
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := kvstore.Open(memstorage.New(), "")
	require.NoError(t, err)
	locations := memory.NewLocationRepository()
	f := &fixture{
		movRepo:  kvstore.NewStockMovementRepository(store),
		prodRepo: kvstore.NewProductRepository(store),
		runner:   kvstore.NewTxRunner(store),
		notifier: &recordingNotifier{},
	}
	f.stock = inventory.NewStockUseCase(f.runner, f.prodRepo, locations, f.notifier)
	f.products = inventory.NewProductUseCase(f.runner, f.prodRepo, locations, entity.LocationCentralWarehouse)
	f.reports = inventory.NewReportsUseCase(f.prodRepo, f.movRepo, kvstore.NewSaleRepository(store), kvstore.NewSettingsRepository(store))
	return f
}

// pausingRunner detiene la primera transacción ya abierta hasta que se cierre release.
type pausingRunner struct {
	inventory.TxRunner
	once    sync.Once
	inside  chan struct{}
	release chan struct{}
}

func newPausingRunner(inner inventory.TxRunner) *pausingRunner {
	return &pausingRunner{TxRunner: inner, inside: make(chan struct{}), release: make(chan struct{})}
}

func (r *pausingRunner) Run(ctx context.Context, fn func(repository.StockMovementRepository, repository.ProductRepository) error) error {
	return r.TxRunner.Run(ctx, func(movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) error {
		r.once.Do(func() {
			close(r.inside)
			<-r.release
		})
		return fn(movRepo, productRepo)
	})
}

func (f *fixture) createProduct(t *testing.T, sku string, stock map[string]int) string {
	t.Helper()
	p, err := f.products.Create(context.Background(), "u1", dto.CreateProductRequest{
		SKU: sku, Category: "Laptop", Brand: "Innovatech", Model: "Modelo " + sku,
		BasePrice: decimal.NewFromInt(100), SellingPrice: decimal.NewFromInt(150), BestPrice: decimal.NewFromInt(140),
		InitialStock: stock,
	})
	require.NoError(t, err)
	return p.ID
}

func (f *fixture) ledgerCount(t *testing.T) int {
	t.Helper()
	all, err := f.movRepo.All()
	require.NoError(t, err)
	return len(all)
}

func (f *fixture) assertConsistent(t *testing.T) {
	t.Helper()
	d, err := f.reports.Reconcile()
	require.NoError(t, err)
	assert.Empty(t, d, "el libro debe reproducir el stock vivo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta y baja de productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProductCreate_AnotaStockInicialPorUbicacion(t *testing.T) {
	f := newFixture(t)
	id := f.createProduct(t, "LT001", map[string]int{entity.LocationShopDowntown: 3, entity.LocationShopMall: 2})

	movs, err := f.movRepo.ListByProduct(id)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, entity.MovementInitialStock, m.Type)
	}
	p, _ := f.prodRepo.GetByID(id)
	assert.Equal(t, 5, p.TotalQuantity())
	f.assertConsistent(t)
}

func TestProductCreate_SKUDuplicado(t *testing.T) {
	f := newFixture(t)
	f.createProduct(t, "LT001", nil)
	_, err := f.products.Create(context.Background(), "u1", dto.CreateProductRequest{SKU: "LT001", Model: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductCreate_CantidadSinUbicacionVaABodega(t *testing.T) {
	f := newFixture(t)
	p, err := f.products.Create(context.Background(), "u1", dto.CreateProductRequest{SKU: "ACC1", Model: "Mouse", Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{entity.LocationCentralWarehouse: 4}, p.StockByLocation)
}

func TestProductCreate_UbicacionInvalida(t *testing.T) {
	f := newFixture(t)
	_, err := f.products.Create(context.Background(), "u1", dto.CreateProductRequest{
		SKU: "X", Model: "X", InitialStock: map[string]int{"luna": 1},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidLocation)
	assert.Zero(t, f.ledgerCount(t))
}

func TestProductDelete_AnotaBajaYConcilia(t *testing.T) {
	f := newFixture(t)
	id := f.createProduct(t, "LT001", map[string]int{entity.LocationShopDowntown: 3, entity.LocationShopMall: 2})

	require.NoError(t, f.products.Delete(context.Background(), id, "u1"))

	p, _ := f.prodRepo.GetByID(id)
	assert.Nil(t, p)
	movs, _ := f.movRepo.ListByProduct(id)
	assert.Len(t, movs, 4)
	assert.Equal(t, entity.MovementDeletion, movs[0].Type)
	f.assertConsistent(t)
}

func TestProductUpdate_NoTocaStock(t *testing.T) {
	f := newFixture(t)
	id := f.createProduct(t, "LT001", map[string]int{entity.LocationShopMall: 5})

	price := decimal.NewFromInt(200)
	got, err := f.products.Update(context.Background(), id, dto.UpdateProductRequest{SellingPrice: &price})
	require.NoError(t, err)
	assert.True(t, price.Equal(got.SellingPrice))
	assert.Equal(t, 5, f.stock.GetAvailable(id, entity.LocationShopMall))

	missing, err := f.products.Update(context.Background(), "no-existe", dto.UpdateProductRequest{SellingPrice: &price})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProductUpdate_AjusteConcurrenteNoSePierde(t *testing.T) {
	f := newFixture(t)
	id := f.createProduct(t, "LT001", map[string]int{entity.LocationShopDowntown: 5})
	runner := newPausingRunner(f.runner)
	products := inventory.NewProductUseCase(runner, f.prodRepo, memory.NewLocationRepository(), entity.LocationCentralWarehouse)

	price := decimal.NewFromInt(200)
	var wg sync.WaitGroup
	wg.Add(2)
	var updateErr, adjustErr error
	go func() {
		defer wg.Done()
		_, updateErr = products.Update(context.Background(), id, dto.UpdateProductRequest{SellingPrice: &price})
	}()
	<-runner.inside
	go func() {
		defer wg.Done()
		_, adjustErr = f.stock.Adjust(context.Background(), inventory.AdjustInput{
			ProductID: id, LocationID: entity.LocationShopDowntown, Delta: -3, Reason: "Merma",
		})
	}()
	time.Sleep(20 * time.Millisecond)
	close(runner.release)
	wg.Wait()

	require.NoError(t, updateErr)
	require.NoError(t, adjustErr)
	assert.Equal(t, 2, f.stock.GetAvailable(id, entity.LocationShopDowntown), "el ajuste sobrevive a la edición")
	p, err := f.prodRepo.GetByID(id)
	require.NoError(t, err)
	assert.True(t, price.Equal(p.SellingPrice), "la edición sobrevive al ajuste")
	f.assertConsistent(t)
}

// ──────────────────────────────────────────────────────────────────────────────
// Recepción y ajuste
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_SumaYRecalculaCosto(t *testing.T) {
	f := newFixture(t)
	id := f.createProduct(t, "LT001", map[string]int{entity.LocationShopDowntown: 3})
	cost := decimal.NewFromInt(200)

	res, err := f.stock.Receive(context.Background(), inventory.ReceiveInput{
		ProductID: id, LocationID: entity.LocationShopDowntown, Quantity: 1, UnitCost: &cost, UserID: "u1",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, res.New)
	assert.Equal(t, entity.MovementManualAdjustment, res.Movement.Type)
	assert.Equal(t, "Recepción de mercancía", res.Movement.Reason)

	p, _ := f.prodRepo.GetByID(id)
	assert.True(t, decimal.NewFromInt(125).Equal(p.BasePrice), "promedio ponderado: (3×100 + 1×200) / 4")
	f.assertConsistent(t)
}

func TestReceive_CantidadCeroRechazada(t *testing.T) {
	f := newFixture(t)
	id := f.createProduct(t, "LT001", nil)
	_, err := f.stock.Receive(context.Background(), inventory.ReceiveInput{ProductID: id, LocationID: entity.LocationShopMall})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestAdjust_PisoEnCeroYAviso(t *testing.T) {
	f := newFixture(t)
	id := f.createProduct(t, "LT001", map[string]int{entity.LocationShopMall: 2})

	res, err := f.stock.Adjust(context.Background(), inventory.AdjustInput{
		ProductID: id, LocationID: entity.LocationShopMall, Delta: -5, Reason: "Conteo físico",
	})
	require.NoError(t, err)
	assert.True(t, res.Clamped)
	assert.Equal(t, -2, res.Applied)
	assert.Equal(t, 0, res.New)
	assert.Equal(t, -2, res.Movement.QuantityChange, "el libro registra el delta aplicado")
	require.Len(t, f.notifier.lvls, 1)
	assert.Equal(t, ports.LevelWarning, f.notifier.lvls[0])

	p, _ := f.prodRepo.GetByID(id)
	_, present := p.StockByLocation[entity.LocationShopMall]
	assert.False(t, present, "el stock en cero no deja entrada")
	f.assertConsistent(t)
}

func TestAdjust_ProductoInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.stock.Adjust(context.Background(), inventory.AdjustInput{ProductID: "nope", LocationID: entity.LocationShopMall, Delta: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Venta
// ──────────────────────────────────────────────────────────────────────────────

func TestSell_SobreventaQuedaEnCeroConFaltante(t *testing.T) {
	f := newFixture(t)
	id := f.createProduct(t, "LT001", map[string]int{entity.LocationShopDowntown: 2})

	res, err := f.stock.Sell(context.Background(), id, entity.LocationShopDowntown, 5, "sale-1", "u1")
	require.NoError(t, err)
	assert.True(t, res.Oversold)
	assert.Equal(t, 3, res.Shortfall)
	assert.Equal(t, 0, res.New)
	assert.Equal(t, -5, res.Movement.QuantityChange)
	assert.Equal(t, 3, res.Movement.Shortfall)
	assert.Equal(t, "sale-1", res.Movement.RelatedDocumentID)
	assert.NotEmpty(t, f.notifier.msgs)
	f.assertConsistent(t)
}

func TestSellInTx_ErrorDeLaTxDescartaTodo(t *testing.T) {
	f := newFixture(t)
	id := f.createProduct(t, "LT001", map[string]int{entity.LocationShopDowntown: 2})
	before := f.ledgerCount(t)

	err := f.runner.Run(context.Background(), func(movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) error {
		if _, err := f.stock.SellInTx(context.Background(), movRepo, productRepo, id, entity.LocationShopDowntown, 1, "s", "u"); err != nil {
			return err
		}
		return domain.ErrInvalidInput
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, before, f.ledgerCount(t))
	assert.Equal(t, 2, f.stock.GetAvailable(id, entity.LocationShopDowntown))
}

// ──────────────────────────────────────────────────────────────────────────────
// Traslados
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_DosMovimientosConMismoID(t *testing.T) {
	f := newFixture(t)
	id := f.createProduct(t, "PC002", map[string]int{entity.LocationCentralWarehouse: 3})

	res, err := f.stock.Transfer(context.Background(), inventory.TransferInput{
		ProductID: id, FromLocationID: entity.LocationCentralWarehouse, ToLocationID: entity.LocationShopMall,
		Quantity: 2, Reason: "Reposición",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.FromQuantity)
	assert.Equal(t, 2, res.ToQuantity)
	assert.Equal(t, entity.MovementTransferOut, res.Out.Type)
	assert.Equal(t, entity.MovementTransferIn, res.In.Type)
	assert.Equal(t, res.TransferID, res.Out.RelatedDocumentID)
	assert.Equal(t, res.TransferID, res.In.RelatedDocumentID)
	assert.Equal(t, -2, res.Out.QuantityChange)
	assert.Equal(t, 2, res.In.QuantityChange)
	f.assertConsistent(t)
}

func TestTransfer_MotivoOpcional(t *testing.T) {
	f := newFixture(t)
	id := f.createProduct(t, "PC002", map[string]int{entity.LocationCentralWarehouse: 3})

	res, err := f.stock.Transfer(context.Background(), inventory.TransferInput{
		ProductID: id, FromLocationID: entity.LocationCentralWarehouse, ToLocationID: entity.LocationShopMall, Quantity: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "Traslado a "+entity.LocationShopMall, res.Out.Reason)
	assert.Equal(t, "Traslado desde "+entity.LocationCentralWarehouse, res.In.Reason)

	res, err = f.stock.Transfer(context.Background(), inventory.TransferInput{
		ProductID: id, FromLocationID: entity.LocationCentralWarehouse, ToLocationID: entity.LocationShopMall, Quantity: 1, Reason: "Reposición",
	})
	require.NoError(t, err)
	assert.Equal(t, "Traslado a "+entity.LocationShopMall+": Reposición", res.Out.Reason)
}

func TestTransfer_InsuficienteNoAnotaNada(t *testing.T) {
	f := newFixture(t)
	id := f.createProduct(t, "PC002", map[string]int{entity.LocationCentralWarehouse: 1})
	before := f.ledgerCount(t)

	_, err := f.stock.Transfer(context.Background(), inventory.TransferInput{
		ProductID: id, FromLocationID: entity.LocationCentralWarehouse, ToLocationID: entity.LocationShopMall, Quantity: 2,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, before, f.ledgerCount(t))
	assert.Equal(t, 1, f.stock.GetAvailable(id, entity.LocationCentralWarehouse))
	assert.Equal(t, 0, f.stock.GetAvailable(id, entity.LocationShopMall))
}

func TestTransfer_MismaUbicacion(t *testing.T) {
	f := newFixture(t)
	id := f.createProduct(t, "PC002", map[string]int{entity.LocationCentralWarehouse: 1})
	_, err := f.stock.Transfer(context.Background(), inventory.TransferInput{
		ProductID: id, FromLocationID: entity.LocationCentralWarehouse, ToLocationID: entity.LocationCentralWarehouse, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidLocation)
}

func TestGetAvailable_DesconocidosValenCero(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, 0, f.stock.GetAvailable("nope", entity.LocationShopMall))
	id := f.createProduct(t, "LT001", map[string]int{entity.LocationShopMall: 1})
	assert.Equal(t, 0, f.stock.GetAvailable(id, "luna"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestLowStock_SugerenciaDeReposicion(t *testing.T) {
	f := newFixture(t)
	low := f.createProduct(t, "LOW", map[string]int{entity.LocationShopMall: 2})
	f.createProduct(t, "OK", map[string]int{entity.LocationShopMall: 20})
	f.createProduct(t, "OUT", nil)

	items, err := f.reports.LowStock()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, low, items[0].ProductID)
	assert.Equal(t, 5, items[0].Threshold)
	assert.Equal(t, 6, items[0].SuggestedOrderQty, "ceil(5×1.5) − 2")
	assert.True(t, decimal.NewFromInt(600).Equal(items[0].EstimatedOrderCost))
	assert.Equal(t, 1, items[0].Priority)

	out, err := f.reports.OutOfStock()
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "OUT", out[0].SKU)
}

func TestReconcile_DetectaStockSinMovimiento(t *testing.T) {
	f := newFixture(t)
	id := f.createProduct(t, "LT001", map[string]int{entity.LocationShopMall: 2})

	// escritura directa al catálogo, sin pasar por el libro
	p, _ := f.prodRepo.GetByID(id)
	p.SetStock(entity.LocationShopMall, 7)
	require.NoError(t, f.prodRepo.Update(p))

	d, err := f.reports.Reconcile()
	require.NoError(t, err)
	require.Len(t, d, 1)
	assert.Equal(t, 7, d[0].LiveStock)
	assert.Equal(t, 2, d[0].LedgerStock)
}

func TestMovements_FiltroPorTipoMasRecientePrimero(t *testing.T) {
	f := newFixture(t)
	id := f.createProduct(t, "LT001", map[string]int{entity.LocationShopMall: 5})
	for i := 0; i < 3; i++ {
		_, err := f.stock.Adjust(context.Background(), inventory.AdjustInput{ProductID: id, LocationID: entity.LocationShopMall, Delta: 1})
		require.NoError(t, err)
	}

	list, err := f.reports.Movements(repository.MovementFilter{Type: entity.MovementManualAdjustment, Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Greater(t, list[0].Seq, list[1].Seq)
	assert.Equal(t, 8, list[0].NewQuantity)
}
