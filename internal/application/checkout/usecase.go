package checkout

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/shop-erp/internal/application/dto"
	"github.com/jhoicas/shop-erp/internal/application/inventory"
	"github.com/jhoicas/shop-erp/internal/application/ports"
	"github.com/jhoicas/shop-erp/internal/application/sales"
	"github.com/jhoicas/shop-erp/internal/domain"
	"github.com/jhoicas/shop-erp/internal/domain/entity"
	"github.com/jhoicas/shop-erp/internal/domain/repository"
)

// StockSeller descuenta stock dentro de la transacción del cobro.
type StockSeller interface {
	SellInTx(
		ctx context.Context,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		productID, locationID string,
		quantity int,
		saleID, userID string,
	) (*inventory.StockResult, error)
}

// SaleRecorder registra la venta dentro de la transacción del cobro.
type SaleRecorder interface {
	RecordSaleInTx(
		saleRepo repository.SaleRepository,
		customerRepo repository.CustomerRepository,
		in sales.RecordSaleInput,
	) (*entity.Sale, error)
}

// CartUseCase operaciones sobre el carrito de cada usuario y el cobro.
type CartUseCase struct {
	registry     *Registry
	txRunner     sales.SaleTxRunner
	recorder     SaleRecorder
	seller       StockSeller
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	customerRepo repository.CustomerRepository
	notifier     ports.Notifier
}

// NewCartUseCase construye el caso de uso.
func NewCartUseCase(
	registry *Registry,
	txRunner sales.SaleTxRunner,
	recorder SaleRecorder,
	seller StockSeller,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	customerRepo repository.CustomerRepository,
	notifier ports.Notifier,
) *CartUseCase {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	return &CartUseCase{
		registry:     registry,
		txRunner:     txRunner,
		recorder:     recorder,
		seller:       seller,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		customerRepo: customerRepo,
		notifier:     notifier,
	}
}

// Result resultado de una operación sobre el carrito.
type Result struct {
	Message     string
	Capped      bool
	Adjustments []string
	Cart        Snapshot
}

// CheckoutResult venta registrada más los avisos de sobreventa por línea.
type CheckoutResult struct {
	Sale     *entity.Sale
	Warnings []string
	Message  string
}

// Get devuelve el carrito del usuario.
func (uc *CartUseCase) Get(userID string) Snapshot {
	c := uc.registry.Get(userID)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// AddLine agrega una unidad del producto con el stock de la ubicación del carrito como tope.
func (uc *CartUseCase) AddLine(userID, productID string) (*Result, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	c := uc.registry.Get(userID)
	c.mu.Lock()
	defer c.mu.Unlock()
	msg, err := c.addLine(product)
	if err != nil {
		return nil, err
	}
	return &Result{Message: msg, Cart: c.snapshot()}, nil
}

// SetQuantity fija la cantidad de una línea, recortando al stock disponible.
func (uc *CartUseCase) SetQuantity(userID, productID string, qty int) (*Result, error) {
	c := uc.registry.Get(userID)
	c.mu.Lock()
	defer c.mu.Unlock()
	available := uc.available(productID, c.locationID)
	capped, msg, err := c.setQuantity(productID, qty, available)
	if err != nil {
		return nil, err
	}
	return &Result{Message: msg, Capped: capped, Cart: c.snapshot()}, nil
}

// RemoveLine quita un producto del carrito.
func (uc *CartUseCase) RemoveLine(userID, productID string) (*Result, error) {
	c := uc.registry.Get(userID)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.removeLine(productID); err != nil {
		return nil, err
	}
	return &Result{Message: "Producto quitado del carrito", Cart: c.snapshot()}, nil
}

// Clear vacía el carrito.
func (uc *CartUseCase) Clear(userID string) (*Result, error) {
	c := uc.registry.Get(userID)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.clear(); err != nil {
		return nil, err
	}
	return &Result{Message: "Carrito vacío", Cart: c.snapshot()}, nil
}

// ApplyDiscount fija el descuento. Un porcentaje inválido deja el descuento en 0.
func (uc *CartUseCase) ApplyDiscount(userID string, pct decimal.Decimal) (*Result, error) {
	c := uc.registry.Get(userID)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.applyDiscount(pct); err != nil {
		return nil, err
	}
	return &Result{Message: fmt.Sprintf("Descuento de %s%% aplicado", pct.String()), Cart: c.snapshot()}, nil
}

// SetLocation mueve el carrito a otra ubicación y ajusta las líneas a su stock.
func (uc *CartUseCase) SetLocation(userID, locationID string) (*Result, error) {
	loc, err := uc.locationRepo.GetByID(locationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, fmt.Errorf("%q: %w", locationID, domain.ErrInvalidLocation)
	}
	c := uc.registry.Get(userID)
	c.mu.Lock()
	defer c.mu.Unlock()
	adjustments, err := c.setLocation(loc.ID, func(productID string) int {
		return uc.available(productID, loc.ID)
	})
	if err != nil {
		return nil, err
	}
	msg := fmt.Sprintf("Ubicación de venta: %s", loc.Name)
	if len(adjustments) > 0 {
		msg = fmt.Sprintf("%s (%d líneas ajustadas)", msg, len(adjustments))
		uc.notifier.Notify(context.Background(), ports.LevelWarning, msg)
	}
	return &Result{Message: msg, Capped: len(adjustments) > 0, Adjustments: adjustments, Cart: c.snapshot()}, nil
}

// SetCustomer asocia un cliente existente; nil deja la venta como anónima.
func (uc *CartUseCase) SetCustomer(userID string, customerID *string) (*Result, error) {
	msg := "Venta sin cliente"
	if customerID != nil && *customerID != "" {
		cust, err := uc.customerRepo.GetByID(*customerID)
		if err != nil {
			return nil, err
		}
		if cust == nil {
			return nil, fmt.Errorf("cliente %s: %w", *customerID, domain.ErrNotFound)
		}
		msg = fmt.Sprintf("Cliente: %s", cust.Name)
	}
	c := uc.registry.Get(userID)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.setCustomer(customerID); err != nil {
		return nil, err
	}
	return &Result{Message: msg, Cart: c.snapshot()}, nil
}

// SetNotes fija las notas de la venta.
func (uc *CartUseCase) SetNotes(userID, notes string) (*Result, error) {
	c := uc.registry.Get(userID)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.setNotes(notes); err != nil {
		return nil, err
	}
	return &Result{Message: "Notas actualizadas", Cart: c.snapshot()}, nil
}

// Commit cobra el carrito: en una sola transacción registra la venta y descuenta
// cada línea en la ubicación del carrito. Si algo falla el carrito queda en failed
// con sus líneas y nada se persiste.
func (uc *CartUseCase) Commit(ctx context.Context, userID string) (*CheckoutResult, error) {
	c := uc.registry.Get(userID)
	c.mu.Lock()
	if err := c.beginCheckout(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	snap := c.snapshot()
	c.mu.Unlock()

	res, err := uc.commit(ctx, userID, snap)

	c.mu.Lock()
	c.finishCheckout(err)
	c.mu.Unlock()

	if err != nil {
		uc.notifier.Notify(ctx, ports.LevelError, "No se pudo completar la venta: "+err.Error())
		return nil, err
	}
	uc.notifier.Notify(ctx, ports.LevelSuccess, res.Message)
	return res, nil
}

func (uc *CartUseCase) commit(ctx context.Context, userID string, snap Snapshot) (*CheckoutResult, error) {
	input := sales.RecordSaleInput{
		CustomerID:         snap.CustomerID,
		LocationID:         snap.LocationID,
		Items:              saleItems(snap.Lines),
		DiscountPercentage: snap.DiscountPercentage,
		Notes:              snap.Notes,
		CreatedBy:          userID,
	}
	var (
		sale     *entity.Sale
		warnings []string
	)
	err := uc.txRunner.RunSale(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		customerRepo repository.CustomerRepository,
	) error {
		var err error
		sale, err = uc.recorder.RecordSaleInTx(saleRepo, customerRepo, input)
		if err != nil {
			return err
		}
		warnings = warnings[:0]
		for _, line := range snap.Lines {
			res, err := uc.seller.SellInTx(ctx, movRepo, productRepo, line.ProductID, snap.LocationID, line.Quantity, sale.ID, userID)
			if err != nil {
				return fmt.Errorf("descontar %s: %w", line.ProductName, err)
			}
			if res.Oversold {
				warnings = append(warnings, res.Message)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &CheckoutResult{
		Sale:     sale,
		Warnings: warnings,
		Message:  fmt.Sprintf("Venta registrada por %s", sale.Total.StringFixed(2)),
	}, nil
}

func (uc *CartUseCase) available(productID, locationID string) int {
	p, err := uc.productRepo.GetByID(productID)
	if err != nil || p == nil {
		return 0
	}
	return p.StockAt(locationID)
}

// ToCartResponse convierte un Snapshot al DTO.
func ToCartResponse(s Snapshot) dto.CartResponse {
	lines := make([]dto.CartLineResponse, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, dto.CartLineResponse{
			ProductID:       l.ProductID,
			ProductName:     l.ProductName,
			SKU:             l.SKU,
			UnitPriceAtSale: l.UnitPriceAtSale,
			BasePriceAtSale: l.BasePriceAtSale,
			Quantity:        l.Quantity,
			LineTotal:       l.LineTotal().Round(2),
		})
	}
	return dto.CartResponse{
		State:              s.State,
		LocationID:         s.LocationID,
		Lines:              lines,
		ItemCount:          s.ItemCount(),
		DiscountPercentage: s.DiscountPercentage,
		CustomerID:         s.CustomerID,
		Notes:              s.Notes,
		Subtotal:           s.Totals.Subtotal,
		DiscountAmount:     s.Totals.DiscountAmount,
		Total:              s.Totals.Total,
		LastError:          s.LastError,
	}
}
