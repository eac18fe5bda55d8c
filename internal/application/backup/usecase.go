package backup

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/shop-erp/internal/application/checkout"
	"github.com/jhoicas/shop-erp/internal/application/dto"
	"github.com/jhoicas/shop-erp/internal/domain"
	"github.com/jhoicas/shop-erp/internal/domain/entity"
	"github.com/jhoicas/shop-erp/internal/domain/repository"
)

// SeedUserID usuario con el que se registran las ventas de demostración.
const SeedUserID = "seed"

// CartRegistry descarta carritos abiertos cuando el catálogo deja de existir.
type CartRegistry interface {
	Drop(userID string)
	DropAll()
}

// ProductCreator da de alta productos con su stock inicial.
type ProductCreator interface {
	Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error)
}

// CustomerCreator da de alta clientes.
type CustomerCreator interface {
	Create(in dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
}

// CartDriver es la parte del carrito que usa la carga de ventas de demostración.
type CartDriver interface {
	SetLocation(userID, locationID string) (*checkout.Result, error)
	AddLine(userID, productID string) (*checkout.Result, error)
	SetCustomer(userID string, customerID *string) (*checkout.Result, error)
	ApplyDiscount(userID string, pct decimal.Decimal) (*checkout.Result, error)
	Commit(ctx context.Context, userID string) (*checkout.CheckoutResult, error)
}

// UseCase exporta, importa, reinicia y siembra el estado persistido.
type UseCase struct {
	store        DataStore
	locationRepo repository.LocationRepository
	carts        CartRegistry
	products     ProductCreator
	customers    CustomerCreator
	cart         CartDriver
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	store DataStore,
	locationRepo repository.LocationRepository,
	carts CartRegistry,
	products ProductCreator,
	customers CustomerCreator,
	cart CartDriver,
) *UseCase {
	return &UseCase{
		store:        store,
		locationRepo: locationRepo,
		carts:        carts,
		products:     products,
		customers:    customers,
		cart:         cart,
	}
}

// Export devuelve configuración, productos, clientes, ventas y el libro de movimientos.
func (uc *UseCase) Export(ctx context.Context) (*Dataset, error) {
	return uc.store.Snapshot(ctx)
}

// Import valida data y reemplaza todas las colecciones en una sola transacción.
// totalQuantity se recalcula siempre desde stockByLocation.
func (uc *UseCase) Import(ctx context.Context, data *Dataset) error {
	if err := uc.validate(data); err != nil {
		return err
	}
	if err := uc.store.Replace(ctx, data); err != nil {
		return err
	}
	uc.carts.DropAll()
	return nil
}

// Reset vacía productos, movimientos, ventas y clientes. La configuración se conserva.
func (uc *UseCase) Reset(ctx context.Context) error {
	if err := uc.store.Reset(ctx); err != nil {
		return err
	}
	uc.carts.DropAll()
	return nil
}

func (uc *UseCase) validate(data *Dataset) error {
	if data == nil {
		return fmt.Errorf("archivo de respaldo vacío: %w", domain.ErrInvalidInput)
	}
	if data.AppSettings != nil && data.AppSettings.LowStockThreshold < 0 {
		return fmt.Errorf("umbral de stock bajo negativo: %w", domain.ErrInvalidInput)
	}

	seen := make(map[string]bool, len(data.Products))
	for i, p := range data.Products {
		if p == nil || p.ID == "" {
			return fmt.Errorf("producto %d sin id: %w", i, domain.ErrInvalidInput)
		}
		if seen[p.ID] {
			return fmt.Errorf("producto %s repetido: %w", p.ID, domain.ErrDuplicate)
		}
		seen[p.ID] = true
		for loc, qty := range p.StockByLocation {
			if qty < 0 {
				return fmt.Errorf("producto %s con stock negativo en %s: %w", p.ID, loc, domain.ErrInvalidQuantity)
			}
			if err := uc.requireLocation(loc); err != nil {
				return fmt.Errorf("producto %s: %w", p.ID, err)
			}
		}
	}

	seen = make(map[string]bool, len(data.Customers))
	for i, c := range data.Customers {
		if c == nil || c.ID == "" {
			return fmt.Errorf("cliente %d sin id: %w", i, domain.ErrInvalidInput)
		}
		if seen[c.ID] {
			return fmt.Errorf("cliente %s repetido: %w", c.ID, domain.ErrDuplicate)
		}
		seen[c.ID] = true
	}

	seen = make(map[string]bool, len(data.Sales))
	for i, s := range data.Sales {
		if s == nil || s.ID == "" {
			return fmt.Errorf("venta %d sin id: %w", i, domain.ErrInvalidInput)
		}
		if seen[s.ID] {
			return fmt.Errorf("venta %s repetida: %w", s.ID, domain.ErrDuplicate)
		}
		seen[s.ID] = true
		if len(s.Items) == 0 {
			return fmt.Errorf("venta %s sin líneas: %w", s.ID, domain.ErrInvalidInput)
		}
	}

	seen = make(map[string]bool, len(data.Movements))
	for i, m := range data.Movements {
		if m == nil || m.ProductID == "" || m.LocationID == "" {
			return fmt.Errorf("movimiento %d incompleto: %w", i, domain.ErrInvalidInput)
		}
		if !entity.IsValidMovementType(m.Type) {
			return fmt.Errorf("movimiento %d con tipo %q: %w", i, m.Type, domain.ErrInvalidInput)
		}
		if m.NewQuantity < 0 || m.Shortfall < 0 {
			return fmt.Errorf("movimiento %d con cantidades negativas: %w", i, domain.ErrInvalidQuantity)
		}
		if m.ID == "" {
			m.ID = uuid.Must(uuid.NewV7()).String()
		}
		if seen[m.ID] {
			return fmt.Errorf("movimiento %s repetido: %w", m.ID, domain.ErrDuplicate)
		}
		seen[m.ID] = true
	}
	return nil
}

func (uc *UseCase) requireLocation(id string) error {
	loc, err := uc.locationRepo.GetByID(id)
	if err != nil {
		return err
	}
	if loc == nil {
		return fmt.Errorf("%q: %w", id, domain.ErrInvalidLocation)
	}
	return nil
}
