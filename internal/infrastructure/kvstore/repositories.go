package kvstore

import (
	"context"

	"github.com/jhoicas/shop-erp/internal/domain/entity"
	"github.com/jhoicas/shop-erp/internal/domain/repository"
)

var (
	_ repository.ProductRepository       = (*ProductRepository)(nil)
	_ repository.StockMovementRepository = (*StockMovementRepository)(nil)
	_ repository.SaleRepository          = (*SaleRepository)(nil)
	_ repository.CustomerRepository      = (*CustomerRepository)(nil)
	_ repository.SettingsRepository      = (*SettingsRepository)(nil)
)

// binding ata un repositorio al estado confirmado (cada escritura es su propia
// transacción) o a una transacción en curso.
type binding struct {
	store *Store
	tx    *Tx
}

func (b binding) read(fn func(d *dataset)) {
	if b.tx != nil {
		fn(b.tx.data)
		return
	}
	b.store.view(fn)
}

func (b binding) write(fn func(tx *Tx) error) error {
	if b.tx != nil {
		return fn(b.tx)
	}
	return b.store.Run(context.Background(), fn)
}

// ── Product ───────────────────────────────────────────────────────────────────

// ProductRepository implementa repository.ProductRepository.
type ProductRepository struct{ binding }

// NewProductRepository construye el repositorio sobre el estado confirmado.
func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{binding{store: store}}
}

func (r *ProductRepository) Create(product *entity.Product) error {
	return r.write(func(tx *Tx) error { return tx.createProduct(product) })
}

func (r *ProductRepository) GetByID(id string) (p *entity.Product, err error) {
	r.read(func(d *dataset) { p = d.getProduct(id) })
	return p, nil
}

func (r *ProductRepository) GetBySKU(sku string) (p *entity.Product, err error) {
	r.read(func(d *dataset) { p = d.getProductBySKU(sku) })
	return p, nil
}

func (r *ProductRepository) Update(product *entity.Product) error {
	return r.write(func(tx *Tx) error { return tx.updateProduct(product) })
}

func (r *ProductRepository) List() (out []*entity.Product, err error) {
	r.read(func(d *dataset) { out = d.listProducts() })
	return out, nil
}

func (r *ProductRepository) Delete(id string) error {
	return r.write(func(tx *Tx) error { return tx.deleteProduct(id) })
}

// ── StockMovement ─────────────────────────────────────────────────────────────

// StockMovementRepository implementa el libro de movimientos (solo agregar).
type StockMovementRepository struct{ binding }

// NewStockMovementRepository construye el repositorio sobre el estado confirmado.
func NewStockMovementRepository(store *Store) *StockMovementRepository {
	return &StockMovementRepository{binding{store: store}}
}

func (r *StockMovementRepository) Append(movement *entity.StockMovement) error {
	return r.write(func(tx *Tx) error { return tx.appendMovement(movement) })
}

func (r *StockMovementRepository) ListByProduct(productID string) (out []*entity.StockMovement, err error) {
	r.read(func(d *dataset) { out = d.newestFirst(repository.MovementFilter{ProductID: productID}) })
	return out, nil
}

func (r *StockMovementRepository) List(filter repository.MovementFilter) (out []*entity.StockMovement, err error) {
	r.read(func(d *dataset) { out = d.newestFirst(filter) })
	return out, nil
}

func (r *StockMovementRepository) All() (out []*entity.StockMovement, err error) {
	r.read(func(d *dataset) { out = d.allMovements() })
	return out, nil
}

// ── Sale ──────────────────────────────────────────────────────────────────────

// SaleRepository implementa repository.SaleRepository.
type SaleRepository struct{ binding }

// NewSaleRepository construye el repositorio sobre el estado confirmado.
func NewSaleRepository(store *Store) *SaleRepository {
	return &SaleRepository{binding{store: store}}
}

func (r *SaleRepository) Create(sale *entity.Sale) error {
	return r.write(func(tx *Tx) error { return tx.createSale(sale) })
}

func (r *SaleRepository) GetByID(id string) (s *entity.Sale, err error) {
	r.read(func(d *dataset) { s = d.getSale(id) })
	return s, nil
}

func (r *SaleRepository) List() (out []*entity.Sale, err error) {
	r.read(func(d *dataset) { out = d.listSales() })
	return out, nil
}

// ── Customer ──────────────────────────────────────────────────────────────────

// CustomerRepository implementa repository.CustomerRepository.
type CustomerRepository struct{ binding }

// NewCustomerRepository construye el repositorio sobre el estado confirmado.
func NewCustomerRepository(store *Store) *CustomerRepository {
	return &CustomerRepository{binding{store: store}}
}

func (r *CustomerRepository) Create(customer *entity.Customer) error {
	return r.write(func(tx *Tx) error { return tx.createCustomer(customer) })
}

func (r *CustomerRepository) GetByID(id string) (c *entity.Customer, err error) {
	r.read(func(d *dataset) { c = d.getCustomer(id) })
	return c, nil
}

func (r *CustomerRepository) List() (out []*entity.Customer, err error) {
	r.read(func(d *dataset) { out = d.listCustomers() })
	return out, nil
}

func (r *CustomerRepository) Update(customer *entity.Customer) error {
	return r.write(func(tx *Tx) error { return tx.updateCustomer(customer) })
}

func (r *CustomerRepository) Delete(id string) error {
	return r.write(func(tx *Tx) error { return tx.deleteCustomer(id) })
}

// ── Settings ──────────────────────────────────────────────────────────────────

// SettingsRepository implementa repository.SettingsRepository.
type SettingsRepository struct{ binding }

// NewSettingsRepository construye el repositorio.
func NewSettingsRepository(store *Store) *SettingsRepository {
	return &SettingsRepository{binding{store: store}}
}

func (r *SettingsRepository) Get() (s entity.Settings, err error) {
	r.read(func(d *dataset) { s = d.getSettings() })
	return s, nil
}

func (r *SettingsRepository) Save(settings entity.Settings) error {
	return r.write(func(tx *Tx) error {
		tx.saveSettings(settings)
		return nil
	})
}
