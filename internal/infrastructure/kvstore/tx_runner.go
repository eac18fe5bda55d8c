package kvstore

import (
	"context"

	"github.com/jhoicas/shop-erp/internal/application/customer"
	"github.com/jhoicas/shop-erp/internal/application/inventory"
	"github.com/jhoicas/shop-erp/internal/application/sales"
	"github.com/jhoicas/shop-erp/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner, sales.SaleTxRunner and customer.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ sales.SaleTxRunner = (*TxRunner)(nil)
var _ customer.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción del Store.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner con el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con repos de inventario atados a la tx; si fn falla no queda nada aplicado.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.store.Run(ctx, func(tx *Tx) error {
		b := binding{store: r.store, tx: tx}
		return fn(&StockMovementRepository{b}, &ProductRepository{b})
	})
}

// RunSale ejecuta fn con repos de inventario, ventas y clientes en la misma tx (cobro del carrito).
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
) error) error {
	return r.store.Run(ctx, func(tx *Tx) error {
		b := binding{store: r.store, tx: tx}
		return fn(&StockMovementRepository{b}, &ProductRepository{b}, &SaleRepository{b}, &CustomerRepository{b})
	})
}

// RunCustomers ejecuta fn con el repo de clientes atado a la tx.
func (r *TxRunner) RunCustomers(ctx context.Context, fn func(repo repository.CustomerRepository) error) error {
	return r.store.Run(ctx, func(tx *Tx) error {
		return fn(&CustomerRepository{binding{store: r.store, tx: tx}})
	})
}
