package sales

import (
	"context"

	"github.com/jhoicas/shop-erp/internal/domain/entity"
	"github.com/jhoicas/shop-erp/internal/domain/repository"
)

// SaleTxRunner ejecuta una función dentro de una transacción que incluye los repos
// de inventario, ventas y clientes (para el cobro del carrito).
type SaleTxRunner interface {
	RunSale(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		customerRepo repository.CustomerRepository,
	) error) error
}

// ReceiptPDFGenerator genera el comprobante de una venta en PDF.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(
		ctx context.Context,
		sale *entity.Sale,
		store entity.Settings,
		customer *entity.Customer,
		location *entity.Location,
	) ([]byte, error)
}
