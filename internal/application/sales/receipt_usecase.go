package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/shop-erp/internal/domain"
	"github.com/jhoicas/shop-erp/internal/domain/entity"
	"github.com/jhoicas/shop-erp/internal/domain/repository"
)

// ReceiptUseCase genera el comprobante PDF de una venta.
type ReceiptUseCase struct {
	saleRepo     repository.SaleRepository
	customerRepo repository.CustomerRepository
	locationRepo repository.LocationRepository
	settingsRepo repository.SettingsRepository
	generator    ReceiptPDFGenerator
}

// NewReceiptUseCase construye el caso de uso inyectando todas sus dependencias.
func NewReceiptUseCase(
	saleRepo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
	locationRepo repository.LocationRepository,
	settingsRepo repository.SettingsRepository,
	generator ReceiptPDFGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		saleRepo:     saleRepo,
		customerRepo: customerRepo,
		locationRepo: locationRepo,
		settingsRepo: settingsRepo,
		generator:    generator,
	}
}

// DownloadReceiptPDF genera el PDF de la venta.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound        si la venta no existe.
//
// Un cliente eliminado no impide el comprobante: se imprime el nombre congelado en la venta.
func (uc *ReceiptUseCase) DownloadReceiptPDF(ctx context.Context, saleID string) (pdfBytes []byte, filename string, err error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, "", fmt.Errorf("recibo: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, "", domain.ErrNotFound
	}

	store, err := uc.settingsRepo.Get()
	if err != nil {
		return nil, "", fmt.Errorf("recibo: obtener configuración: %w", err)
	}

	customer, err := uc.loadCustomer(sale.CustomerID)
	if err != nil {
		return nil, "", err
	}

	location, err := uc.locationRepo.GetByID(sale.LocationID)
	if err != nil {
		return nil, "", fmt.Errorf("recibo: obtener ubicación: %w", err)
	}

	pdfBytes, err = uc.generator.GenerateReceiptPDF(ctx, sale, store, customer, location)
	if err != nil {
		return nil, "", fmt.Errorf("recibo: generación fallida: %w", err)
	}
	short := sale.ID
	if len(short) > 8 {
		short = short[len(short)-8:]
	}
	return pdfBytes, fmt.Sprintf("recibo_%s_%s.pdf", sale.Date.Format("20060102"), short), nil
}

func (uc *ReceiptUseCase) loadCustomer(id *string) (*entity.Customer, error) {
	if id == nil || *id == "" {
		return nil, nil
	}
	c, err := uc.customerRepo.GetByID(*id)
	if err != nil {
		return nil, fmt.Errorf("recibo: obtener cliente: %w", err)
	}
	return c, nil
}
