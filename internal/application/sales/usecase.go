// Package sales contiene el libro de ventas: registro inmutable de ventas,
// consultas, analítica y comprobantes.
package sales

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/shop-erp/internal/application/customer"
	"github.com/jhoicas/shop-erp/internal/application/dto"
	"github.com/jhoicas/shop-erp/internal/domain"
	"github.com/jhoicas/shop-erp/internal/domain/entity"
	"github.com/jhoicas/shop-erp/internal/domain/repository"
	salesdomain "github.com/jhoicas/shop-erp/internal/domain/sales"
)

// RecordSaleInput datos de una venta. Los totales nunca se reciben: se recalculan
// desde las líneas.
type RecordSaleInput struct {
	CustomerID         *string
	LocationID         string
	Items              []entity.SaleItem
	DiscountPercentage decimal.Decimal
	Notes              string
	CreatedBy          string
	Date               time.Time // cero = ahora
}

// SaleFilter filtros de consulta. To es inclusivo.
type SaleFilter struct {
	From       *time.Time
	To         *time.Time
	CustomerID string
	LocationID string
}

// LedgerUseCase libro de ventas.
type LedgerUseCase struct {
	txRunner     SaleTxRunner
	saleRepo     repository.SaleRepository
	locationRepo repository.LocationRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner SaleTxRunner,
	saleRepo repository.SaleRepository,
	locationRepo repository.LocationRepository,
) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, saleRepo: saleRepo, locationRepo: locationRepo}
}

// RecordSale registra una venta en su propia transacción (sin tocar stock).
func (uc *LedgerUseCase) RecordSale(ctx context.Context, in RecordSaleInput) (*entity.Sale, error) {
	var sale *entity.Sale
	err := uc.txRunner.RunSale(ctx, func(
		_ repository.StockMovementRepository,
		_ repository.ProductRepository,
		saleRepo repository.SaleRepository,
		customerRepo repository.CustomerRepository,
	) error {
		var err error
		sale, err = uc.RecordSaleInTx(saleRepo, customerRepo, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// RecordSaleInTx registra la venta con los repos de una transacción en curso:
// recalcula totales, congela el nombre del cliente y suma el total a lo gastado por él.
func (uc *LedgerUseCase) RecordSaleInTx(
	saleRepo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
	in RecordSaleInput,
) (*entity.Sale, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	loc, err := uc.locationRepo.GetByID(in.LocationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, fmt.Errorf("%q: %w", in.LocationID, domain.ErrInvalidLocation)
	}
	totals, err := salesdomain.ComputeTotals(in.Items, in.DiscountPercentage)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	items := make([]entity.SaleItem, len(in.Items))
	for i, it := range in.Items {
		it.LineTotal = salesdomain.LineTotal(it.UnitPriceAtSale, it.Quantity)
		items[i] = it
	}
	sale := &entity.Sale{
		ID:                 uuid.Must(uuid.NewV7()).String(),
		Date:               date.UTC(),
		CustomerName:       entity.AnonymousCustomerName,
		LocationID:         in.LocationID,
		Items:              items,
		Subtotal:           totals.Subtotal,
		DiscountPercentage: in.DiscountPercentage,
		DiscountAmount:     totals.DiscountAmount,
		Total:              totals.Total,
		EstimatedProfit:    totals.EstimatedProfit,
		Notes:              in.Notes,
		CreatedBy:          in.CreatedBy,
		CreatedAt:          now,
	}
	if in.CustomerID != nil && *in.CustomerID != "" {
		c, err := customer.AddSpent(customerRepo, *in.CustomerID, sale.Total)
		if err != nil {
			return nil, err
		}
		id := c.ID
		sale.CustomerID = &id
		sale.CustomerName = c.Name
	}
	if err := saleRepo.Create(sale); err != nil {
		return nil, err
	}
	return sale, nil
}

// GetSale obtiene una venta. Devuelve (nil, nil) si no existe.
func (uc *LedgerUseCase) GetSale(id string) (*dto.SaleResponse, error) {
	s, err := uc.saleRepo.GetByID(id)
	if err != nil || s == nil {
		return nil, err
	}
	return ToSaleResponse(s), nil
}

// QuerySales ventas que cumplen el filtro, de la más reciente a la más antigua.
func (uc *LedgerUseCase) QuerySales(f SaleFilter) ([]dto.SaleResponse, error) {
	list, err := uc.filtered(f)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *ToSaleResponse(s))
	}
	return out, nil
}

// SalesInRange ventas entre from y to (inclusive), de la más antigua a la más reciente.
func (uc *LedgerUseCase) SalesInRange(from, to time.Time) ([]*entity.Sale, error) {
	list, err := uc.filtered(SaleFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date.Before(list[j].Date) })
	return list, nil
}

// Summary totales históricos.
func (uc *LedgerUseCase) Summary() (*dto.SalesSummaryDTO, error) {
	list, err := uc.saleRepo.List()
	if err != nil {
		return nil, err
	}
	out := &dto.SalesSummaryDTO{TotalRevenue: decimal.Zero, TotalProfit: decimal.Zero, AverageTicket: decimal.Zero}
	for _, s := range list {
		out.SalesCount++
		out.TotalRevenue = out.TotalRevenue.Add(s.Total)
		out.TotalProfit = out.TotalProfit.Add(s.EstimatedProfit)
		for _, it := range s.Items {
			out.UnitsSold += it.Quantity
		}
	}
	if out.SalesCount > 0 {
		out.AverageTicket = out.TotalRevenue.Div(decimal.NewFromInt(int64(out.SalesCount))).Round(2)
	}
	return out, nil
}

// DailySalesAndProfit serie de los últimos days días (hoy incluido), de la más antigua a hoy.
// Los días sin ventas aparecen en cero.
func (uc *LedgerUseCase) DailySalesAndProfit(days int, now time.Time) ([]dto.DailySalesDTO, error) {
	if days <= 0 {
		days = 7
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := today.AddDate(0, 0, -(days - 1))
	end := today.Add(24*time.Hour - time.Nanosecond)
	list, err := uc.SalesInRange(start, end)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DailySalesDTO, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i).Format(time.DateOnly)
		out[i] = dto.DailySalesDTO{Date: d, Revenue: decimal.Zero, Profit: decimal.Zero}
		index[d] = i
	}
	for _, s := range list {
		i, ok := index[s.Date.In(now.Location()).Format(time.DateOnly)]
		if !ok {
			continue
		}
		out[i].Sales++
		out[i].Revenue = out[i].Revenue.Add(s.Total)
		out[i].Profit = out[i].Profit.Add(s.EstimatedProfit)
	}
	return out, nil
}

// TopSellingProducts productos con más unidades vendidas en el rango (nil = histórico).
func (uc *LedgerUseCase) TopSellingProducts(limit int, from, to *time.Time) ([]dto.TopProductDTO, error) {
	if limit <= 0 {
		limit = 5
	}
	list, err := uc.filtered(SaleFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}
	type acc struct {
		name    string
		qty     int
		revenue decimal.Decimal
		cost    decimal.Decimal
	}
	byProduct := make(map[string]*acc)
	for _, s := range list {
		for _, it := range s.Items {
			a, ok := byProduct[it.ProductID]
			if !ok {
				a = &acc{name: it.ProductName, revenue: decimal.Zero, cost: decimal.Zero}
				byProduct[it.ProductID] = a
			}
			qty := decimal.NewFromInt(int64(it.Quantity))
			a.qty += it.Quantity
			a.revenue = a.revenue.Add(it.UnitPriceAtSale.Mul(qty))
			a.cost = a.cost.Add(it.BasePriceAtSale.Mul(qty))
		}
	}
	hundred := decimal.NewFromInt(100)
	out := make([]dto.TopProductDTO, 0, len(byProduct))
	for id, a := range byProduct {
		margin := decimal.Zero
		if a.revenue.IsPositive() {
			margin = a.revenue.Sub(a.cost).Div(a.revenue).Mul(hundred).Round(2)
		}
		out = append(out, dto.TopProductDTO{
			ProductID:        id,
			ProductName:      a.name,
			QuantitySold:     a.qty,
			TotalRevenue:     a.revenue.Round(2),
			MarginPercentage: margin,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].QuantitySold != out[j].QuantitySold {
			return out[i].QuantitySold > out[j].QuantitySold
		}
		return out[i].ProductName < out[j].ProductName
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (uc *LedgerUseCase) filtered(f SaleFilter) ([]*entity.Sale, error) {
	list, err := uc.saleRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Sale, 0, len(list))
	for _, s := range list {
		if f.From != nil && s.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && s.Date.After(*f.To) {
			continue
		}
		if f.CustomerID != "" && (s.CustomerID == nil || *s.CustomerID != f.CustomerID) {
			continue
		}
		if f.LocationID != "" && !strings.EqualFold(s.LocationID, f.LocationID) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// ToSaleResponse convierte la entidad al DTO.
func ToSaleResponse(s *entity.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			SKU:             it.SKU,
			Quantity:        it.Quantity,
			UnitPriceAtSale: it.UnitPriceAtSale,
			BasePriceAtSale: it.BasePriceAtSale,
			LineTotal:       it.LineTotal,
		})
	}
	return &dto.SaleResponse{
		ID:                 s.ID,
		Date:               s.Date,
		CustomerID:         s.CustomerID,
		CustomerName:       s.CustomerName,
		LocationID:         s.LocationID,
		Items:              items,
		Subtotal:           s.Subtotal,
		DiscountPercentage: s.DiscountPercentage,
		DiscountAmount:     s.DiscountAmount,
		Total:              s.Total,
		EstimatedProfit:    s.EstimatedProfit,
		Notes:              s.Notes,
		CreatedBy:          s.CreatedBy,
	}
}
