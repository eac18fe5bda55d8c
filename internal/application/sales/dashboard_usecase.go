package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/shop-erp/internal/application/dto"
)

const dashboardTopProducts = 5

// StockCounter cuenta productos con stock bajo y agotados.
type StockCounter interface {
	Counts() (low, out int, err error)
}

// DashboardUseCase resumen del día y del mes en curso.
type DashboardUseCase struct {
	ledger *LedgerUseCase
	stock  StockCounter
	now    func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(ledger *LedgerUseCase, stock StockCounter) *DashboardUseCase {
	return &DashboardUseCase{ledger: ledger, stock: stock, now: time.Now}
}

// GetSummary arma el DashboardSummaryDTO.
//
// Tres consultas en paralelo:
//  1. ventas de hoy  → TodaySales + TodayProfit
//  2. ventas del mes → MonthlySales + MonthlyProfit + top productos
//  3. conteo de stock bajo y agotado
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()

	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type metrics struct {
		revenue, profit decimal.Decimal
		count           int
		err             error
	}
	type topResult struct {
		items []dto.TopProductDTO
		err   error
	}
	type stockResult struct {
		low, out int
		err      error
	}

	todayCh := make(chan metrics, 1)
	monthCh := make(chan metrics, 1)
	topCh := make(chan topResult, 1)
	stockCh := make(chan stockResult, 1)

	sum := func(from, to time.Time, ch chan<- metrics) {
		list, err := uc.ledger.SalesInRange(from, to)
		m := metrics{revenue: decimal.Zero, profit: decimal.Zero, err: err}
		for _, s := range list {
			m.revenue = m.revenue.Add(s.Total)
			m.profit = m.profit.Add(s.EstimatedProfit)
			m.count++
		}
		ch <- m
	}
	go sum(todayStart, todayEnd, todayCh)
	go sum(monthStart, todayEnd, monthCh)
	go func() {
		items, err := uc.ledger.TopSellingProducts(dashboardTopProducts, &monthStart, &todayEnd)
		topCh <- topResult{items, err}
	}()
	go func() {
		low, out, err := uc.stock.Counts()
		stockCh <- stockResult{low, out, err}
	}()

	today, month, top, stock := <-todayCh, <-monthCh, <-topCh, <-stockCh
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if today.err != nil {
		return nil, fmt.Errorf("dashboard: ventas de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: ventas del mes: %w", month.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: top productos: %w", top.err)
	}
	if stock.err != nil {
		return nil, fmt.Errorf("dashboard: stock: %w", stock.err)
	}

	return &dto.DashboardSummaryDTO{
		TodaySales:      today.revenue.Round(2),
		TodayProfit:     today.profit.Round(2),
		TodayCount:      today.count,
		MonthlySales:    month.revenue.Round(2),
		MonthlyProfit:   month.profit.Round(2),
		MonthlyCount:    month.count,
		TopProducts:     top.items,
		LowStockCount:   stock.low,
		OutOfStockCount: stock.out,
		DateLabel:       monthLabel(now),
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Octubre 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
