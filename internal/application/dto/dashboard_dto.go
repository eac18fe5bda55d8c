package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/sales/dashboard.
// KPIs del día y del mes en curso más el top de productos del mes.
type DashboardSummaryDTO struct {
	// Día actual (00:00 – 23:59)
	TodaySales  decimal.Decimal `json:"today_sales"`
	TodayProfit decimal.Decimal `json:"today_profit"`
	TodayCount  int             `json:"today_count"`

	// Mes en curso (día 1 – hoy)
	MonthlySales  decimal.Decimal `json:"monthly_sales"`
	MonthlyProfit decimal.Decimal `json:"monthly_profit"`
	MonthlyCount  int             `json:"monthly_count"`

	TopProducts []TopProductDTO `json:"top_products"`

	LowStockCount   int `json:"low_stock_count"`
	OutOfStockCount int `json:"out_of_stock_count"`

	DateLabel string `json:"date_label"` // ej: "Octubre 2026"
}

// TopProductDTO producto con más unidades vendidas.
type TopProductDTO struct {
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	QuantitySold     int             `json:"quantity_sold"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	MarginPercentage decimal.Decimal `json:"margin_percentage"` // (revenue - costo) / revenue * 100
}
