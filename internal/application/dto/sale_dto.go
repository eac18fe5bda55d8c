package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleFilterRequest filtros de GET /api/sales.
type SaleFilterRequest struct {
	From       string `query:"from"` // YYYY-MM-DD
	To         string `query:"to"`   // YYYY-MM-DD inclusive
	CustomerID string `query:"customer_id"`
	LocationID string `query:"location_id"`
}

// SaleItemResponse línea de una venta.
type SaleItemResponse struct {
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	SKU             string          `json:"sku,omitempty"`
	Quantity        int             `json:"quantity"`
	UnitPriceAtSale decimal.Decimal `json:"unit_price_at_sale"`
	BasePriceAtSale decimal.Decimal `json:"base_price_at_sale"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// SaleResponse venta registrada.
type SaleResponse struct {
	ID                 string             `json:"id"`
	Date               time.Time          `json:"date"`
	CustomerID         *string            `json:"customer_id"`
	CustomerName       string             `json:"customer_name"`
	LocationID         string             `json:"location_id"`
	Items              []SaleItemResponse `json:"items"`
	Subtotal           decimal.Decimal    `json:"subtotal"`
	DiscountPercentage decimal.Decimal    `json:"discount_percentage"`
	DiscountAmount     decimal.Decimal    `json:"discount_amount"`
	Total              decimal.Decimal    `json:"total"`
	EstimatedProfit    decimal.Decimal    `json:"estimated_profit"`
	Notes              string             `json:"notes,omitempty"`
	CreatedBy          string             `json:"created_by,omitempty"`
}

// SalesSummaryDTO totales históricos de ventas.
type SalesSummaryDTO struct {
	SalesCount    int             `json:"sales_count"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
	AverageTicket decimal.Decimal `json:"average_ticket"`
	UnitsSold     int             `json:"units_sold"`
}

// DailySalesDTO punto de la serie diaria (más antiguo primero).
type DailySalesDTO struct {
	Date    string          `json:"date"` // YYYY-MM-DD
	Sales   int             `json:"sales"`
	Revenue decimal.Decimal `json:"revenue"`
	Profit  decimal.Decimal `json:"profit"`
}
