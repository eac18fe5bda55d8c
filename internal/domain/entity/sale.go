package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnonymousCustomerName se usa cuando la venta no tiene cliente asociado.
const AnonymousCustomerName = "Anónimo"

// Sale representa una venta confirmada. Es inmutable una vez creada:
// los precios quedan congelados en sus líneas.
type Sale struct {
	ID                 string          `json:"id"`
	Date               time.Time       `json:"date"`
	CustomerID         *string         `json:"customerId"`
	CustomerName       string          `json:"customerName"`
	LocationID         string          `json:"locationId"`
	Items              []SaleItem      `json:"items"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
	DiscountAmount     decimal.Decimal `json:"discountAmount"`
	Total              decimal.Decimal `json:"total"`
	EstimatedProfit    decimal.Decimal `json:"estimatedProfit"`
	Notes              string          `json:"notes,omitempty"`
	CreatedBy          string          `json:"createdBy,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// SaleItem es una línea de venta con precios capturados al momento de vender.
type SaleItem struct {
	ProductID       string          `json:"productId"`
	ProductName     string          `json:"productName"`
	SKU             string          `json:"sku,omitempty"`
	Quantity        int             `json:"quantity"`
	UnitPriceAtSale decimal.Decimal `json:"unitPriceAtSale"`
	BasePriceAtSale decimal.Decimal `json:"basePriceAtSale"`
	LineTotal       decimal.Decimal `json:"lineTotal"`
}

// HasCustomer indica si la venta está asociada a un cliente.
func (s *Sale) HasCustomer() bool {
	return s.CustomerID != nil && *s.CustomerID != ""
}

// Clone copia la venta y sus líneas.
func (s *Sale) Clone() *Sale {
	if s == nil {
		return nil
	}
	c := *s
	c.Items = append([]SaleItem(nil), s.Items...)
	if s.CustomerID != nil {
		id := *s.CustomerID
		c.CustomerID = &id
	}
	return &c
}
