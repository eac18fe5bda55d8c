package dto

import "github.com/shopspring/decimal"

// AddCartLineRequest body de POST /api/cart/lines.
type AddCartLineRequest struct {
	ProductID string `json:"product_id"`
}

// SetCartQuantityRequest body de PUT /api/cart/lines/:productId.
type SetCartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartDiscountRequest body de PUT /api/cart/discount.
type CartDiscountRequest struct {
	Percentage decimal.Decimal `json:"percentage"`
}

// CartLocationRequest body de PUT /api/cart/location.
type CartLocationRequest struct {
	LocationID string `json:"location_id"`
}

// CartCustomerRequest body de PUT /api/cart/customer. Nil quita el cliente.
type CartCustomerRequest struct {
	CustomerID *string `json:"customer_id"`
}

// CartNotesRequest body de PUT /api/cart/notes.
type CartNotesRequest struct {
	Notes string `json:"notes"`
}

// CartLineResponse línea del carrito.
type CartLineResponse struct {
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	SKU             string          `json:"sku,omitempty"`
	UnitPriceAtSale decimal.Decimal `json:"unit_price_at_sale"`
	BasePriceAtSale decimal.Decimal `json:"base_price_at_sale"`
	Quantity        int             `json:"quantity"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// CartResponse estado del carrito con sus totales.
type CartResponse struct {
	State              string             `json:"state"`
	LocationID         string             `json:"location_id"`
	Lines              []CartLineResponse `json:"lines"`
	ItemCount          int                `json:"item_count"`
	DiscountPercentage decimal.Decimal    `json:"discount_percentage"`
	CustomerID         *string            `json:"customer_id"`
	Notes              string             `json:"notes,omitempty"`
	Subtotal           decimal.Decimal    `json:"subtotal"`
	DiscountAmount     decimal.Decimal    `json:"discount_amount"`
	Total              decimal.Decimal    `json:"total"`
	LastError          string             `json:"last_error,omitempty"`
}

// CartOperationResponse resultado de una operación sobre el carrito.
type CartOperationResponse struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message"`
	Capped      bool         `json:"capped,omitempty"`
	Adjustments []string     `json:"adjustments,omitempty"`
	Cart        CartResponse `json:"cart"`
}

// CheckoutResponse resultado del cobro.
type CheckoutResponse struct {
	Success  bool         `json:"success"`
	Message  string       `json:"message"`
	Sale     SaleResponse `json:"sale"`
	Warnings []string     `json:"warnings,omitempty"`
}
