package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// El stock inicial va por ubicación (InitialStock) o como cantidad simple (Quantity)
// que entra a LocationID o, si viene vacío, a la bodega de recepción.
type CreateProductRequest struct {
	SKU          string          `json:"sku" validate:"required,min=1,max=100"`
	SerialNumber string          `json:"serial_number"`
	Category     string          `json:"category" validate:"required"`
	Brand        string          `json:"brand" validate:"required"`
	Model        string          `json:"model" validate:"required"`
	Condition    string          `json:"condition"`
	Description  string          `json:"description"`
	Supplier     string          `json:"supplier"`
	Warranty     string          `json:"warranty"`
	ImageURL     string          `json:"image_url"`
	Tags         string          `json:"tags"`
	Attributes   json.RawMessage `json:"attributes"`
	BasePrice    decimal.Decimal `json:"base_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	BestPrice    decimal.Decimal `json:"best_price"`
	InitialStock map[string]int  `json:"initial_stock,omitempty"`
	Quantity     int             `json:"quantity,omitempty"`
	LocationID   string          `json:"location_id,omitempty"`
}

// UpdateProductRequest entrada para actualizar un producto. El stock no se toca aquí:
// solo cambia con movimientos.
type UpdateProductRequest struct {
	SKU          *string          `json:"sku"`
	SerialNumber *string          `json:"serial_number"`
	Category     *string          `json:"category"`
	Brand        *string          `json:"brand"`
	Model        *string          `json:"model"`
	Condition    *string          `json:"condition"`
	Description  *string          `json:"description"`
	Supplier     *string          `json:"supplier"`
	Warranty     *string          `json:"warranty"`
	ImageURL     *string          `json:"image_url"`
	Tags         *string          `json:"tags"`
	Attributes   json.RawMessage  `json:"attributes"`
	BasePrice    *decimal.Decimal `json:"base_price"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	BestPrice    *decimal.Decimal `json:"best_price"`
}

// ProductResponse salida de un producto con su total calculado.
type ProductResponse struct {
	ID              string          `json:"id"`
	SKU             string          `json:"sku"`
	SerialNumber    string          `json:"serial_number,omitempty"`
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	Brand           string          `json:"brand"`
	Model           string          `json:"model"`
	Condition       string          `json:"condition,omitempty"`
	Description     string          `json:"description,omitempty"`
	Supplier        string          `json:"supplier,omitempty"`
	Warranty        string          `json:"warranty,omitempty"`
	ImageURL        string          `json:"image_url,omitempty"`
	Tags            string          `json:"tags,omitempty"`
	Attributes      json.RawMessage `json:"attributes,omitempty"`
	BasePrice       decimal.Decimal `json:"base_price"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	BestPrice       decimal.Decimal `json:"best_price"`
	StockByLocation map[string]int  `json:"stock_by_location"`
	TotalQuantity   int             `json:"total_quantity"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// POSProductResponse producto disponible en una tienda, con el stock de esa ubicación.
type POSProductResponse struct {
	ProductResponse
	Available int `json:"available"`
}
