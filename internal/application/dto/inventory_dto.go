package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos aceptados por POST /api/inventory/movements.
const (
	MovementRequestReceive  = "receive"
	MovementRequestAdjust   = "adjust"
	MovementRequestTransfer = "transfer"
)

// RegisterMovementRequest body genérico de un movimiento manual.
// receive/adjust usan LocationID; transfer usa FromLocationID y ToLocationID.
type RegisterMovementRequest struct {
	Type           string           `json:"type"`
	ProductID      string           `json:"product_id"`
	LocationID     string           `json:"location_id,omitempty"`
	FromLocationID string           `json:"from_location_id,omitempty"`
	ToLocationID   string           `json:"to_location_id,omitempty"`
	Quantity       int              `json:"quantity"`
	UnitCost       *decimal.Decimal `json:"unit_cost,omitempty"`
	Reason         string           `json:"reason,omitempty"`
}

// ReceiveRequest body de POST /api/inventory/receive.
type ReceiveRequest struct {
	ProductID  string           `json:"product_id"`
	LocationID string           `json:"location_id"`
	Quantity   int              `json:"quantity"`
	UnitCost   *decimal.Decimal `json:"unit_cost,omitempty"` // si viene, recalcula el precio base (costo promedio)
	Reason     string           `json:"reason,omitempty"`
}

// AdjustRequest body de POST /api/inventory/adjust. Delta con signo.
type AdjustRequest struct {
	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id"`
	Delta      int    `json:"delta"`
	Reason     string `json:"reason,omitempty"`
}

// TransferRequest body de POST /api/inventory/transfer.
type TransferRequest struct {
	ProductID      string `json:"product_id"`
	FromLocationID string `json:"from_location_id"`
	ToLocationID   string `json:"to_location_id"`
	Quantity       int    `json:"quantity"`
	Reason         string `json:"reason,omitempty"`
}

// StockChangeResponse resultado de receive/adjust. Clamped indica que el ajuste topó en cero.
type StockChangeResponse struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	ProductID        string `json:"product_id"`
	LocationID       string `json:"location_id"`
	PreviousQuantity int    `json:"previous_quantity"`
	NewQuantity      int    `json:"new_quantity"`
	AppliedChange    int    `json:"applied_change"`
	Clamped          bool   `json:"clamped"`
	TotalQuantity    int    `json:"total_quantity"`
}

// TransferResponse resultado de un traslado.
type TransferResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	TransferID     string `json:"transfer_id"`
	ProductID      string `json:"product_id"`
	FromLocationID string `json:"from_location_id"`
	ToLocationID   string `json:"to_location_id"`
	Quantity       int    `json:"quantity"`
	FromQuantity   int    `json:"from_quantity"`
	ToQuantity     int    `json:"to_quantity"`
}

// StockLevelResponse stock de un producto en una ubicación.
type StockLevelResponse struct {
	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id"`
	Available  int    `json:"available"`
}

// MovementFilterRequest filtros de GET /api/inventory/movements.
type MovementFilterRequest struct {
	ProductID  string `query:"product_id"`
	LocationID string `query:"location_id"`
	Type       string `query:"type"`
	From       string `query:"from"` // YYYY-MM-DD
	To         string `query:"to"`   // YYYY-MM-DD
	Limit      int    `query:"limit"`
}

// MovementResponse entrada del libro de movimientos.
type MovementResponse struct {
	ID                string    `json:"id"`
	Seq               int64     `json:"seq"`
	ProductID         string    `json:"product_id"`
	ProductName       string    `json:"product_name"`
	LocationID        string    `json:"location_id"`
	Type              string    `json:"type"`
	QuantityChange    int       `json:"quantity_change"`
	NewQuantity       int       `json:"new_quantity"`
	Shortfall         int       `json:"shortfall,omitempty"`
	Reason            string    `json:"reason,omitempty"`
	RelatedDocumentID string    `json:"related_document_id,omitempty"`
	UserID            string    `json:"user_id,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
}

// LowStockItemDTO producto con pocas unidades en total y su sugerencia de reposición.
type LowStockItemDTO struct {
	ProductID           string          `json:"product_id"`
	SKU                 string          `json:"sku"`
	ProductName         string          `json:"product_name"`
	Category            string          `json:"category"`
	TotalQuantity       int             `json:"total_quantity"`
	Threshold           int             `json:"threshold"`
	StockByLocation     map[string]int  `json:"stock_by_location"`
	SuggestedOrderQty   int             `json:"suggested_order_qty"`  // ceil(umbral * 1.5) - total
	EstimatedOrderCost  decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * precio base
	UnitsSoldLast90Days int             `json:"units_sold_last_90d"`
	Priority            int             `json:"priority"` // 1 = más urgente
}
