package entity

import "time"

// Tipos de movimiento del libro de stock.
const (
	MovementInitialStock     = "initial_stock"
	MovementSale             = "sale"
	MovementManualAdjustment = "manual_adjustment"
	MovementTransferOut      = "transfer_out"
	MovementTransferIn       = "transfer_in"
	MovementDeletion         = "deletion"
)

// StockMovement es una entrada inmutable del libro de movimientos.
// Seq es la posición en el libro y define el orden cronológico de replay.
type StockMovement struct {
	ID                string    `json:"id"`
	Seq               int64     `json:"seq"`
	ProductID         string    `json:"productId"`
	ProductName       string    `json:"productName"` // snapshot "Marca Modelo"
	LocationID        string    `json:"locationId"`
	Type              string    `json:"type"`
	QuantityChange    int       `json:"quantityChange"`
	NewQuantity       int       `json:"newQuantity"`
	Shortfall         int       `json:"shortfall,omitempty"` // unidades vendidas por encima del stock registrado
	Reason            string    `json:"reason,omitempty"`
	RelatedDocumentID string    `json:"relatedDocumentId,omitempty"`
	UserID            string    `json:"userId,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
}

// AppliedChange es la variación que realmente sufrió el stock de la ubicación.
func (m *StockMovement) AppliedChange() int {
	return m.QuantityChange + m.Shortfall
}

// IsValidMovementType valida el tipo contra el catálogo cerrado.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementInitialStock, MovementSale, MovementManualAdjustment,
		MovementTransferOut, MovementTransferIn, MovementDeletion:
		return true
	}
	return false
}
