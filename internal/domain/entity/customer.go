package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de cliente.
const (
	CustomerRegular  = "Regular"
	CustomerVIP      = "VIP"
	CustomerBusiness = "Business"
)

// Customer representa un cliente del punto de venta.
// TotalSpent se acumula con cada venta registrada a su nombre.
type Customer struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email,omitempty"`
	Phone        string          `json:"phone,omitempty"`
	CustomerType string          `json:"customerType"`
	Address      string          `json:"address,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	DateJoined   string          `json:"dateJoined"` // YYYY-MM-DD
	TotalSpent   decimal.Decimal `json:"totalSpent"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}
