package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest entrada para crear un cliente.
type CreateCustomerRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	CustomerType string `json:"customer_type,omitempty"`
	Address      string `json:"address,omitempty"`
	Notes        string `json:"notes,omitempty"`
	DateJoined   string `json:"date_joined,omitempty"` // YYYY-MM-DD, hoy si viene vacío
}

// UpdateCustomerRequest campos modificables de un cliente. TotalSpent no se edita.
type UpdateCustomerRequest struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	CustomerType *string `json:"customer_type"`
	Address      *string `json:"address"`
	Notes        *string `json:"notes"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email,omitempty"`
	Phone        string          `json:"phone,omitempty"`
	CustomerType string          `json:"customer_type"`
	Address      string          `json:"address,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	DateJoined   string          `json:"date_joined"`
	TotalSpent   decimal.Decimal `json:"total_spent"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
