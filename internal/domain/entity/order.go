package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is a line of a placed order.
type OrderItem struct {
	ID                  string          `json:"id"`
	ProductID           string          `json:"productId"`
	Name                string          `json:"name"`
	Price               decimal.Decimal `json:"price"`
	Quantity            int             `json:"quantity"`
	Status              string          `json:"status,omitempty"`
	SpecialInstructions string          `json:"specialInstructions,omitempty"`
}

// Order is a submitted order as tracked by the backend.
type Order struct {
	ID                  string          `json:"id"`
	Status              string          `json:"status"`
	Items               []OrderItem     `json:"items,omitempty"`
	TotalAmount         decimal.Decimal `json:"totalAmount"`
	SpecialInstructions string          `json:"specialInstructions,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
}
