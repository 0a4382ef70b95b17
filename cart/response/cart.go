package response

import (
	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	Price         decimal.Decimal `json:"price"`
	Image         string          `json:"image"`
	Quantity      int32           `json:"quantity"`
	SelectedSize  string          `json:"selectedSize,omitempty"`
	SelectedColor string          `json:"selectedColor,omitempty"`
}

// TotalItems and TotalPrice are derived aggregates, recomputed from the line
// items on every read.
type Cart struct {
	Items      []CartItem      `json:"items"`
	TotalItems int32           `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}
