package response

import (
	"github.com/shopspring/decimal"
)

// Product is sourced entirely from the remote catalog API and never mutated
// locally.
type Product struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
}
