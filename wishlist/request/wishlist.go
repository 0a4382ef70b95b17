package request

import (
	"github.com/shopspring/decimal"
)

// AddWishlistEntry carries the full product snapshot; the wishlist stores an
// independent copy decoupled from the live catalog.
type AddWishlistEntry struct {
	ID          int64           `json:"id"          validate:"required,gt=0"`
	Title       string          `json:"title"       validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
}
