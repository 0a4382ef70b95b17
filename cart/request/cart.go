package request

import (
	"github.com/shopspring/decimal"
)

type AddCartItem struct {
	ID            int64           `json:"id"            validate:"required,gt=0"`
	Title         string          `json:"title"         validate:"required"`
	Price         decimal.Decimal `json:"price"`
	Image         string          `json:"image"`
	Quantity      int32           `json:"quantity"      validate:"gte=0"`
	SelectedSize  string          `json:"selectedSize"`
	SelectedColor string          `json:"selectedColor"`
}

type UpdateCartItem struct {
	Quantity int32 `json:"quantity"`
}
