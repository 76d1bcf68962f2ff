package models

import "github.com/shopspring/decimal"

// CartLineView is a cart line priced against the current catalog. Available
// is false when the item was deleted after it was added; such a line is
// dropped when the cart is placed.
type CartLineView struct {
	ItemID    int64           `json:"itemId"`
	Name      string          `json:"name,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Available bool            `json:"available"`
}

// CartResponse is the wire shape of a cart session
type CartResponse struct {
	ID         string          `json:"id"`
	Lines      []CartLineView  `json:"lines"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// CartAdjustRequest is the body of PATCH /api/carts/{cartId}
type CartAdjustRequest struct {
	ItemID int64 `json:"itemId"`
	Delta  int   `json:"delta"`
}
