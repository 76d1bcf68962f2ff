package models

import "github.com/shopspring/decimal"

// MenuItem represents a dish or drink the manager can sell
type MenuItem struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// MenuItemRequest is the body of add/update menu calls
type MenuItemRequest struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}
