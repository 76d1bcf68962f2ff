package models

import "errors"

// Error taxonomy shared by the catalog, the order engine and the stores.
// Wrap with fmt.Errorf("%w: ...") and test with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrEmptyCart    = errors.New("cart has no resolvable items")
	ErrInvalidState = errors.New("invalid order state")
	ErrStore        = errors.New("order store failure")
)
