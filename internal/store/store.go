// Package store defines the durable order store the lifecycle engine writes
// through. Orders are keyed by owning manager account and order id.
package store

import (
	"context"

	"github.com/Lixing-Zhang/orderboard/internal/models"
)

// OrderStore persists orders. Implementations wrap I/O failures in
// models.ErrStore and report unknown ids with models.ErrNotFound. A patch must
// be applied atomically: readers see the order before or after it, never in
// between. Patching a soft-deleted order fails with models.ErrInvalidState.
type OrderStore interface {
	// LoadOrders returns the live (not soft-deleted) orders of owner
	LoadOrders(ctx context.Context, ownerID string) ([]models.Order, error)
	// LoadAllOrders includes soft-deleted orders, for audit
	LoadAllOrders(ctx context.Context, ownerID string) ([]models.Order, error)
	GetOrder(ctx context.Context, ownerID, orderID string) (models.Order, error)
	SaveOrder(ctx context.Context, ownerID string, order models.Order) error
	UpdateOrder(ctx context.Context, ownerID, orderID string, patch models.OrderPatch) error
	Close()
}
