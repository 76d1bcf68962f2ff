package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Lixing-Zhang/orderboard/internal/models"
)

// MemoryStore is an OrderStore kept in process memory
type MemoryStore struct {
	mu     sync.RWMutex
	orders map[string]map[string]models.Order
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{orders: make(map[string]map[string]models.Order)}
}

// LoadOrders returns live orders oldest first
func (s *MemoryStore) LoadOrders(ctx context.Context, ownerID string) ([]models.Order, error) {
	return s.load(ownerID, false), nil
}

// LoadAllOrders returns every order including soft-deleted ones
func (s *MemoryStore) LoadAllOrders(ctx context.Context, ownerID string) ([]models.Order, error) {
	return s.load(ownerID, true), nil
}

func (s *MemoryStore) load(ownerID string, withDeleted bool) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]models.Order, 0, len(s.orders[ownerID]))
	for _, o := range s.orders[ownerID] {
		if o.Deleted && !withDeleted {
			continue
		}
		orders = append(orders, o.Clone())
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID < orders[j].ID
		}
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})
	return orders
}

// GetOrder returns one order, deleted or not
func (s *MemoryStore) GetOrder(ctx context.Context, ownerID, orderID string) (models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[ownerID][orderID]
	if !ok {
		return models.Order{}, fmt.Errorf("%w: order %s", models.ErrNotFound, orderID)
	}
	return o.Clone(), nil
}

// SaveOrder inserts or replaces an order
func (s *MemoryStore) SaveOrder(ctx context.Context, ownerID string, order models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, ok := s.orders[ownerID]
	if !ok {
		byID = make(map[string]models.Order)
		s.orders[ownerID] = byID
	}
	byID[order.ID] = order.Clone()
	return nil
}

// UpdateOrder merges patch into the stored order. Soft-deleted orders are
// never patched.
func (s *MemoryStore) UpdateOrder(ctx context.Context, ownerID, orderID string, patch models.OrderPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[ownerID][orderID]
	if !ok {
		return fmt.Errorf("%w: order %s", models.ErrNotFound, orderID)
	}
	if o.Deleted {
		return fmt.Errorf("%w: order %s is cancelled", models.ErrInvalidState, orderID)
	}
	o = o.Clone()
	patch.Apply(&o)
	s.orders[ownerID][orderID] = o
	return nil
}

// Close is a no-op
func (s *MemoryStore) Close() {}
