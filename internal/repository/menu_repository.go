package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Lixing-Zhang/orderboard/internal/models"
	"github.com/shopspring/decimal"
)

// MenuRepository defines the interface for menu catalog data access
type MenuRepository interface {
	GetAll(ctx context.Context) ([]models.MenuItem, error)
	GetByID(ctx context.Context, id int64) (*models.MenuItem, error)
	Create(ctx context.Context, name string, price decimal.Decimal) (*models.MenuItem, error)
	Update(ctx context.Context, item models.MenuItem) (*models.MenuItem, error)
	Delete(ctx context.Context, id int64) error
}

// InMemoryMenuRepository implements MenuRepository with in-memory storage.
// Every method holds the lock for its whole body so a call is never observed
// half-applied.
type InMemoryMenuRepository struct {
	mu     sync.RWMutex
	items  map[int64]models.MenuItem
	nextID int64
}

// NewInMemoryMenuRepository creates an empty catalog
func NewInMemoryMenuRepository() *InMemoryMenuRepository {
	return &InMemoryMenuRepository{
		items:  make(map[int64]models.MenuItem),
		nextID: 1,
	}
}

// GetAll returns all items ordered by id
func (r *InMemoryMenuRepository) GetAll(ctx context.Context) ([]models.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]models.MenuItem, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// GetByID returns an item by its ID
func (r *InMemoryMenuRepository) GetByID(ctx context.Context, id int64) (*models.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[id]
	if !exists {
		return nil, fmt.Errorf("%w: menu item %d", models.ErrNotFound, id)
	}
	return &item, nil
}

// Create assigns the next id. Ids are monotonic and never reused, even after
// a delete.
func (r *InMemoryMenuRepository) Create(ctx context.Context, name string, price decimal.Decimal) (*models.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item := models.MenuItem{ID: r.nextID, Name: name, Price: price}
	r.items[item.ID] = item
	r.nextID++
	return &item, nil
}

// Update replaces name and price of an existing item
func (r *InMemoryMenuRepository) Update(ctx context.Context, item models.MenuItem) (*models.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; !exists {
		return nil, fmt.Errorf("%w: menu item %d", models.ErrNotFound, item.ID)
	}
	r.items[item.ID] = item
	return &item, nil
}

// Delete removes an item. Orders keep their own snapshot.
func (r *InMemoryMenuRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[id]; !exists {
		return fmt.Errorf("%w: menu item %d", models.ErrNotFound, id)
	}
	delete(r.items, id)
	return nil
}
