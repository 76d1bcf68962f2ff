package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Lixing-Zhang/orderboard/internal/models"
	"github.com/Lixing-Zhang/orderboard/internal/repository"
	"github.com/shopspring/decimal"
)

// MenuService handles business rules for the menu catalog
type MenuService struct {
	repo repository.MenuRepository
}

// NewMenuService creates a new menu service
func NewMenuService(repo repository.MenuRepository) *MenuService {
	return &MenuService{
		repo: repo,
	}
}

// ListItems returns the whole catalog
func (s *MenuService) ListItems(ctx context.Context) ([]models.MenuItem, error) {
	return s.repo.GetAll(ctx)
}

// GetItem returns an item by ID
func (s *MenuService) GetItem(ctx context.Context, id int64) (*models.MenuItem, error) {
	return s.repo.GetByID(ctx, id)
}

// AddItem validates and stores a new item
func (s *MenuService) AddItem(ctx context.Context, name string, price decimal.Decimal) (*models.MenuItem, error) {
	name, err := validateItem(name, price)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, name, price)
}

// UpdateItem validates and replaces an existing item
func (s *MenuService) UpdateItem(ctx context.Context, id int64, name string, price decimal.Decimal) (*models.MenuItem, error) {
	name, err := validateItem(name, price)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, models.MenuItem{ID: id, Name: name, Price: price})
}

// DeleteItem removes an item regardless of past orders referencing it
func (s *MenuService) DeleteItem(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Lookup resolves an item id for carts and order placement
func (s *MenuService) Lookup(id int64) (models.MenuItem, bool) {
	item, err := s.repo.GetByID(context.Background(), id)
	if err != nil {
		return models.MenuItem{}, false
	}
	return *item, true
}

func validateItem(name string, price decimal.Decimal) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", models.ErrValidation)
	}
	if !price.IsPositive() {
		return "", fmt.Errorf("%w: price must be positive", models.ErrValidation)
	}
	return name, nil
}
