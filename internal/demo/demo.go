// Package demo fills an engine with plausible random data so a board can be
// tried without a console.
package demo

import (
	"context"
	"fmt"

	"github.com/Lixing-Zhang/orderboard/internal/cart"
	"github.com/Lixing-Zhang/orderboard/internal/models"
	"github.com/Lixing-Zhang/orderboard/internal/service"
	"github.com/jaswdr/faker"
	"github.com/shopspring/decimal"
)

// Seeder generates menus and orders from a faker source
type Seeder struct {
	fake   faker.Faker
	menu   *service.MenuService
	orders *service.OrderService
}

// NewSeeder creates a seeder. The same fake seed produces the same data.
func NewSeeder(fake faker.Faker, menu *service.MenuService, orders *service.OrderService) *Seeder {
	return &Seeder{fake: fake, menu: menu, orders: orders}
}

// SeedMenu adds n items: fruit juices and beers for the bar, vegetable dishes
// for the kitchen
func (s *Seeder) SeedMenu(ctx context.Context, n int) ([]models.MenuItem, error) {
	items := make([]models.MenuItem, 0, n)
	seen := make(map[string]bool)

	for attempts := 0; len(items) < n && attempts < n*10; attempts++ {
		var name string
		switch s.fake.IntBetween(0, 2) {
		case 0:
			name = s.fake.Food().Fruit() + " Juice"
		case 1:
			name = s.fake.Beer().Name()
		default:
			name = s.fake.Food().Vegetable() + " " + s.fake.RandomStringElement([]string{"Curry", "Dosa", "Biryani", "Paratha", "Fry"})
		}
		if seen[name] {
			continue
		}
		seen[name] = true

		price := decimal.NewFromInt(int64(s.fake.IntBetween(4, 60) * 5))
		item, err := s.menu.AddItem(ctx, name, price)
		if err != nil {
			return items, fmt.Errorf("add %q: %w", name, err)
		}
		items = append(items, *item)
	}
	return items, nil
}

// PlaceOrders places n orders of one to four random lines each
func (s *Seeder) PlaceOrders(ctx context.Context, ownerID string, items []models.MenuItem, n int) ([]models.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: menu is empty", models.ErrEmptyCart)
	}

	queues := []string{string(models.QueueKitchen), string(models.QueueBar), string(models.QueueBoth)}
	placed := make([]models.Order, 0, n)
	for i := 0; i < n; i++ {
		c := cart.New()
		for lines := s.fake.IntBetween(1, 4); lines > 0; lines-- {
			item := items[s.fake.IntBetween(0, len(items)-1)]
			c.Adjust(item.ID, s.fake.IntBetween(1, 3))
		}

		queue := models.Queue(s.fake.RandomStringElement(queues))
		o, err := s.orders.Place(ctx, ownerID, c, queue)
		if err != nil {
			return placed, err
		}
		placed = append(placed, *o)
	}
	return placed, nil
}

// Shuffle moves every order to a random status, and cancels roughly one in
// ten, so all board columns have something in them
func (s *Seeder) Shuffle(ctx context.Context, ownerID string, orders []models.Order) error {
	statuses := make([]string, 0, len(models.Statuses))
	for _, st := range models.Statuses {
		statuses = append(statuses, string(st))
	}

	for _, o := range orders {
		if s.fake.IntBetween(1, 10) == 1 {
			if _, err := s.orders.Cancel(ctx, ownerID, o.ID); err != nil {
				return err
			}
			continue
		}
		status := models.Status(s.fake.RandomStringElement(statuses))
		if _, err := s.orders.SetStatus(ctx, ownerID, o.ID, status); err != nil {
			return err
		}
	}
	return nil
}
