package demo

import (
	"context"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/Lixing-Zhang/orderboard/internal/repository"
	"github.com/Lixing-Zhang/orderboard/internal/service"
	"github.com/Lixing-Zhang/orderboard/internal/store"
	"github.com/Lixing-Zhang/orderboard/internal/token"
	"github.com/jaswdr/faker"
)

func TestSeeder(t *testing.T) {
	ctx := context.Background()
	menu := service.NewMenuService(repository.NewInMemoryMenuRepository())
	st := store.NewMemoryStore()
	orders := service.NewOrderService(st, menu, token.NewGenerator(nil), service.WithLogger(slog.New(slog.DiscardHandler)))

	s := NewSeeder(faker.NewWithSeed(rand.NewSource(42)), menu, orders)

	items, err := s.SeedMenu(ctx, 8)
	if err != nil {
		t.Fatalf("SeedMenu() error = %v", err)
	}
	if len(items) == 0 {
		t.Fatal("SeedMenu() added nothing")
	}
	for _, item := range items {
		if item.Name == "" || !item.Price.IsPositive() {
			t.Errorf("seeded invalid item %+v", item)
		}
	}

	placed, err := s.PlaceOrders(ctx, "demo", items, 20)
	if err != nil {
		t.Fatalf("PlaceOrders() error = %v", err)
	}
	if len(placed) != 20 {
		t.Fatalf("PlaceOrders() placed %d, want 20", len(placed))
	}
	for _, o := range placed {
		if len(o.Items) == 0 {
			t.Errorf("order %s has no items", o.ID)
		}
	}

	if err := s.Shuffle(ctx, "demo", placed); err != nil {
		t.Fatalf("Shuffle() error = %v", err)
	}
	all, err := st.LoadAllOrders(ctx, "demo")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 20 {
		t.Errorf("store holds %d orders, want 20", len(all))
	}
}

func TestSeeder_PlaceOrdersEmptyMenu(t *testing.T) {
	s := NewSeeder(faker.New(), nil, nil)
	if _, err := s.PlaceOrders(context.Background(), "demo", nil, 1); err == nil {
		t.Error("PlaceOrders() with empty menu should fail")
	}
}
