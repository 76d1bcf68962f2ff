package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Lixing-Zhang/orderboard/internal/models"
	"github.com/shopspring/decimal"
)

func order(id string, at time.Time) models.Order {
	return models.Order{
		ID:        id,
		Token:     "Chennai-" + id,
		Items:     []models.OrderItem{{ItemID: 1, Name: "Dosa", Price: decimal.NewFromInt(80), Quantity: 1}},
		Status:    models.StatusPending,
		Queue:     models.QueueKitchen,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	for i, id := range []string{"b", "a", "c"} {
		if err := s.SaveOrder(ctx, "owner-1", order(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("SaveOrder(%s) unexpected error: %v", id, err)
		}
	}
	if err := s.SaveOrder(ctx, "owner-2", order("z", base)); err != nil {
		t.Fatal(err)
	}

	deleted := true
	at := base.Add(time.Hour)
	if err := s.UpdateOrder(ctx, "owner-1", "a", models.OrderPatch{Deleted: &deleted, DeletedAt: &at}); err != nil {
		t.Fatalf("UpdateOrder() unexpected error: %v", err)
	}

	live, _ := s.LoadOrders(ctx, "owner-1")
	if len(live) != 2 || live[0].ID != "b" || live[1].ID != "c" {
		t.Errorf("LoadOrders() = %v, want b, c oldest first", ids(live))
	}
	all, _ := s.LoadAllOrders(ctx, "owner-1")
	if len(all) != 3 {
		t.Errorf("LoadAllOrders() = %v, want 3 orders", ids(all))
	}

	got, err := s.GetOrder(ctx, "owner-1", "a")
	if err != nil {
		t.Fatalf("GetOrder() unexpected error: %v", err)
	}
	if !got.Deleted || got.DeletedAt == nil || got.Status != models.StatusPending {
		t.Errorf("patched order = %+v", got)
	}

	if _, err := s.GetOrder(ctx, "owner-2", "a"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("GetOrder() across owners error = %v, want ErrNotFound", err)
	}
	status := models.StatusReady
	if err := s.UpdateOrder(ctx, "owner-1", "a", models.OrderPatch{Status: &status}); !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("UpdateOrder(cancelled) error = %v, want ErrInvalidState", err)
	}
	if got, _ := s.GetOrder(ctx, "owner-1", "a"); got.Status != models.StatusPending {
		t.Errorf("cancelled order status = %s, want it untouched", got.Status)
	}
	if err := s.UpdateOrder(ctx, "owner-1", "missing", models.OrderPatch{}); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("UpdateOrder(missing) error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	o := order("a", time.Now())
	_ = s.SaveOrder(ctx, "owner", o)

	o.Items[0].Quantity = 9
	got, _ := s.GetOrder(ctx, "owner", "a")
	got.Items[0].Name = "changed"

	again, _ := s.GetOrder(ctx, "owner", "a")
	if again.Items[0].Quantity != 1 || again.Items[0].Name != "Dosa" {
		t.Errorf("stored order was mutated through a caller copy: %+v", again.Items[0])
	}
}

func ids(orders []models.Order) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.ID
	}
	return out
}

func TestMemoryStore_PatchesAreAtomic(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	if err := s.SaveOrder(ctx, "owner", order("a", base)); err != nil {
		t.Fatal(err)
	}

	const workers = 8
	const rounds = 100
	statuses := []models.Status{models.StatusPreparing, models.StatusReady, models.StatusPending}

	var (
		wg  sync.WaitGroup
		bad = make(chan string, workers*rounds)
	)
	for w := 0; w < workers; w++ {
		wg.Add(2)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				qty := w*rounds + i + 1
				status := statuses[qty%len(statuses)]
				patch := models.OrderPatch{
					Items: []models.OrderItem{
						{ItemID: 1, Name: "Dosa", Price: decimal.NewFromInt(80), Quantity: qty},
						{ItemID: 2, Name: "Coffee", Price: decimal.NewFromInt(40), Quantity: qty},
					},
					Status: &status,
				}
				if err := s.UpdateOrder(ctx, "owner", "a", patch); err != nil {
					bad <- err.Error()
				}
			}
		}(w)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				got, err := s.GetOrder(ctx, "owner", "a")
				if err != nil {
					bad <- err.Error()
					continue
				}
				if len(got.Items) == 0 || !got.Status.Valid() {
					bad <- "empty items or invalid status"
					continue
				}
				// both lines of one patch always carry the same quantity
				if len(got.Items) == 2 && got.Items[0].Quantity != got.Items[1].Quantity {
					bad <- "lines from two different patches"
				}
				if live, _ := s.LoadOrders(ctx, "owner"); len(live) != 1 || len(live[0].Items) == 0 {
					bad <- "LoadOrders lost the order"
				}
			}
		}()
	}
	wg.Wait()
	close(bad)

	for msg := range bad {
		t.Error(msg)
	}
}
