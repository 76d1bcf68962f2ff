package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Lixing-Zhang/orderboard/internal/models"
	"github.com/Lixing-Zhang/orderboard/internal/store"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/shopspring/decimal"
)

var at = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func seed(t *testing.T) *store.MemoryStore {
	t.Helper()
	st := store.NewMemoryStore()
	ctx := context.Background()

	item := []models.OrderItem{{ItemID: 1, Name: "Dosa", Price: decimal.NewFromInt(80), Quantity: 2}}
	orders := []models.Order{
		{ID: "a", Token: "Delhi-1", Items: item, Status: models.StatusCompleted, Queue: models.QueueKitchen, CreatedAt: at},
		{ID: "b", Token: "Delhi-2", Items: item, Status: models.StatusPending, Queue: models.QueueKitchen, CreatedAt: at.Add(time.Minute)},
		{ID: "c", Token: "Delhi-3", Items: item, Status: models.StatusPending, Queue: models.QueueBar, CreatedAt: at.Add(2 * time.Minute), Deleted: true},
	}
	for _, o := range orders {
		if err := st.SaveOrder(ctx, "manager-1", o); err != nil {
			t.Fatal(err)
		}
	}
	return st
}

func TestNewSnapshot(t *testing.T) {
	orders, err := seed(t).LoadAllOrders(context.Background(), "manager-1")
	if err != nil {
		t.Fatal(err)
	}

	s := NewSnapshot("manager-1", orders, at)

	if s.Count != 3 || s.Cancelled != 1 {
		t.Errorf("count/cancelled = %d/%d, want 3/1", s.Count, s.Cancelled)
	}
	if s.Revenue.String() != "160" {
		t.Errorf("revenue = %s, want 160", s.Revenue)
	}
	if s.Orders[0].Total.String() != "160" {
		t.Errorf("order total = %s, want 160", s.Orders[0].Total)
	}
}

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestExporter_Upload(t *testing.T) {
	e := NewExporter(seed(t), slog.New(slog.DiscardHandler))
	e.now = func() time.Time { return at }

	putter := &fakePutter{}
	key, err := e.Upload(context.Background(), putter, "audit-bucket", "orderboard/audit", "manager-1")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if want := "orderboard/audit/manager-1/2024/03/01/093000.json"; key != want {
		t.Errorf("key = %s, want %s", key, want)
	}
	if *putter.input.Bucket != "audit-bucket" || *putter.input.Key != key {
		t.Errorf("put input = %+v", putter.input)
	}

	var snap Snapshot
	if err := json.Unmarshal(putter.body, &snap); err != nil {
		t.Fatalf("uploaded body is not a snapshot: %v", err)
	}
	if len(snap.Orders) != 3 || !snap.Orders[2].Deleted {
		t.Errorf("uploaded orders = %+v, want all three including the cancelled one", snap.Orders)
	}
}

func TestExporter_UploadFailure(t *testing.T) {
	e := NewExporter(seed(t), slog.New(slog.DiscardHandler))

	_, err := e.Upload(context.Background(), &fakePutter{err: errors.New("access denied")}, "b", "p", "manager-1")
	if err == nil {
		t.Fatal("Upload() expected error")
	}
}

func TestExporter_WriteTo(t *testing.T) {
	e := NewExporter(seed(t), slog.New(slog.DiscardHandler))

	var buf bytes.Buffer
	snap, err := e.WriteTo(context.Background(), "nobody", &buf)
	if err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	if snap.Count != 0 || !bytes.Contains(buf.Bytes(), []byte(`"orders": []`)) {
		t.Errorf("empty snapshot = %s", buf.String())
	}
}
