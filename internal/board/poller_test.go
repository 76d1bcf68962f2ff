package board

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Lixing-Zhang/orderboard/internal/models"
)

type scriptedFetcher struct {
	mu      sync.Mutex
	results []fetchResult
	calls   int
}

func (f *scriptedFetcher) FetchBoards(ctx context.Context, queues []models.Queue) ([]Board, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r := f.results[min(f.calls, len(f.results)-1)]
	f.calls++
	if r.err != nil {
		return nil, r.err
	}
	return []Board{r.board}, nil
}

func TestPoller_Run(t *testing.T) {
	first := Board{Queue: models.QueueKitchen, Pending: []models.Order{{ID: "a", Token: "Delhi-1"}}}
	second := Board{Queue: models.QueueKitchen, Ready: []models.Order{{ID: "a", Token: "Delhi-1"}}}
	fetcher := &scriptedFetcher{results: []fetchResult{
		{board: first},
		{err: errors.New("connection refused")},
		{board: second},
	}}

	p := NewPoller(fetcher, []models.Queue{models.QueueKitchen}, 5*time.Millisecond)
	updates := make(chan Update)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx, updates) }()

	u1 := <-updates
	if u1.Err != nil || len(u1.Boards[0].Pending) != 1 {
		t.Fatalf("first update = %+v", u1)
	}

	u2 := <-updates
	if u2.Err == nil {
		t.Fatal("second update should carry the fetch error")
	}
	if len(u2.Boards) != 1 || len(u2.Boards[0].Pending) != 1 {
		t.Errorf("failed fetch replaced the snapshot: %+v", u2.Boards)
	}

	u3 := <-updates
	if u3.Err != nil || len(u3.Boards[0].Pending) != 0 || len(u3.Boards[0].Ready) != 1 {
		t.Errorf("third update did not replace the snapshot: %+v", u3)
	}
	if got := p.Snapshot(); len(got) != 1 || len(got[0].Ready) != 1 {
		t.Errorf("Snapshot() = %+v", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, want nil after cancel", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not stop after cancel")
	}
}

func TestNewPoller_DefaultInterval(t *testing.T) {
	p := NewPoller(&scriptedFetcher{}, nil, 0)
	if p.interval != DefaultInterval {
		t.Errorf("interval = %v, want %v", p.interval, DefaultInterval)
	}
}
