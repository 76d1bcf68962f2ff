package board

import (
	"context"
	"sync"
	"time"

	"github.com/Lixing-Zhang/orderboard/internal/models"
)

// DefaultInterval is how often a display re-fetches
const DefaultInterval = 2 * time.Second

// Update is delivered after every fetch. On error Boards still holds the
// last good snapshot.
type Update struct {
	Boards []Board
	Err    error
	At     time.Time
}

// Poller keeps a snapshot of boards fresh by re-fetching them on a fixed
// interval. Each successful fetch replaces the snapshot wholesale.
type Poller struct {
	fetcher  Fetcher
	queues   []models.Queue
	interval time.Duration

	mu     sync.RWMutex
	boards []Board
}

// NewPoller creates a poller for queues. A non-positive interval uses
// DefaultInterval.
func NewPoller(fetcher Fetcher, queues []models.Queue, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		fetcher:  fetcher,
		queues:   append([]models.Queue(nil), queues...),
		interval: interval,
	}
}

// Snapshot returns the last successfully fetched boards
func (p *Poller) Snapshot() []Board {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]Board(nil), p.boards...)
}

// Run fetches immediately and then on every tick until ctx is done, sending
// each result on updates. It returns nil once ctx is cancelled.
func (p *Poller) Run(ctx context.Context, updates chan<- Update) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		u := p.poll(ctx)
		if ctx.Err() != nil {
			return nil
		}

		select {
		case updates <- u:
		case <-ctx.Done():
			return nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil
		}
	}
}

func (p *Poller) poll(ctx context.Context) Update {
	boards, err := p.fetcher.FetchBoards(ctx, p.queues)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err == nil {
		p.boards = boards
	}
	return Update{
		Boards: append([]Board(nil), p.boards...),
		Err:    err,
		At:     time.Now(),
	}
}
