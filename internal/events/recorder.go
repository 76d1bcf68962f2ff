package events

import (
	"context"
	"sync"
)

// Recorder keeps published events in memory. The demo command and tests use
// it to observe what the engine announced.
type Recorder struct {
	mu     sync.Mutex
	events []OrderEvent
	Err    error
}

// Publish records ev, or returns Err when set
func (r *Recorder) Publish(ctx context.Context, ev OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, ev)
	return nil
}

// Events returns a copy of what was published
func (r *Recorder) Events() []OrderEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]OrderEvent(nil), r.events...)
}

func (r *Recorder) Close() error { return nil }
