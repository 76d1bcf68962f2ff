package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Lixing-Zhang/orderboard/internal/models"
	"github.com/google/uuid"
)

type session struct {
	cart    *Cart
	touched time.Time
}

// Sessions keeps the drafts of console sessions in memory, keyed by cart id.
// Sessions left untouched for longer than the idle timeout are dropped by
// Expire.
type Sessions struct {
	mu    sync.Mutex
	carts map[string]*session
	now   func() time.Time
}

// NewSessions creates an empty registry
func NewSessions() *Sessions {
	return &Sessions{
		carts: make(map[string]*session),
		now:   time.Now,
	}
}

// Create opens a new empty cart and returns its id
func (s *Sessions) Create() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	s.carts[id] = &session{cart: New(), touched: s.now()}
	return id
}

// lookup returns the session and marks it used. Callers hold s.mu.
func (s *Sessions) lookup(id string) (*session, error) {
	sess, ok := s.carts[id]
	if !ok {
		return nil, fmt.Errorf("%w: cart %s", models.ErrNotFound, id)
	}
	sess.touched = s.now()
	return sess, nil
}

// Get returns a copy of the cart
func (s *Sessions) Get(id string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return sess.cart.Clone(), nil
}

// Adjust changes one line of a cart and returns a copy of the result
func (s *Sessions) Adjust(id string, itemID int64, delta int) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.cart.Adjust(itemID, delta)
	return sess.cart.Clone(), nil
}

// Clear empties a cart but keeps the session open
func (s *Sessions) Clear(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(id)
	if err != nil {
		return err
	}
	sess.cart.Clear()
	return nil
}

// Delete drops a session
func (s *Sessions) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.carts[id]; !ok {
		return fmt.Errorf("%w: cart %s", models.ErrNotFound, id)
	}
	delete(s.carts, id)
	return nil
}

// Len returns the number of open sessions
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.carts)
}

// Expire drops every session idle for at least idle and returns how many
// were dropped
func (s *Sessions) Expire(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-idle)
	dropped := 0
	for id, sess := range s.carts {
		if !sess.touched.After(cutoff) {
			delete(s.carts, id)
			dropped++
		}
	}
	return dropped
}

// Janitor calls Expire every interval until ctx is done. onExpire, if set,
// receives the count of each sweep that dropped something.
func (s *Sessions) Janitor(ctx context.Context, idle, interval time.Duration, onExpire func(n int)) {
	if idle <= 0 {
		return
	}
	if interval <= 0 {
		interval = idle / 4
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Expire(idle); n > 0 && onExpire != nil {
				onExpire(n)
			}
		}
	}
}
