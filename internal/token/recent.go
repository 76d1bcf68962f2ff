package token

import (
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
)

// Recent remembers tokens issued in the last one to two windows. It is a pair
// of bloom filters rotated every window, so false positives are possible and
// only ever cause an extra serial redraw.
type Recent struct {
	mu       sync.Mutex
	window   time.Duration
	capacity uint
	current  *bloom.BloomFilter
	previous *bloom.BloomFilter
	rotated  time.Time
	now      func() time.Time
}

// NewRecent creates a guard sized for capacity tokens per window
func NewRecent(window time.Duration, capacity uint) *Recent {
	if capacity == 0 {
		capacity = 1000
	}
	r := &Recent{
		window:   window,
		capacity: capacity,
		now:      time.Now,
	}
	r.current = bloom.NewWithEstimates(capacity, 0.01)
	r.previous = bloom.NewWithEstimates(capacity, 0.01)
	r.rotated = r.now()
	return r
}

// Seen reports whether token was probably issued recently
func (r *Recent) Seen(token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rotate()
	return r.current.TestString(token) || r.previous.TestString(token)
}

// Add records an issued token
func (r *Recent) Add(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rotate()
	r.current.AddString(token)
}

func (r *Recent) rotate() {
	if r.window <= 0 {
		return
	}
	elapsed := r.now().Sub(r.rotated)
	if elapsed < r.window {
		return
	}
	if elapsed >= 2*r.window {
		r.previous = bloom.NewWithEstimates(r.capacity, 0.01)
	} else {
		r.previous = r.current
	}
	r.current = bloom.NewWithEstimates(r.capacity, 0.01)
	r.rotated = r.now()
}
