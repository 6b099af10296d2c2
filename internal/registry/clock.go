package registry

import (
	"sync"
	"time"
)

// Clock supplies the ledger time used to stamp records. Implementations
// must be monotonic and non-decreasing.
type Clock interface {
	Now() uint64
}

// SystemClock stamps records with wall-clock Unix seconds.
type SystemClock struct{}

// Now returns the current Unix timestamp.
func (SystemClock) Now() uint64 {
	return uint64(time.Now().Unix())
}

// ManualClock is a settable clock for tests and for hosts that advance
// ledger height themselves.
type ManualClock struct {
	mu     sync.Mutex
	height uint64
}

// NewManualClock creates a ManualClock starting at the given height.
func NewManualClock(height uint64) *ManualClock {
	return &ManualClock{height: height}
}

// Now returns the current height.
func (c *ManualClock) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height
}

// Advance moves the clock forward by n.
func (c *ManualClock) Advance(n uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.height += n
}
