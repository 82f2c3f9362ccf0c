package wifi

import (
	"context"
	"sync"
	"time"
)

// CachedScanner reuses the last successful scan for TTL. When a refresh
// fails the previous networks are returned together with the error.
type CachedScanner struct {
	Scanner Scanner
	TTL     time.Duration

	mu      sync.Mutex
	last    []Network
	scanned time.Time
	now     func() time.Time
}

func NewCachedScanner(s Scanner, ttl time.Duration) *CachedScanner {
	return &CachedScanner{Scanner: s, TTL: ttl, now: time.Now}
}

func (c *CachedScanner) Scan(ctx context.Context) ([]Network, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now
	if now == nil {
		now = time.Now
	}
	if !c.scanned.IsZero() && now().Sub(c.scanned) < c.TTL {
		return c.last, nil
	}

	networks, err := c.Scanner.Scan(ctx)
	if err != nil {
		return c.last, err
	}
	c.last = networks
	c.scanned = now()
	return networks, nil
}
