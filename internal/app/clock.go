package app

import (
	"sync"
	"time"
)

// idClock issues clock-derived transaction ids: the current Unix
// millisecond, bumped past the previous value on collision so ids stay
// unique and monotonically increasing within a session.
type idClock struct {
	mu   sync.Mutex
	last int64
}

func (c *idClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now().UnixMilli()
	if now <= c.last {
		now = c.last + 1
	}
	c.last = now
	return now
}
