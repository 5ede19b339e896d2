package sleeper

import (
	"fmt"
	"sync"
	"time"
)

// minuteLimiter enforces a client-side request budget per minute against
// the upstream API. Fixed window: the counter resets when a minute has
// passed since the window opened.
type minuteLimiter struct {
	rpm int

	mu       sync.Mutex
	count    int
	windowAt time.Time
}

func newMinuteLimiter(rpm int) *minuteLimiter {
	return &minuteLimiter{rpm: rpm}
}

// allow consumes one request from the budget, or reports that the budget
// is exhausted. A limit of zero or less disables limiting.
func (l *minuteLimiter) allow() error {
	if l.rpm <= 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if l.windowAt.IsZero() || now.Sub(l.windowAt) >= time.Minute {
		l.windowAt = now
		l.count = 1
		return nil
	}

	l.count++
	if l.count > l.rpm {
		return fmt.Errorf("request budget of %d per minute exhausted", l.rpm)
	}
	return nil
}
