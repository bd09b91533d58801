package mock

import (
	"sync"
	"time"
)

// Time is a clock that starts at a chosen instant and keeps ticking.
type Time struct {
	mu        sync.Mutex
	start     time.Time
	updatedAt time.Time
}

func NewTime() *Time {
	now := time.Now()
	return &Time{start: now, updatedAt: now}
}

func (t *Time) SetCurrentTime(currentTime time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.start = currentTime
	t.updatedAt = time.Now()
}

// Reset makes the clock follow the wall clock again.
func (t *Time) Reset() {
	t.SetCurrentTime(time.Now())
}

func (t *Time) Now() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.start.Add(time.Since(t.updatedAt))
}
