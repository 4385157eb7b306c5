package memory

import (
	"context"
	"sync"
	"time"
)

// AttemptLimiter is the in-process counterpart of the Redis limiter: a
// username is blocked once it accumulates maxAttempts failures inside window.
type AttemptLimiter struct {
	mu          sync.Mutex
	maxAttempts int
	window      time.Duration
	now         func() time.Time
	entries     map[string]attemptEntry
}

type attemptEntry struct {
	count     int
	expiresAt time.Time
}

func NewAttemptLimiter(maxAttempts int, window time.Duration) *AttemptLimiter {
	return &AttemptLimiter{
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
		entries:     make(map[string]attemptEntry),
	}
}

// WithClock replaces the time source; tests only.
func (l *AttemptLimiter) WithClock(now func() time.Time) *AttemptLimiter {
	l.now = now
	return l
}

func (l *AttemptLimiter) Blocked(_ context.Context, username string) (bool, error) {
	if l.maxAttempts <= 0 {
		return false, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.live(username)
	return ok && e.count >= l.maxAttempts, nil
}

// RecordFailure increments the counter. The window starts at the first
// failure and is not extended by later ones.
func (l *AttemptLimiter) RecordFailure(_ context.Context, username string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.live(username)
	if !ok {
		e = attemptEntry{expiresAt: l.now().Add(l.window)}
	}
	e.count++
	l.entries[username] = e
	return nil
}

func (l *AttemptLimiter) Reset(_ context.Context, username string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, username)
	return nil
}

func (l *AttemptLimiter) live(username string) (attemptEntry, bool) {
	e, ok := l.entries[username]
	if !ok {
		return attemptEntry{}, false
	}
	if !l.now().Before(e.expiresAt) {
		delete(l.entries, username)
		return attemptEntry{}, false
	}
	return e, true
}
