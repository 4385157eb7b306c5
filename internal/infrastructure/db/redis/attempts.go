package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const attemptsKeyPrefix = "signin:attempts:"

// AttemptLimiter counts consecutive sign-in failures per username in Redis,
// so the lockout holds across every instance of the service.
// Key format: signin:attempts:<username>, expiring window after the first failure.
type AttemptLimiter struct {
	client      redis.Cmdable
	maxAttempts int
	window      time.Duration
}

// NewAttemptLimiter wraps client. maxAttempts <= 0 disables blocking.
func NewAttemptLimiter(client redis.Cmdable, maxAttempts int, window time.Duration) *AttemptLimiter {
	return &AttemptLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

// Blocked reports whether username has reached maxAttempts within the window.
func (l *AttemptLimiter) Blocked(ctx context.Context, username string) (bool, error) {
	if l.maxAttempts <= 0 {
		return false, nil
	}
	n, err := l.client.Get(ctx, attemptsKey(username)).Int()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("attempts lookup: %w", err)
	}
	return n >= l.maxAttempts, nil
}

// recordFailure bumps the counter and guarantees it carries a TTL in the
// same atomic step. A key left without expiry (older writers, a crash
// between commands) gets one on the next failure.
var recordFailure = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// RecordFailure increments the counter; the window starts at the first failure.
func (l *AttemptLimiter) RecordFailure(ctx context.Context, username string) error {
	if err := recordFailure.Run(ctx, l.client, []string{attemptsKey(username)}, l.window.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("attempts incr: %w", err)
	}
	return nil
}

// Reset clears the counter after a successful sign-in.
func (l *AttemptLimiter) Reset(ctx context.Context, username string) error {
	if err := l.client.Del(ctx, attemptsKey(username)).Err(); err != nil {
		return fmt.Errorf("attempts reset: %w", err)
	}
	return nil
}

func attemptsKey(username string) string {
	return attemptsKeyPrefix + username
}
