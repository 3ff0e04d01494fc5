package client

import (
	"context"
	"time"
)

// backoffSchedule is the wait before each retry of an idempotent read.
// Three attempts total; writes are never retried at this layer because the
// idempotency key dedup belongs to the server.
var backoffSchedule = []time.Duration{time.Second, 2 * time.Second}

func withBackoff(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= len(backoffSchedule); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoffSchedule[attempt-1]):
			}
		}
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return lastErr
		}
	}
	return lastErr
}
