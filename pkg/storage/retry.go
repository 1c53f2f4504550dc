package storage

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Remote writes are retried this many times, doubling the delay each time.
const (
	DefaultAttempts = 3
	DefaultDelay    = 500 * time.Millisecond
)

// transientError marks a failure worth retrying.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// retry runs fn up to attempts times with exponential backoff. Only errors
// wrapped in transientError are retried; the last error is returned
// unwrapped.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		var te *transientError
		if !errors.As(err, &te) {
			return err
		}
		lastErr = te.err

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// remote reports whether loc lives behind a network service, where
// failures are often transient.
func remote(loc string) bool {
	scheme, _, ok := strings.Cut(loc, "://")
	if !ok {
		return false
	}
	switch scheme {
	case "file", "mem":
		return false
	}
	return true
}
