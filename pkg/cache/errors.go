package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is matched by every [*BackendError].
var ErrUnavailable = errors.New("cache backend unavailable")

// BackendError is a failed operation against a remote cache backend.
// Backend errors are transient: a later attempt may succeed once the
// server is reachable again.
type BackendError struct {
	Backend string // "redis" or "mongodb"
	Op      string // backend operation, e.g. "get" or "replace"
	Err     error
}

func (e *BackendError) Error() string {
	return e.Backend + " " + e.Op + ": " + e.Err.Error()
}

// Unwrap exposes both [ErrUnavailable] and the driver error.
func (e *BackendError) Unwrap() []error { return []error{ErrUnavailable, e.Err} }

// IsTransient reports whether err came from an unreachable or failing
// backend rather than from the caller.
func IsTransient(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}

// Write retry policy. Cache writes sit on the request path, so the total
// wait stays well under a second.
const (
	retryAttempts  = 3
	retryBaseDelay = 100 * time.Millisecond
)

// RetryWithBackoff calls fn until it succeeds, returns a non-transient
// error, or retryAttempts calls have failed. The delay doubles after each
// failure. Cancelling ctx stops the wait and returns ctx.Err().
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryBaseDelay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsTransient(err) || attempt == retryAttempts {
			return err
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}
