package retry

import (
	"errors"
	"fmt"
	"time"
)

// ErrAttemptTimeout is matched by every *AttemptTimeoutError.
var ErrAttemptTimeout = errors.New("retry: attempt timed out")

// AttemptTimeoutError is produced when an attempt does not resolve within
// Config.TimeoutPerAttempt.
type AttemptTimeoutError struct {
	Attempt int
	Limit   time.Duration
}

func (e *AttemptTimeoutError) Error() string {
	return fmt.Sprintf("retry: attempt %d timed out after %s", e.Attempt, e.Limit)
}

// Is reports whether target is ErrAttemptTimeout.
func (e *AttemptTimeoutError) Is(target error) bool {
	return target == ErrAttemptTimeout
}

// Timeout implements net.Error so generic timeout checks recognise the error.
func (e *AttemptTimeoutError) Timeout() bool { return true }

// Temporary implements net.Error.
func (e *AttemptTimeoutError) Temporary() bool { return true }

// IsAttemptTimeout reports whether err was caused by a per-attempt timeout.
func IsAttemptTimeout(err error) bool {
	return errors.Is(err, ErrAttemptTimeout)
}

// RetriesExceededError is returned when retries are exhausted and
// Config.WrapExhausted is set.
type RetriesExceededError struct {
	LastError     error
	Attempts      int
	TotalDuration time.Duration
}

func (e *RetriesExceededError) Error() string {
	return fmt.Sprintf("retry: max attempts exceeded after %s (%d attempts): %v",
		e.TotalDuration, e.Attempts, e.LastError)
}

func (e *RetriesExceededError) Unwrap() error {
	return e.LastError
}

// canceledError ends the loop when the caller's context is done. It matches
// both the context error and the last operation error.
type canceledError struct {
	ctxErr  error
	lastErr error
}

func (e *canceledError) Error() string {
	if e.lastErr == nil {
		return "retry: " + e.ctxErr.Error()
	}
	return "retry: " + e.ctxErr.Error() + " (last error: " + e.lastErr.Error() + ")"
}

func (e *canceledError) Unwrap() []error {
	if e.lastErr == nil {
		return []error{e.ctxErr}
	}
	return []error{e.ctxErr, e.lastErr}
}
