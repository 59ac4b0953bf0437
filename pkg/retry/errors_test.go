package retry

import (
	"errors"
	"net"
	"testing"
	"time"
)

func TestAttemptTimeoutError(t *testing.T) {
	var err error = &AttemptTimeoutError{Attempt: 2, Limit: 10 * time.Millisecond}

	if got, want := err.Error(), "retry: attempt 2 timed out after 10ms"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrAttemptTimeout) {
		t.Error("expected errors.Is(err, ErrAttemptTimeout)")
	}

	var netErr net.Error
	if !errors.As(err, &netErr) || !netErr.Timeout() {
		t.Error("attempt timeout should satisfy net.Error with Timeout() == true")
	}
}
