// Package backoffadapter exposes the retry delay schedule as a
// github.com/cenkalti/backoff/v4 BackOff, so code already built on that
// library can share the same timing.
package backoffadapter

import (
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"retrykit/pkg/retry"
)

var _ backoff.BackOff = (*Schedule)(nil)

// Schedule yields retry.Backoff delays for successive failures and
// backoff.Stop once the attempt budget is spent.
type Schedule struct {
	cfg retry.Config

	mu      sync.Mutex
	attempt int
}

// New creates a Schedule from cfg, validated the same way the executor
// validates it. Retries, the delay settings, RetryIf and the OnRetry,
// OnSuccess and OnFailure hooks are honoured; TimeoutPerAttempt and After
// are not, since backoff.Retry owns the attempt and the wait.
func New(cfg retry.Config) (*Schedule, error) {
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &Schedule{cfg: cfg}, nil
}

// NextBackOff implements backoff.BackOff.
func (s *Schedule) NextBackOff() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempt++
	if s.attempt >= s.cfg.Retries {
		return backoff.Stop
	}
	return retry.Backoff(s.attempt, s.cfg.InitialDelay, s.cfg.MaxDelay, s.cfg.Jitter, s.cfg.Rand)
}

// Reset implements backoff.BackOff.
func (s *Schedule) Reset() {
	s.mu.Lock()
	s.attempt = 0
	s.mu.Unlock()
}

// Retry runs fn under backoff.Retry with a fresh copy of this schedule, so
// concurrent calls never share an attempt budget. Errors rejected by RetryIf
// are marked permanent.
func (s *Schedule) Retry(fn func() error) error {
	b := &Schedule{cfg: s.cfg}
	attempt := 0
	op := func() error {
		attempt++
		err := fn()
		if err != nil && !s.cfg.RetryIf(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, _ time.Duration) {
		s.cfg.OnRetry(attempt, err)
	}

	if err := backoff.RetryNotify(op, b, notify); err != nil {
		s.cfg.OnFailure(err)
		return err
	}
	s.cfg.OnSuccess(attempt)
	return nil
}
