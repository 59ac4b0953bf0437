package retry

import (
	"errors"
	randv2 "math/rand/v2"
	"time"
)

// Default values used by DefaultConfig.
const (
	DefaultRetries      = 3
	DefaultInitialDelay = 500 * time.Millisecond
	DefaultMaxDelay     = 5 * time.Second
)

// Source is a random source for jitter. *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
}

// Config defines retry configuration
type Config struct {
	// Retries is the maximum number of attempts (including the first one)
	Retries int
	// InitialDelay is the delay before the first retry
	InitialDelay time.Duration
	// MaxDelay caps the computed delay
	MaxDelay time.Duration
	// Jitter perturbs each delay by up to ±30%
	Jitter bool
	// TimeoutPerAttempt bounds a single attempt (0 = disabled)
	TimeoutPerAttempt time.Duration
	// RetryIf reports whether a failure may be retried
	RetryIf func(err error) bool
	// OnRetry is called before waiting for the next attempt
	OnRetry func(attempt int, err error)
	// OnSuccess is called with the attempt that succeeded
	OnSuccess func(attempt int)
	// OnFailure is called with the error returned to the caller
	OnFailure func(err error)
	// WrapExhausted returns *RetriesExceededError instead of the bare last error
	// once every attempt has been used.
	WrapExhausted bool
	// Rand is the jitter source (optional, safe global source if nil)
	Rand Source
	// After creates the backoff timer channel (for testing, defaults to time.After)
	After func(d time.Duration) <-chan time.Time
}

// DefaultConfig returns the configuration used when no option is given.
func DefaultConfig() Config {
	return Config{
		Retries:      DefaultRetries,
		InitialDelay: DefaultInitialDelay,
		MaxDelay:     DefaultMaxDelay,
	}
}

// Normalize validates the configuration and fills unset hooks.
func (c *Config) Normalize() error {
	if c.Retries <= 0 {
		return errors.New("retry: Retries must be positive")
	}
	if c.InitialDelay < 0 {
		return errors.New("retry: InitialDelay cannot be negative")
	}
	if c.MaxDelay < 0 {
		return errors.New("retry: MaxDelay cannot be negative")
	}
	if c.TimeoutPerAttempt < 0 {
		return errors.New("retry: TimeoutPerAttempt cannot be negative")
	}

	if c.RetryIf == nil {
		c.RetryIf = func(error) bool { return true }
	}
	if c.OnRetry == nil {
		c.OnRetry = func(int, error) {}
	}
	if c.OnSuccess == nil {
		c.OnSuccess = func(int) {}
	}
	if c.OnFailure == nil {
		c.OnFailure = func(error) {}
	}
	if c.Rand == nil {
		c.Rand = globalSource{}
	}
	if c.After == nil {
		c.After = time.After
	}
	return nil
}

// globalSource draws from the top-level math/rand/v2 generator, which is safe
// for concurrent use.
type globalSource struct{}

func (globalSource) Float64() float64 { return randv2.Float64() }

// Option configures an Executor.
type Option func(*Config)

// WithRetries sets the maximum number of attempts.
func WithRetries(n int) Option {
	return func(c *Config) { c.Retries = n }
}

// WithInitialDelay sets the delay before the first retry.
func WithInitialDelay(d time.Duration) Option {
	return func(c *Config) { c.InitialDelay = d }
}

// WithMaxDelay caps the delay between attempts.
func WithMaxDelay(d time.Duration) Option {
	return func(c *Config) { c.MaxDelay = d }
}

// WithJitter enables or disables delay randomization.
func WithJitter(v bool) Option {
	return func(c *Config) { c.Jitter = v }
}

// WithTimeoutPerAttempt bounds every attempt. Zero disables the bound.
func WithTimeoutPerAttempt(d time.Duration) Option {
	return func(c *Config) { c.TimeoutPerAttempt = d }
}

// WithRetryIf sets the retry predicate.
func WithRetryIf(f func(err error) bool) Option {
	return func(c *Config) { c.RetryIf = f }
}

// WithOnRetry adds a retry hook. Hooks added this way run in registration order.
func WithOnRetry(f func(attempt int, err error)) Option {
	return func(c *Config) {
		prev := c.OnRetry
		if prev == nil {
			c.OnRetry = f
			return
		}
		c.OnRetry = func(attempt int, err error) {
			prev(attempt, err)
			f(attempt, err)
		}
	}
}

// WithOnSuccess adds a success hook.
func WithOnSuccess(f func(attempt int)) Option {
	return func(c *Config) {
		prev := c.OnSuccess
		if prev == nil {
			c.OnSuccess = f
			return
		}
		c.OnSuccess = func(attempt int) {
			prev(attempt)
			f(attempt)
		}
	}
}

// WithOnFailure adds a failure hook.
func WithOnFailure(f func(err error)) Option {
	return func(c *Config) {
		prev := c.OnFailure
		if prev == nil {
			c.OnFailure = f
			return
		}
		c.OnFailure = func(err error) {
			prev(err)
			f(err)
		}
	}
}

// WithWrapExhausted makes an exhausted budget return *RetriesExceededError.
func WithWrapExhausted(v bool) Option {
	return func(c *Config) { c.WrapExhausted = v }
}

// WithRand sets the jitter source.
func WithRand(src Source) Option {
	return func(c *Config) { c.Rand = src }
}

// WithAfter replaces the backoff timer.
func WithAfter(f func(d time.Duration) <-chan time.Time) Option {
	return func(c *Config) { c.After = f }
}
