package retry

import (
	"context"
	"errors"
	"time"
)

// Operation is a fallible computation that can be retried. The context passed
// to it is canceled once the attempt is abandoned.
type Operation[T any] func(ctx context.Context) (T, error)

// Executor runs operations with a fixed, validated configuration. It holds no
// per-call state and is safe for concurrent use.
type Executor struct {
	cfg Config
}

// New creates an Executor from DefaultConfig with opts applied.
func New(opts ...Option) (*Executor, error) {
	cfg := DefaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &Executor{cfg: cfg}, nil
}

// Config returns a copy of the executor configuration.
func (e *Executor) Config() Config {
	return e.cfg
}

// Run executes fn with retries, discarding any value.
func (e *Executor) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := Execute(ctx, e, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Execute runs op with the executor's configuration.
func Execute[T any](ctx context.Context, e *Executor, op Operation[T]) (T, error) {
	return run(ctx, e.cfg, op)
}

// Do validates config and runs op until it succeeds, the attempt budget is
// used up, or RetryIf declines a failure.
func Do[T any](ctx context.Context, config Config, op Operation[T]) (T, error) {
	if err := config.Normalize(); err != nil {
		var zero T
		return zero, err
	}
	return run(ctx, config, op)
}

func run[T any](ctx context.Context, cfg Config, op Operation[T]) (T, error) {
	var (
		zero    T
		lastErr error
	)
	start := time.Now()

	for attempt := 1; attempt <= cfg.Retries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, cfg.fail(&canceledError{ctxErr: ctxErr, lastErr: lastErr})
		}

		v, err := attemptOnce(ctx, cfg, attempt, op)
		if err == nil {
			cfg.OnSuccess(attempt)
			return v, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			if !errors.Is(err, ctxErr) {
				lastErr = err
			}
			return zero, cfg.fail(&canceledError{ctxErr: ctxErr, lastErr: lastErr})
		}
		lastErr = err

		if attempt < cfg.Retries && cfg.RetryIf(err) {
			cfg.OnRetry(attempt, err)
			select {
			case <-ctx.Done():
				return zero, cfg.fail(&canceledError{ctxErr: ctx.Err(), lastErr: err})
			case <-cfg.After(cfg.delay(attempt)):
			}
			continue
		}

		if cfg.WrapExhausted && attempt == cfg.Retries {
			err = &RetriesExceededError{
				LastError:     err,
				Attempts:      attempt,
				TotalDuration: time.Since(start),
			}
		}
		return zero, cfg.fail(err)
	}

	// Unreachable with a normalized config: the last attempt always returns.
	return zero, cfg.fail(lastErr)
}

func (c Config) fail(err error) error {
	c.OnFailure(err)
	return err
}

type attemptResult[T any] struct {
	value T
	err   error
	panic any
}

// attemptOnce invokes op, racing it against TimeoutPerAttempt when set. A
// late result from an abandoned attempt is dropped into a buffered channel.
func attemptOnce[T any](ctx context.Context, cfg Config, attempt int, op Operation[T]) (T, error) {
	if cfg.TimeoutPerAttempt <= 0 {
		return op(ctx)
	}

	attemptCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan attemptResult[T], 1)
	go func() {
		var r attemptResult[T]
		defer func() {
			if p := recover(); p != nil {
				r.panic = p
			}
			done <- r
		}()
		r.value, r.err = op(attemptCtx)
	}()

	timer := time.NewTimer(cfg.TimeoutPerAttempt)
	defer timer.Stop()

	var zero T
	select {
	case r := <-done:
		if r.panic != nil {
			// Re-raise on the caller's goroutine, as an untimed attempt would.
			panic(r.panic)
		}
		return r.value, r.err
	case <-timer.C:
		return zero, &AttemptTimeoutError{Attempt: attempt, Limit: cfg.TimeoutPerAttempt}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
