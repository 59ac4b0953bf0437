// Package retry re-invokes a fallible operation with exponential backoff until
// it succeeds, the attempt budget is used up, or a predicate declines a retry.
//
// Key Features:
//   - Attempt budget counting the first call (Retries)
//   - Exponential delay initial*2^(attempt-1), capped at MaxDelay
//   - Optional ±30% jitter from a concurrency-safe source
//   - Per-attempt timeout racing the operation against a timer
//   - Synchronous lifecycle hooks (OnRetry, OnSuccess, OnFailure)
//   - Caller context cancellation during attempts and waits
//
// Basic Usage:
//
//	v, err := retry.Do(ctx, retry.DefaultConfig(), func(ctx context.Context) (string, error) {
//	    return fetch(ctx)
//	})
//
// Reusable Executor:
//
//	exec, err := retry.New(
//	    retry.WithRetries(5),
//	    retry.WithInitialDelay(500*time.Millisecond),
//	    retry.WithMaxDelay(3*time.Second),
//	    retry.WithJitter(true),
//	    retry.WithTimeoutPerAttempt(1500*time.Millisecond),
//	    retry.WithOnRetry(func(attempt int, err error) {
//	        log.Printf("attempt %d failed: %v", attempt, err)
//	    }),
//	)
//	v, err := retry.Execute(ctx, exec, op)
//
// The error returned after the last attempt is the operation's own error (or
// an *AttemptTimeoutError), unmodified unless WrapExhausted is set. Panics
// raised by hooks are not recovered.
package retry
