package backoffadapter

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retrykit/pkg/retry"
)

func TestScheduleNextBackOff(t *testing.T) {
	s, err := New(retry.Config{
		Retries:      4,
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     25 * time.Millisecond,
	})
	require.NoError(t, err)

	assert.Equal(t, 10*time.Millisecond, s.NextBackOff())
	assert.Equal(t, 20*time.Millisecond, s.NextBackOff())
	assert.Equal(t, 25*time.Millisecond, s.NextBackOff())
	assert.Equal(t, backoff.Stop, s.NextBackOff())

	s.Reset()
	assert.Equal(t, 10*time.Millisecond, s.NextBackOff())
}

func TestScheduleInvalidConfig(t *testing.T) {
	_, err := New(retry.Config{})
	assert.Error(t, err)
}

func TestScheduleRetry(t *testing.T) {
	s, err := New(retry.Config{
		Retries:      3,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
	})
	require.NoError(t, err)

	t.Run("succeeds within budget", func(t *testing.T) {
		attempts := 0
		err := s.Retry(func() error {
			attempts++
			if attempts < 3 {
				return errors.New("flaky")
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("stops at budget", func(t *testing.T) {
		attempts := 0
		last := errors.New("always")
		err := s.Retry(func() error {
			attempts++
			return last
		})
		assert.ErrorIs(t, err, last)
		assert.Equal(t, 3, attempts)
	})
}

func TestScheduleRetryPermanent(t *testing.T) {
	permanent := errors.New("permanent")
	s, err := New(retry.Config{
		Retries:      5,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
		RetryIf:      func(err error) bool { return !errors.Is(err, permanent) },
	})
	require.NoError(t, err)

	attempts := 0
	err = s.Retry(func() error {
		attempts++
		return permanent
	})
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, attempts)
}

func TestScheduleRetryConcurrentCallsKeepOwnBudget(t *testing.T) {
	s, err := New(retry.Config{
		Retries:      5,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
	})
	require.NoError(t, err)

	const calls = 4
	attempts := make([]int, calls)
	var wg sync.WaitGroup
	for i := range calls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Retry(func() error {
				attempts[i]++
				return errors.New("always")
			})
		}()
	}
	wg.Wait()

	for i, n := range attempts {
		assert.Equal(t, 5, n, "call %d", i)
	}
}

func TestScheduleRetryHooks(t *testing.T) {
	var retried []int
	var succeeded, failed atomic.Int32

	s, err := New(retry.Config{
		Retries:      3,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
		OnRetry:      func(attempt int, err error) { retried = append(retried, attempt) },
		OnSuccess:    func(attempt int) { succeeded.Store(int32(attempt)) },
		OnFailure:    func(error) { failed.Add(1) },
	})
	require.NoError(t, err)

	attempts := 0
	require.NoError(t, s.Retry(func() error {
		attempts++
		if attempts < 3 {
			return errors.New("flaky")
		}
		return nil
	}))
	assert.Equal(t, []int{1, 2}, retried)
	assert.Equal(t, int32(3), succeeded.Load())
	assert.Zero(t, failed.Load())

	last := errors.New("down")
	err = s.Retry(func() error { return last })
	assert.ErrorIs(t, err, last)
	assert.Equal(t, int32(1), failed.Load())
}
