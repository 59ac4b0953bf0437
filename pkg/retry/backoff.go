package retry

import (
	"math"
	"time"
)

// jitterFactor bounds the jitter magnitude as a fraction of the base delay.
const jitterFactor = 0.3

// Backoff returns the delay to wait after the given failed attempt (1-based).
//
// The base delay is initial * 2^(attempt-1). With jitter, a magnitude of
// floor(u * base * 0.3) is added or subtracted with equal probability. The
// result is clamped to [0, maxDelay].
func Backoff(attempt int, initial, maxDelay time.Duration, jitter bool, src Source) time.Duration {
	base := exponential(initial, attempt)

	delay := float64(base)
	if jitter && src != nil {
		magnitude := math.Floor(src.Float64() * float64(base) * jitterFactor)
		if src.Float64() > 0.5 {
			delay += magnitude
		} else {
			delay -= magnitude
		}
	}

	if delay > float64(maxDelay) {
		return maxDelay
	}
	if delay < 0 {
		return 0
	}
	return time.Duration(delay)
}

// exponential computes initial * 2^(attempt-1), saturating at the largest Duration.
func exponential(initial time.Duration, attempt int) time.Duration {
	if initial <= 0 {
		return 0
	}
	shift := attempt - 1
	if shift < 0 {
		shift = 0
	}
	if shift >= 63 || initial > time.Duration(math.MaxInt64>>shift) {
		return time.Duration(math.MaxInt64)
	}
	return initial << shift
}

// delay computes the wait after attempt using c's settings.
func (c Config) delay(attempt int) time.Duration {
	return Backoff(attempt, c.InitialDelay, c.MaxDelay, c.Jitter, c.Rand)
}
