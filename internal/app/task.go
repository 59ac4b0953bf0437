package app

import (
	"context"
	"errors"
	randv2 "math/rand/v2"

	"retrykit/internal/shared"
	"retrykit/pkg/retry"
)

var errRandomFailure = errors.New("random failure")

// UnstableTask returns an operation that hangs until its context ends with
// probability hangRate, fails transiently with probability failureRate, and
// otherwise succeeds. A nil src uses the global math/rand/v2 source.
func UnstableTask(failureRate, hangRate float64, src retry.Source) retry.Operation[string] {
	draw := randv2.Float64
	if src != nil {
		draw = src.Float64
	}
	return func(ctx context.Context) (string, error) {
		r := draw()
		switch {
		case r < hangRate:
			<-ctx.Done()
			return "", ctx.Err()
		case r < hangRate+failureRate:
			return "", shared.Transient(errRandomFailure)
		}
		return "Success!", nil
	}
}
