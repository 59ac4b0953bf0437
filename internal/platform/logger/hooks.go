package logger

import (
	"log/slog"

	"retrykit/pkg/retry"
)

// RetryHooks returns executor options that log the retry lifecycle of op.
// They chain after any hooks already configured.
func RetryHooks(log *slog.Logger, op string) []retry.Option {
	l := log.With(slog.String("op", op))
	return []retry.Option{
		retry.WithOnRetry(func(attempt int, err error) {
			l.Warn("attempt failed, retrying", slog.Int("attempt", attempt), slog.Any("err", err))
		}),
		retry.WithOnSuccess(func(attempt int) {
			l.Info("succeeded", slog.Int("attempts", attempt))
		}),
		retry.WithOnFailure(func(err error) {
			l.Error("all retries failed", slog.Any("err", err))
		}),
	}
}
