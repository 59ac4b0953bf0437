package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"retrykit/pkg/retry"
)

func TestRetryHooks(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var ownRetries int
	opts := append([]retry.Option{
		retry.WithRetries(3),
		retry.WithInitialDelay(time.Millisecond),
		retry.WithOnRetry(func(int, error) { ownRetries++ }),
	}, RetryHooks(log, "fetch")...)

	exec, err := retry.New(opts...)
	if err != nil {
		t.Fatalf("retry.New: %v", err)
	}

	attempts := 0
	err = exec.Run(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 2 {
			return errors.New("random failure")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	out := buf.String()
	if ownRetries != 1 {
		t.Errorf("caller hook should still run, got %d calls", ownRetries)
	}
	for _, want := range []string{
		"attempt failed, retrying", "op=fetch", "attempt=1", `err="random failure"`,
		"succeeded", "attempts=2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "all retries failed") {
		t.Error("failure should not be logged on success")
	}
}

func TestRetryHooksFailure(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	exec, err := retry.New(append([]retry.Option{retry.WithRetries(1)}, RetryHooks(log, "store")...)...)
	if err != nil {
		t.Fatalf("retry.New: %v", err)
	}
	_ = exec.Run(context.Background(), func(ctx context.Context) error { return errors.New("disk full") })

	if !strings.Contains(buf.String(), "level=ERROR") || !strings.Contains(buf.String(), "all retries failed") {
		t.Errorf("expected error-level failure log, got:\n%s", buf.String())
	}
}
