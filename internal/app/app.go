package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"retrykit/internal/config"
	"retrykit/internal/platform/logger"
	"retrykit/internal/shared"
	"retrykit/pkg/retry"
)

// App wires application components.
type App struct {
	cfg     config.Config
	log     *slog.Logger
	ownsLog bool
	task    retry.Operation[string]
	extra   []retry.Option
}

// Option configures App.
type Option func(*App)

// WithLogger replaces the logger built from configuration.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.log = l
			a.ownsLog = false
		}
	}
}

// WithTask replaces the default unstable task.
func WithTask(op retry.Operation[string]) Option {
	return func(a *App) {
		if op != nil {
			a.task = op
		}
	}
}

// WithRetryOptions appends executor options after the ones derived from config.
func WithRetryOptions(opts ...retry.Option) Option {
	return func(a *App) { a.extra = append(a.extra, opts...) }
}

// New creates a new App from cfg.
func New(cfg config.Config, opts ...Option) (*App, error) {
	if cfg.Demo.HangRate > 0 && cfg.Retry.TimeoutPerAttempt == 0 {
		return nil, fmt.Errorf("%w: RETRY_TIMEOUT_PER_ATTEMPT required when DEMO_HANG_RATE is set", shared.ErrValidation)
	}

	a := &App{
		cfg:  cfg,
		task: UnstableTask(cfg.Demo.FailureRate, cfg.Demo.HangRate, nil),
	}
	for _, o := range opts {
		o(a)
	}
	if a.log == nil {
		a.log = logger.New(logger.Options{
			Env:          cfg.Env,
			ConsoleLevel: cfg.Log.ConsoleLevel,
			FileLevel:    cfg.Log.FileLevel,
			File:         cfg.Log.File,
			App:          "retrydemo",
		})
		a.ownsLog = true
	}

	// Fail fast on an invalid retry configuration.
	if _, err := a.executor("validate"); err != nil {
		return nil, err
	}
	return a, nil
}

// Close releases resources held by the logger.
func (a *App) Close() error {
	if a.ownsLog {
		return logger.Close(a.log)
	}
	return nil
}

func (a *App) executor(name string) (*retry.Executor, error) {
	opts := []retry.Option{
		retry.WithRetries(a.cfg.Retry.Attempts),
		retry.WithInitialDelay(a.cfg.Retry.InitialDelay),
		retry.WithMaxDelay(a.cfg.Retry.MaxDelay),
		retry.WithJitter(a.cfg.Retry.Jitter),
		retry.WithTimeoutPerAttempt(a.cfg.Retry.TimeoutPerAttempt),
		retry.WithRetryIf(retryIf),
	}
	opts = append(opts, a.extra...)
	opts = append(opts, logger.RetryHooks(a.log, name)...)
	return retry.New(opts...)
}

// retryIf retries what shared.Retryable accepts except attempt timeouts: a
// task that hung once is reported rather than given another window.
func retryIf(err error) bool {
	return shared.Retryable(err) && !retry.IsAttemptTimeout(err)
}

// maxConcurrentTasks bounds how many task retry loops run at once.
const maxConcurrentTasks = 16

// Run executes the configured number of tasks concurrently, each with its own
// retry loop, and returns the joined errors of the tasks that failed.
func (a *App) Run(ctx context.Context) error {
	n := a.cfg.Demo.Tasks
	a.log.Info("starting",
		slog.Int("tasks", n),
		slog.Int("attempts", a.cfg.Retry.Attempts),
		slog.Duration("initial_delay", a.cfg.Retry.InitialDelay),
		slog.Duration("max_delay", a.cfg.Retry.MaxDelay),
		slog.Duration("timeout_per_attempt", a.cfg.Retry.TimeoutPerAttempt),
		slog.Bool("jitter", a.cfg.Retry.Jitter),
	)

	// Task failures are collected per task rather than returned to the group:
	// Wait reports only the first error and every failure is reported here.
	// The group bounds concurrency and surfaces executor setup errors.
	failures := make([]error, n)
	var g errgroup.Group
	g.SetLimit(maxConcurrentTasks)
	for i := range n {
		name := fmt.Sprintf("task-%d", i+1)
		g.Go(func() error {
			exec, err := a.executor(name)
			if err != nil {
				return err
			}
			v, err := retry.Execute(ctx, exec, a.task)
			if err != nil {
				failures[i] = shared.Wrap(err, name)
				return nil
			}
			a.log.Info("final result", slog.String("op", name), slog.String("result", v))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	err := errors.Join(failures...)
	if err != nil {
		a.log.Error("finished with failures", slog.Any("err", err))
	}
	return err
}
