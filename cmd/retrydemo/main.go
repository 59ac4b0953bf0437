package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"retrykit/internal/app"
	"retrykit/internal/config"
)

var (
	envFiles []string
	tasks    int
	attempts int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "retrydemo",
	Short: "Run an unstable task through the retry executor",
	Long: `retrydemo runs one or more unstable tasks, each wrapped in its own retry
loop, and logs every retry, success and final failure.

Settings are read from the environment and an optional .env file
(RETRY_ATTEMPTS, RETRY_INITIAL_DELAY, RETRY_MAX_DELAY, RETRY_JITTER,
RETRY_TIMEOUT_PER_ATTEMPT, DEMO_TASKS, DEMO_FAILURE_RATE, DEMO_HANG_RATE).
Flags override the environment.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFiles...)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("tasks") {
			if tasks < 1 {
				return fmt.Errorf("--tasks must be at least 1, got %d", tasks)
			}
			cfg.Demo.Tasks = tasks
		}
		if cmd.Flags().Changed("attempts") {
			cfg.Retry.Attempts = attempts
		}

		application, err := app.New(cfg)
		if err != nil {
			return err
		}
		defer application.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return application.Run(ctx)
	},
}

func init() {
	rootCmd.Flags().StringSliceVar(&envFiles, "env-file", nil, "env files to load (default .env)")
	rootCmd.Flags().IntVar(&tasks, "tasks", 1, "number of independent tasks to run concurrently")
	rootCmd.Flags().IntVar(&attempts, "attempts", 5, "maximum attempts per task")
}
