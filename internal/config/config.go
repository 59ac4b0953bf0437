package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"retrykit/internal/shared"
)

// Config holds application configuration values.
type Config struct {
	Env string `validate:"required,oneof=dev prod"`
	Log struct {
		ConsoleLevel string `validate:"required,oneof=debug info warn error"`
		FileLevel    string `validate:"required,oneof=debug info warn error"`
		File         string
	}
	Retry struct {
		Attempts          int           `validate:"min=1"`
		InitialDelay      time.Duration `validate:"gte=0"`
		MaxDelay          time.Duration `validate:"gte=0"`
		TimeoutPerAttempt time.Duration `validate:"gte=0"`
		Jitter            bool
	}
	Demo struct {
		Tasks       int     `validate:"min=1,max=1000"`
		FailureRate float64 `validate:"gte=0,lte=1"`
		HangRate    float64 `validate:"gte=0,lte=1"`
	}
}

var validate = validator.New()

// Load reads configuration from environment variables and .env files.
// With no files given, ./.env is loaded if present; named files must exist.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(files...); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	var c Config
	var errs []string

	c.Env = getenv("ENV", "prod")
	c.Log.ConsoleLevel = strings.ToLower(getenv("LOG_CONSOLE_LEVEL", "info"))
	c.Log.FileLevel = strings.ToLower(getenv("LOG_FILE_LEVEL", "debug"))
	c.Log.File = os.Getenv("LOG_FILE")

	c.Retry.Attempts = getInt("RETRY_ATTEMPTS", 5, &errs)
	c.Retry.InitialDelay = getDuration("RETRY_INITIAL_DELAY", 500*time.Millisecond, &errs)
	c.Retry.MaxDelay = getDuration("RETRY_MAX_DELAY", 3*time.Second, &errs)
	c.Retry.TimeoutPerAttempt = getDuration("RETRY_TIMEOUT_PER_ATTEMPT", 1500*time.Millisecond, &errs)
	c.Retry.Jitter = getBool("RETRY_JITTER", true, &errs)

	c.Demo.Tasks = getInt("DEMO_TASKS", 1, &errs)
	c.Demo.FailureRate = getFloat("DEMO_FAILURE_RATE", 0.7, &errs)
	c.Demo.HangRate = getFloat("DEMO_HANG_RATE", 0, &errs)

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("%w: %s", shared.ErrValidation, strings.Join(errs, "; "))
	}
	if err := validate.Struct(c); err != nil {
		return Config{}, fmt.Errorf("%w: %w", shared.ErrValidation, err)
	}
	return c, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int, errs *[]string) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: invalid integer %q", k, v))
		return def
	}
	return n
}

func getFloat(k string, def float64, errs *[]string) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: invalid number %q", k, v))
		return def
	}
	return f
}

func getBool(k string, def bool, errs *[]string) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: invalid boolean %q", k, v))
		return def
	}
	return b
}

// getDuration accepts Go durations ("250ms") or bare milliseconds ("250").
func getDuration(k string, def time.Duration, errs *[]string) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: invalid duration %q", k, v))
		return def
	}
	return d
}
