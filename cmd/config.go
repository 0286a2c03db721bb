package cmd

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// DispatchSchedule and ReaperSchedule are six-field cron specs (with seconds).
	DispatchSchedule string
	ReaperSchedule   string
	TaskLease        time.Duration
	BatchSize        int
	RetryDelay       time.Duration
	MaxAttempts      int

	// NotifyChannel is the LISTEN/NOTIFY channel that wakes the dispatcher.
	// Empty disables notifications; the cron tick alone then drives dispatch.
	NotifyChannel string
}

// ConfigFromEnv reads the configuration from the process environment,
// falling back to defaults for everything but the database credentials.
func ConfigFromEnv() (Config, error) {
	config := Config{
		HTTPPort:         envOr("HTTP_PORT", "8080"),
		DBHost:           envOr("DB_HOST", "localhost"),
		DBPort:           envOr("DB_PORT", "5432"),
		DBUser:           os.Getenv("DB_USER"),
		DBPassword:       os.Getenv("DB_PASSWORD"),
		DBName:           os.Getenv("DB_NAME"),
		DBSslMode:        envOr("DB_SSLMODE", "disable"),
		DispatchSchedule: envOr("DISPATCH_SCHEDULE", "*/5 * * * * *"),
		ReaperSchedule:   envOr("REAPER_SCHEDULE", "0 * * * * *"),
		NotifyChannel:    os.Getenv("NOTIFY_CHANNEL"),
	}

	var err error
	if config.TaskLease, err = durationEnv("TASK_LEASE", 5*time.Minute); err != nil {
		return Config{}, err
	}
	if config.RetryDelay, err = durationEnv("TASK_RETRY_DELAY", 30*time.Second); err != nil {
		return Config{}, err
	}
	if config.BatchSize, err = intEnv("TASK_BATCH_SIZE", 50); err != nil {
		return Config{}, err
	}
	if config.MaxAttempts, err = intEnv("TASK_MAX_ATTEMPTS", 5); err != nil {
		return Config{}, err
	}

	if config.DBUser == "" || config.DBName == "" {
		return Config{}, fmt.Errorf("DB_USER and DB_NAME are required")
	}

	return config, nil
}

// DSN is the connection string shared by gorm and the LISTEN connection.
func (c Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.DBSslMode}}.Encode(),
	}
	return u.String()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
