// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles,
// with an optional .env file filling in anything the environment leaves unset.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Database (PostgreSQL). Empty selects the in-memory store.
	DatabaseURL string `env:"DATABASE_URL"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"false"`

	// Cache (Redis). Empty keeps sessions in process memory and disables
	// auth rate limiting.
	RedisURL string `env:"REDIS_URL"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Sessions
	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"336h"`
	SessionCookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"yapress_session"`

	// Rate limiting for login and signup submissions
	RateLimitAuthEnabled bool    `env:"RATE_LIMIT_AUTH_ENABLED" envDefault:"true"`
	RateLimitAuthRPS     float64 `env:"RATE_LIMIT_AUTH_RPS" envDefault:"1"`
	RateLimitAuthBurst   int     `env:"RATE_LIMIT_AUTH_BURST" envDefault:"5"`

	// Comment filter
	BannedWords              []string `env:"BANNED_WORDS" envSeparator:"," envDefault:"редиска,негодяй"`
	BannedWordsFile          string   `env:"BANNED_WORDS_FILE"`
	BannedWordsMatch         string   `env:"BANNED_WORDS_MATCH" envDefault:"substring"`
	BannedWordsCaseSensitive bool     `env:"BANNED_WORDS_CASE_SENSITIVE" envDefault:"false"`

	NewsPageSize int `env:"NEWS_PAGE_SIZE" envDefault:"10"`

	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`

	// Domain events. No brokers means events are dropped.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"yapress.events"`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// UseMemoryStore reports whether content is kept in process memory.
func (c *Config) UseMemoryStore() bool {
	return c.DatabaseURL == ""
}

// Validate checks combinations env tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	switch c.AppEnv {
	case "development", "test", "production":
	default:
		errs = append(errs, fmt.Errorf("APP_ENV: unknown environment %q", c.AppEnv))
	}
	if c.DatabaseURL == "" && !c.IsDevelopment() {
		errs = append(errs, errors.New("DATABASE_URL: required outside development"))
	}
	if c.AppPort <= 0 || c.AppPort > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT: %d out of range", c.AppPort))
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT: must be json or text, got %q", c.LogFormat))
	}
	switch c.BannedWordsMatch {
	case "substring", "word":
	default:
		errs = append(errs, fmt.Errorf("BANNED_WORDS_MATCH: must be substring or word, got %q", c.BannedWordsMatch))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL: must be positive"))
	}
	if c.NewsPageSize <= 0 {
		errs = append(errs, errors.New("NEWS_PAGE_SIZE: must be positive"))
	}
	if c.RateLimitAuthBurst < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_AUTH_BURST: must not be negative"))
	}

	return errors.Join(errs...)
}

// Load reads the given .env files (".env" when none are named), then parses
// environment variables and returns a validated Config. Variables already
// set in the environment win over the files. Missing files are ignored.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
