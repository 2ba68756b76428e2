package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// AppConfig holds all configuration for the application.
// It is assembled once at start and passed by reference.
type AppConfig struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	Timezone string `env:"TIMEZONE" envDefault:"UTC"`

	CronEnabled   bool   `env:"CRON_ENABLED" envDefault:"true"`
	CronSpecDaily string `env:"CRON_SPEC_DAILY" envDefault:"0 9 * * *"` // Default: 09:00 daily
	CronSecret    string `env:"CRON_SECRET"`                           // Bearer token gating the trigger endpoint

	OneSignalAppID      string        `env:"ONESIGNAL_APP_ID"`
	OneSignalRESTAPIKey string        `env:"ONESIGNAL_REST_API_KEY"`
	OneSignalAPIURL     string        `env:"ONESIGNAL_API_URL" envDefault:"https://api.onesignal.com"`
	OneSignalAuthScheme string        `env:"ONESIGNAL_AUTH_SCHEME" envDefault:"Basic"`
	OneSignalTimeout    time.Duration `env:"ONESIGNAL_TIMEOUT" envDefault:"10s"`
	PausedTag           string        `env:"PAUSED_TAG" envDefault:"paused"`

	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DatabaseURL    string `env:"DATABASE_URL" envDefault:"./data/loadtracker.db"`

	TelegramToken   string  `env:"TELEGRAM_TOKEN"`
	TelegramChatIDs []int64 `env:"TELEGRAM_CHAT_IDS" envSeparator:","`
	AdminTelegramID int64   `env:"ADMIN_TELEGRAM_ID"`

	// Location is resolved from Timezone by Load.
	Location *time.Location `env:"-"`
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

type locationConfig struct {
	Timezone string `env:"TIMEZONE" envDefault:"UTC"`
}

// LoadLocation resolves TIMEZONE alone, for commands that need nothing else
// from the environment.
func LoadLocation() (*time.Location, error) {
	_ = godotenv.Load()

	var lc locationConfig
	if err := env.Parse(&lc); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	loc, err := time.LoadLocation(strings.TrimSpace(lc.Timezone))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", lc.Timezone, err)
	}
	return loc, nil
}

func (c *AppConfig) normalize() {
	c.Environment = strings.ToLower(strings.TrimSpace(c.Environment))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.DatabaseDriver = strings.ToLower(strings.TrimSpace(c.DatabaseDriver))
	c.OneSignalAPIURL = strings.TrimRight(strings.TrimSpace(c.OneSignalAPIURL), "/")
	c.PausedTag = strings.TrimSpace(c.PausedTag)
}

// Validate checks every setting and reports all problems at once.
// It also resolves Location from Timezone.
func (c *AppConfig) Validate() error {
	var errs []error

	switch c.Environment {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("ENVIRONMENT must be one of: development, staging, production; got %q", c.Environment))
	}

	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error; got %q", c.LogLevel))
	}

	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("HTTP_ADDR is required"))
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err))
	} else {
		c.Location = loc
	}

	if _, err := cron.ParseStandard(c.CronSpecDaily); err != nil {
		errs = append(errs, fmt.Errorf("invalid CRON_SPEC_DAILY %q: %w", c.CronSpecDaily, err))
	}

	if c.PausedTag == "" {
		errs = append(errs, errors.New("PAUSED_TAG must not be empty"))
	}
	if c.OneSignalTimeout <= 0 {
		errs = append(errs, fmt.Errorf("ONESIGNAL_TIMEOUT must be positive, got %s", c.OneSignalTimeout))
	}

	switch c.DatabaseDriver {
	case "postgres", "postgresql", "sqlite", "sqlite3":
	default:
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER must be postgres or sqlite; got %q", c.DatabaseDriver))
	}
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}

	// The trigger endpoint refuses every call without a secret; production must set one.
	if c.Environment == EnvProduction && c.CronSecret == "" {
		errs = append(errs, errors.New("CRON_SECRET is required in production"))
	}

	if len(c.TelegramChatIDs) > 0 && c.TelegramToken == "" {
		errs = append(errs, errors.New("TELEGRAM_CHAT_IDS requires TELEGRAM_TOKEN"))
	}

	return errors.Join(errs...)
}

// OneSignalConfigured reports whether both OneSignal credentials are present.
func (c *AppConfig) OneSignalConfigured() bool {
	return c.OneSignalAppID != "" && c.OneSignalRESTAPIKey != ""
}

// TelegramEnabled reports whether the Telegram bot should start.
func (c *AppConfig) TelegramEnabled() bool {
	return c.TelegramToken != ""
}

// IsProduction returns true if running in production mode.
func (c *AppConfig) IsProduction() bool {
	return c.Environment == EnvProduction
}
