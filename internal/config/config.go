package config

import (
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	ierr "github.com/servicehq/servicehub/internal/errors"
	"github.com/servicehq/servicehub/internal/types"
)

// Configuration is the full application configuration, loaded once at boot
// and injected everywhere else.
type Configuration struct {
	Deployment DeploymentConfig `mapstructure:"deployment"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Billing    BillingConfig    `mapstructure:"billing"`
	Sentry     SentryConfig     `mapstructure:"sentry"`
}

type DeploymentConfig struct {
	Mode string `mapstructure:"mode"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type PostgresConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"dbname"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
}

type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Type    string `mapstructure:"type"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// BillingConfig carries the business constants of the subscription lifecycle.
// These are configuration, not logic: changing the trial length or the yearly
// price must never require a code change.
type BillingConfig struct {
	TrialDays         int             `mapstructure:"trial_days"`
	DefaultTermMonths int             `mapstructure:"default_term_months"`
	YearlyPrice       decimal.Decimal `mapstructure:"yearly_price"`
	Currency          string          `mapstructure:"currency"`
	Timezone          string          `mapstructure:"timezone"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// NewConfig loads configuration from config files and environment variables.
// Environment variables use the SERVICEHUB_ prefix with _ separators, e.g.
// SERVICEHUB_POSTGRES_HOST.
func NewConfig() (*Configuration, error) {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvPrefix("servicehub")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional; defaults plus env vars are a full config.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, ierr.WithError(err).
				WithHint("Failed to read configuration file").
				Mark(ierr.ErrValidation)
		}
	}

	cfg := &Configuration{}
	if err := v.Unmarshal(cfg, viper.DecodeHook(decimalDecodeHook())); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to unmarshal configuration").
			Mark(ierr.ErrValidation)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", "local")
	v.SetDefault("logging.level", "info")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "servicehub")
	v.SetDefault("postgres.dbname", "servicehub")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.auto_migrate", false)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.type", "inmemory")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	v.SetDefault("billing.trial_days", 15)
	v.SetDefault("billing.default_term_months", 12)
	v.SetDefault("billing.yearly_price", "1499")
	v.SetDefault("billing.currency", types.CurrencyINR)
	v.SetDefault("billing.timezone", "Asia/Kolkata")

	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.sample_rate", 1.0)
}

// Validate checks the loaded configuration for values the application cannot
// run with.
func (c *Configuration) Validate() error {
	if c.Billing.TrialDays <= 0 {
		return ierr.NewError("billing.trial_days must be positive").
			WithHint("Trial length must be at least one day").
			Mark(ierr.ErrValidation)
	}
	if c.Billing.DefaultTermMonths <= 0 {
		return ierr.NewError("billing.default_term_months must be positive").
			WithHint("Default subscription term must be at least one month").
			Mark(ierr.ErrValidation)
	}
	if c.Billing.YearlyPrice.IsNegative() {
		return ierr.NewError("billing.yearly_price cannot be negative").
			Mark(ierr.ErrValidation)
	}
	if err := types.ValidateTimezone(c.Billing.Timezone); err != nil {
		return ierr.WithError(err).
			WithHintf("Unknown billing timezone %q", c.Billing.Timezone).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// BusinessLocation returns the time.Location all date-granular comparisons
// run in.
func (c *Configuration) BusinessLocation() *time.Location {
	loc, err := time.LoadLocation(types.ResolveTimezone(c.Billing.Timezone))
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetDefaultConfig returns a configuration suitable for tests and scripts.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: "test"},
		Logging:    LoggingConfig{Level: "debug"},
		Cache:      CacheConfig{Enabled: true, Type: "inmemory"},
		Billing: BillingConfig{
			TrialDays:         15,
			DefaultTermMonths: 12,
			YearlyPrice:       decimal.NewFromInt(1499),
			Currency:          types.CurrencyINR,
			Timezone:          "UTC",
		},
	}
}

func decimalDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != reflect.TypeOf(decimal.Decimal{}) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return decimal.NewFromString(v)
		case int:
			return decimal.NewFromInt(int64(v)), nil
		case int64:
			return decimal.NewFromInt(v), nil
		case float64:
			return decimal.NewFromFloat(v), nil
		default:
			return data, nil
		}
	}
}
