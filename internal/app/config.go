package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/yungbote/collab-backend/internal/data/db"
	"github.com/yungbote/collab-backend/internal/domain/collab"
	"github.com/yungbote/collab-backend/internal/observability"
)

type Config struct {
	LogMode      string `env:"LOG_MODE" envDefault:"development"`
	LogRedaction bool   `env:"LOG_REDACTION_ENABLED" envDefault:"true"`
	LogHashSalt  string `env:"LOG_HASH_SALT"`
	Addr         string `env:"HTTP_ADDR" envDefault:":8080"`

	DBDriver         string `env:"DB_DRIVER" envDefault:"postgres"`
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     string `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresName     string `env:"POSTGRES_NAME" envDefault:"collab"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	SQLitePath       string `env:"SQLITE_PATH"`
	DBMaxOpenConns   int    `env:"DB_MAX_OPEN_CONNS" envDefault:"20"`
	DBMaxIdleConns   int    `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`

	JWTSecretKey string `env:"JWT_SECRET_KEY" envDefault:"defaultsecret"`

	RedisAddr    string `env:"REDIS_ADDR"`
	RedisChannel string `env:"REDIS_CHANNEL" envDefault:"collab-events"`

	MetricsEnabled bool          `env:"METRICS_ENABLED" envDefault:"false"`
	MetricsAddr    string        `env:"METRICS_ADDR" envDefault:":9090"`
	MetricsScrape  time.Duration `env:"METRICS_SCRAPE_INTERVAL" envDefault:"15s"`

	OtelEnabled     bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OtelServiceName string  `env:"OTEL_SERVICE_NAME" envDefault:"collab-backend"`
	OtelEnvironment string  `env:"OTEL_ENVIRONMENT" envDefault:"development"`
	OtelVersion     string  `env:"OTEL_SERVICE_VERSION"`
	OtelEndpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelHeaders     string  `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	OtelInsecure    bool    `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"false"`
	OtelSampleRatio float64 `env:"OTEL_SAMPLE_RATIO" envDefault:"1"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"40"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	FeePolicyPath     string        `env:"FEE_POLICY_PATH"`
	SideEffectTimeout time.Duration `env:"SIDE_EFFECT_TIMEOUT" envDefault:"5s"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// LoadConfig parses the process environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.DBDriver)) {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if strings.TrimSpace(c.JWTSecretKey) == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.SideEffectTimeout <= 0 {
		return fmt.Errorf("SIDE_EFFECT_TIMEOUT must be positive")
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive when RATE_LIMIT_RPS is set")
	}
	return nil
}

func (c Config) DB() db.Config {
	return db.Config{
		Driver:           c.DBDriver,
		PostgresHost:     c.PostgresHost,
		PostgresPort:     c.PostgresPort,
		PostgresUser:     c.PostgresUser,
		PostgresPassword: c.PostgresPassword,
		PostgresName:     c.PostgresName,
		PostgresSSLMode:  c.PostgresSSLMode,
		SQLitePath:       c.SQLitePath,
		MaxOpenConns:     c.DBMaxOpenConns,
		MaxIdleConns:     c.DBMaxIdleConns,
	}
}

func (c Config) Metrics() observability.MetricsConfig {
	return observability.MetricsConfig{
		Enabled:        c.MetricsEnabled,
		ScrapeInterval: c.MetricsScrape,
	}
}

func (c Config) Otel() observability.OtelConfig {
	return observability.OtelConfig{
		Enabled:     c.OtelEnabled,
		ServiceName: c.OtelServiceName,
		Environment: c.OtelEnvironment,
		Version:     c.OtelVersion,
		Endpoint:    c.OtelEndpoint,
		Headers:     c.OtelHeaders,
		Insecure:    c.OtelInsecure,
		SampleRatio: c.OtelSampleRatio,
	}
}

// FeePolicy reads FEE_POLICY_PATH when set and falls back to the built-in rates.
func (c Config) FeePolicy() (collab.FeePolicy, error) {
	policy, err := collab.LoadFeePolicy(c.FeePolicyPath)
	if err != nil {
		return collab.FeePolicy{}, fmt.Errorf("load fee policy: %w", err)
	}
	return policy, nil
}
