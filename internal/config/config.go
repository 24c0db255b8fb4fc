package config

import (
	"fmt"

	"github.com/utafrali/minicart/internal/platform"
	pkgconfig "github.com/utafrali/minicart/pkg/config"
)

// Config holds all configuration for the minicart service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"MINICART_HTTP_PORT" envDefault:"8004"`

	// Commerce platform backing the cart actions
	Platform string `env:"PLATFORM" envDefault:"shopify"`

	// Per-platform action backends
	ShopifyBaseURL string `env:"SHOPIFY_BASE_URL" envDefault:"http://localhost:8090"`
	GatewayBaseURL string `env:"GATEWAY_BASE_URL" envDefault:""`

	// Redis (session snapshot store)
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Snapshot TTL in hours (default: 7 days)
	SnapshotTTL int `env:"SNAPSHOT_TTL_HOURS" envDefault:"168"`

	// Kafka (analytics pipeline); empty disables publishing
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load minicart config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if _, err := platform.Parse(c.Platform); err != nil {
		return fmt.Errorf("invalid platform %q", c.Platform)
	}
	return nil
}
