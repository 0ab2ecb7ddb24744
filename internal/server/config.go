// Package server provides configuration helpers that define runtime defaults,
// validation, and rate-limiting parameters for the chat service.
package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	defaultPort           = "8080"
	defaultMaxMessageSize = 64 * 1024
	defaultBurst          = 20
	defaultRefillInterval = time.Second
	defaultSendBuffer     = 256
)

// RateLimitConfig defines the parameters for per-connection message rate limiting.
type RateLimitConfig struct {
	Burst          int           `env:"BURST" envDefault:"20"`
	RefillInterval time.Duration `env:"REFILL_INTERVAL" envDefault:"1s"`
}

// Config holds the server configuration settings.
type Config struct {
	Port               string          `env:"PORT" envDefault:"8080"`
	AllowedOrigins     []string        `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	MaxMessageSize     int64           `env:"MAX_MESSAGE_SIZE" envDefault:"65536"`
	RateLimit          RateLimitConfig `envPrefix:"RATE_LIMIT_"`
	SendBuffer         int             `env:"SEND_BUFFER" envDefault:"256"`
	LegacyGroupCreated bool            `env:"LEGACY_GROUP_CREATED"`
	OTelEndpoint       string          `env:"OTEL_ENDPOINT"`
}

func defaultConfig() Config {
	return Config{
		Port:           defaultPort,
		AllowedOrigins: []string{"*"},
		MaxMessageSize: defaultMaxMessageSize,
		RateLimit: RateLimitConfig{
			Burst:          defaultBurst,
			RefillInterval: defaultRefillInterval,
		},
		SendBuffer: defaultSendBuffer,
	}
}

// NewConfig creates a Config instance populated with default values for all settings.
func NewConfig() *Config {
	cfg := defaultConfig()
	return &cfg
}

// LoadConfig creates a Config from environment variables, falling back to
// defaults for anything unset or out of range.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg = sanitizeConfig(cfg)
	return &cfg, nil
}

// Addr returns the listen address for Port, adding the leading colon when the
// value is a bare port number.
func (c *Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func sanitizeConfig(cfg Config) Config {
	cfg.Port = strings.TrimSpace(cfg.Port)
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}

	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = defaultMaxMessageSize
	}

	if cfg.RateLimit.Burst <= 0 {
		cfg.RateLimit.Burst = defaultBurst
	}

	if cfg.RateLimit.RefillInterval <= 0 {
		cfg.RateLimit.RefillInterval = defaultRefillInterval
	}

	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = defaultSendBuffer
	}

	cfg.AllowedOrigins = append([]string(nil), cfg.AllowedOrigins...)
	return cfg
}
