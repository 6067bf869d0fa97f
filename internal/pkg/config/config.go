// Package config loads the storefront client configuration from the
// environment.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	APIURL        string `env:"STOREFRONT_API_URL,         default=http://localhost:5000/api"`
	APITimeoutMS  int    `env:"STOREFRONT_API_TIMEOUT,     default=10000"`
	EnableMockAPI bool   `env:"STOREFRONT_ENABLE_MOCK_API, default=true"`
	EnableLogging bool   `env:"STOREFRONT_ENABLE_LOGGING,  default=false"`
	Env           string `env:"STOREFRONT_ENV,             default=development"`
	LogLevel      string `env:"STOREFRONT_LOG_LEVEL,       default=info"`

	Session SessionConfig
}

type SessionConfig struct {
	Store     string `env:"STOREFRONT_SESSION_STORE,      default=file"`
	File      string `env:"STOREFRONT_SESSION_FILE"`
	RedisAddr string `env:"STOREFRONT_SESSION_REDIS_ADDR, default=localhost:6379"`
	Namespace string `env:"STOREFRONT_SESSION_NAMESPACE,  default=storefront"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	switch cfg.Session.Store {
	case "file", "memory", "redis":
	default:
		return nil, fmt.Errorf("config: unknown session store %q", cfg.Session.Store)
	}
	return &cfg, nil
}

// Development reports whether this is a development build.
func (c *Config) Development() bool {
	return strings.EqualFold(c.Env, "development")
}

// MockFallbackEligible reports whether auth may fall back to mock data on
// connectivity failures.
func (c *Config) MockFallbackEligible() bool {
	return c.Development() && c.EnableMockAPI
}

// APITimeout is the per-request transport timeout.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.APITimeoutMS) * time.Millisecond
}
