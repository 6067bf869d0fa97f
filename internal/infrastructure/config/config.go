// Package config loads the storefront API server configuration.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=5000"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	AMQP     AMQPConfig
	Tracking TrackingConfig
}

type MongoConfig struct {
	URI         string `env:"MONGO_URI,           default=mongodb://localhost:27017"`
	Database    string `env:"MONGO_DB,            default=storefront"`
	MaxPoolSize uint64 `env:"MONGO_MAX_POOL_SIZE, default=100"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,        default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=10"`
}

type PostgresConfig struct {
	DSN             string        `env:"POSTGRES_DSN, default=host=localhost user=postgres password=postgres dbname=storefront port=5432 sslmode=disable"`
	ProductCacheTTL time.Duration `env:"PRODUCT_CACHE_TTL, default=5m"`
}

// AMQPConfig configures the order event publisher. An empty URL disables it.
type AMQPConfig struct {
	URL      string `env:"AMQP_URL"`
	Exchange string `env:"AMQP_EXCHANGE, default=storefront.orders"`
}

type TrackingConfig struct {
	Workers   int `env:"TRACKING_WORKERS,    default=8"`
	QueueSize int `env:"TRACKING_QUEUE_SIZE, default=256"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := load(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(err)
	}
	return cfg
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if cfg.Tracking.Workers <= 0 {
		return nil, fmt.Errorf("config: TRACKING_WORKERS must be positive, got %d", cfg.Tracking.Workers)
	}
	return &cfg, nil
}

// Pretty reports whether logs should be rendered for humans.
func (c *Config) Pretty() bool {
	return c.Env == "development"
}
