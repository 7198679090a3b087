package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for the storefront. Values come
// from environment variables, with an optional config.yaml next to the
// binary for local development.
type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Session  SessionConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Store    StoreConfig
	LogLevel string
}

type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

type RedisConfig struct {
	Addr string // empty means carts stay in memory
}

type DatabaseConfig struct {
	URL string // empty means orders stay in memory
}

type StoreConfig struct {
	ExchangeRate  float64 // USD -> IDR
	PaymentExpiry time.Duration
}

// Load reads configuration and validates it. Missing optional backends
// (redis, postgres) are not errors; the caller falls back to memory.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("upstream.base_url", "https://fakestoreapi.com")
	v.SetDefault("upstream.timeout", "10s")
	v.SetDefault("session.secret", "tokomini-dev-secret")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("redis.addr", "")
	v.SetDefault("database.url", "")
	v.SetDefault("store.exchange_rate", 15500.0)
	v.SetDefault("store.payment_expiry", "1h")
	v.SetDefault("log_level", "info")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Port:            v.GetString("server.port"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Upstream: UpstreamConfig{
			BaseURL: v.GetString("upstream.base_url"),
			Timeout: v.GetDuration("upstream.timeout"),
		},
		Session: SessionConfig{
			Secret: v.GetString("session.secret"),
			TTL:    v.GetDuration("session.ttl"),
		},
		Redis:    RedisConfig{Addr: v.GetString("redis.addr")},
		Database: DatabaseConfig{URL: v.GetString("database.url")},
		Store: StoreConfig{
			ExchangeRate:  v.GetFloat64("store.exchange_rate"),
			PaymentExpiry: v.GetDuration("store.payment_expiry"),
		},
		LogLevel: v.GetString("log_level"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the parts of the configuration the server cannot run without.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream base URL is required")
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("upstream timeout must be positive")
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("session secret is required")
	}
	if c.Store.ExchangeRate <= 0 {
		return fmt.Errorf("exchange rate must be positive")
	}
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}
	return nil
}
