package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "VALUECHARTS_"

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Hermes   HermesConfig   `yaml:"hermes"`
	Session  SessionConfig  `yaml:"session"`
	History  HistoryConfig  `yaml:"history"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port" env:"PORT"`
	MetricsPort int    `yaml:"metrics_port" env:"METRICS_PORT"`
	AdminToken  string `yaml:"admin_token" env:"ADMIN_TOKEN"`
}

type DatabaseConfig struct {
	URL string `yaml:"url" env:"DATABASE_URL"`
}

// RedisConfig configures the preference cache. An empty Addr disables it.
type RedisConfig struct {
	Addr       string `yaml:"addr" env:"REDIS_ADDR"`
	Password   string `yaml:"password" env:"REDIS_PASSWORD"`
	DB         int    `yaml:"db"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// HermesConfig configures event publishing. An empty URL disables it.
type HermesConfig struct {
	URL string `yaml:"url" env:"HERMES_URL"`
}

type SessionConfig struct {
	IdleTimeoutMs   int `yaml:"idle_timeout_ms" env:"SESSION_IDLE_TIMEOUT_MS"`
	SweepIntervalMs int `yaml:"sweep_interval_ms"`
}

type HistoryConfig struct {
	MaxDepth int `yaml:"max_depth" env:"HISTORY_MAX_DEPTH"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.Session.IdleTimeoutMs) * time.Millisecond
}

func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.Session.SweepIntervalMs) * time.Millisecond
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Redis.TTLSeconds) * time.Second
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
		},
		Redis: RedisConfig{
			TTLSeconds: 3600,
		},
		Hermes: HermesConfig{
			URL: "nats://localhost:4222",
		},
		Session: SessionConfig{
			IdleTimeoutMs:   1800000,
			SweepIntervalMs: 60000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
