// Package config loads the service configuration from YAML with environment
// variable expansion and a small set of direct environment overrides for
// containerized deployments.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all service configuration.
type Config struct {
	Listen   string         `yaml:"listen"`
	Redis    RedisConfig    `yaml:"redis"`
	Cache    CacheConfig    `yaml:"cache"`
	Scrape   ScrapeConfig   `yaml:"scrape"`
	Fallback FallbackConfig `yaml:"fallback"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
}

// RedisConfig locates the volatile cache store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// CacheConfig controls the resolution tiers.
type CacheConfig struct {
	ShortTTL     time.Duration `yaml:"short_ttl"`
	LongTTL      time.Duration `yaml:"long_ttl"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

// ScrapeConfig controls the live fetch against the source site.
type ScrapeConfig struct {
	BaseURL           string        `yaml:"base_url"`
	UserAgent         string        `yaml:"user_agent"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	MaxAttempts       int           `yaml:"max_attempts"`
}

// FallbackConfig locates the CSV snapshot inventory.
type FallbackConfig struct {
	Dir           string        `yaml:"dir"`
	CacheCapacity int           `yaml:"cache_capacity"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`
}

// AuthConfig is the Basic auth credential set for the data routes.
type AuthConfig struct {
	Credentials map[string]string `yaml:"credentials"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Listen: ":8080",
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Cache: CacheConfig{
			ShortTTL:     5 * time.Minute,
			LongTTL:      30 * 24 * time.Hour,
			FetchTimeout: 30 * time.Second,
		},
		Scrape: ScrapeConfig{
			UserAgent:         "vitibrasil-api/1.0",
			RequestTimeout:    15 * time.Second,
			RequestsPerSecond: 5,
			MaxAttempts:       3,
		},
		Fallback: FallbackConfig{
			Dir:      "data/csv",
			CacheTTL: time.Hour,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML config file, expands environment variables in it, and
// applies the direct environment overrides. An empty path skips the file and
// returns defaults plus overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv applies the override variables used by container deployments.
func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Listen = ":" + v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Redis.DB = n
		}
	}
	if v := os.Getenv("CSV_DIR"); v != "" {
		c.Fallback.Dir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if user := os.Getenv("API_USER"); user != "" {
		if c.Auth.Credentials == nil {
			c.Auth.Credentials = make(map[string]string)
		}
		c.Auth.Credentials[user] = os.Getenv("API_PASSWORD")
	}
}
