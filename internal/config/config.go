// Package config loads server configuration from an optional YAML file with
// environment variable overrides. Flags beat env, env beats file, file beats
// defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds the serve command's settings.
type Config struct {
	Addr       string        `yaml:"addr" env:"KEYLOOM_ADDR"`
	LogLevel   string        `yaml:"log_level" env:"KEYLOOM_LOG_LEVEL"`
	RedisAddr  string        `yaml:"redis_addr" env:"KEYLOOM_REDIS_ADDR"`
	RedisDB    int           `yaml:"redis_db" env:"KEYLOOM_REDIS_DB"`
	SessionTTL time.Duration `yaml:"session_ttl" env:"KEYLOOM_SESSION_TTL"`
}

// Default returns the baseline configuration: in-memory sessions, info
// logging, port 8080.
func Default() Config {
	return Config{
		Addr:       ":8080",
		LogLevel:   "info",
		SessionTTL: time.Hour,
	}
}

// Load resolves the configuration. path may be empty, in which case only
// defaults and environment variables apply; a named file that does not exist
// is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}
