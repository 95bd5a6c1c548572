package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ServerConfig holds the HTTP server settings read from the environment
type ServerConfig struct {
	Addr       string        `env:"FUNDSIM_ADDR" envDefault:":8080"`
	RedisURL   string        `env:"FUNDSIM_REDIS_URL"`
	SQLitePath string        `env:"FUNDSIM_SQLITE_PATH"`
	RulesFile  string        `env:"FUNDSIM_RULES_FILE"`
	SessionTTL time.Duration `env:"FUNDSIM_SESSION_TTL" envDefault:"168h"`
	LogLevel   string        `env:"FUNDSIM_LOG_LEVEL" envDefault:"info"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadServerConfig reads and validates the server configuration
func LoadServerConfig() (ServerConfig, error) {
	var cfg ServerConfig
	if err := ParseEnv(&cfg); err != nil {
		return ServerConfig{}, err
	}
	if cfg.Addr == "" {
		return ServerConfig{}, fmt.Errorf("FUNDSIM_ADDR cannot be empty")
	}
	if cfg.SessionTTL <= 0 {
		return ServerConfig{}, fmt.Errorf("FUNDSIM_SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	return cfg, nil
}
