// Package config reads process settings from the environment, optionally
// seeded from .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type OpenAI struct {
	APIKey      string  `env:"OPENAI_API_KEY"`
	BaseURL     string  `env:"OPENAI_BASE_URL"`
	Model       string  `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	Temperature float64 `env:"OPENAI_TEMPERATURE" envDefault:"0.7"`
	MaxTokens   int64   `env:"OPENAI_MAX_TOKENS" envDefault:"2000"`
}

type Config struct {
	PostgresConn      string        `env:"POSTGRES_CONN"`
	ServerAddress     string        `env:"SERVER_ADDRESS" envDefault:"0.0.0.0:8080"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat         string        `env:"LOG_FORMAT" envDefault:"text"`
	RedisURL          string        `env:"REDIS_URL"`
	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"12h"`
	MigrationsOnStart bool          `env:"MIGRATIONS_ON_START" envDefault:"true"`
	MetricsPath       string        `env:"METRICS_PATH" envDefault:"/metrics"`
	AuthUserHeader    string        `env:"AUTH_USER_HEADER" envDefault:"X-Auth-Email"`

	// SeedUsers email=role, заводятся при serve --memory
	SeedUsers map[string]string `env:"SEED_USERS" envSeparator:"," envKeyValSeparator:"="`
	OpenAI    OpenAI
}

// LoadEnv загружает только существующие файлы и возвращает их число
func LoadEnv(files ...string) (int, error) {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

func Load(files ...string) (*Config, error) {
	if _, err := LoadEnv(files...); err != nil {
		return nil, fmt.Errorf("load env files: %w", err)
	}
	c := &Config{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if c.AuthUserHeader == "" {
		return errors.New("AUTH_USER_HEADER must not be empty")
	}
	return nil
}

// RequirePostgres нужен командам, работающим с базой
func (c *Config) RequirePostgres() error {
	if c.PostgresConn == "" {
		return errors.New("POSTGRES_CONN env variable is not set")
	}
	return nil
}
