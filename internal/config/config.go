// Package config loads the full service configuration from environment
// variables, with an optional .env file for local development. Values are
// threaded explicitly into constructors; nothing reads ambient state at call
// time.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/curvaqz/curvaqz/internal/cache"
	"github.com/curvaqz/curvaqz/internal/postgres"
	"github.com/curvaqz/curvaqz/internal/quizapi"
	"github.com/curvaqz/curvaqz/internal/redis"
	"github.com/curvaqz/curvaqz/internal/server"
	"github.com/curvaqz/curvaqz/internal/token"
)

// Config aggregates per-package configuration.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Server   server.Config
	Postgres postgres.Config
	Redis    redis.Config
	Token    token.Config
	Cache    cache.Config
	QuizAPI  quizapi.Config
}

// Load parses configuration from the environment. A .env file, when present,
// seeds variables without overriding ones already set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}
