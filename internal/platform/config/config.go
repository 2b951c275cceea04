// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local '.env' file is
loaded first when present (via 'joho/godotenv'), without overriding variables
that are already set in the process environment.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, OpenLibrary) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/taibuivan/blablabook/pkg/query"
)

// # Configuration Schema

// Config holds all runtime configuration for the BlaBlaBook API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Pool sizing and per-statement limits
	Postgres PostgresConfig `envPrefix:"DB_"`

	// MigrationPath overrides the embedded migrations with a directory on disk.
	MigrationPath string `env:"MIGRATION_PATH"`

	// Key-Value store (Redis). Optional: when empty, import locks stay in-process.
	RedisURL string `env:"REDIS_URL"`

	// Cryptographic keys for access token signing
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// External catalogue
	OpenLibrary OpenLibraryConfig `envPrefix:"OPENLIBRARY_"`

	// Import engine
	Import ImportConfig

	// Per-IP token bucket in front of every route
	RateLimit RateLimitConfig `envPrefix:"RATE_LIMIT_"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// PostgresConfig sizes the pgx pool.
type PostgresConfig struct {
	MaxConns         int32         `env:"MAX_CONNS"         envDefault:"25"`
	MinConns         int32         `env:"MIN_CONNS"         envDefault:"5"`
	StatementTimeout time.Duration `env:"STATEMENT_TIMEOUT" envDefault:"10s"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `env:"RPS"   envDefault:"50"`
	Burst             int     `env:"BURST" envDefault:"100"`
}

// OpenLibraryConfig tunes the outbound catalogue client.
type OpenLibraryConfig struct {
	BaseURL           string        `env:"BASE_URL"    envDefault:"https://openlibrary.org"`
	CoversURL         string        `env:"COVERS_URL"  envDefault:"https://covers.openlibrary.org"`
	UserAgent         string        `env:"USER_AGENT"  envDefault:"BlaBlaBook/0.1 (contact@blablabook.app)"`
	Timeout           time.Duration `env:"TIMEOUT"     envDefault:"10s"`
	MaxRetries        int           `env:"MAX_RETRIES" envDefault:"2"`
	RequestsPerSecond float64       `env:"RPS"         envDefault:"5"`
}

// ImportConfig tunes the lazy import engine and its background sweeper.
type ImportConfig struct {
	PollInterval       time.Duration `env:"IMPORT_POLL_INTERVAL"  envDefault:"50ms"`
	LockTTL            time.Duration `env:"IMPORT_LOCK_TTL"       envDefault:"30s"`
	SweepInterval      time.Duration `env:"SWEEP_INTERVAL"        envDefault:"15m"`
	SweepMaxAgeMinutes int           `env:"SWEEP_MAX_AGE_MINUTES" envDefault:"60"`
}

// # Configuration Loading

// Load reads an optional .env file, then parses environment variables into a [Config].
func Load(envFiles ...string) (*Config, error) {

	// A missing .env is the normal case in containers.
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read env file: %w", err)
	}

	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.OpenLibrary.MaxRetries < 0 {
		return nil, fmt.Errorf("config: OPENLIBRARY_MAX_RETRIES must be >= 0, got %d", cfg.OpenLibrary.MaxRetries)
	}
	if cfg.Postgres.MinConns < 0 || cfg.Postgres.MaxConns < max(cfg.Postgres.MinConns, 1) {
		return nil, fmt.Errorf("config: need 0 <= DB_MIN_CONNS <= DB_MAX_CONNS and DB_MAX_CONNS >= 1")
	}
	if cfg.RateLimit.RequestsPerSecond <= 0 || cfg.RateLimit.Burst <= 0 {
		return nil, fmt.Errorf("config: RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Origins splits EXTRA_ORIGINS into a clean list.
func (c *Config) Origins() []string {
	return query.StringSlice(c.ExtraOrigins)
}
