package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store backends
const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds all application configuration
type Config struct {
	// HTTP listen address, e.g. ":8080"
	Port string `env:"PORT" envDefault:":8080"`
	// debug, release or test
	GinMode     string   `env:"GIN_MODE" envDefault:"debug"`
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`

	Store StoreConfig
	Redis RedisConfig

	// Seed demo classes when the store is empty on startup
	SeedDemo bool `env:"SEED_DEMO" envDefault:"false"`
}

// StoreConfig selects where the record store blob lives
type StoreConfig struct {
	Backend string        `env:"STORE_BACKEND" envDefault:"redis"`
	Key     string        `env:"STORE_KEY" envDefault:"school_db_final"`
	Timeout time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"8"`
}

// Load reads an optional .env file, then the process environment
func Load(dotEnvFiles ...string) (Config, error) {
	if len(dotEnvFiles) == 0 {
		dotEnvFiles = []string{".env"}
	}
	for _, path := range dotEnvFiles {
		// load .env if it exists (ignore if it does not)
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		} else if err == nil {
			log.Printf("Loaded environment from %s", path)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values env parsing cannot
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendRedis, BackendMemory, c.Store.Backend)
	}
	if c.Store.Key == "" {
		return errors.New("STORE_KEY cannot be empty")
	}
	if c.Store.Timeout <= 0 {
		return errors.New("STORE_TIMEOUT must be positive")
	}
	return nil
}
