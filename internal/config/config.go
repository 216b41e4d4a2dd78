// Package config loads application configuration from environment variables.
// Values from .env.local and .env are loaded first; variables already set in
// the environment win.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds all runtime configuration values
type Config struct {
	Port     string
	LogLevel string
	GinMode  string

	StoreBackend string
	StoreFile    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	DatabaseURL string

	RabbitMQURL    string
	EventsExchange string

	AuctionDuration   time.Duration // zero disables the auto-close scheduler
	AutoCloseInterval time.Duration

	SeedItems bool
}

// Load reads .env files and the environment into a Config
func Load() (Config, error) {
	// local overrides .env; missing files are fine
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	return FromEnv()
}

// FromEnv builds a Config from the current environment only
func FromEnv() (Config, error) {
	cfg := Config{
		Port:           getenv("PORT", "5080"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		GinMode:        getenv("GIN_MODE", "release"),
		StoreBackend:   strings.ToLower(getenv("STORE_BACKEND", BackendMemory)),
		StoreFile:      getenv("STORE_FILE", "data/auction.json"),
		RedisAddr:      getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisPrefix:    getenv("REDIS_PREFIX", "auction"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RabbitMQURL:    os.Getenv("RABBITMQ_URL"),
		EventsExchange: getenv("EVENTS_EXCHANGE", "auction.events"),
	}

	var err error
	if cfg.RedisDB, err = atoi("REDIS_DB", "0"); err != nil {
		return Config{}, err
	}
	if cfg.AuctionDuration, err = parseDur("AUCTION_DURATION", "0s"); err != nil {
		return Config{}, err
	}
	if cfg.AutoCloseInterval, err = parseDur("AUTO_CLOSE_INTERVAL", "1s"); err != nil {
		return Config{}, err
	}
	if cfg.SeedItems, err = parseBool("SEED_ITEMS", "true"); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendFile, BackendRedis:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required for the %s backend", BackendPostgres)
		}
	default:
		return fmt.Errorf("config: unsupported STORE_BACKEND %q", c.StoreBackend)
	}
	if c.AuctionDuration < 0 {
		return fmt.Errorf("config: AUCTION_DURATION must not be negative")
	}
	if c.AutoCloseInterval <= 0 {
		return fmt.Errorf("config: AUTO_CLOSE_INTERVAL must be positive")
	}
	return nil
}

// Addr returns the listen address for the HTTP server
func (c Config) Addr() string {
	return ":" + c.Port
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(key, def string) (int, error) {
	s := getenv(key, def)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("config: invalid int for %s: %q", key, s)
	}
	return n, nil
}

func parseDur(key, def string) (time.Duration, error) {
	s := getenv(key, def)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("config: invalid duration for %s: %q", key, s)
	}
	return d, nil
}

func parseBool(key, def string) (bool, error) {
	s := getenv(key, def)
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("config: invalid bool for %s: %q", key, s)
	}
	return b, nil
}
