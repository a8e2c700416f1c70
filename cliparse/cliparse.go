// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/pokepoll/logging"
)

type Config struct {
	Port         int    `yaml:"port"`
	DatabaseURL  string `yaml:"database_url"`
	DatabaseType string `yaml:"database_type"`

	// Secrets. Empty AdminKeySalt disables per-poll admin keys; empty
	// IdentitySalt stores raw client addresses.
	AdminKeySalt string `yaml:"admin_key_salt"`
	IdentitySalt string `yaml:"identity_salt"`

	CatalogURL     string        `yaml:"catalog_url"`
	CatalogTimeout time.Duration `yaml:"catalog_timeout"`
	RedisURL       string        `yaml:"redis_url"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		Port:           3318,
		DatabaseURL:    "file:pokepoll.db?_pragma=busy_timeout(5000)",
		DatabaseType:   "sqlite",
		CatalogURL:     "https://pokeapi.co/api/v2",
		CatalogTimeout: 5 * time.Second,
		CacheTTL:       time.Hour,
		LogLevel:       "info",
	}
}

// Load builds a Config from defaults, the YAML file at path (if any), and the
// environment. A .env file in the working directory is loaded first; it never
// overrides variables that are already set.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	_ = godotenv.Load()

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("invalid PORT env variable")
		}
		cfg.Port = port
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("DATABASE_TYPE"); v != "" {
		cfg.DatabaseType = v
	}
	if v := os.Getenv("ADMIN_KEY_SALT"); v != "" {
		cfg.AdminKeySalt = v
	}
	if v := os.Getenv("IDENTITY_SALT"); v != "" {
		cfg.IdentitySalt = v
	}
	if v := os.Getenv("CATALOG_URL"); v != "" {
		cfg.CatalogURL = v
	}
	if v := os.Getenv("CATALOG_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.New("invalid CATALOG_TIMEOUT env variable")
		}
		cfg.CatalogTimeout = d
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.New("invalid CACHE_TTL env variable")
		}
		cfg.CacheTTL = d
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	return nil
}

// RegisterFlags declares the config flags on fs with cfg's current values as
// defaults.
func RegisterFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "Server port")
	fs.StringVarP(&cfg.DatabaseURL, "database-url", "d", cfg.DatabaseURL, "Database URL")
	fs.StringVarP(&cfg.DatabaseType, "database-type", "t", cfg.DatabaseType, "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", cfg.AdminKeySalt, "Admin key salt (prefer env)")
	fs.StringVar(&cfg.IdentitySalt, "identity-salt", cfg.IdentitySalt, "Voter identity salt (prefer env)")
	fs.StringVar(&cfg.CatalogURL, "catalog-url", cfg.CatalogURL, "Item catalog base URL")
	fs.DurationVar(&cfg.CatalogTimeout, "catalog-timeout", cfg.CatalogTimeout, "Item catalog request timeout")
	fs.StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Redis URL for the shared catalog cache")
	fs.DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "Catalog cache TTL")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Also write logs to this rotating file")
}

// ApplyFlags copies the flags the user actually set on fs from flags into
// cfg. flags is the Config that RegisterFlags bound to fs.
func ApplyFlags(fs *pflag.FlagSet, flags Config, cfg *Config) {
	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	set("port", func() { cfg.Port = flags.Port })
	set("database-url", func() { cfg.DatabaseURL = flags.DatabaseURL })
	set("database-type", func() { cfg.DatabaseType = flags.DatabaseType })
	set("admin-salt", func() { cfg.AdminKeySalt = flags.AdminKeySalt })
	set("identity-salt", func() { cfg.IdentitySalt = flags.IdentitySalt })
	set("catalog-url", func() { cfg.CatalogURL = flags.CatalogURL })
	set("catalog-timeout", func() { cfg.CatalogTimeout = flags.CatalogTimeout })
	set("redis-url", func() { cfg.RedisURL = flags.RedisURL })
	set("cache-ttl", func() { cfg.CacheTTL = flags.CacheTTL })
	set("log-level", func() { cfg.LogLevel = flags.LogLevel })
	set("log-file", func() { cfg.LogFile = flags.LogFile })
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DatabaseType != "sqlite" && c.DatabaseType != "postgres" {
		return fmt.Errorf("unsupported database type %q (use sqlite or postgres)", c.DatabaseType)
	}
	if c.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if c.CatalogURL == "" {
		return errors.New("catalog URL required")
	}
	if c.CatalogTimeout <= 0 {
		return errors.New("catalog timeout must be positive")
	}
	if c.CacheTTL < 0 {
		return errors.New("cache TTL must not be negative")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
