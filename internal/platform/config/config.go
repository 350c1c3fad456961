package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
	StorageMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	StorageDriver  string
	SQLitePath     string
	MigrationsPath string

	// DuplicateWindow is how far back a new transaction looks for duplicates.
	DuplicateWindow time.Duration
	RateLimit       string

	CORSAllowedOrigins []string

	PosthogAPIKey   string
	PosthogEndpoint string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("STORAGE_DRIVER", StoragePostgres)
	viper.SetDefault("SQLITE_PATH", "bank_ledger.db")
	viper.SetDefault("MIGRATIONS_PATH", "migrations")
	viper.SetDefault("DUPLICATE_WINDOW", "1m")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:     viper.GetString("PGSQL_URL"),
		Port:            viper.GetString("PORT"),
		IsProduction:    viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:   viper.GetBool("ENABLE_DB_CHECK"),
		StorageDriver:   strings.ToLower(strings.TrimSpace(viper.GetString("STORAGE_DRIVER"))),
		SQLitePath:      viper.GetString("SQLITE_PATH"),
		MigrationsPath:  strings.TrimSuffix(viper.GetString("MIGRATIONS_PATH"), "/"),
		RateLimit:       viper.GetString("RATE_LIMIT"),
		PosthogAPIKey:   viper.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint: viper.GetString("POSTHOG_ENDPOINT"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	switch cfg.StorageDriver {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL must be set when STORAGE_DRIVER is %q", StoragePostgres)
		}
	case StorageSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("SQLITE_PATH must be set when STORAGE_DRIVER is %q", StorageSQLite)
		}
	case StorageMemory:
		log.Println("Warning: STORAGE_DRIVER is memory, data will not survive a restart.")
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	windowStr := viper.GetString("DUPLICATE_WINDOW")
	window, err := time.ParseDuration(windowStr)
	if err != nil || window <= 0 {
		return nil, fmt.Errorf("invalid DUPLICATE_WINDOW %q: must be a positive duration", windowStr)
	}
	cfg.DuplicateWindow = window

	if cfg.RateLimit == "" {
		cfg.RateLimit = "100-M"
		log.Printf("Warning: RATE_LIMIT not set. Defaulting to %s.\n", cfg.RateLimit)
	}

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if cfg.PosthogAPIKey == "" {
		log.Println("Warning: POSTHOG_API_KEY not set. Analytics events will not be sent.")
	}

	return cfg, nil
}

// MigrationsDir returns the migrations directory for the configured driver.
func (c *Config) MigrationsDir() string {
	return c.MigrationsPath + "/" + c.StorageDriver
}
