package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"invoicer/internal/logger"
	"invoicer/internal/store"
	"invoicer/pkg/models"
)

type Config struct {
	// Storage
	DataDir        string
	StoreBackend   string
	SQLitePath     string
	RedisURL       string
	RedisKeyPrefix string

	// Invoice defaults
	DefaultTaxMode string

	// Parallel PDF rendering for print-batch
	BatchWorkers int

	// Google Sheets export (optional)
	GoogleSheetURL       string
	GoogleSheetWorksheet string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	dataDir := getEnv("INVOICER_DATA_DIR", defaultDataDir())

	config := &Config{
		DataDir:              dataDir,
		StoreBackend:         getEnv("STORE_BACKEND", store.BackendFile),
		SQLitePath:           getEnv("SQLITE_PATH", filepath.Join(dataDir, "invoicer.db")),
		RedisURL:             getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RedisKeyPrefix:       getEnv("REDIS_KEY_PREFIX", "invoicer:"),
		DefaultTaxMode:       getEnv("DEFAULT_TAX_MODE", string(models.TaxModeLocal)),
		BatchWorkers:         getEnvInt("BATCH_WORKERS", 4),
		GoogleSheetURL:       getEnv("GOOGLE_SHEET_URL", ""),
		GoogleSheetWorksheet: getEnv("GOOGLE_SHEET_WORKSHEET", "Saved_Bills"),
		LogLevel:             getEnv("LOG_LEVEL", "warn"),
		LogFormat:            getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:        getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:            getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Default returns the configuration used when Load fails
func Default() *Config {
	dataDir := defaultDataDir()
	return &Config{
		DataDir:              dataDir,
		StoreBackend:         store.BackendFile,
		SQLitePath:           filepath.Join(dataDir, "invoicer.db"),
		RedisKeyPrefix:       "invoicer:",
		DefaultTaxMode:       string(models.TaxModeLocal),
		BatchWorkers:         4,
		GoogleSheetWorksheet: "Saved_Bills",
		LogLevel:             "warn",
		LogFormat:            "console",
		LogTimeFormat:        "2006-01-02T15:04:05Z07:00",
		LogOutput:            "stderr",
	}
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case store.BackendFile, store.BackendSQLite, store.BackendRedis, store.BackendMemory:
	default:
		return fmt.Errorf("STORE_BACKEND must be one of file, sqlite, redis, memory (got %q)", c.StoreBackend)
	}
	if c.StoreBackend == store.BackendRedis && c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required for the redis backend")
	}
	if c.BatchWorkers <= 0 {
		return fmt.Errorf("BATCH_WORKERS must be positive (got %d)", c.BatchWorkers)
	}
	if _, err := models.ParseTaxMode(c.DefaultTaxMode); err != nil {
		return fmt.Errorf("DEFAULT_TAX_MODE: %w", err)
	}
	return nil
}

// TaxMode returns the parsed default tax mode
func (c *Config) TaxMode() models.TaxMode {
	mode, err := models.ParseTaxMode(c.DefaultTaxMode)
	if err != nil {
		return models.TaxModeLocal
	}
	return mode
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

// GetStoreConfig returns the storage backend configuration
func (c *Config) GetStoreConfig() store.Config {
	return store.Config{
		Backend:        c.StoreBackend,
		DataDir:        c.DataDir,
		SQLitePath:     c.SQLitePath,
		RedisURL:       c.RedisURL,
		RedisKeyPrefix: c.RedisKeyPrefix,
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".invoicer"
	}
	return filepath.Join(home, ".invoicer")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns -1 for values that are not integers so validate can report them
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return -1
	}
	return n
}
