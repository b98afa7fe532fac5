package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// DefaultSourceURL is the public employee roster archive the pipeline was built against
const DefaultSourceURL = "https://www.thespreadsheetguru.com/wp-content/uploads/2022/12/EmployeeSampleData.zip"

// DefaultUserAgent mimics a desktop browser; the source host rejects bare Go clients
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string `validate:"required,numeric"`
	Env  string `validate:"oneof=development staging production test"`

	// Roster source
	Source SourceConfig

	// Artifacts
	Storage StorageConfig

	// Optional policy override (YAML)
	PolicyFile string

	// Database (optional: run and snapshot history)
	Database DatabaseConfig

	// Redis (optional: cache + shared rate limit)
	Redis RedisConfig

	// Scheduler
	Schedule ScheduleConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// SourceConfig describes where and how the roster archive is downloaded
type SourceConfig struct {
	URL         string        `validate:"required_without=PageURL,omitempty,url"`
	PageURL     string        `validate:"omitempty,url"`
	MaxAttempts int           `validate:"min=1,max=20"`
	RetryDelay  time.Duration `validate:"min=0"`
	Timeout     time.Duration `validate:"gt=0"`
	UserAgent   string
	RatePerSec  float64 `validate:"min=0"`
}

// StorageConfig holds artifact locations
type StorageConfig struct {
	DatasetPath string `validate:"required"`
	MetricsPath string `validate:"required"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether a database URL was configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// ScheduleConfig holds cron expressions (with seconds) for scheduled jobs
type ScheduleConfig struct {
	Ingest  string `validate:"required"`
	Metrics string `validate:"required"`
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8000"),
		Env:  getEnv("ENV", "development"),

		Source: SourceConfig{
			URL:         getEnv("SOURCE_URL", DefaultSourceURL),
			PageURL:     getEnv("SOURCE_PAGE_URL", ""),
			MaxAttempts: getEnvAsInt("SOURCE_MAX_ATTEMPTS", 3),
			RetryDelay:  getEnvAsDuration("SOURCE_RETRY_DELAY", "2s"),
			Timeout:     getEnvAsDuration("SOURCE_TIMEOUT", "30s"),
			UserAgent:   getEnv("SOURCE_USER_AGENT", DefaultUserAgent),
			RatePerSec:  getEnvAsFloat("SOURCE_RATE_PER_SEC", 0),
		},

		Storage: StorageConfig{
			DatasetPath: getEnv("DATASET_PATH", "employees_cleaned.csv"),
			MetricsPath: getEnv("METRICS_PATH", "pipeline_metrics.json"),
		},

		PolicyFile: getEnv("POLICY_FILE", ""),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 5),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Schedule: ScheduleConfig{
			Ingest:  getEnv("SCHEDULE_INGEST", "0 0 2 * * *"),
			Metrics: getEnv("SCHEDULE_METRICS", "0 30 2 * * *"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadWithEnvFile loads an explicit .env file first, then the usual sources.
// Variables already set in the environment win over the file.
func LoadWithEnvFile(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}
	return Load()
}

// validate checks struct constraints declared in the validate tags
func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
