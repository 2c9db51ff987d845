// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported document store backends.
const (
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
	BackendSQLite    = "sqlite"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"SERVER_TIMEOUT_SECONDS"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Firebase Configuration
	FirebaseServiceAccountKeyPath string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_KEY_PATH"`
	FirebaseProjectID             string `mapstructure:"FIREBASE_PROJECT_ID"`

	// Document Store Configuration
	DocumentStoreBackend string `mapstructure:"DOCUMENT_STORE_BACKEND"`

	// Database Configuration (postgres / sqlite document store)
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
	SQLitePath        string        `mapstructure:"SQLITE_PATH"`

	// Account Directory
	DirectoryPageSize int `mapstructure:"DIRECTORY_PAGE_SIZE"`

	// Students
	StudentDefaultPassword      string   `mapstructure:"STUDENT_DEFAULT_PASSWORD"`
	StudentCORSEnabled          bool     `mapstructure:"STUDENT_CORS_ENABLED"`
	StudentCORSAllowedOrigins   []string `mapstructure:"-"`
	StudentCORSAllowedMethods   []string `mapstructure:"-"`
	StudentCORSAllowedHeaders   []string `mapstructure:"-"`
	StudentCORSAllowCredentials bool     `mapstructure:"STUDENT_CORS_ALLOW_CREDENTIALS"`

	// Cron Jobs
	StudentOrphanSweepSchedule string `mapstructure:"STUDENT_ORPHAN_SWEEP_SCHEDULE"`

	// Metrics
	MetricsEnabled bool `mapstructure:"METRICS_ENABLED"`
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Convert duration fields
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute

	// Lists arrive as comma-separated env values.
	cfg.StudentCORSAllowedOrigins = splitList(v.GetString("STUDENT_CORS_ALLOWED_ORIGINS"))
	cfg.StudentCORSAllowedMethods = splitList(v.GetString("STUDENT_CORS_ALLOWED_METHODS"))
	cfg.StudentCORSAllowedHeaders = splitList(v.GetString("STUDENT_CORS_ALLOWED_HEADERS"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	// Firebase
	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("FIREBASE_SERVICE_ACCOUNT_KEY_PATH", "")

	v.SetDefault("DOCUMENT_STORE_BACKEND", BackendFirestore)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "campus_identity_db")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)
	v.SetDefault("SQLITE_PATH", "documents.db")

	v.SetDefault("DIRECTORY_PAGE_SIZE", 100)

	v.SetDefault("STUDENT_DEFAULT_PASSWORD", "defaultPassword")
	v.SetDefault("STUDENT_CORS_ENABLED", false)
	v.SetDefault("STUDENT_CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("STUDENT_CORS_ALLOWED_METHODS", "GET,POST,PATCH,DELETE,OPTIONS")
	v.SetDefault("STUDENT_CORS_ALLOWED_HEADERS", "Content-Type,Authorization")
	v.SetDefault("STUDENT_CORS_ALLOW_CREDENTIALS", true)

	v.SetDefault("STUDENT_ORPHAN_SWEEP_SCHEDULE", "")

	v.SetDefault("METRICS_ENABLED", true)
}

// Validate checks the settings that would otherwise fail late, at first use.
func (c *Config) Validate() error {
	switch c.DocumentStoreBackend {
	case BackendFirestore, BackendPostgres, BackendSQLite:
	default:
		return fmt.Errorf("DOCUMENT_STORE_BACKEND must be one of %s, %s, %s; got %q",
			BackendFirestore, BackendPostgres, BackendSQLite, c.DocumentStoreBackend)
	}

	if c.DirectoryPageSize < 1 || c.DirectoryPageSize > 1000 {
		return fmt.Errorf("DIRECTORY_PAGE_SIZE must be between 1 and 1000; got %d", c.DirectoryPageSize)
	}

	if strings.TrimSpace(c.StudentDefaultPassword) == "" {
		return fmt.Errorf("STUDENT_DEFAULT_PASSWORD must not be empty")
	}

	keyPath := strings.TrimSpace(c.FirebaseServiceAccountKeyPath)
	if keyPath == "" && strings.TrimSpace(c.FirebaseProjectID) == "" {
		return fmt.Errorf("either FIREBASE_SERVICE_ACCOUNT_KEY_PATH or FIREBASE_PROJECT_ID must be set")
	}
	if keyPath != "" {
		if _, err := os.Stat(keyPath); os.IsNotExist(err) {
			return fmt.Errorf("firebase service account key file specified in FIREBASE_SERVICE_ACCOUNT_KEY_PATH (%s) not found", keyPath)
		}
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
