/*
Package configs loads the service configuration from environment variables.

LoadConfig applies defaults, converts types and validates the result. A missing signing
secret is a configuration error in every environment: the process must not start
without one.
*/
package configs

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
)

// Store drivers accepted in STORE_DRIVER.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
	StoreDriverBolt     = "bolt"
	StoreDriverMemory   = "memory"
)

// ErrMissingJWTSecret is returned when JWT_SECRET is unset or blank.
var ErrMissingJWTSecret = errors.New("JWT_SECRET environment variable is required")

// AppConfig contains all configuration parameters required for the application to run.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int

	// Security Settings
	AllowedOrigins    []string
	JWTSecret         string
	HashConcurrency   int
	AuthRatePerMinute int
	AuthBurst         int
	PowDifficulty     int

	// Credential Store Settings
	StoreDriver string
	DatabaseDSN string
	SQLitePath  string
	BoltPath    string

	// S3 Storage Settings. Either all four are set or none.
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// S3Enabled reports whether asset storage is configured.
func (c *AppConfig) S3Enabled() bool {
	return c.S3BucketName != ""
}

// PowEnabled reports whether the guest endpoint is gated by proof-of-work.
func (c *AppConfig) PowEnabled() bool {
	return c.PowDifficulty > 0
}

// LoadConfig reads and validates the configuration from the process environment.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	var err error

	// --- General Server Settings ---
	cfg.Environment = envOr("ENVIRONMENT", "development")

	if cfg.Port, err = intFromEnv("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the allowed range (%d-%d)", cfg.Port, 1024, 65535)
	}

	// --- Security Settings ---
	for _, origin := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, ErrMissingJWTSecret
	}

	if cfg.HashConcurrency, err = intFromEnv("HASH_CONCURRENCY", 0); err != nil {
		return nil, err
	}

	if cfg.AuthRatePerMinute, err = intFromEnv("AUTH_RATE_PER_MINUTE", 20); err != nil {
		return nil, err
	}
	if cfg.AuthRatePerMinute < 1 {
		return nil, fmt.Errorf("AUTH_RATE_PER_MINUTE must be positive, got %d", cfg.AuthRatePerMinute)
	}

	if cfg.AuthBurst, err = intFromEnv("AUTH_BURST", 10); err != nil {
		return nil, err
	}
	if cfg.AuthBurst < 1 {
		return nil, fmt.Errorf("AUTH_BURST must be positive, got %d", cfg.AuthBurst)
	}

	if cfg.PowDifficulty, err = intFromEnv("POW_DIFFICULTY", 0); err != nil {
		return nil, err
	}
	if cfg.PowDifficulty < 0 || cfg.PowDifficulty > 8 {
		return nil, fmt.Errorf("POW_DIFFICULTY must be between 0 and 8, got %d", cfg.PowDifficulty)
	}

	// --- Credential Store Settings ---
	cfg.StoreDriver = strings.ToLower(envOr("STORE_DRIVER", StoreDriverPostgres))
	cfg.DatabaseDSN = os.Getenv("DATABASE_URL")
	cfg.SQLitePath = envOr("SQLITE_PATH", "storyauth.db")
	cfg.BoltPath = envOr("BOLT_PATH", "storyauth.bolt")

	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		if cfg.DatabaseDSN == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is required for STORE_DRIVER=%s", cfg.StoreDriver)
		}
	case StoreDriverSQLite, StoreDriverBolt, StoreDriverMemory:
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}

	// --- S3 Storage Settings ---
	cfg.S3BucketName = os.Getenv("S3_BUCKET_NAME")
	cfg.S3Endpoint = os.Getenv("S3_ENDPOINT")
	cfg.S3AccessKeyID = os.Getenv("S3_ACCESS_KEY_ID")
	cfg.S3SecretAccessKey = os.Getenv("S3_SECRET_ACCESS_KEY")

	s3Vars := map[string]string{
		"S3_BUCKET_NAME":       cfg.S3BucketName,
		"S3_ENDPOINT":          cfg.S3Endpoint,
		"S3_ACCESS_KEY_ID":     cfg.S3AccessKeyID,
		"S3_SECRET_ACCESS_KEY": cfg.S3SecretAccessKey,
	}
	var missing []string
	for name, value := range s3Vars {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 && len(missing) < len(s3Vars) {
		slices.Sort(missing)
		return nil, fmt.Errorf("incomplete S3 configuration, missing: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intFromEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return n, nil
}
