package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// defaultJWTSecret is only accepted in development.
const defaultJWTSecret = "change-me-in-production"

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment    string
	HTTPPort       string
	Debug          bool
	DataDir        string
	DatabaseDriver string
	DatabaseDSN    string
	FrontendDir    string
	UploadDir      string
	ExportDir      string
	JWTSecret      string
	NotifyURL      string

	// ExportSweepSchedule is a cron spec for removing orphaned export files.
	// "off" disables the sweeper.
	ExportSweepSchedule string
	ExportMaxAge        time.Duration
}

// Load reads env vars and falls back to defaults so the server can boot with zero configuration.
func Load() (Config, error) {
	dataDir := getEnv("SIJAMU_DATA_DIR", "data")

	cfg := Config{
		Environment:         getEnv("SIJAMU_ENV", "development"),
		HTTPPort:            getEnv("SIJAMU_HTTP_PORT", "5001"),
		Debug:               getBool("SIJAMU_DEBUG", false),
		DataDir:             dataDir,
		DatabaseDriver:      getEnv("SIJAMU_DB_DRIVER", "sqlite"),
		DatabaseDSN:         getEnv("SIJAMU_DB_DSN", filepath.Join(dataDir, "sijamu.db")),
		FrontendDir:         getEnv("SIJAMU_FRONTEND_DIR", ""),
		UploadDir:           getEnv("SIJAMU_UPLOAD_DIR", filepath.Join(dataDir, "uploads")),
		ExportDir:           getEnv("SIJAMU_EXPORT_DIR", filepath.Join(dataDir, "exports")),
		JWTSecret:           getEnv("SIJAMU_JWT_SECRET", defaultJWTSecret),
		NotifyURL:           getEnv("SIJAMU_NOTIFY_URL", ""),
		ExportSweepSchedule: getEnv("SIJAMU_EXPORT_SWEEP", "@every 30m"),
	}

	if !cfg.IsDevelopment() && cfg.JWTSecret == defaultJWTSecret {
		return Config{}, fmt.Errorf("SIJAMU_JWT_SECRET must be set when SIJAMU_ENV is %q", cfg.Environment)
	}

	maxAge, err := time.ParseDuration(getEnv("SIJAMU_EXPORT_MAX_AGE", "1h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SIJAMU_EXPORT_MAX_AGE: %w", err)
	}
	cfg.ExportMaxAge = maxAge

	dirs := []string{cfg.DataDir, cfg.UploadDir, cfg.ExportDir}
	if cfg.DatabaseDriver == "sqlite" {
		dirs = append(dirs, filepath.Dir(cfg.DatabaseDSN))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Config{}, fmt.Errorf("ensure directory %s: %w", dir, err)
		}
	}

	return cfg, nil
}

// SweepEnabled reports whether orphaned exports should be swept on a schedule.
func (c Config) SweepEnabled() bool {
	return c.ExportSweepSchedule != "" && c.ExportSweepSchedule != "off"
}

// IsDevelopment reports whether the server runs with development defaults.
func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func getBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
