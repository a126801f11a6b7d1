// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the catalog configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Catalog CatalogConfig
	Cache   CacheConfig
	Backup  BackupConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// CatalogConfig holds catalog storage configuration.
type CatalogConfig struct {
	// BasePath is the directory holding the store file, its WAL journal,
	// and the instance lock file. Created on first use if absent.
	BasePath string
	// BusyTimeout is how long a write waits for the writer slot before
	// failing with a Busy error (default: 5s).
	BusyTimeout time.Duration
	// BusyRetries is the number of internal retries before a Busy error
	// is surfaced to the caller (default: 3).
	BusyRetries int
}

// CacheConfig holds aggregate query cache configuration.
type CacheConfig struct {
	// StatsTTL is the time-to-live for cached statistics entries (default: 30s).
	StatsTTL time.Duration
}

// BackupConfig holds catalog backup configuration.
type BackupConfig struct {
	// Path is the directory for backup snapshots (default: {catalog}/backups).
	Path string
	// MaxSnapshots is how many snapshots to retain (default: 10).
	MaxSnapshots int
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	catalogPath := flag.String("catalog-path", "", "Base path for catalog storage")
	busyTimeout := flag.String("busy-timeout", "", "Writer slot wait before Busy (default: 5s)")
	busyRetries := flag.String("busy-retries", "", "Internal retries before surfacing Busy (default: 3)")
	statsTTL := flag.String("stats-ttl", "", "Statistics cache time-to-live (default: 30s)")
	backupPath := flag.String("backup-path", "", "Path for backup snapshots")
	maxSnapshots := flag.String("max-snapshots", "", "Backup snapshots to retain (default: 10)")
	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Catalog: CatalogConfig{
			BasePath:    getConfigValue(*catalogPath, "CATALOG_PATH", ""),
			BusyRetries: getIntConfigValue(*busyRetries, "BUSY_RETRIES", 3),
		},
		Cache: CacheConfig{},
		Backup: BackupConfig{
			Path:         getConfigValue(*backupPath, "BACKUP_PATH", ""),
			MaxSnapshots: getIntConfigValue(*maxSnapshots, "MAX_SNAPSHOTS", 10),
		},
	}

	// Parse durations.
	busyTimeoutStr := getConfigValue(*busyTimeout, "BUSY_TIMEOUT", "5s")
	busyTimeoutDuration, err := time.ParseDuration(busyTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid busy timeout %q: %w", busyTimeoutStr, err)
	}
	cfg.Catalog.BusyTimeout = busyTimeoutDuration

	statsTTLStr := getConfigValue(*statsTTL, "STATS_TTL", "30s")
	statsTTLDuration, err := time.ParseDuration(statsTTLStr)
	if err != nil {
		return nil, fmt.Errorf("invalid stats TTL %q: %w", statsTTLStr, err)
	}
	cfg.Cache.StatsTTL = statsTTLDuration

	// Expand and validate catalog path.
	if err := cfg.expandCatalogPath(); err != nil {
		return nil, fmt.Errorf("invalid catalog path: %w", err)
	}

	// Expand backup path (defaults to {catalog}/backups).
	if err := cfg.expandBackupPath(); err != nil {
		return nil, fmt.Errorf("invalid backup path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Catalog.BasePath == "" {
		return errors.New("catalog base path cannot be empty after expansion")
	}

	if c.Catalog.BusyTimeout <= 0 {
		return errors.New("busy timeout must be positive")
	}

	if c.Cache.StatsTTL <= 0 {
		return errors.New("stats TTL must be positive")
	}

	if c.Backup.MaxSnapshots < 1 {
		return errors.New("max snapshots must be at least 1")
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandCatalogPath expands ~ and makes the path absolute.
func (c *Config) expandCatalogPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "VidCat", "catalog")

	expanded, err := expandPath(c.Catalog.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Catalog.BasePath = expanded
	return nil
}

// expandBackupPath expands ~ and makes the path absolute.
// Defaults to {catalog}/backups if not specified.
func (c *Config) expandBackupPath() error {
	defaultPath := filepath.Join(c.Catalog.BasePath, "backups")

	expanded, err := expandPath(c.Backup.Path, defaultPath)
	if err != nil {
		return err
	}
	c.Backup.Path = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=value.
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present.
		value = strings.Trim(value, `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
