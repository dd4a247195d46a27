// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Dataset   DatasetConfig
	Countries CountriesConfig
	Server    ServerConfig
	Query     QueryConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DatasetConfig locates the protected-area dataset loaded at startup.
type DatasetConfig struct {
	Path       string
	Format     string // Optional; detected from the extension when empty
	Table      string // SQLite/GeoPackage table; first matching table when empty
	Sheet      string // XLSX sheet; first sheet when empty
	AreaColumn string // default: GIS_AREA
}

// CountriesConfig locates the country code reference table.
type CountriesConfig struct {
	// CodesPath is a .csv or saved .html table. Empty uses the embedded ISO 3166 table.
	CodesPath string
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 30s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
}

// QueryConfig bounds breakdown queries.
type QueryConfig struct {
	MaxCountries int // default: 3
}

// RateLimitConfig configures per-client API rate limiting. RPS 0 disables it.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// CORSConfig holds allowed origins for the JSON API.
type CORSConfig struct {
	AllowedOrigins []string
}

var (
	validEnvs = map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	validLevels = map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	validFormats = map[string]bool{
		"csv":    true,
		"sqlite": true,
		"gpkg":   true,
		"db":     true,
		"xlsx":   true,
	}
)

// LoadConfig loads configuration from the process arguments and environment with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load parses args and the environment, then validates the result.
func Load(args []string) (*Config, error) {
	cfg, err := Parse(args)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Parse builds a Config from args and the environment without validating it.
func Parse(args []string) (*Config, error) {
	fs := flag.NewFlagSet("wdpa-server", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")

	// Dataset flags
	datasetPath := fs.String("dataset", "", "Path to the WDPA dataset (.csv, .gpkg, .sqlite, .db, .xlsx)")
	datasetFormat := fs.String("dataset-format", "", "Dataset format override (csv, sqlite, xlsx)")
	datasetTable := fs.String("dataset-table", "", "Table to read from a SQLite/GeoPackage dataset")
	datasetSheet := fs.String("dataset-sheet", "", "Sheet to read from an XLSX dataset")
	areaColumn := fs.String("area-column", "", "Area column to aggregate (default: GIS_AREA)")
	codesPath := fs.String("country-codes", "", "Path to a country code table (.csv or .html)")

	// Server flags
	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 30s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")

	maxCountries := fs.String("max-countries", "", "Maximum countries per selection (default: 3)")
	rateLimitRPS := fs.String("rate-limit-rps", "", "Requests per second per client, 0 disables (default: 10)")
	rateLimitBurst := fs.String("rate-limit-burst", "", "Rate limiter burst (default: 20)")
	corsOrigins := fs.String("cors-origins", "", "Comma-separated allowed CORS origins (default: *)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Load .env file if it exists. godotenv never overrides variables already set.
	_ = godotenv.Load(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Dataset: DatasetConfig{
			Path:       getConfigValue(*datasetPath, "DATASET_PATH", ""),
			Format:     strings.ToLower(getConfigValue(*datasetFormat, "DATASET_FORMAT", "")),
			Table:      getConfigValue(*datasetTable, "DATASET_TABLE", ""),
			Sheet:      getConfigValue(*datasetSheet, "DATASET_SHEET", ""),
			AreaColumn: strings.ToUpper(getConfigValue(*areaColumn, "AREA_COLUMN", "GIS_AREA")),
		},
		Countries: CountriesConfig{
			CodesPath: getConfigValue(*codesPath, "COUNTRY_CODES_PATH", ""),
		},
		Server: ServerConfig{
			Port: getConfigValue(*serverPort, "SERVER_PORT", "8080"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ALLOWED_ORIGINS", "*")),
		},
	}

	var err error
	if cfg.Query.MaxCountries, err = getIntConfigValue(*maxCountries, "MAX_COUNTRIES", 3); err != nil {
		return nil, err
	}
	if cfg.RateLimit.RPS, err = getFloatConfigValue(*rateLimitRPS, "RATE_LIMIT_RPS", 10); err != nil {
		return nil, err
	}
	if cfg.RateLimit.Burst, err = getIntConfigValue(*rateLimitBurst, "RATE_LIMIT_BURST", 20); err != nil {
		return nil, err
	}

	// Parse server timeouts.
	if cfg.Server.ReadTimeout, err = getDurationConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, fmt.Errorf("invalid read timeout: %w", err)
	}
	if cfg.Server.WriteTimeout, err = getDurationConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "30s"); err != nil {
		return nil, fmt.Errorf("invalid write timeout: %w", err)
	}
	if cfg.Server.IdleTimeout, err = getDurationConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, fmt.Errorf("invalid idle timeout: %w", err)
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Dataset.Path == "" {
		return errors.New("DATASET_PATH is required")
	}
	if c.Dataset.Format != "" && !validFormats[c.Dataset.Format] {
		return fmt.Errorf("invalid dataset format: %s (must be csv, sqlite, gpkg, db, or xlsx)", c.Dataset.Format)
	}
	if c.Dataset.AreaColumn == "" {
		return errors.New("AREA_COLUMN cannot be empty")
	}

	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid server port: %s", c.Server.Port)
	}

	if c.Query.MaxCountries < 1 {
		return fmt.Errorf("MAX_COUNTRIES must be at least 1, got %d", c.Query.MaxCountries)
	}

	if c.RateLimit.RPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS cannot be negative, got %g", c.RateLimit.RPS)
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1 when rate limiting is enabled, got %d", c.RateLimit.Burst)
	}

	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

// expandPaths expands ~ and makes file paths absolute.
func (c *Config) expandPaths() error {
	var err error
	if c.Dataset.Path, err = expandPath(c.Dataset.Path); err != nil {
		return fmt.Errorf("invalid dataset path: %w", err)
	}
	if c.Countries.CodesPath, err = expandPath(c.Countries.CodesPath); err != nil {
		return fmt.Errorf("invalid country codes path: %w", err)
	}
	return nil
}

// expandPath expands ~ and makes the path absolute. Empty stays empty.
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
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

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable (including values loaded from .env).
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) (int, error) {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(strValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be an integer", envKey, strValue)
	}
	return v, nil
}

// getFloatConfigValue returns a float from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) (float64, error) {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(strValue), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be a number", envKey, strValue)
	}
	return v, nil
}

// getDurationConfigValue returns a duration from flag, env var, or default.
func getDurationConfigValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	strValue := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", envKey, strValue, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
