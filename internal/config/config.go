package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-analytics-go/internal/repository/csvstore"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Dataset  DatasetConfig
	Location LocationConfig
	CORS     CORSConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Name     string
	Version  string
	Port     int
	Env      string
	LogLevel string
}

// DatasetConfig points at the HR CSV loaded once at startup
type DatasetConfig struct {
	Path string
}

// LocationConfig controls the city coordinate reference table
type LocationConfig struct {
	CoordinatesURL string
	CacheTTL       time.Duration
	FetchTimeout   time.Duration
	MaxAttempts    int
	// RefreshInterval reloads the table in the background; zero disables it.
	RefreshInterval time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads envFile when it exists, then the process environment. A missing
// envFile is not an error; variables already set in the environment win.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	config := &Config{}

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Name:     getEnv("APP_NAME", "hr-analytics"),
		Version:  getEnv("APP_VERSION", "v1.0.0"),
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	config.Dataset = DatasetConfig{
		Path: getEnv("DATASET_PATH", "HR_Final_Database.csv"),
	}

	// Location configuration
	cacheTTL, err := getEnvDuration("COORDINATES_CACHE_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := getEnvDuration("COORDINATES_FETCH_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	maxAttempts, err := getEnvInt("COORDINATES_MAX_ATTEMPTS", 3)
	if err != nil {
		return nil, err
	}
	refreshInterval, err := getEnvDuration("COORDINATES_REFRESH_INTERVAL", 12*time.Hour)
	if err != nil {
		return nil, err
	}

	config.Location = LocationConfig{
		CoordinatesURL:  getEnv("COORDINATES_URL", csvstore.DefaultCoordinatesURL),
		CacheTTL:        cacheTTL,
		FetchTimeout:    fetchTimeout,
		MaxAttempts:     maxAttempts,
		RefreshInterval: refreshInterval,
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Port < 1 || c.App.Port > 65535 {
		return fmt.Errorf("APP_PORT must be between 1 and 65535")
	}
	if c.Dataset.Path == "" {
		return fmt.Errorf("DATASET_PATH is required")
	}
	if c.Location.CoordinatesURL == "" {
		return fmt.Errorf("COORDINATES_URL is required")
	}
	if c.Location.CacheTTL <= 0 {
		return fmt.Errorf("COORDINATES_CACHE_TTL must be positive")
	}
	if c.Location.FetchTimeout <= 0 {
		return fmt.Errorf("COORDINATES_FETCH_TIMEOUT must be positive")
	}
	if c.Location.MaxAttempts < 1 {
		return fmt.Errorf("COORDINATES_MAX_ATTEMPTS must be at least 1")
	}
	if c.Location.RefreshInterval < 0 {
		return fmt.Errorf("COORDINATES_REFRESH_INTERVAL must not be negative")
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS is required")
	}
	return nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
