package config

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/slashurl/slash/pkg/slash/logger"
)

// MinAdminKeyLength is the shortest accepted ADMIN_KEY.
const MinAdminKeyLength = 16

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Cache    CacheConfig
	App      AppConfig
	Log      logger.Config
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	CORSOrigins     []string
	StaticDir       string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	URL   string
	Debug bool
}

// AuthConfig holds admin session settings
type AuthConfig struct {
	AdminKey     string
	JWTSecret    string
	SessionTTL   time.Duration
	CookieSecure bool
}

// CacheConfig holds stats cache settings. An empty RedisURL disables caching.
type CacheConfig struct {
	RedisURL string
	StatsTTL time.Duration
}

// AppConfig holds application-specific settings
type AppConfig struct {
	BaseURL     string
	Environment string // "development", "production", "testing"
}

// Load reads configuration from a .env file, if present, and the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("APP_PORT", "8000"),
			CORSOrigins:     getListEnv("CORS_ORIGINS"),
			StaticDir:       getEnv("STATIC_DIR", "./frontend/dist"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL:   getEnv("DB_URL", "sqlite:///slash.db"),
			Debug: getBoolEnv("DB_DEBUG", false),
		},
		Auth: AuthConfig{
			AdminKey:     os.Getenv("ADMIN_KEY"),
			JWTSecret:    os.Getenv("JWT_SECRET"),
			SessionTTL:   getDurationEnv("SESSION_TTL", 24*time.Hour),
			CookieSecure: getBoolEnv("COOKIE_SECURE", false),
		},
		Cache: CacheConfig{
			RedisURL: os.Getenv("REDIS_URL"),
			StatsTTL: getDurationEnv("STATS_CACHE_TTL", 30*time.Second),
		},
		App: AppConfig{
			BaseURL:     getEnv("BASE_URL", ""),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Log: logger.Config{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
	cfg.Log.Environment = cfg.App.Environment

	// Set default BaseURL if not provided
	if cfg.App.BaseURL == "" {
		cfg.App.BaseURL = fmt.Sprintf("http://localhost:%s", cfg.Server.Port)
	}
	cfg.App.BaseURL = strings.TrimSuffix(cfg.App.BaseURL, "/")

	// Derive a signing secret from the admin key if none is configured
	if cfg.Auth.JWTSecret == "" && cfg.Auth.AdminKey != "" {
		sum := sha256.Sum256([]byte("slash-session:" + cfg.Auth.AdminKey))
		cfg.Auth.JWTSecret = fmt.Sprintf("%x", sum)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port: %s (must be 1-65535)", c.Server.Port)
	}

	if c.Database.URL == "" {
		return errors.New("database URL cannot be empty")
	}

	if len(c.Auth.AdminKey) < MinAdminKeyLength {
		return fmt.Errorf("admin key is missing or shorter than %d characters", MinAdminKeyLength)
	}

	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("invalid session TTL: %s", c.Auth.SessionTTL)
	}

	if c.Cache.StatsTTL < 0 {
		return fmt.Errorf("invalid stats cache TTL: %s", c.Cache.StatsTTL)
	}

	validEnvs := map[string]bool{
		"development": true,
		"production":  true,
		"testing":     true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, production, or testing)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getListEnv(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
