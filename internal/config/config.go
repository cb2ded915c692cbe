package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Google  GoogleConfig  `yaml:"google"`
	Storage StorageConfig `yaml:"storage"`
	Redis   RedisConfig   `yaml:"redis"`
}

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Port           int      `yaml:"port"`
	Host           string   `yaml:"host"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GoogleConfig holds the Google API settings shared by the Campaign Manager,
// Sheets and Tag Manager clients.
type GoogleConfig struct {
	// ProfileID is the Campaign Manager user profile all platform calls
	// run under.
	ProfileID int64 `yaml:"profile_id"`

	// CredentialsFile points at a service-account JSON key. Empty means
	// application default credentials.
	CredentialsFile string `yaml:"credentials_file"`

	// DefaultAudienceLifespanDays applies when an activity row requests an
	// audience without a lifespan.
	DefaultAudienceLifespanDays int `yaml:"default_audience_lifespan_days"`

	// Base URL overrides, used by tests and proxies.
	DCMBaseURL        string `yaml:"dcm_base_url"`
	SheetsBaseURL     string `yaml:"sheets_base_url"`
	TagManagerBaseURL string `yaml:"tagmanager_base_url"`
}

// StorageConfig holds the request-store database settings
type StorageConfig struct {
	DatabaseURL string `yaml:"database_url"`
}

// RedisConfig holds the distributed-lock backend settings. Disabled means
// sync locks fall back to PostgreSQL advisory locks.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Google.DefaultAudienceLifespanDays == 0 {
		cfg.Google.DefaultAudienceLifespanDays = 540
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// A .env file (if present) is read first, so secrets can live in .env
// locally and in real env vars in deployment.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("DCM_PROFILE_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("DCM_PROFILE_ID: %w", err)
		}
		cfg.Google.ProfileID = id
	}
	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" {
		cfg.Google.CredentialsFile = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Storage.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Enabled = true
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}

	return cfg, nil
}
