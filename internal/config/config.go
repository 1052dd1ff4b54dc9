package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxConns        int    `yaml:"max_conns" env:"DB_MAX_CONNS"`
		MinConns        int    `yaml:"min_conns" env:"DB_MIN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	JWT struct {
		Secret                 string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration  string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		RefreshTokenExpiration string `yaml:"refresh_token_expiration" env:"JWT_REFRESH_TOKEN_EXPIRATION"`
		Issuer                 string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	AI struct {
		APIKey    string `yaml:"api_key" env:"AI_API_KEY"`
		BaseURL   string `yaml:"base_url" env:"AI_BASE_URL"`
		Model     string `yaml:"model" env:"AI_MODEL"`
		Timeout   string `yaml:"timeout" env:"AI_TIMEOUT"`
		CacheSize int    `yaml:"cache_size" env:"AI_CACHE_SIZE"`
		CacheTTL  string `yaml:"cache_ttl" env:"AI_CACHE_TTL"`
	} `yaml:"ai"`

	Email struct {
		SendGridAPIKey string `yaml:"sendgrid_api_key" env:"SENDGRID_API_KEY"`
		FromName       string `yaml:"from_name" env:"EMAIL_FROM_NAME"`
		FromAddress    string `yaml:"from_address" env:"EMAIL_FROM_ADDRESS"`
	} `yaml:"email"`

	Storage struct {
		BasePath string `yaml:"base_path" env:"STORAGE_BASE_PATH"`
		BaseURL  string `yaml:"base_url" env:"STORAGE_BASE_URL"`
	} `yaml:"storage"`

	Jobs struct {
		CertificationScanSchedule string `yaml:"certification_scan_schedule" env:"JOBS_CERT_SCAN_SCHEDULE"`
		CertificationExpiryWindow string `yaml:"certification_expiry_window" env:"JOBS_CERT_EXPIRY_WINDOW"`
	} `yaml:"jobs"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Environment variables override file values
	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "instructpoint"
	config.Database.SSLMode = "disable"
	config.Database.MaxConns = 20
	config.Database.MinConns = 2
	config.Database.ConnMaxLifetime = "1h"

	config.JWT.AccessTokenExpiration = "1h"
	config.JWT.RefreshTokenExpiration = "720h"
	config.JWT.Issuer = "instructpoint.app"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.AI.BaseURL = "https://api.openai.com/v1"
	config.AI.Model = "gpt-4o-mini"
	config.AI.Timeout = "20s"
	config.AI.CacheSize = 64
	config.AI.CacheTTL = "24h"

	config.Email.FromName = "InstructPoint"
	config.Email.FromAddress = "no-reply@instructpoint.app"

	config.Storage.BasePath = "uploads"

	// Daily at 06:00 server time, remind for certifications expiring within 30 days
	config.Jobs.CertificationScanSchedule = "0 6 * * *"
	config.Jobs.CertificationExpiryWindow = "720h"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}
	if _, err := time.ParseDuration(config.JWT.RefreshTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT refresh token expiration format: %w", err)
	}
	if _, err := time.ParseDuration(config.AI.Timeout); err != nil {
		return fmt.Errorf("invalid AI timeout format: %w", err)
	}
	if _, err := time.ParseDuration(config.AI.CacheTTL); err != nil {
		return fmt.Errorf("invalid AI cache TTL format: %w", err)
	}
	if _, err := time.ParseDuration(config.Jobs.CertificationExpiryWindow); err != nil {
		return fmt.Errorf("invalid certification expiry window format: %w", err)
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// AITimeout returns the parsed AI request timeout
func (c *Config) AITimeout() time.Duration {
	d, _ := time.ParseDuration(c.AI.Timeout)
	return d
}

// AICacheTTL returns the parsed AI description cache TTL
func (c *Config) AICacheTTL() time.Duration {
	d, _ := time.ParseDuration(c.AI.CacheTTL)
	return d
}

// CertificationExpiryWindow returns the parsed reminder window
func (c *Config) CertificationExpiryWindow() time.Duration {
	d, _ := time.ParseDuration(c.Jobs.CertificationExpiryWindow)
	return d
}
