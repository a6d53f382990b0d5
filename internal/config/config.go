// Package config loads application configuration from an optional YAML file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/splitbill/billsplitter/internal/extractor"
)

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `yaml:"driver"`

	// Path is the SQLite database file (sqlite driver).
	Path string `yaml:"path"`

	// DSN is the connection string (postgres driver).
	DSN string `yaml:"dsn"`
}

// AuthConfig configures token issuing.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// OCRConfig configures the image OCR collaborator.
type OCRConfig struct {
	Binary    string `yaml:"binary"`
	Languages string `yaml:"languages"`
}

// Config is the full application configuration.
type Config struct {
	Port    int           `yaml:"port"`
	Storage StorageConfig `yaml:"storage"`
	Auth    AuthConfig    `yaml:"auth"`

	// Parties optionally fixes the ordered party list used by the ledger.
	// When empty, the registered users (in creation order) are the parties.
	Parties []string `yaml:"parties"`

	// Extractor holds the locale-specific keyword lists.
	Extractor extractor.Config `yaml:"extractor"`

	OCR OCRConfig `yaml:"ocr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port: 8080,
		Storage: StorageConfig{
			Driver: "sqlite",
			Path:   "./data/billsplitter.db",
		},
		Auth: AuthConfig{
			JWTSecret: "dev-secret-change-me",
			TokenTTL:  24 * time.Hour,
		},
		Extractor: extractor.DefaultConfig(),
	}
}

// Load reads the YAML file at path (if it exists) over the defaults, then
// applies environment overrides. A missing file is not an error; a malformed
// one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	cfg.applyEnv()

	if cfg.Storage.Driver != "sqlite" && cfg.Storage.Driver != "postgres" {
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	c.Storage.Path = getEnv("DB_PATH", c.Storage.Path)
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Storage.Driver = "postgres"
		c.Storage.DSN = v
	}
	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.OCR.Binary = getEnv("TESSERACT_CMD", c.OCR.Binary)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
