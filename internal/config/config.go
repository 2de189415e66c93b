package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kerimovok/go-pkg-utils/config"
	"gopkg.in/yaml.v3"
)

// FileValidationConfig holds upload validation settings
type FileValidationConfig struct {
	MaxFileSize       int64    `yaml:"max_file_size"`
	BlockedExtensions []string `yaml:"blocked_extensions"`
}

// LocalStorageConfig holds local blob storage settings
type LocalStorageConfig struct {
	UploadDir  string `yaml:"upload_dir"`
	CreateDirs bool   `yaml:"create_dirs"`
}

// RetentionConfig holds file expiry settings
type RetentionConfig struct {
	TTLHours             int `yaml:"ttl_hours"`
	SweepIntervalMinutes int `yaml:"sweep_interval_minutes"`
}

// AdminConfig holds admin session settings
type AdminConfig struct {
	TokenTTLHours int `yaml:"token_ttl_hours"`
}

// StorageConfig holds the complete storage configuration
type StorageConfig struct {
	Validation FileValidationConfig `yaml:"validation"`
	Storage    LocalStorageConfig   `yaml:"storage"`
	Retention  RetentionConfig      `yaml:"retention"`
}

// MainConfig holds the root configuration
type MainConfig struct {
	Storage StorageConfig `yaml:"storage"`
	Admin   AdminConfig   `yaml:"admin"`
}

// TTL returns the retention window applied to new uploads.
func (c RetentionConfig) TTL() time.Duration {
	if c.TTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.TTLHours) * time.Hour
}

// SweepInterval returns how often the expiry sweep runs.
func (c RetentionConfig) SweepInterval() time.Duration {
	if c.SweepIntervalMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.SweepIntervalMinutes) * time.Minute
}

// TokenTTL returns the lifetime of an admin session token.
func (c AdminConfig) TokenTTL() time.Duration {
	if c.TokenTTLHours <= 0 {
		return 12 * time.Hour
	}
	return time.Duration(c.TokenTTLHours) * time.Hour
}

var (
	Config MainConfig
)

// LoadConfig loads the configuration from the specified path
func LoadConfig() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if config.GetEnv("GO_ENV") != "production" {
			log.Println("Warning: Failed to load .env file")
		}
	}

	// Read config file
	data, err := os.ReadFile("config/filevault.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	// Store config globally
	Config = config

	log.Println("Configuration loaded successfully from config/filevault.yaml")
	return nil
}

// GetConfig returns the current configuration
func GetConfig() MainConfig {
	return Config
}
