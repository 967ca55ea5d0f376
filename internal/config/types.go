package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Core settings
	Environment string
	ServiceName string
	LogLevel    string
	LogFormat   string

	// Component configurations
	Download Download
	HTTP     HTTP
	Storage  Storage
	Metrics  Metrics
}

// Download holds the security policy for the download pipeline
type Download struct {
	Dir               string
	MaxFileSizeBytes  int64
	BlockedDomains    []string
	AllowedExtensions []string
	RequestDelay      time.Duration
	LogFile           string
	HashIndexFile     string // relative to Dir; empty disables cross-run dedup
}

// HTTP holds HTTP client configuration
type HTTP struct {
	Timeout   time.Duration
	UserAgent string
}

// Storage holds object storage configuration
type Storage struct {
	Adapter  string // "fs" or "s3"
	S3Bucket string
	S3Prefix string
	Region   string
	Endpoint string // non-empty for localstack/minio style endpoints
}

// Metrics holds metrics exposure configuration
type Metrics struct {
	Addr string // empty disables the listener
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	var problems []string

	if c.ServiceName == "" {
		problems = append(problems, "SERVICE_NAME is required")
	}
	if c.Download.Dir == "" {
		problems = append(problems, "DOWNLOAD_DIR is required")
	}
	if c.Download.MaxFileSizeBytes <= 0 {
		problems = append(problems, "MAX_FILE_SIZE_BYTES must be positive")
	}
	if len(c.Download.AllowedExtensions) == 0 {
		problems = append(problems, "ALLOWED_EXTENSIONS cannot be empty")
	}
	if c.Download.RequestDelay < 0 {
		problems = append(problems, "REQUEST_DELAY cannot be negative")
	}
	if c.HTTP.Timeout <= 0 {
		problems = append(problems, "HTTP_TIMEOUT must be positive")
	}

	switch c.Storage.Adapter {
	case "fs":
	case "s3":
		if c.Storage.S3Bucket == "" {
			problems = append(problems, "S3_BUCKET is required when STORAGE_ADAPTER=s3")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown STORAGE_ADAPTER: %q", c.Storage.Adapter))
	}

	for _, ext := range c.Download.AllowedExtensions {
		if !strings.HasPrefix(ext, ".") {
			problems = append(problems, fmt.Sprintf("extension %q must start with a dot", ext))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(problems, "; "))
	}

	return nil
}

// IsLocal returns true if running in local/development environment
func (c *Config) IsLocal() bool {
	env := strings.ToLower(c.Environment)
	return env == "local" || env == "development" || env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Environment)
	return env == "production" || env == "prod"
}

// IsTest returns true if running in test environment
func (c *Config) IsTest() bool {
	env := strings.ToLower(c.Environment)
	return env == "test" || env == "testing"
}
