package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// parse reads configuration from environment variables
func parse() (*Config, error) {
	defaults := DefaultConfig()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", defaults.Environment),
		ServiceName: getEnv("SERVICE_NAME", defaults.ServiceName),
		LogLevel:    getEnv("LOG_LEVEL", defaults.LogLevel),
		LogFormat:   getEnv("LOG_FORMAT", defaults.LogFormat),

		Download: Download{
			Dir:               getEnv("DOWNLOAD_DIR", defaults.Download.Dir),
			MaxFileSizeBytes:  getInt64("MAX_FILE_SIZE_BYTES", defaults.Download.MaxFileSizeBytes),
			BlockedDomains:    getList("BLOCKED_DOMAINS", defaults.Download.BlockedDomains),
			AllowedExtensions: getList("ALLOWED_EXTENSIONS", defaults.Download.AllowedExtensions),
			RequestDelay:      getDuration("REQUEST_DELAY", defaults.Download.RequestDelay),
			LogFile:           getEnv("LOG_FILE", defaults.Download.LogFile),
			HashIndexFile:     getEnv("HASH_INDEX_FILE", defaults.Download.HashIndexFile),
		},

		HTTP: HTTP{
			Timeout:   getDuration("HTTP_TIMEOUT", defaults.HTTP.Timeout),
			UserAgent: getEnv("USER_AGENT", defaults.HTTP.UserAgent),
		},

		Storage: Storage{
			Adapter:  getEnv("STORAGE_ADAPTER", defaults.Storage.Adapter),
			S3Bucket: getEnv("S3_BUCKET", ""),
			S3Prefix: getEnv("S3_PREFIX", ""),
			Region:   getEnv("AWS_REGION", defaults.Storage.Region),
			Endpoint: getEnv("AWS_ENDPOINT", ""),
		},

		Metrics: Metrics{
			Addr: getEnv("METRICS_ADDR", ""),
		},
	}

	return cfg, nil
}

// loadEnvFiles loads .env files in order of precedence.
// Missing files are not an error; explicit environment wins over files.
func loadEnvFiles() error {
	candidates := []string{
		".env.local",
		fmt.Sprintf(".env.%s", getEnv("ENVIRONMENT", "local")),
		".env",
	}

	for _, file := range candidates {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	return nil
}
