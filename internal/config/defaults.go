package config

import "time"

const (
	// DefaultMaxFileSize caps a single transfer at 50 MiB.
	DefaultMaxFileSize = 50 * 1024 * 1024

	// DefaultUserAgent mirrors a desktop browser; some image hosts
	// refuse the Go default agent outright.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// DefaultBlockedDomains returns the built-in domain blocklist.
func DefaultBlockedDomains() []string {
	return []string{"malware.com", "suspicious-site.org"}
}

// DefaultAllowedExtensions returns the image formats accepted for saving.
func DefaultAllowedExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp", ".tiff"}
}

// DefaultDownloadConfig returns sensible defaults for the download pipeline
func DefaultDownloadConfig() Download {
	return Download{
		Dir:               "Fetched_Images",
		MaxFileSizeBytes:  DefaultMaxFileSize,
		BlockedDomains:    DefaultBlockedDomains(),
		AllowedExtensions: DefaultAllowedExtensions(),
		RequestDelay:      500 * time.Millisecond,
		LogFile:           "download_log.txt",
		HashIndexFile:     "file_hashes.txt",
	}
}

// DefaultHTTPConfig returns sensible defaults for the HTTP client
func DefaultHTTPConfig() HTTP {
	return HTTP{
		Timeout:   30 * time.Second,
		UserAgent: DefaultUserAgent,
	}
}

// DefaultStorageConfig returns sensible defaults for object storage
func DefaultStorageConfig() Storage {
	return Storage{
		Adapter: "fs",
		Region:  "us-east-1",
	}
}

// DefaultConfig returns a complete configuration with sensible defaults.
// Useful for tests that want to start from defaults and override parts.
func DefaultConfig() *Config {
	return &Config{
		Environment: "local",
		ServiceName: "imagefetcher",
		LogLevel:    "info",
		LogFormat:   "text",
		Download:    DefaultDownloadConfig(),
		HTTP:        DefaultHTTPConfig(),
		Storage:     DefaultStorageConfig(),
	}
}
