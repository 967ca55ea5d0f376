package service

import (
	"errors"
	"fmt"
)

var (
	// ErrBlockedDomain means the host matched the configured blocklist.
	ErrBlockedDomain = errors.New("domain is blocked")

	// ErrMissingHost means the URL parsed but has no host component.
	ErrMissingHost = errors.New("URL has no host")
)

func ErrInvalidURL(url string, err error) error {
	return fmt.Errorf("invalid URL %q: %w", url, err)
}

func ErrUnsupportedScheme(scheme string) error {
	return fmt.Errorf("unsupported URL scheme: %q", scheme)
}

func ErrUnexpectedStatus(statusCode int) error {
	return fmt.Errorf("unexpected HTTP status: %d", statusCode)
}
