package model

import "fmt"

// ErrorKind identifies why a download failed.
type ErrorKind string

const (
	InvalidURLError        ErrorKind = "invalid_url"
	UnsupportedFormatError ErrorKind = "unsupported_format"
	NetworkError           ErrorKind = "network_error"
	HTTPStatusError        ErrorKind = "http_status"
	ReadError              ErrorKind = "read_error"
	StorageError           ErrorKind = "storage_error"
)

// DownloadError is the typed failure attached to a failed Result.
type DownloadError struct {
	Kind    ErrorKind
	Message string
	URL     string
	cause   error
}

func NewDownloadError(kind ErrorKind, message, url string) *DownloadError {
	return &DownloadError{
		Kind:    kind,
		Message: message,
		URL:     url,
	}
}

// WrapDownloadError attaches an underlying cause for errors.Is/As chains.
func WrapDownloadError(kind ErrorKind, message, url string, cause error) *DownloadError {
	return &DownloadError{
		Kind:    kind,
		Message: message,
		URL:     url,
		cause:   cause,
	}
}

func (e *DownloadError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *DownloadError) Unwrap() error {
	return e.cause
}
