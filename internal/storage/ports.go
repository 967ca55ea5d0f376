package storage

import (
	"context"
	"io"

	"github.com/BrianKoge/Ubuntu-Requests/internal/config"
	"github.com/BrianKoge/Ubuntu-Requests/internal/observability"
)

// ObjectMetadata carries attributes stored alongside an object
type ObjectMetadata struct {
	ContentType   string
	ContentLength int64
	UserMetadata  map[string]string
}

// ObjectInfo describes a stored object
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStorage abstracts the destination the pipeline writes images to.
// Keys are paths relative to the configured destination (a directory for
// the filesystem adapter, a bucket/prefix for S3). Implementations must
// not overwrite silently; the pipeline resolves collisions via Exists.
type ObjectStorage interface {
	// Put stores an object under key
	Put(ctx context.Context, key string, reader io.Reader, metadata ObjectMetadata) error

	// Get retrieves an object by key
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists reports whether an object is already stored under key
	Exists(ctx context.Context, key string) (bool, error)

	// List returns objects whose key starts with prefix
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}

// Factory creates the concrete storage implementation from configuration.
type Factory interface {
	Create(cfg *config.Config, logger observability.Logger, metrics observability.Metrics) (ObjectStorage, error)
}
