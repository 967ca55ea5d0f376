// Package fs implements ObjectStorage on the local filesystem. This is the
// default destination: keys become file paths under the base directory.
package fs

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BrianKoge/Ubuntu-Requests/internal/observability"
	"github.com/BrianKoge/Ubuntu-Requests/internal/storage"
)

// Storage implements storage.ObjectStorage using the local filesystem
type Storage struct {
	basePath string
	logger   observability.Logger
	metrics  observability.Metrics
}

// New creates a filesystem-backed object storage rooted at basePath.
// The directory is created if it does not exist.
func New(basePath string, logger observability.Logger, metrics observability.Metrics) (*Storage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base path: %w", err)
	}

	logger.Info("filesystem storage initialized", "base_path", basePath)

	return &Storage{
		basePath: basePath,
		logger:   logger,
		metrics:  metrics.WithTags(map[string]string{"storage": "filesystem"}),
	}, nil
}

// BasePath returns the directory objects are written under.
func (s *Storage) BasePath() string {
	return s.basePath
}

// Put stores an object under key
func (s *Storage) Put(ctx context.Context, key string, reader io.Reader, metadata storage.ObjectMetadata) error {
	start := time.Now()

	objectPath, err := s.objectPath(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(objectPath), 0o755); err != nil {
		s.metrics.IncrementCounter("storage.put.errors", map[string]string{"error": "mkdir"})
		return storage.ErrWriteObject(key, err)
	}

	file, err := os.Create(objectPath)
	if err != nil {
		s.metrics.IncrementCounter("storage.put.errors", map[string]string{"error": "create"})
		return storage.ErrWriteObject(key, err)
	}

	written, err := io.Copy(file, reader)
	if err != nil {
		file.Close()
		os.Remove(objectPath)
		s.metrics.IncrementCounter("storage.put.errors", map[string]string{"error": "write"})
		return storage.ErrWriteObject(key, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(objectPath)
		return storage.ErrWriteObject(key, err)
	}

	s.logger.Info("object stored",
		"key", key,
		"bytes", written,
		"duration_ms", time.Since(start).Milliseconds())
	s.metrics.IncrementCounter("storage.put.success", nil)
	s.metrics.RecordHistogram("storage.put.bytes", float64(written), nil)

	return nil
}

// Get retrieves an object by key
func (s *Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	objectPath, err := s.objectPath(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(objectPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrObjectNotFound
		}
		return nil, storage.ErrReadObject(key, err)
	}
	return file, nil
}

// Exists reports whether an object is already stored under key
func (s *Storage) Exists(ctx context.Context, key string) (bool, error) {
	objectPath, err := s.objectPath(key)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(objectPath)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, storage.ErrReadObject(key, err)
}

// List returns objects whose key starts with prefix
func (s *Storage) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	var objects []storage.ObjectInfo

	err := filepath.WalkDir(s.basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(s.basePath, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		objects = append(objects, storage.ObjectInfo{Key: key, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}

	return objects, nil
}

// objectPath resolves a key to a path under basePath, rejecting keys that
// would escape it.
func (s *Storage) objectPath(key string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid object key: %q", key)
	}
	return filepath.Join(s.basePath, cleaned), nil
}
