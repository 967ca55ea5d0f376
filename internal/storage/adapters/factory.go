// Package adapters selects and constructs the configured storage backend.
package adapters

import (
	"fmt"

	"github.com/BrianKoge/Ubuntu-Requests/internal/config"
	"github.com/BrianKoge/Ubuntu-Requests/internal/observability"
	"github.com/BrianKoge/Ubuntu-Requests/internal/storage"
	"github.com/BrianKoge/Ubuntu-Requests/internal/storage/adapters/fs"
	"github.com/BrianKoge/Ubuntu-Requests/internal/storage/adapters/s3"
)

// Factory implements storage.Factory over the built-in adapters.
type Factory struct{}

func (f *Factory) Create(cfg *config.Config, logger observability.Logger, metrics observability.Metrics) (storage.ObjectStorage, error) {
	switch cfg.Storage.Adapter {
	case "fs":
		return fs.New(cfg.Download.Dir, logger, metrics)
	case "s3":
		return s3.New(&cfg.Storage, logger, metrics)
	default:
		return nil, fmt.Errorf("unsupported storage adapter: %s", cfg.Storage.Adapter)
	}
}
