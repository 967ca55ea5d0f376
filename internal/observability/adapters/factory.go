// Package adapters wires the concrete logger and metrics implementations
// behind the observability ports.
package adapters

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/BrianKoge/Ubuntu-Requests/internal/config"
	"github.com/BrianKoge/Ubuntu-Requests/internal/observability"
	"github.com/BrianKoge/Ubuntu-Requests/internal/observability/adapters/prom"
	"github.com/BrianKoge/Ubuntu-Requests/internal/observability/adapters/zlog"
)

// Factory builds the default observability stack: zerolog for logging and
// Prometheus for metrics. Registry may be nil, in which case the default
// Prometheus registerer is used.
type Factory struct {
	Registry prometheus.Registerer
}

func (f *Factory) CreateObservability(cfg *config.Config) (observability.Logger, observability.Metrics, error) {
	registry := f.Registry
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	logger := zlog.New(cfg.LogLevel, cfg.LogFormat)
	metrics := prom.New(cfg.ServiceName, registry)

	return logger, metrics, nil
}
