package observability

import (
	"fmt"
	"sync"

	"github.com/BrianKoge/Ubuntu-Requests/internal/config"
)

// Provider manages the shared logger and metrics instances and hands out
// component-scoped views of them.
type provider struct {
	mu          sync.RWMutex
	logger      Logger
	metrics     Metrics
	cfg         *config.Config
	initialized bool
}

var instance provider

// Initialize creates the logger and metrics through the given factory.
// Safe to call once at startup; subsequent calls are no-ops.
func Initialize(cfg *config.Config, factory Factory) error {
	instance.mu.Lock()
	defer instance.mu.Unlock()

	if instance.initialized {
		return nil
	}

	logger, metrics, err := factory.CreateObservability(cfg)
	if err != nil {
		return fmt.Errorf("failed to create observability: %w", err)
	}

	instance.logger = logger
	instance.metrics = metrics
	instance.cfg = cfg
	instance.initialized = true
	return nil
}

// GetObservability returns a logger and metrics scoped to a component.
func GetObservability(component string) (Logger, Metrics, error) {
	instance.mu.RLock()
	defer instance.mu.RUnlock()

	if !instance.initialized {
		return nil, nil, fmt.Errorf("observability not initialized; call Initialize() first")
	}

	logger := instance.logger.WithFields(map[string]interface{}{
		"service":   instance.cfg.ServiceName,
		"env":       instance.cfg.Environment,
		"component": component,
	})
	metrics := instance.metrics.WithTags(map[string]string{
		"component": component,
	})

	return logger, metrics, nil
}

// MustGetObservability returns scoped observability or panics.
func MustGetObservability(component string) (Logger, Metrics) {
	logger, metrics, err := GetObservability(component)
	if err != nil {
		panic(fmt.Sprintf("failed to get observability: %v", err))
	}
	return logger, metrics
}

// IsInitialized returns whether the provider has been initialized
func IsInitialized() bool {
	instance.mu.RLock()
	defer instance.mu.RUnlock()
	return instance.initialized
}

// Reset clears the provider (useful for testing)
func Reset() {
	instance.mu.Lock()
	defer instance.mu.Unlock()
	instance.logger = nil
	instance.metrics = nil
	instance.cfg = nil
	instance.initialized = false
}
