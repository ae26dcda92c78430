package container

import (
	"context"
	"fmt"
	"sync"

	config "gitlab.com/biodscan1/bds.mqtt_server/src/production/BDS.Config"
	logger "gitlab.com/biodscan1/bds.mqtt_server/src/production/BDS.Logger"
)

// Container manages dependencies and their lifecycle
type Container struct {
	config *config.Config
	logger *logger.Logger

	mu           sync.Mutex
	cleanupFuncs []func(ctx context.Context) error
}

// NewContainer creates a new dependency injection container
func NewContainer() (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewLogger(&cfg.Logging)

	return &Container{
		config: cfg,
		logger: log,
	}, nil
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.logger
}

// RegisterCleanup adds a cleanup function run during Shutdown
func (c *Container) RegisterCleanup(fn func(ctx context.Context) error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanupFuncs = append(c.cleanupFuncs, fn)
}

// Shutdown runs registered cleanup functions in reverse registration
// order, so dependents stop before their dependencies.
func (c *Container) Shutdown(ctx context.Context) {
	c.mu.Lock()
	funcs := make([]func(ctx context.Context) error, len(c.cleanupFuncs))
	copy(funcs, c.cleanupFuncs)
	c.cleanupFuncs = nil
	c.mu.Unlock()

	for i := len(funcs) - 1; i >= 0; i-- {
		if err := funcs[i](ctx); err != nil {
			c.logger.ErrorWithError(err, "Cleanup failed")
		}
	}
}
