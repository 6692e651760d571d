package coordinator

import (
	"log/slog"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/effect"
)

// Canceler is the capability a coordinator uses to stop the effects it owns.
// Stores implement it for their own namespace.
type Canceler interface {
	Cancel(ids ...effect.ID)
	CancelNamespace()
}

// Option configures a coordinator.
type Option func(*config)

type config struct {
	name     string
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	canceler Canceler
}

// WithName labels the coordinator in logs, hooks and the inspector.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithLogger sets the coordinator logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *config) {
		c.hooks = hooks
	}
}

// WithCanceler replaces the store as the effect cancellation capability.
func WithCanceler(canceler Canceler) Option {
	return func(c *config) {
		c.canceler = canceler
	}
}
