package store

import (
	"log/slog"

	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/effect"
)

// Option configures a root Store.
type Option func(*options)

type options struct {
	logger      *slog.Logger
	runtime     *effect.Runtime
	runtimeOpts []effect.RuntimeOption
	threadCheck bool
	onAction    func(action any)
}

// WithLogger sets the store logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRuntime shares an existing effect runtime instead of creating one.
func WithRuntime(rt *effect.Runtime) Option {
	return func(o *options) {
		o.runtime = rt
	}
}

// WithClock sets the clock of the store's runtime.
func WithClock(c effect.Clock) Option {
	return func(o *options) {
		o.runtimeOpts = append(o.runtimeOpts, effect.WithClock(c))
	}
}

// WithScheduler sets the scheduler of the store's runtime.
func WithScheduler(s effect.Scheduler) Option {
	return func(o *options) {
		o.runtimeOpts = append(o.runtimeOpts, effect.WithScheduler(s))
	}
}

// WithEffectHooks observes effect start and cancellation.
func WithEffectHooks(h effect.Hooks) Option {
	return func(o *options) {
		o.runtimeOpts = append(o.runtimeOpts, effect.WithHooks(h))
	}
}

// WithActionHook is called with every action before it is reduced.
func WithActionHook(fn func(action any)) Option {
	return func(o *options) {
		o.onAction = fn
	}
}

// WithThreadCheck logs an error whenever an action is sent from outside the
// scheduler's loop goroutine. It only has an effect with a loop scheduler.
func WithThreadCheck() Option {
	return func(o *options) {
		o.threadCheck = true
	}
}

func newOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}
	if o.runtime == nil {
		o.runtime = effect.NewRuntime(o.runtimeOpts...)
	}
	return o
}
