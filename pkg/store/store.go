// Package store holds application state and dispatches actions through a reducer.
//
// A Store is confined to one mutation context: every Send, reducer run and
// subscriber notification happens on the goroutine driving the scheduler.
// Work from other goroutines enters through Post or through effects.
package store

import (
	"log/slog"
	"reflect"

	"github.com/aretw0/wayfinder/pkg/effect"
	"github.com/aretw0/wayfinder/pkg/reducer"
)

// Store is a view onto the root state. Scoped stores share the root's state,
// queue and runtime; they only project state and embed actions.
type Store[S, A any] struct {
	core      *core
	get       func() S
	send      func(A)
	namespace string
}

type core struct {
	logger      *slog.Logger
	runtime     *effect.Runtime
	threadCheck bool
	onAction    func(any)

	subs    []*subscription
	nextSub uint64

	pending     []func()
	dispatching bool
}

type subscription struct {
	id     uint64
	fn     func()
	active bool
}

// New creates a root store.
func New[S, A, E any](initial S, r reducer.Reducer[S, A, E], env E, opts ...Option) *Store[S, A] {
	o := newOptions(opts)
	c := &core{
		logger:      o.logger,
		runtime:     o.runtime,
		threadCheck: o.threadCheck,
		onAction:    o.onAction,
	}

	state := initial
	s := &Store[S, A]{core: c, get: func() S { return state }}

	var send func(A)
	send = func(action A) {
		c.dispatch(func() {
			if c.onAction != nil {
				c.onAction(action)
			}
			eff := r(&state, action, env)
			// Effects start before observers run so a teardown triggered by
			// this state can still cancel them.
			effect.Launch(c.runtime, eff, send)
			c.publish()
		})
	}
	s.send = send
	return s
}

// dispatch runs step now, or after the step in progress when called re-entrantly.
func (c *core) dispatch(step func()) {
	c.checkThread()
	c.pending = append(c.pending, step)
	if c.dispatching {
		return
	}
	c.dispatching = true
	defer func() {
		c.dispatching = false
		c.pending = nil
	}()
	for len(c.pending) > 0 {
		next := c.pending[0]
		c.pending = c.pending[1:]
		next()
	}
}

func (c *core) checkThread() {
	if !c.threadCheck {
		return
	}
	if lc, ok := c.runtime.Scheduler().(effect.LoopChecker); ok && !lc.OnLoop() {
		c.logger.Error("action sent outside the main loop")
	}
}

func (c *core) publish() {
	subs := make([]*subscription, len(c.subs))
	copy(subs, c.subs)
	for _, sub := range subs {
		if sub.active {
			sub.fn()
		}
	}
}

func (c *core) subscribe(fn func()) func() {
	c.nextSub++
	sub := &subscription{id: c.nextSub, fn: fn, active: true}
	c.subs = append(c.subs, sub)
	return func() {
		if !sub.active {
			return
		}
		sub.active = false
		for i, candidate := range c.subs {
			if candidate == sub {
				c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// State returns the current state.
func (s *Store[S, A]) State() S {
	return s.get()
}

// Send dispatches action. Actions sent while another is being processed run
// after it, in order.
func (s *Store[S, A]) Send(action A) {
	s.send(action)
}

// Post schedules action onto the scheduler. Safe to call from any goroutine
// when the runtime uses a loop scheduler.
func (s *Store[S, A]) Post(action A) {
	send := s.send
	s.core.runtime.Scheduler().Enqueue(func() { send(action) })
}

// Subscribe calls fn after every dispatch that changes the projected state.
// It does not call fn for the current state.
func (s *Store[S, A]) Subscribe(fn func(S)) (cancel func()) {
	last := s.get()
	return s.core.subscribe(func() {
		next := s.get()
		if reflect.DeepEqual(last, next) {
			return
		}
		last = next
		fn(next)
	})
}

// Namespace is the effect scope of this store. The root store's is empty.
func (s *Store[S, A]) Namespace() string {
	return s.namespace
}

// Cancel stops effects started under ids within this store's namespace.
func (s *Store[S, A]) Cancel(ids ...effect.ID) {
	scoped := make([]effect.ID, len(ids))
	for i, id := range ids {
		scoped[i] = id.Within(s.namespace)
	}
	s.core.runtime.Cancel(scoped...)
}

// CancelNamespace stops every effect started in this store's namespace.
func (s *Store[S, A]) CancelNamespace() {
	s.core.runtime.CancelScope(s.namespace)
}

// Runtime exposes the shared effect runtime.
func (s *Store[S, A]) Runtime() *effect.Runtime {
	return s.core.runtime
}

// Logger is the logger the root store was built with.
func (s *Store[S, A]) Logger() *slog.Logger {
	return s.core.logger
}

// Scope derives a store over a projection of s. The namespace is unchanged.
func Scope[S, A, C, CA any](s *Store[S, A], state func(S) C, action func(CA) A) *Store[C, CA] {
	get, send := s.get, s.send
	return &Store[C, CA]{
		core:      s.core,
		get:       func() C { return state(get()) },
		send:      func(ca CA) { send(action(ca)) },
		namespace: s.namespace,
	}
}

// ScopeField derives a store over a field and nests the namespace under its key.
func ScopeField[S, A, C, CA any](s *Store[S, A], field reducer.Field[S, C], action func(CA) A) *Store[C, CA] {
	child := Scope(s, field.Get, action)
	child.namespace = effect.JoinScope(s.namespace, field.Key)
	return child
}
