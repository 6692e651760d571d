package effect

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// Hooks observe task lifecycle. Callbacks run outside the runtime lock.
type Hooks struct {
	OnStart  func(id ID)
	OnCancel func(id ID)
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*Runtime)

// WithClock sets the clock used by timers. Defaults to a TestClock under the
// Immediate scheduler and to SystemClock otherwise.
func WithClock(c Clock) RuntimeOption {
	return func(r *Runtime) {
		r.clock = c
	}
}

// WithScheduler sets the scheduler deliveries are marshalled through.
// Defaults to Immediate, which only accepts a ManualClock.
func WithScheduler(s Scheduler) RuntimeOption {
	return func(r *Runtime) {
		r.sched = s
	}
}

// WithHooks registers lifecycle observers.
func WithHooks(h Hooks) RuntimeOption {
	return func(r *Runtime) {
		r.hooks = h
	}
}

// Runtime runs effects and tracks the live ones by ID.
type Runtime struct {
	mu    sync.Mutex
	tasks map[ID][]*task
	seq   uint64

	clock Clock
	sched Scheduler
	hooks Hooks
}

type task struct {
	id        ID
	silent    bool
	cancelled atomic.Bool

	mu     sync.Mutex
	stopFn func()
}

func (t *task) setStop(stop func()) {
	t.mu.Lock()
	if t.cancelled.Load() {
		t.mu.Unlock()
		stop()
		return
	}
	t.stopFn = stop
	t.mu.Unlock()
}

func (t *task) cancel() bool {
	if !t.cancelled.CompareAndSwap(false, true) {
		return false
	}
	t.mu.Lock()
	stop := t.stopFn
	t.stopFn = nil
	t.mu.Unlock()
	if stop != nil {
		stop()
	}
	return true
}

// NewRuntime creates an empty runtime.
//
// Immediate delivers on whatever goroutine produced the action, so it is
// only paired with a ManualClock. NewRuntime panics when Immediate is given a
// clock that ticks on its own goroutine; use a Loop with those.
func NewRuntime(opts ...RuntimeOption) *Runtime {
	r := &Runtime{tasks: make(map[ID][]*task)}
	for _, opt := range opts {
		opt(r)
	}
	if r.sched == nil {
		r.sched = Immediate{}
	}
	_, immediate := r.sched.(Immediate)
	if r.clock == nil {
		if immediate {
			r.clock = NewTestClock()
		} else {
			r.clock = SystemClock{}
		}
	}
	if _, manual := r.clock.(ManualClock); immediate && !manual {
		panic(fmt.Sprintf("effect: Immediate scheduler cannot deliver ticks from %T; use a Loop", r.clock))
	}
	return r
}

// Clock returns the clock timers are driven by.
func (r *Runtime) Clock() Clock {
	return r.clock
}

// Scheduler returns the scheduler deliveries go through.
func (r *Runtime) Scheduler() Scheduler {
	return r.sched
}

// Launch starts e. Actions it produces are handed to send on the scheduler.
func Launch[A any](r *Runtime, e Effect[A], send func(A)) {
	switch e.kind {
	case kindNone:
	case kindSend:
		action := e.action
		if !e.hasID && e.scope == "" {
			r.sched.Enqueue(func() { send(action) })
			return
		}
		// A tagged or namespaced send is cancellable until it is delivered.
		t := r.register(e.id, e.hasID, e.cancelInFlight, e.scope, true)
		r.sched.Enqueue(func() {
			r.finish(t)
			if t.cancelled.Load() {
				return
			}
			send(action)
		})
	case kindCancel:
		r.Cancel(e.ids...)
		for _, scope := range e.scopes {
			r.CancelScope(scope)
		}
	case kindBatch:
		for _, c := range e.children {
			Launch(r, c, send)
		}
	case kindRun:
		t := r.register(e.id, e.hasID, e.cancelInFlight, e.scope, false)
		ctx, cancel := context.WithCancel(context.Background())
		t.setStop(cancel)
		run := e.run
		go func() {
			defer r.finish(t)
			defer cancel()
			run(ctx, func(a A) { r.deliver(t, func() { send(a) }) })
		}()
	case kindTimer:
		t := r.register(e.id, e.hasID, e.cancelInFlight, e.scope, false)
		tick := e.tick
		stop := r.clock.Every(e.every, func(now time.Time) {
			if t.cancelled.Load() {
				return
			}
			r.deliver(t, func() { send(tick(now)) })
		})
		t.setStop(stop)
	}
}

func (r *Runtime) deliver(t *task, fn func()) {
	r.sched.Enqueue(func() {
		if t.cancelled.Load() {
			return
		}
		fn()
	})
}

func (r *Runtime) register(id ID, hasID, cancelInFlight bool, scope string, silent bool) *task {
	r.mu.Lock()
	r.seq++
	if !hasID {
		id = ID{Scope: scope, Key: anonymous{seq: r.seq}}
	}
	var replaced []*task
	if cancelInFlight {
		replaced = r.tasks[id]
		delete(r.tasks, id)
	}
	t := &task{id: id, silent: silent}
	r.tasks[id] = append(r.tasks[id], t)
	r.mu.Unlock()

	r.stop(replaced)
	if !silent && r.hooks.OnStart != nil {
		r.hooks.OnStart(id)
	}
	return t
}

func (r *Runtime) finish(t *task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remove(t)
}

// remove drops t from the index. Callers hold r.mu.
func (r *Runtime) remove(t *task) {
	live := r.tasks[t.id]
	for i, candidate := range live {
		if candidate == t {
			live = append(live[:i:i], live[i+1:]...)
			break
		}
	}
	if len(live) == 0 {
		delete(r.tasks, t.id)
		return
	}
	r.tasks[t.id] = live
}

func (r *Runtime) stop(tasks []*task) {
	for _, t := range tasks {
		if t.cancel() && !t.silent && r.hooks.OnCancel != nil {
			r.hooks.OnCancel(t.id)
		}
	}
}

// Cancel stops the tasks registered under ids. Unknown ids are ignored.
func (r *Runtime) Cancel(ids ...ID) {
	var doomed []*task
	r.mu.Lock()
	for _, id := range ids {
		doomed = append(doomed, r.tasks[id]...)
		delete(r.tasks, id)
	}
	r.mu.Unlock()
	r.stop(doomed)
}

// CancelScope stops every task whose scope is scope or nested below it.
func (r *Runtime) CancelScope(scope string) {
	var doomed []*task
	r.mu.Lock()
	for id, live := range r.tasks {
		if id.InScope(scope) {
			doomed = append(doomed, live...)
			delete(r.tasks, id)
		}
	}
	r.mu.Unlock()
	r.stop(doomed)
}

// Running lists the identifiers of live tasks, sorted for stable output.
func (r *Runtime) Running() []ID {
	r.mu.Lock()
	ids := make([]ID, 0, len(r.tasks))
	for id := range r.tasks {
		ids = append(ids, id)
	}
	r.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// IsRunning reports whether a task is registered under id.
func (r *Runtime) IsRunning(id ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks[id]) > 0
}
