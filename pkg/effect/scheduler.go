package effect

import (
	"context"
	"sync"

	"github.com/petermattis/goid"
	"go.uber.org/atomic"
)

// Scheduler marshals work onto the single context that mutates state.
type Scheduler interface {
	Enqueue(fn func())
}

// LoopChecker is implemented by schedulers bound to one goroutine.
type LoopChecker interface {
	OnLoop() bool
}

// Immediate runs work inline. It is only safe when every effect is driven
// from one goroutine: Send and Timer effects on a ManualClock. Run effects
// deliver from their own goroutine and need a Loop or a Queue.
type Immediate struct{}

func (Immediate) Enqueue(fn func()) {
	fn()
}

// Queue buffers work until Flush is called.
type Queue struct {
	mu    sync.Mutex
	items []func()
}

func (q *Queue) Enqueue(fn func()) {
	q.mu.Lock()
	q.items = append(q.items, fn)
	q.mu.Unlock()
}

// Flush runs queued work, including work enqueued while flushing, and returns how much ran.
func (q *Queue) Flush() int {
	n := 0
	for {
		q.mu.Lock()
		if len(q.items) == 0 {
			q.mu.Unlock()
			return n
		}
		fn := q.items[0]
		q.items = q.items[1:]
		q.mu.Unlock()
		fn()
		n++
	}
}

// Len reports how much work is waiting.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Loop is a main loop: work enqueued from any goroutine runs in order on the
// goroutine that called Run.
type Loop struct {
	mu    sync.Mutex
	items []func()
	wake  chan struct{}
	gid   atomic.Int64
}

// NewLoop creates a stopped loop.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

func (l *Loop) Enqueue(fn func()) {
	l.mu.Lock()
	l.items = append(l.items, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run processes work until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	l.gid.Store(goid.Get())
	defer l.gid.Store(0)
	for {
		l.drain()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) drain() {
	for {
		l.mu.Lock()
		if len(l.items) == 0 {
			l.mu.Unlock()
			return
		}
		batch := l.items
		l.items = nil
		l.mu.Unlock()
		for _, fn := range batch {
			fn()
		}
	}
}

// OnLoop reports whether the caller runs on the loop goroutine.
func (l *Loop) OnLoop() bool {
	return l.gid.Load() == goid.Get()
}

// Call runs fn on the loop and waits for it.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	if l.OnLoop() {
		fn()
		return nil
	}
	done := make(chan struct{})
	l.Enqueue(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
