package effect

import (
	"context"
	"time"
)

type kind uint8

const (
	kindNone kind = iota
	kindSend
	kindRun
	kindTimer
	kindCancel
	kindBatch
)

// Effect is a description of work a reducer wants performed after it returns.
// Effects are plain values: nothing happens until a Runtime launches them.
type Effect[A any] struct {
	kind kind

	action A
	run    func(ctx context.Context, send func(A))
	every  time.Duration
	tick   func(time.Time) A

	ids    []ID
	scopes []string

	children []Effect[A]

	id             ID
	hasID          bool
	cancelInFlight bool
	scope          string
}

// None is the empty effect.
func None[A any]() Effect[A] {
	return Effect[A]{}
}

// Send delivers action back into the store on the next turn of the scheduler.
func Send[A any](action A) Effect[A] {
	return Effect[A]{kind: kindSend, action: action}
}

// Run executes fn on its own goroutine. Every action passed to send is
// marshalled onto the scheduler and dropped once the task is cancelled.
// ctx is cancelled together with the task.
func Run[A any](fn func(ctx context.Context, send func(A))) Effect[A] {
	return Effect[A]{kind: kindRun, run: fn}
}

// Timer delivers tick(now) every interval until id is cancelled.
// Starting a timer whose id is already running replaces the old one.
func Timer[A any](id ID, every time.Duration, tick func(time.Time) A) Effect[A] {
	return Effect[A]{
		kind:           kindTimer,
		every:          every,
		tick:           tick,
		id:             id,
		hasID:          true,
		cancelInFlight: true,
	}
}

// Cancel stops every task registered under ids. Unknown or finished ids are ignored.
func Cancel[A any](ids ...ID) Effect[A] {
	return Effect[A]{kind: kindCancel, ids: ids}
}

// CancelScope stops every task whose scope equals scope or is nested below it.
// Inside a pulled-back reducer the empty scope means "everything this child started".
func CancelScope[A any](scope string) Effect[A] {
	return Effect[A]{kind: kindCancel, scopes: []string{scope}}
}

// Batch merges effects. Empty effects are dropped.
func Batch[A any](effects ...Effect[A]) Effect[A] {
	var kept []Effect[A]
	for _, e := range effects {
		if e.IsNone() {
			continue
		}
		kept = append(kept, e)
	}
	switch len(kept) {
	case 0:
		return None[A]()
	case 1:
		return kept[0]
	}
	return Effect[A]{kind: kindBatch, children: kept}
}

// Cancellable tags e with id so that it can be cancelled later.
// With cancelInFlight a running task with the same id is cancelled first.
func (e Effect[A]) Cancellable(id ID, cancelInFlight bool) Effect[A] {
	switch e.kind {
	case kindNone, kindCancel:
		return e
	case kindBatch:
		children := make([]Effect[A], len(e.children))
		for i, c := range e.children {
			children[i] = c.Cancellable(id, cancelInFlight && i == 0)
		}
		e.children = children
		return e
	}
	e.id = id
	e.hasID = true
	e.cancelInFlight = cancelInFlight
	return e
}

// IsNone reports whether e does nothing.
func (e Effect[A]) IsNone() bool {
	return e.kind == kindNone
}

// Map lifts the actions produced by e into another action type.
func Map[A, B any](e Effect[A], f func(A) B) Effect[B] {
	out := Effect[B]{
		kind:           e.kind,
		every:          e.every,
		ids:            e.ids,
		scopes:         e.scopes,
		id:             e.id,
		hasID:          e.hasID,
		cancelInFlight: e.cancelInFlight,
		scope:          e.scope,
	}
	switch e.kind {
	case kindSend:
		out.action = f(e.action)
	case kindRun:
		run := e.run
		out.run = func(ctx context.Context, send func(B)) {
			run(ctx, func(a A) { send(f(a)) })
		}
	case kindTimer:
		tick := e.tick
		out.tick = func(now time.Time) B { return f(tick(now)) }
	case kindBatch:
		out.children = make([]Effect[B], len(e.children))
		for i, c := range e.children {
			out.children[i] = Map(c, f)
		}
	}
	return out
}

// Scoped nests every identifier e starts or cancels under scope.
func Scoped[A any](e Effect[A], scope string) Effect[A] {
	if scope == "" || e.kind == kindNone {
		return e
	}
	e.scope = JoinScope(scope, e.scope)
	if e.hasID {
		e.id = e.id.Within(scope)
	}
	if len(e.ids) > 0 {
		ids := make([]ID, len(e.ids))
		for i, id := range e.ids {
			ids[i] = id.Within(scope)
		}
		e.ids = ids
	}
	if len(e.scopes) > 0 {
		scopes := make([]string, len(e.scopes))
		for i, s := range e.scopes {
			scopes[i] = JoinScope(scope, s)
		}
		e.scopes = scopes
	}
	if len(e.children) > 0 {
		children := make([]Effect[A], len(e.children))
		for i, c := range e.children {
			children[i] = Scoped(c, scope)
		}
		e.children = children
	}
	return e
}
