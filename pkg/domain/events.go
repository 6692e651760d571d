package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventCoordinatorStart   EventType = "coordinator_start"
	EventCoordinatorCleanup EventType = "coordinator_cleanup"
	EventCoordinatorClose   EventType = "coordinator_close"
	EventScreenTransition   EventType = "screen_transition"
	EventEffectStart        EventType = "effect_start"
	EventEffectCancel       EventType = "effect_cancel"
	EventAction             EventType = "action"
)

// CloseReason tells how a screen's presence ended.
type CloseReason string

const (
	// CloseInteractive: the user removed the screen and state has to catch up.
	CloseInteractive CloseReason = "interactive"
	// CloseSystem: state cleared the route and the screen follows.
	CloseSystem CloseReason = "system"
)

// ScreenOp is an operation performed on the screen stack.
type ScreenOp string

const (
	ScreenPush    ScreenOp = "push"
	ScreenPresent ScreenOp = "present"
	ScreenPop     ScreenOp = "pop"
	ScreenDismiss ScreenOp = "dismiss"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// CoordinatorEvent reports a coordinator lifecycle transition.
type CoordinatorEvent struct {
	EventBase
	Coordinator string      `json:"coordinator"`
	Namespace   string      `json:"namespace"`
	Reason      CloseReason `json:"reason,omitempty"`
}

// ScreenEvent reports a push, present, pop or dismiss.
type ScreenEvent struct {
	EventBase
	Coordinator string   `json:"coordinator"`
	Screen      string   `json:"screen"`
	Op          ScreenOp `json:"op"`
	Animated    bool     `json:"animated"`
}

// EffectEvent reports an effect starting or being cancelled.
type EffectEvent struct {
	EventBase
	ID    string `json:"id"`
	Scope string `json:"scope"`
}

// ActionEvent reports an action entering the root store.
type ActionEvent struct {
	EventBase
	Action string `json:"action"`
}

// LifecycleHooks defines callbacks for navigation observability.
// Hooks run on the main loop and must not block.
type LifecycleHooks struct {
	OnCoordinatorStart   func(*CoordinatorEvent)
	OnCoordinatorCleanup func(*CoordinatorEvent)
	OnCoordinatorClose   func(*CoordinatorEvent)
	OnScreenTransition   func(*ScreenEvent)
	OnEffectStart        func(*EffectEvent)
	OnEffectCancel       func(*EffectEvent)
	OnAction             func(*ActionEvent)
}

// ChainHooks calls every non-nil hook in order.
func ChainHooks(all ...LifecycleHooks) LifecycleHooks {
	var out LifecycleHooks
	for _, h := range all {
		out.OnCoordinatorStart = chain(out.OnCoordinatorStart, h.OnCoordinatorStart)
		out.OnCoordinatorCleanup = chain(out.OnCoordinatorCleanup, h.OnCoordinatorCleanup)
		out.OnCoordinatorClose = chain(out.OnCoordinatorClose, h.OnCoordinatorClose)
		out.OnScreenTransition = chain(out.OnScreenTransition, h.OnScreenTransition)
		out.OnEffectStart = chain(out.OnEffectStart, h.OnEffectStart)
		out.OnEffectCancel = chain(out.OnEffectCancel, h.OnEffectCancel)
		out.OnAction = chain(out.OnAction, h.OnAction)
	}
	return out
}

func chain[E any](first, second func(*E)) func(*E) {
	switch {
	case first == nil:
		return second
	case second == nil:
		return first
	}
	return func(e *E) {
		first(e)
		second(e)
	}
}
