// Package coordinator keeps a tree of screens in sync with the route chain in state.
//
// Each navigated screen has one coordinator. A coordinator watches its own
// route: when a route case becomes present it builds the child coordinator,
// which pushes or presents its screen; when the route is cleared it tears the
// child subtree down, leaves first, and only then pops or dismisses. When the
// user removes a screen, the stack adapter reports it and the coordinator
// cleans up and sends a close action so state catches up.
package coordinator

import (
	"log/slog"
	"time"

	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/effect"
	"github.com/aretw0/wayfinder/pkg/nav"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/aretw0/wayfinder/pkg/store"
	"go.uber.org/atomic"
)

// Node is any coordinator a parent can own and tear down.
type Node interface {
	Name() string
	Phase() Phase
	// Child is the active child coordinator, or nil.
	Child() Node
	// RecursiveCleanup disposes the subtree rooted here, leaves first.
	// Calls after the first are no-ops.
	RecursiveCleanup()
}

// Pushable coordinators can push their screen onto a container.
type Pushable interface {
	Node
	PushOnto(stack ports.ScreenStack, animated bool)
}

// Presentable coordinators can present their screen in a new modal container.
type Presentable interface {
	Node
	PresentOnto(stack ports.ScreenStack, animated bool)
}

// Base implements the coordinator lifecycle. Screen coordinators embed it and
// add their screen, route bindings and owned effects.
//
// All methods run on the store's mutation context.
type Base[S, A any] struct {
	store  *store.Store[S, nav.Action[A]]
	cfg    config
	logger *slog.Logger

	phase   atomic.Int32
	cleaned atomic.Bool

	stack    ports.ScreenStack
	screenID ports.ScreenID
	child    Node

	owned       []effect.ID
	cleanups    []func()
	bindings    []binding
	unsubscribe func()
}

// New creates an uninitialized coordinator over s.
func New[S, A any](s *store.Store[S, nav.Action[A]], opts ...Option) *Base[S, A] {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logging.NewNop()
	}
	if cfg.canceler == nil {
		cfg.canceler = s
	}
	if cfg.name == "" {
		cfg.name = s.Namespace()
		if cfg.name == "" {
			cfg.name = "root"
		}
	}
	return &Base[S, A]{
		store:  s,
		cfg:    cfg,
		logger: cfg.logger.With("coordinator", cfg.name, "namespace", s.Namespace()),
	}
}

// Name labels the coordinator.
func (b *Base[S, A]) Name() string { return b.cfg.name }

// Phase reports the lifecycle state.
func (b *Base[S, A]) Phase() Phase { return Phase(b.phase.Load()) }

// Child returns the active child coordinator.
func (b *Base[S, A]) Child() Node { return b.child }

// Store is the coordinator's scoped store.
func (b *Base[S, A]) Store() *store.Store[S, nav.Action[A]] { return b.store }

// State is the current screen state.
func (b *Base[S, A]) State() S { return b.store.State() }

// Send dispatches a screen action.
func (b *Base[S, A]) Send(action A) { b.store.Send(nav.Child(action)) }

// ScreenID is the handle of the coordinator's screen.
func (b *Base[S, A]) ScreenID() ports.ScreenID { return b.screenID }

// Container is the navigation container the coordinator's screen lives in.
func (b *Base[S, A]) Container() ports.ScreenStack { return b.stack }

// ChildOptions are the options children inherit: logger and hooks.
func (b *Base[S, A]) ChildOptions() []Option {
	return []Option{WithLogger(b.cfg.logger), WithLifecycleHooks(b.cfg.hooks)}
}

// OwnEffects registers identifiers, relative to the store namespace, that
// are cancelled on teardown.
func (b *Base[S, A]) OwnEffects(ids ...effect.ID) {
	b.owned = append(b.owned, ids...)
}

// OnCleanup registers fn to run during teardown, after children are disposed.
func (b *Base[S, A]) OnCleanup(fn func()) {
	b.cleanups = append(b.cleanups, fn)
}

// Push places screen onto stack and activates the coordinator.
func (b *Base[S, A]) Push(stack ports.ScreenStack, screen *ports.Screen, animated bool) {
	b.attach(stack, screen)
	stack.Push(screen, animated)
	b.transition(domain.ScreenPush, screen.Title, animated)
	b.activate()
}

// Present shows screen in a new modal container above stack and activates
// the coordinator. Children push onto the modal container.
func (b *Base[S, A]) Present(stack ports.ScreenStack, screen *ports.Screen, animated bool) {
	b.attach(nil, screen)
	b.stack = stack.Present(screen, animated)
	b.transition(domain.ScreenPresent, screen.Title, animated)
	b.activate()
}

func (b *Base[S, A]) attach(stack ports.ScreenStack, screen *ports.Screen) {
	if screen.ID == "" {
		screen.ID = ports.NewScreenID(screen.Title)
	}
	if screen.Owner == nil {
		screen.Owner = b
	}
	screen.OnRemoved = b.screenRemoved
	b.stack = stack
	b.screenID = screen.ID
}

func (b *Base[S, A]) activate() {
	if !b.phase.CompareAndSwap(int32(Uninitialized), int32(Active)) {
		return
	}
	b.logger.Debug("coordinator started", "screen", b.screenID)
	if h := b.cfg.hooks.OnCoordinatorStart; h != nil {
		h(b.event(domain.EventCoordinatorStart, ""))
	}
	if len(b.bindings) > 0 {
		b.unsubscribe = b.store.Subscribe(func(S) { b.reconcile() })
		b.reconcile()
	}
}

// RecursiveCleanup disposes children first, then cancels this coordinator's
// effects and subscriptions. It never touches the screen stack.
func (b *Base[S, A]) RecursiveCleanup() {
	if !b.teardown(ClosingSystem) {
		return
	}
	b.phase.Store(int32(Disposed))
	b.closed(domain.CloseSystem)
}

func (b *Base[S, A]) teardown(closing Phase) bool {
	if !b.cleaned.CompareAndSwap(false, true) {
		return false
	}
	b.phase.Store(int32(closing))

	if child := b.child; child != nil {
		b.child = nil
		child.RecursiveCleanup()
	}
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
	if len(b.owned) > 0 {
		b.cfg.canceler.Cancel(b.owned...)
	}
	b.cfg.canceler.CancelNamespace()
	for _, fn := range b.cleanups {
		fn()
	}

	b.logger.Debug("coordinator cleaned up", "phase", closing)
	if h := b.cfg.hooks.OnCoordinatorCleanup; h != nil {
		h(b.event(domain.EventCoordinatorCleanup, ""))
	}
	return true
}

// screenRemoved is the stack adapter's removal callback. Removals that follow
// a cleanup are expected and ignored; any other removal means state still
// holds the route, so the coordinator cleans up and reports the close.
func (b *Base[S, A]) screenRemoved(reason ports.RemovalReason) {
	if b.cleaned.Load() {
		return
	}
	closing, closeAction, why := ClosingSystem, nav.SystemClose[A](), domain.CloseSystem
	if reason == ports.RemovedInteractively {
		closing, closeAction, why = ClosingInteractive, nav.InteractiveClose[A](), domain.CloseInteractive
	}
	if !b.teardown(closing) {
		return
	}
	b.store.Send(closeAction)
	b.phase.Store(int32(Disposed))
	b.closed(why)
}

func (b *Base[S, A]) closed(reason domain.CloseReason) {
	b.logger.Debug("coordinator closed", "reason", reason)
	if h := b.cfg.hooks.OnCoordinatorClose; h != nil {
		h(b.event(domain.EventCoordinatorClose, reason))
	}
}

// closeChild disposes the child subtree, then removes its screens: dismiss
// anything presented from this container, then pop back to this screen.
func (b *Base[S, A]) closeChild() {
	child := b.child
	if child == nil {
		return
	}
	b.child = nil
	child.RecursiveCleanup()

	presenting := b.stack.IsPresenting()
	if presenting {
		b.stack.Dismiss(true)
		b.transition(domain.ScreenDismiss, child.Name(), true)
	}
	if b.stack.PopTo(b.screenID, !presenting) {
		b.transition(domain.ScreenPop, child.Name(), !presenting)
	}
}

func (b *Base[S, A]) transition(op domain.ScreenOp, screen string, animated bool) {
	if h := b.cfg.hooks.OnScreenTransition; h != nil {
		h(&domain.ScreenEvent{
			EventBase:   domain.EventBase{Timestamp: time.Now(), Type: domain.EventScreenTransition},
			Coordinator: b.cfg.name,
			Screen:      screen,
			Op:          op,
			Animated:    animated,
		})
	}
}

func (b *Base[S, A]) event(t domain.EventType, reason domain.CloseReason) *domain.CoordinatorEvent {
	return &domain.CoordinatorEvent{
		EventBase:   domain.EventBase{Timestamp: time.Now(), Type: t},
		Coordinator: b.cfg.name,
		Namespace:   b.store.Namespace(),
		Reason:      reason,
	}
}
