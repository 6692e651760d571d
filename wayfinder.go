package wayfinder

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/adapters/memory"
	"github.com/aretw0/wayfinder/pkg/coordinator"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/effect"
	"github.com/aretw0/wayfinder/pkg/nav"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/aretw0/wayfinder/pkg/reducer"
	"github.com/aretw0/wayfinder/pkg/session"
	"github.com/aretw0/wayfinder/pkg/store"
	"go.uber.org/atomic"
)

// Version is the library version.
//
//go:embed VERSION
var Version string

// Root is a root coordinator: the first screen of the stack.
type Root interface {
	coordinator.Node
	Start(stack ports.ScreenStack)
}

// RootFactory builds the root coordinator over the root store.
type RootFactory[S, A any] func(s *store.Store[S, nav.Action[A]], opts ...coordinator.Option) Root

// App hosts one navigation session: the root store, the coordinator tree
// and the in-memory screen stack they drive.
type App[S, A any] struct {
	store     *store.Store[S, nav.Action[A]]
	root      Root
	nav       *memory.Navigator
	sched     effect.Scheduler
	logger    *slog.Logger
	sessions  *session.Manager
	sessionID string

	// owned is the loop New started because no scheduler was given.
	owned    *effect.Loop
	stopLoop context.CancelFunc
	loopDone chan struct{}
	closed   atomic.Bool
}

// Option configures an App.
type Option func(*config)

type config struct {
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
	clock     effect.Clock
	sched     effect.Scheduler
	navigator *memory.Navigator
	sessions  *session.Manager
	sessionID string
}

// WithLogger sets the logger shared by the store, the coordinators and the navigator.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *config) {
		c.hooks = hooks
	}
}

// WithClock sets the clock timers run on. Defaults to the wall clock.
func WithClock(clock effect.Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithScheduler sets the scheduler effect deliveries go through. With an
// *effect.Loop, Call marshals work onto the loop and the caller runs it.
//
// Without one, an App on a ManualClock delivers inline and any other App
// runs its own loop until Close.
func WithScheduler(sched effect.Scheduler) Option {
	return func(c *config) {
		c.sched = sched
	}
}

// WithNavigator hosts the screens in n instead of a fresh navigator.
func WithNavigator(n *memory.Navigator) Option {
	return func(c *config) {
		c.navigator = n
	}
}

// WithSession lets Save persist the state as session id.
func WithSession(m *session.Manager, id string) Option {
	return func(c *config) {
		c.sessions = m
		c.sessionID = id
	}
}

// New creates the root store over initial and starts the root coordinator.
// Routes already present in initial are shown immediately.
func New[S, A, E any](initial S, r reducer.Reducer[S, A, E], env E, root RootFactory[S, A], opts ...Option) *App[S, A] {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logging.NewNop()
	}
	var owned *effect.Loop
	if cfg.sched == nil {
		if _, manual := cfg.clock.(effect.ManualClock); manual {
			cfg.sched = effect.Immediate{}
		} else {
			owned = effect.NewLoop()
			cfg.sched = owned
		}
	}
	if cfg.navigator == nil {
		cfg.navigator = memory.NewNavigator(memory.WithNavigatorLogger(cfg.logger))
	}

	storeOpts := []store.Option{
		store.WithLogger(cfg.logger),
		store.WithScheduler(cfg.sched),
		store.WithEffectHooks(effectHooks(cfg.hooks)),
		store.WithActionHook(actionHook(cfg.logger, cfg.hooks)),
	}
	if cfg.clock != nil {
		storeOpts = append(storeOpts, store.WithClock(cfg.clock))
	}
	if _, ok := cfg.sched.(effect.LoopChecker); ok {
		storeOpts = append(storeOpts, store.WithThreadCheck())
	}

	app := &App[S, A]{
		nav:       cfg.navigator,
		sched:     cfg.sched,
		logger:    cfg.logger,
		sessions:  cfg.sessions,
		sessionID: cfg.sessionID,
		owned:     owned,
	}
	if owned != nil {
		ctx, cancel := context.WithCancel(context.Background())
		app.stopLoop = cancel
		app.loopDone = make(chan struct{})
		go func() {
			defer close(app.loopDone)
			_ = owned.Run(ctx)
		}()
	}
	app.do(func() {
		app.store = store.New(initial, nav.Lift(r), env, storeOpts...)
		app.root = root(app.store, coordinator.WithLogger(cfg.logger), coordinator.WithLifecycleHooks(cfg.hooks))
		app.root.Start(app.nav.Root())
	})
	return app
}

// Open restores session id from m, or starts it from initial when it does
// not exist, and returns an App bound to it.
func Open[S, A, E any](
	ctx context.Context,
	m *session.Manager,
	id string,
	initial S,
	r reducer.Reducer[S, A, E],
	env E,
	root RootFactory[S, A],
	opts ...Option,
) (*App[S, A], error) {
	snapshot, err := m.LoadOrStart(ctx, id, func() (*domain.Snapshot, error) {
		data, err := json.Marshal(initial)
		if err != nil {
			return nil, err
		}
		return &domain.Snapshot{SavedAt: time.Now(), State: data}, nil
	})
	if err != nil {
		return nil, err
	}

	var state S
	if err := json.Unmarshal(snapshot.State, &state); err != nil {
		return nil, fmt.Errorf("failed to restore session %s: %w", id, err)
	}
	return New(state, r, env, root, append(opts, WithSession(m, id))...), nil
}

func effectHooks(hooks domain.LifecycleHooks) effect.Hooks {
	event := func(t domain.EventType, id effect.ID) *domain.EffectEvent {
		return &domain.EffectEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: t},
			ID:        id.String(),
			Scope:     id.Scope,
		}
	}
	var h effect.Hooks
	if fn := hooks.OnEffectStart; fn != nil {
		h.OnStart = func(id effect.ID) { fn(event(domain.EventEffectStart, id)) }
	}
	if fn := hooks.OnEffectCancel; fn != nil {
		h.OnCancel = func(id effect.ID) { fn(event(domain.EventEffectCancel, id)) }
	}
	return h
}

func actionHook(logger *slog.Logger, hooks domain.LifecycleHooks) func(any) {
	return func(action any) {
		text := describe(action)
		logger.Debug("action", "action", text)
		if fn := hooks.OnAction; fn != nil {
			fn(&domain.ActionEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventAction},
				Action:    text,
			})
		}
	}
}

func describe(action any) string {
	if data, err := json.Marshal(action); err == nil {
		return string(data)
	}
	return fmt.Sprint(action)
}

// Store is the root store.
func (a *App[S, A]) Store() *store.Store[S, nav.Action[A]] { return a.store }

// Root is the root coordinator.
func (a *App[S, A]) Root() Root { return a.root }

// Navigator is the screen stack the coordinators drive. On a loop, simulate
// user gestures on it through Call.
func (a *App[S, A]) Navigator() *memory.Navigator { return a.nav }

// SessionID is the session Save writes to, empty without one.
func (a *App[S, A]) SessionID() string { return a.sessionID }

// State is the current root state.
func (a *App[S, A]) State() S {
	var state S
	a.do(func() { state = a.store.State() })
	return state
}

// Send dispatches a root action.
func (a *App[S, A]) Send(action A) {
	a.do(func() { a.store.Send(nav.Child(action)) })
}

// SendJSON decodes a root action and dispatches it.
func (a *App[S, A]) SendJSON(data []byte) error {
	var action A
	if err := json.Unmarshal(data, &action); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnknownAction, err)
	}
	a.Send(action)
	return nil
}

// Call runs fn where state may be touched: on the loop when the app is
// scheduled on an *effect.Loop, inline otherwise.
func (a *App[S, A]) Call(ctx context.Context, fn func()) error {
	if l, ok := a.sched.(*effect.Loop); ok && !a.closed.Load() {
		return l.Call(ctx, fn)
	}
	fn()
	return nil
}

// do runs fn on the app's own loop, if it has one. Apps on a caller's loop
// are driven from that loop already.
func (a *App[S, A]) do(fn func()) {
	if a.owned == nil || a.closed.Load() {
		fn()
		return
	}
	_ = a.owned.Call(context.Background(), fn)
}

// StateJSON encodes the current root state.
func (a *App[S, A]) StateJSON() (json.RawMessage, error) {
	return json.Marshal(a.State())
}

// Stack lists the screen titles of each container, root container first.
func (a *App[S, A]) Stack() [][]string { return a.nav.Levels() }

// Top is the screen the user sees.
func (a *App[S, A]) Top() *ports.Screen { return a.nav.Top() }

// Coordinators describes the active coordinator chain.
func (a *App[S, A]) Coordinators() []coordinator.Info {
	var infos []coordinator.Info
	a.do(func() { infos = coordinator.Describe(a.root) })
	return infos
}

// Effects lists the running effects.
func (a *App[S, A]) Effects() []string {
	running := a.store.Runtime().Running()
	out := make([]string, len(running))
	for i, id := range running {
		out[i] = id.String()
	}
	return out
}

// Watch calls fn with what changed after every state change. fn runs where
// state is mutated. The returned func stops watching.
func (a *App[S, A]) Watch(fn func(*domain.StateDiff)) (cancel func()) {
	var stop func()
	a.do(func() { stop = a.watch(fn) })
	return func() { a.do(stop) }
}

func (a *App[S, A]) watch(fn func(*domain.StateDiff)) func() {
	last, err := domain.Flatten(a.store.State())
	if err != nil {
		a.logger.Warn("watch: initial state is not serializable", "error", err)
	}
	return a.store.Subscribe(func(next S) {
		flat, err := domain.Flatten(next)
		if err != nil {
			a.logger.Warn("watch: state is not serializable", "error", err)
			return
		}
		diff := domain.Diff(last, flat)
		last = flat
		if !diff.IsEmpty() {
			fn(diff)
		}
	})
}

// Snapshot captures the root state and the visible screen.
func (a *App[S, A]) Snapshot() (snapshot *domain.Snapshot, err error) {
	a.do(func() { snapshot, err = a.snapshot() })
	return snapshot, err
}

func (a *App[S, A]) snapshot() (*domain.Snapshot, error) {
	top := a.nav.Top()
	if top == nil {
		return nil, domain.ErrNoRoot
	}
	data, err := json.Marshal(a.store.State())
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return &domain.Snapshot{
		SessionID: a.sessionID,
		Screen:    top.Title,
		SavedAt:   a.store.Runtime().Clock().Now(),
		State:     data,
	}, nil
}

// Save persists a snapshot to the session the app was opened with.
func (a *App[S, A]) Save(ctx context.Context) error {
	if a.sessions == nil {
		return domain.ErrNoSession
	}
	snapshot, err := a.Snapshot()
	if err != nil {
		return err
	}
	if err := a.sessions.Save(ctx, a.sessionID, snapshot); err != nil {
		return fmt.Errorf("failed to save session %s: %w", a.sessionID, err)
	}
	a.logger.Debug("session saved", "session_id", a.sessionID, "screen", snapshot.Screen)
	return nil
}

// Close disposes the coordinator tree and stops every effect. Screens stay
// on the navigator. An app that runs its own loop stops it.
func (a *App[S, A]) Close() {
	a.do(a.root.RecursiveCleanup)
	if a.owned == nil || !a.closed.CompareAndSwap(false, true) {
		return
	}
	onLoop := a.owned.OnLoop()
	a.stopLoop()
	if !onLoop {
		<-a.loopDone
	}
}
