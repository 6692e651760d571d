package store_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/wayfinder/pkg/effect"
	"github.com/aretw0/wayfinder/pkg/reducer"
	"github.com/aretw0/wayfinder/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type detail struct {
	Seconds int
}

type appState struct {
	Log    []string
	Count  int
	Detail *detail
}

type action struct {
	Name  string
	Child string
}

var tickID = effect.NewID("tick")

var detailPath = reducer.OptionalPath[appState, detail]{
	Key: "detail",
	Get: func(s appState) (detail, bool) {
		if s.Detail == nil {
			return detail{}, false
		}
		return *s.Detail, true
	},
	Set: func(s *appState, d detail) { s.Detail = &d },
}

func detailReducer(state *detail, a string, _ struct{}) effect.Effect[string] {
	switch a {
	case "appear":
		return effect.Timer(tickID, time.Second, func(time.Time) string { return "tick" })
	case "tick":
		state.Seconds++
	}
	return effect.None[string]()
}

func appReducer() reducer.Reducer[appState, action, struct{}] {
	return reducer.Combine(
		reducer.Pullback(detailReducer, detailPath, reducer.Case[action, string]{
			Extract: func(a action) (string, bool) { return a.Child, a.Name == "detail" },
			Embed:   func(c string) action { return action{Name: "detail", Child: c} },
		}, func(e struct{}) struct{} { return e }),
		func(s *appState, a action, _ struct{}) effect.Effect[action] {
			s.Log = append(s.Log, a.Name)
			switch a.Name {
			case "inc":
				s.Count++
			case "double":
				// Re-entrant follow-ups are queued behind this action.
				return effect.Batch(effect.Send(action{Name: "inc"}), effect.Send(action{Name: "inc"}))
			case "open":
				s.Detail = &detail{}
			case "close":
				s.Detail = nil
			}
			return effect.None[action]()
		},
	)
}

func newStore(t *testing.T, opts ...store.Option) (*store.Store[appState, action], *effect.TestClock) {
	t.Helper()
	clock := effect.NewTestClock()
	opts = append([]store.Option{store.WithClock(clock)}, opts...)
	return store.New(appState{}, appReducer(), struct{}{}, opts...), clock
}

func TestStore_QueuesReentrantActions(t *testing.T) {
	s, _ := newStore(t)

	var seen []int
	s.Subscribe(func(st appState) {
		seen = append(seen, st.Count)
		if st.Count == 1 {
			// Sending from a subscriber is queued, not nested.
			s.Send(action{Name: "from-subscriber"})
		}
	})

	s.Send(action{Name: "double"})

	assert.Equal(t, []string{"double", "inc", "inc", "from-subscriber"}, s.State().Log)
	assert.Equal(t, 2, s.State().Count)
	assert.Equal(t, []int{0, 1, 2, 2}, seen)
}

func TestStore_SubscribersSeeCompletedState(t *testing.T) {
	s, _ := newStore(t)
	s.Send(action{Name: "open"})

	var observed []appState
	s.Subscribe(func(st appState) { observed = append(observed, st) })
	s.Send(action{Name: "detail", Child: "tick"})

	require.Len(t, observed, 1)
	// Both the child write-back and the parent log are visible in one notification.
	assert.Equal(t, 1, observed[0].Detail.Seconds)
	assert.Equal(t, []string{"open", "detail"}, observed[0].Log)
}

func TestStore_ScopedSubscriptionDeduplicates(t *testing.T) {
	s, _ := newStore(t)
	count := store.Scope(s, func(st appState) int { return st.Count }, func(a action) action { return a })

	var got []int
	count.Subscribe(func(n int) { got = append(got, n) })

	s.Send(action{Name: "noop"})
	s.Send(action{Name: "inc"})
	s.Send(action{Name: "noop"})

	assert.Equal(t, []int{1}, got)
}

func TestStore_ScopedActionsReachRoot(t *testing.T) {
	s, _ := newStore(t)
	s.Send(action{Name: "open"})

	child := store.ScopeField(s, reducer.Field[appState, string]{
		Key: "detail",
		Get: func(appState) string { return "" },
	}, func(c string) action { return action{Name: "detail", Child: c} })

	child.Send("tick")

	assert.Equal(t, 1, s.State().Detail.Seconds)
	assert.Equal(t, "detail", child.Namespace())
	assert.Equal(t, "", s.Namespace())
}

func TestStore_CancelNamespace(t *testing.T) {
	s, clock := newStore(t)
	s.Send(action{Name: "open"})
	s.Send(action{Name: "detail", Child: "appear"})
	require.Equal(t, []effect.ID{{Scope: "detail", Key: "tick"}}, s.Runtime().Running())

	clock.Advance(2 * time.Second)
	assert.Equal(t, 2, s.State().Detail.Seconds)

	child := store.ScopeField(s, reducer.Field[appState, detail]{
		Key: "detail",
		Get: func(st appState) detail { return *st.Detail },
	}, func(c string) action { return action{Name: "detail", Child: c} })

	t.Run("Cancel by id resolves within the namespace", func(t *testing.T) {
		s.Cancel(tickID)
		assert.Len(t, s.Runtime().Running(), 1, "the root namespace has no tick of its own")

		child.Cancel(tickID)
		assert.Empty(t, s.Runtime().Running())
	})

	t.Run("CancelNamespace sweeps everything below", func(t *testing.T) {
		s.Send(action{Name: "detail", Child: "appear"})
		require.Len(t, s.Runtime().Running(), 1)

		child.CancelNamespace()
		clock.Advance(5 * time.Second)
		assert.Empty(t, s.Runtime().Running())
		assert.Equal(t, 2, s.State().Detail.Seconds)
	})
}

func TestStore_ActionHook(t *testing.T) {
	var names []string
	s, _ := newStore(t, store.WithActionHook(func(a any) {
		names = append(names, a.(action).Name)
	}))

	s.Send(action{Name: "double"})

	assert.Equal(t, []string{"double", "inc", "inc"}, names)
}

func TestStore_PostOnLoop(t *testing.T) {
	loop := effect.NewLoop()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	s := store.New(appState{}, appReducer(), struct{}{},
		store.WithScheduler(loop),
		store.WithLogger(logger),
		store.WithThreadCheck(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = loop.Run(ctx) }()

	s.Post(action{Name: "inc"})

	var count int
	require.Eventually(t, func() bool {
		_ = loop.Call(ctx, func() { count = s.State().Count })
		return count == 1
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, buf.String(), "posted actions run on the loop")

	// Sending directly from this goroutine is flagged.
	s.Send(action{Name: "noop"})
	assert.Contains(t, buf.String(), "action sent outside the main loop")
}

func TestStore_DefaultsToManualTime(t *testing.T) {
	s := store.New(appState{}, appReducer(), struct{}{})
	s.Send(action{Name: "open"})
	s.Send(action{Name: "detail", Child: "appear"})

	clock, ok := s.Runtime().Clock().(effect.ManualClock)
	require.True(t, ok, "without a scheduler timers must not tick on their own goroutine")

	assert.Equal(t, 0, s.State().Detail.Seconds)
	clock.Advance(2 * time.Second)
	s.Send(action{Name: "inc"})
	assert.Equal(t, 2, s.State().Detail.Seconds)
	assert.Equal(t, 1, s.State().Count)
}
