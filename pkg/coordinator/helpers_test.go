package coordinator_test

import (
	"time"

	"github.com/aretw0/wayfinder/pkg/adapters/memory"
	"github.com/aretw0/wayfinder/pkg/coordinator"
	"github.com/aretw0/wayfinder/pkg/effect"
	"github.com/aretw0/wayfinder/pkg/nav"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/aretw0/wayfinder/pkg/reducer"
	"github.com/aretw0/wayfinder/pkg/store"
)

// screenState is a screen that can push or present another screen of its own kind.
type screenState struct {
	Name      string
	Ticks     int
	Pushed    *screenState
	Presented *screenState
}

type screenAction struct {
	Kind      string
	Pushed    *nav.Action[screenAction]
	Presented *nav.Action[screenAction]
}

var tickID = effect.NewID("tick")

var pushedPath = reducer.OptionalPath[screenState, screenState]{
	Key: "pushed",
	Get: func(s screenState) (screenState, bool) {
		if s.Pushed == nil {
			return screenState{}, false
		}
		return *s.Pushed, true
	},
	Set: func(s *screenState, c screenState) { s.Pushed = &c },
}

var presentedPath = reducer.OptionalPath[screenState, screenState]{
	Key: "presented",
	Get: func(s screenState) (screenState, bool) {
		if s.Presented == nil {
			return screenState{}, false
		}
		return *s.Presented, true
	},
	Set: func(s *screenState, c screenState) { s.Presented = &c },
}

func embedPushed(n nav.Action[screenAction]) screenAction    { return screenAction{Pushed: &n} }
func embedPresented(n nav.Action[screenAction]) screenAction { return screenAction{Presented: &n} }

var pushedCase = nav.Embedded(func(a screenAction) (nav.Action[screenAction], bool) {
	if a.Pushed == nil {
		return nav.Action[screenAction]{}, false
	}
	return *a.Pushed, true
}, embedPushed)

var presentedCase = nav.Embedded(func(a screenAction) (nav.Action[screenAction], bool) {
	if a.Presented == nil {
		return nav.Action[screenAction]{}, false
	}
	return *a.Presented, true
}, embedPresented)

func sameEnv(e struct{}) struct{} { return e }

func screenReducer(state *screenState, a screenAction, env struct{}) effect.Effect[screenAction] {
	return reducer.Combine(
		reducer.Pullback(screenReducer, pushedPath, pushedCase, sameEnv),
		reducer.Pullback(screenReducer, presentedPath, presentedCase, sameEnv),
		ownReducer,
	)(state, a, env)
}

func ownReducer(state *screenState, a screenAction, _ struct{}) effect.Effect[screenAction] {
	switch {
	case a.Pushed != nil && a.Pushed.IsClose():
		state.Pushed = nil
	case a.Presented != nil && a.Presented.IsClose():
		state.Presented = nil
	}
	switch a.Kind {
	case "push":
		state.Pushed = &screenState{Name: state.Name + "+push"}
		state.Presented = nil
	case "present":
		state.Presented = &screenState{Name: state.Name + "+present"}
		state.Pushed = nil
	case "closeChild":
		state.Pushed = nil
		state.Presented = nil
	case "appear":
		return effect.Timer(tickID, time.Second, func(time.Time) screenAction {
			return screenAction{Kind: "tick"}
		})
	case "tick":
		state.Ticks++
	}
	return effect.None[screenAction]()
}

type recorder struct {
	nav     *memory.Navigator
	cleaned []string
	// opsAtCleanup is the number of stack operations seen when each cleanup ran.
	opsAtCleanup []int
	actions      []screenAction
}

type testCoordinator struct {
	*coordinator.Base[screenState, screenAction]
	rec *recorder
	// still screens start no timer when they appear.
	still bool
}

func newTestCoordinator(s *store.Store[screenState, nav.Action[screenAction]], rec *recorder, opts ...coordinator.Option) *testCoordinator {
	c := &testCoordinator{Base: coordinator.New(s, opts...), rec: rec}
	c.OwnEffects(tickID)
	c.OnCleanup(func() {
		rec.cleaned = append(rec.cleaned, c.Name())
		rec.opsAtCleanup = append(rec.opsAtCleanup, len(rec.nav.Ops()))
	})
	coordinator.BindPushed(c.Base, pushedPath, embedPushed,
		func(cs *store.Store[screenState, nav.Action[screenAction]]) coordinator.Pushable {
			return newTestCoordinator(cs, rec, c.ChildOptions()...)
		})
	coordinator.BindPresented(c.Base, presentedPath, embedPresented,
		func(cs *store.Store[screenState, nav.Action[screenAction]]) coordinator.Presentable {
			return newTestCoordinator(cs, rec, c.ChildOptions()...)
		})
	return c
}

func (c *testCoordinator) screen() *ports.Screen {
	screen := &ports.Screen{Title: c.State().Name, Owner: c}
	if !c.still {
		screen.OnAppear = func() { c.Send(screenAction{Kind: "appear"}) }
	}
	return screen
}

func (c *testCoordinator) PushOnto(stack ports.ScreenStack, animated bool) {
	c.Push(stack, c.screen(), animated)
}

func (c *testCoordinator) PresentOnto(stack ports.ScreenStack, animated bool) {
	c.Present(stack, c.screen(), animated)
}

type fixture struct {
	store *store.Store[screenState, nav.Action[screenAction]]
	root  *testCoordinator
	nav   *memory.Navigator
	clock *effect.TestClock
	rec   *recorder
}

func newFixture(initial screenState, opts ...coordinator.Option) *fixture {
	clock := effect.NewTestClock()
	rec := &recorder{nav: memory.NewNavigator()}
	s := store.New(initial, nav.Lift(screenReducer), struct{}{},
		store.WithClock(clock),
		store.WithActionHook(func(a any) {
			if n, ok := a.(nav.Action[screenAction]); ok && n.Kind == nav.KindChild {
				rec.actions = append(rec.actions, n.Child)
			}
		}),
	)
	root := newTestCoordinator(s, rec, opts...)
	root.still = true
	root.PushOnto(rec.nav.Root(), false)
	return &fixture{store: s, root: root, nav: rec.nav, clock: clock, rec: rec}
}

func (f *fixture) send(kind string) {
	f.root.Send(screenAction{Kind: kind})
}

// closes counts close envelopes received anywhere in the tree.
func (f *fixture) closes() int {
	n := 0
	for _, a := range f.rec.actions {
		n += countCloses(a)
	}
	return n
}

func countCloses(a screenAction) int {
	for _, child := range []*nav.Action[screenAction]{a.Pushed, a.Presented} {
		if child == nil {
			continue
		}
		if child.IsClose() {
			return 1
		}
		return countCloses(child.Child)
	}
	return 0
}
