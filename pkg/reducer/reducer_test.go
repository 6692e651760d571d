package reducer_test

import (
	"time"

	"github.com/aretw0/wayfinder/pkg/effect"
	"github.com/aretw0/wayfinder/pkg/identified"
	"github.com/aretw0/wayfinder/pkg/reducer"
)

// counter is the child screen used throughout these tests.
type counter struct {
	ID    string
	Count int
}

func (c counter) Identity() string { return c.ID }

var tickID = effect.NewID("tick")

func counterReducer(state *counter, action string, _ struct{}) effect.Effect[string] {
	switch action {
	case "inc", "tick":
		state.Count++
	case "start":
		return effect.Timer(tickID, time.Second, func(time.Time) string { return "tick" })
	case "stop":
		return effect.Cancel[string](tickID)
	}
	return effect.None[string]()
}

type route struct {
	Detail *counter
	Other  *counter
}

type parent struct {
	Title string
	Route *route
	Rows  identified.Array[string, counter]
}

type parentAction interface{ isParentAction() }

type (
	detailAction struct{ Action string }
	otherAction  struct{ Action string }
	rowAction    struct {
		Keyed reducer.Keyed[string, string]
	}
	closeDetail struct{}
)

func (detailAction) isParentAction() {}
func (otherAction) isParentAction()  {}
func (rowAction) isParentAction()    {}
func (closeDetail) isParentAction()  {}

var detailPath = reducer.OptionalPath[parent, counter]{
	Key: "route.detail",
	Get: func(p parent) (counter, bool) {
		if p.Route == nil || p.Route.Detail == nil {
			return counter{}, false
		}
		return *p.Route.Detail, true
	},
	Set: func(p *parent, c counter) {
		p.Route = &route{Detail: &c}
	},
}

var detailCase = reducer.Case[parentAction, string]{
	Extract: func(a parentAction) (string, bool) {
		d, ok := a.(detailAction)
		return d.Action, ok
	},
	Embed: func(s string) parentAction { return detailAction{Action: s} },
}

var rowsField = reducer.Field[parent, identified.Array[string, counter]]{
	Key: "rows",
	Get: func(p parent) identified.Array[string, counter] { return p.Rows },
	Set: func(p *parent, rows identified.Array[string, counter]) { p.Rows = rows },
}

var rowCase = reducer.Case[parentAction, reducer.Keyed[string, string]]{
	Extract: func(a parentAction) (reducer.Keyed[string, string], bool) {
		r, ok := a.(rowAction)
		return r.Keyed, ok
	},
	Embed: func(k reducer.Keyed[string, string]) parentAction { return rowAction{Keyed: k} },
}

func sameEnv(e struct{}) struct{} { return e }

func parentReducer() reducer.Reducer[parent, parentAction, struct{}] {
	return reducer.Combine(
		reducer.Pullback(counterReducer, detailPath, detailCase, sameEnv),
		reducer.ForEach(counterReducer, rowsField, rowCase, sameEnv),
		func(state *parent, action parentAction, _ struct{}) effect.Effect[parentAction] {
			if _, ok := action.(closeDetail); ok {
				state.Route = nil
			}
			return effect.None[parentAction]()
		},
	)
}

// harness feeds effect output back into the reducer, like a store would.
type harness struct {
	state   parent
	reduce  reducer.Reducer[parent, parentAction, struct{}]
	rt      *effect.Runtime
	clock   *effect.TestClock
	applied []parentAction
}

func newHarness(initial parent) *harness {
	clock := effect.NewTestClock()
	return &harness{
		state:  initial,
		reduce: parentReducer(),
		rt:     effect.NewRuntime(effect.WithClock(clock)),
		clock:  clock,
	}
}

func (h *harness) send(a parentAction) {
	h.applied = append(h.applied, a)
	eff := h.reduce(&h.state, a, struct{}{})
	effect.Launch(h.rt, eff, h.send)
}
