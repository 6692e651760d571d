package reducer_test

import (
	"testing"
	"time"

	"github.com/aretw0/wayfinder/pkg/effect"
	"github.com/aretw0/wayfinder/pkg/identified"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPullback_NoOpWhenRouteAbsent(t *testing.T) {
	tests := []struct {
		name  string
		state func() parent
	}{
		{"nil route", func() parent { return parent{Title: "root"} }},
		{"other case", func() parent {
			return parent{Title: "root", Route: &route{Other: &counter{ID: "o", Count: 7}}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := tt.state()
			original := state.Route

			for _, action := range []string{"inc", "start", "stop"} {
				eff := parentReducer()(&state, detailAction{Action: action}, struct{}{})
				assert.True(t, eff.IsNone(), "action %q must not produce effects", action)
			}
			assert.Equal(t, tt.state(), state)
			assert.True(t, original == state.Route, "the route must not be rewritten")
		})
	}
}

func TestPullback_RunsChildAndWritesBack(t *testing.T) {
	h := newHarness(parent{Route: &route{Detail: &counter{ID: "d"}}})

	h.send(detailAction{Action: "inc"})
	require.NotNil(t, h.state.Route.Detail)
	assert.Equal(t, 1, h.state.Route.Detail.Count)

	h.send(detailAction{Action: "start"})
	assert.Equal(t, []effect.ID{{Scope: "route.detail", Key: "tick"}}, h.rt.Running())

	h.clock.Advance(2 * time.Second)
	assert.Equal(t, 3, h.state.Route.Detail.Count)

	h.send(detailAction{Action: "stop"})
	assert.Empty(t, h.rt.Running())
}

func TestPullback_ClearsRouteAfterChildInSameDispatch(t *testing.T) {
	h := newHarness(parent{Route: &route{Detail: &counter{ID: "d"}}})
	h.send(detailAction{Action: "start"})

	h.send(closeDetail{})
	// The parent reacts to the close in the same dispatch; later child actions are inert.
	assert.Nil(t, h.state.Route)

	h.clock.Advance(time.Second)
	assert.Nil(t, h.state.Route, "a tick for an absent child is a no-op")
	h.rt.CancelScope("route.detail")
}

func TestPullback_DoesNotTouchForEachRows(t *testing.T) {
	rows := identified.Of[string](counter{ID: "a"})
	h := newHarness(parent{Rows: rows, Route: &route{Detail: &counter{ID: "d"}}})

	h.send(detailAction{Action: "inc"})
	assert.Equal(t, rows, h.state.Rows)
}
