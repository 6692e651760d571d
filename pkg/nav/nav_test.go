package nav_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/wayfinder/pkg/effect"
	"github.com/aretw0/wayfinder/pkg/nav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type parentAction struct {
	Detail *nav.Action[string]
}

func TestEmbedded_LeavesClosesToParent(t *testing.T) {
	c := nav.Embedded(
		func(p parentAction) (nav.Action[string], bool) {
			if p.Detail == nil {
				return nav.Action[string]{}, false
			}
			return *p.Detail, true
		},
		func(n nav.Action[string]) parentAction { return parentAction{Detail: &n} },
	)

	child := nav.Child("like")
	got, ok := c.Extract(parentAction{Detail: &child})
	assert.True(t, ok)
	assert.Equal(t, "like", got)

	closing := nav.InteractiveClose[string]()
	_, ok = c.Extract(parentAction{Detail: &closing})
	assert.False(t, ok, "closes are not child actions")

	_, ok = c.Extract(parentAction{})
	assert.False(t, ok)

	embedded := c.Embed("like")
	require.NotNil(t, embedded.Detail)
	assert.Equal(t, nav.Child("like"), *embedded.Detail)
}

func TestLift_IgnoresCloseAtRoot(t *testing.T) {
	calls := 0
	r := nav.Lift(func(state *int, a string, _ struct{}) effect.Effect[string] {
		calls++
		*state++
		return effect.None[string]()
	})

	state := 0
	r(&state, nav.SystemClose[string](), struct{}{})
	r(&state, nav.InteractiveClose[string](), struct{}{})
	r(&state, nav.Child("tap"), struct{}{})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, state)
}

func TestAction_JSON(t *testing.T) {
	tests := []struct {
		action nav.Action[string]
		want   string
	}{
		{nav.Child("tap"), `{"kind":"child","child":"tap"}`},
		{nav.InteractiveClose[string](), `{"kind":"interactiveClose"}`},
		{nav.SystemClose[string](), `{"kind":"systemClose"}`},
	}
	for _, tt := range tests {
		t.Run(string(tt.action.Kind), func(t *testing.T) {
			data, err := json.Marshal(tt.action)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))

			var decoded nav.Action[string]
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, tt.action, decoded)
			assert.Equal(t, tt.action.Kind != nav.KindChild, decoded.IsClose())
		})
	}

	var bad nav.Action[string]
	assert.Error(t, json.Unmarshal([]byte(`{"kind":"sideways"}`), &bad))
}
