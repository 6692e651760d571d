package reducer_test

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/wayfinder/pkg/effect"
	"github.com/aretw0/wayfinder/pkg/identified"
	"github.com/aretw0/wayfinder/pkg/reducer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowsOf(ids ...string) identified.Array[string, counter] {
	items := make([]counter, len(ids))
	for i, id := range ids {
		items[i] = counter{ID: id}
	}
	return identified.Of[string](items...)
}

func row(key, action string) rowAction {
	return rowAction{Keyed: reducer.Keyed[string, string]{Key: key, Action: action}}
}

func count(t *testing.T, h *harness, id string) int {
	t.Helper()
	c, ok := h.state.Rows.Get(id)
	require.True(t, ok, "row %s missing", id)
	return c.Count
}

func TestForEach_OnlyAddressedElementChanges(t *testing.T) {
	h := newHarness(parent{Rows: rowsOf("a", "b", "c")})

	h.send(row("b", "inc"))

	assert.Equal(t, 0, count(t, h, "a"))
	assert.Equal(t, 1, count(t, h, "b"))
	assert.Equal(t, 0, count(t, h, "c"))
}

func TestForEach_MissingKeyIsNoOp(t *testing.T) {
	h := newHarness(parent{Rows: rowsOf("a")})
	before := h.state

	eff := h.reduce(&h.state, row("gone", "start"), struct{}{})

	assert.True(t, eff.IsNone())
	assert.Equal(t, before, h.state)
}

func TestForEach_EffectsStayWithTheirElement(t *testing.T) {
	h := newHarness(parent{Rows: rowsOf("a", "b")})

	h.send(row("a", "start"))
	h.send(row("b", "start"))
	assert.Equal(t, []effect.ID{
		{Scope: "rows/a", Key: "tick"},
		{Scope: "rows/b", Key: "tick"},
	}, h.rt.Running())

	h.clock.Advance(2 * time.Second)
	assert.Equal(t, 2, count(t, h, "a"))
	assert.Equal(t, 2, count(t, h, "b"))

	// Stopping b's timer leaves a's running.
	h.send(row("b", "stop"))
	h.clock.Advance(3 * time.Second)
	assert.Equal(t, 5, count(t, h, "a"))
	assert.Equal(t, 2, count(t, h, "b"))

	for _, a := range h.applied {
		if r, ok := a.(rowAction); ok && r.Keyed.Action == "tick" {
			assert.Contains(t, []string{"a", "b"}, r.Keyed.Key)
		}
	}
}

func TestForEach_RemovedRowIgnoresLateTicks(t *testing.T) {
	h := newHarness(parent{Rows: rowsOf("a", "b")})
	h.send(row("a", "start"))

	h.state.Rows = h.state.Rows.Remove("a")
	h.clock.Advance(time.Second)

	assert.Equal(t, []string{"b"}, h.state.Rows.IDs())
	assert.Equal(t, 0, count(t, h, "b"))

	h.rt.CancelScope(reducer.ElementScope("rows", "a"))
	assert.Empty(t, h.rt.Running())
}

func TestForEach_KeysWithSeparatorsStayIsolated(t *testing.T) {
	h := newHarness(parent{Rows: rowsOf("a", "a/b")})
	h.send(row("a", "start"))
	h.send(row("a/b", "start"))

	assert.Equal(t, "rows/a%2Fb", reducer.ElementScope("rows", "a/b"))

	h.rt.CancelScope(reducer.ElementScope("rows", "a"))
	assert.Equal(t, []effect.ID{{Scope: "rows/a%2Fb", Key: "tick"}}, h.rt.Running())

	h.clock.Advance(time.Second)
	assert.Equal(t, 0, count(t, h, "a"))
	assert.Equal(t, 1, count(t, h, "a/b"))
}

func TestDebug_LogsChange(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := reducer.Debug(counterReducer, logger, "counter")

	state := counter{}
	r(&state, "inc", struct{}{})
	r(&state, "noop", struct{}{})

	out := buf.String()
	assert.Contains(t, out, "reducer=counter")
	assert.Contains(t, out, "changed=true")
	assert.Contains(t, out, "changed=false")
}
