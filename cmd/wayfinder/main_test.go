package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/internal/demo"
	"github.com/aretw0/wayfinder/internal/demo/myjet"
	"github.com/aretw0/wayfinder/internal/presentation/tui"
	"github.com/aretw0/wayfinder/pkg/effect"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRepl(t *testing.T) {
	app := wayfinder.New(myjet.State{}, myjet.Reducer, demo.NewEnvironment(0), myjetRoot,
		wayfinder.WithClock(effect.NewTestClock()))
	defer app.Close()

	var out bytes.Buffer
	r := &repl{app: app, out: &out, render: tui.NewRenderer(&out, termenv.Ascii)}
	input := "push\npush color-2\nlike\nfly\nback\ngraph\nquit\nnever reached\n"

	require.NoError(t, r.run(context.Background(), strings.NewReader(input)))

	got := out.String()
	assert.Contains(t, got, "MyJet › Reservations › Detail")
	assert.Contains(t, got, "error: unknown action: \"fly\"")
	assert.Contains(t, got, "s0_0 --> s0_1")
	assert.True(t, app.State().Route.PushedReservations.Rows.Items()[1].IsLiked,
		"swiping back writes the detail's like back to its row")
	assert.Equal(t, [][]string{{"MyJet", "Reservations"}}, app.Stack())

	t.Run("save without session", func(t *testing.T) {
		out.Reset()
		require.NoError(t, r.run(context.Background(), strings.NewReader("save\n")))
		assert.Contains(t, out.String(), "error: no session configured")
	})
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "wayfinder version "+strings.TrimSpace(wayfinder.Version)+"\n", out)
}

func TestRunScript(t *testing.T) {
	t.Setenv("WAYFINDER_STORE", "file")
	t.Setenv("WAYFINDER_STORE_PATH", t.TempDir())
	path := filepath.Join(t.TempDir(), "journey.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: deeplink
steps:
  - press: deeplink
  - expect:
      stack: [[MyJet], [Reservations], [Detail]]
`), 0o644))

	out, err := execute(t, "run", "--script", path, "--session", "trip")
	require.NoError(t, err)
	assert.Contains(t, out, `scenario "deeplink" passed (2 steps)`)

	out, err = execute(t, "snapshot", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "- trip")

	out, err = execute(t, "snapshot", "show", "trip")
	require.NoError(t, err)
	assert.Contains(t, out, `"screen": "Detail"`)

	_, err = execute(t, "run", "--script", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
