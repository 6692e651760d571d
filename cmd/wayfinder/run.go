package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/internal/config"
	"github.com/aretw0/wayfinder/internal/demo"
	"github.com/aretw0/wayfinder/internal/presentation/graph"
	"github.com/aretw0/wayfinder/internal/presentation/tui"
	"github.com/aretw0/wayfinder/internal/scenario"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/effect"
	"github.com/aretw0/wayfinder/pkg/session"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the MyJet demo in the terminal",
	Long: `Shows the visible screen and its buttons. Type a button name, with an argument when it
takes one, or one of: back, dismiss, hostpop, state, graph, save, help, quit.

With --script, replays a scenario file against a simulated clock instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		sessionID, _ := cmd.Flags().GetString("session")
		scriptPath, _ := cmd.Flags().GetString("script")
		noColor, _ := cmd.Flags().GetBool("no-color")

		sessions, closeStore, err := openSessions(cfg, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		if scriptPath != "" {
			return runScript(cmd, scriptPath, sessions, sessionID, cfg, logger)
		}

		profile := termenv.Ascii
		if !noColor && term.IsTerminal(int(os.Stdout.Fd())) {
			profile = termenv.ColorProfile()
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		loop := effect.NewLoop()
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			if err := loop.Run(gctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})

		var app *demoApp
		var buildErr error
		callErr := loop.Call(ctx, func() {
			app, buildErr = newDemoApp(ctx, cfg, sessions, sessionID,
				wayfinder.WithLogger(logger),
				wayfinder.WithScheduler(loop),
				wayfinder.WithClock(effect.SystemClock{}))
		})
		if err := errors.Join(callErr, buildErr); err != nil {
			cancel()
			_ = g.Wait()
			return err
		}

		out := cmd.OutOrStdout()
		tui.PrintBanner(out, profile)
		repl := &repl{app: app, out: out, render: tui.NewRenderer(out, profile)}
		replErr := repl.run(ctx, cmd.InOrStdin())

		_ = loop.Call(ctx, app.Close)
		cancel()
		if err := g.Wait(); err != nil {
			return err
		}
		return replErr
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("session", "s", "", "Session ID to resume and save")
	runCmd.Flags().String("script", "", "Scenario file to replay instead of prompting")
	runCmd.Flags().Bool("no-color", false, "Disable colored output")
}

// runScript replays a scenario with a test clock, so advance steps are exact.
func runScript(cmd *cobra.Command, path string, sessions *session.Manager, sessionID string, cfg config.Config, logger *slog.Logger) error {
	script, err := scenario.Load(path)
	if err != nil {
		return err
	}
	clock := effect.NewTestClock()
	app, err := newDemoApp(cmd.Context(), cfg, sessions, sessionID,
		wayfinder.WithLogger(logger),
		wayfinder.WithClock(clock))
	if err != nil {
		return err
	}
	defer app.Close()

	runner := scenario.NewRunner(app, app.Navigator(), scenario.WithClock(clock), scenario.WithLogger(logger))
	if err := runner.Run(script); err != nil {
		return fmt.Errorf("scenario %q: %w", script.Name, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "scenario %q passed (%d steps)\n", script.Name, len(script.Steps))
	if sessionID != "" {
		return app.Save(cmd.Context())
	}
	return nil
}

const builtins = "  back       swipe back\n  dismiss    pull the modal down\n  hostpop    pop without interaction\n" +
	"  state      print the state\n  graph      print the stack as mermaid\n  save       save the session\n  quit       leave\n"

// repl reads commands and runs each on the app's loop.
type repl struct {
	app    *demoApp
	out    io.Writer
	render *tui.Renderer
}

func (r *repl) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	if err := r.show(ctx); err != nil {
		return err
	}
	for {
		fmt.Fprint(r.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			if err := r.show(ctx); err != nil {
				return err
			}
			continue
		}
		name, arg := fields[0], strings.Join(fields[1:], " ")

		var output string
		var cmdErr error
		quit := name == "quit" || name == "exit"
		if err := r.app.Call(ctx, func() {
			if quit {
				if r.app.SessionID() != "" {
					cmdErr = r.app.Save(ctx)
				}
				return
			}
			output, cmdErr = r.exec(ctx, name, arg)
		}); err != nil {
			return err
		}
		if cmdErr != nil {
			r.render.Error(cmdErr)
		}
		if quit {
			return nil
		}
		if output != "" {
			fmt.Fprintln(r.out, output)
		}
		if err := r.show(ctx); err != nil {
			return err
		}
	}
}

// exec runs one command. Callers are on the app's loop.
func (r *repl) exec(ctx context.Context, name, arg string) (string, error) {
	nav := r.app.Navigator()
	switch name {
	case "back":
		return "", nav.InteractivePop()
	case "dismiss":
		return "", nav.InteractiveDismiss()
	case "hostpop":
		return "", nav.HostPop()
	case "help":
		return "", nil
	case "state":
		data, err := r.app.StateJSON()
		if err != nil {
			return "", err
		}
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, data, "", "  "); err != nil {
			return "", err
		}
		return pretty.String(), nil
	case "graph":
		return graph.GenerateMermaid(r.app.Stack(), &graph.Overlay{Effects: r.app.Effects()}), nil
	case "save":
		if err := r.app.Save(ctx); err != nil {
			return "", err
		}
		return "saved " + r.app.SessionID(), nil
	}

	controls, ok := topControls(r.app)
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownAction, name)
	}
	return "", demo.Press(controls, name, arg)
}

func (r *repl) show(ctx context.Context) error {
	var frame tui.Frame
	if err := r.app.Call(ctx, func() { frame = r.frame() }); err != nil {
		return err
	}
	r.render.Render(frame)
	return nil
}

func (r *repl) frame() tui.Frame {
	f := tui.Frame{Levels: r.app.Stack(), Effects: r.app.Effects(), Help: builtins}
	top := r.app.Top()
	if top == nil {
		return f
	}
	f.Title = top.Title
	if top.View != nil {
		f.View = top.View()
	}
	if controls, ok := topControls(r.app); ok {
		f.Help = demo.Help(controls) + builtins
	}
	return f
}

func topControls(app *demoApp) (demo.Controls, bool) {
	top := app.Top()
	if top == nil {
		return nil, false
	}
	controls, ok := top.Owner.(demo.Controls)
	return controls, ok
}
