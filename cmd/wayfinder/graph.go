package main

import (
	"fmt"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/internal/demo"
	"github.com/aretw0/wayfinder/internal/demo/myjet"
	"github.com/aretw0/wayfinder/internal/presentation/graph"
	"github.com/aretw0/wayfinder/pkg/effect"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the screen stack as a Mermaid diagram",
	Long: `Restores a session, or opens the demo deeplink when none is given, and prints its screen
stack as a Mermaid flowchart.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		sessionID, _ := cmd.Flags().GetString("session")
		sessions, closeStore, err := openSessions(cfg, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		opts := []wayfinder.Option{wayfinder.WithLogger(logger), wayfinder.WithClock(effect.NewTestClock())}
		var app *demoApp
		if sessionID == "" {
			app = wayfinder.New(myjet.Deeplink(), myjet.Reducer, demo.NewEnvironment(cfg.Tick), myjetRoot, opts...)
		} else if app, err = newDemoApp(cmd.Context(), cfg, sessions, sessionID, opts...); err != nil {
			return err
		}
		defer app.Close()

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(app.Stack(), &graph.Overlay{Effects: app.Effects()}))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("session", "s", "", "Session ID to draw")
}
