package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/wayfinder"
	inspector "github.com/aretw0/wayfinder/internal/adapters/http"
	"github.com/aretw0/wayfinder/internal/metrics"
	"github.com/aretw0/wayfinder/pkg/effect"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MyJet demo behind the HTTP inspector",
	Long: `Starts the demo on a main loop with a wall clock and serves the inspector: state, stack,
coordinators, effects, snapshots, a server-sent diff stream and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}
		sessionID, _ := cmd.Flags().GetString("session")

		sessions, closeStore, err := openSessions(cfg, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// The loop outlives the HTTP server so the session can be saved on it.
		loop := effect.NewLoop()
		loopCtx, stopLoop := context.WithCancel(context.Background())
		defer stopLoop()
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			if err := loop.Run(loopCtx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})

		collector := metrics.New()
		var app *demoApp
		var buildErr error
		callErr := loop.Call(ctx, func() {
			app, buildErr = newDemoApp(ctx, cfg, sessions, sessionID,
				wayfinder.WithLogger(logger),
				wayfinder.WithScheduler(loop),
				wayfinder.WithClock(effect.SystemClock{}),
				wayfinder.WithLifecycleHooks(collector.Hooks()))
		})
		if err := errors.Join(callErr, buildErr); err != nil {
			stopLoop()
			_ = g.Wait()
			return err
		}

		srv := &http.Server{
			Addr: cfg.Addr,
			Handler: inspector.NewHandler(app,
				inspector.WithLogger(logger),
				inspector.WithMetrics(collector.Handler())),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g.Go(func() error {
			logger.Info("inspector listening", "addr", srv.Addr, "session", sessionID)
			fmt.Fprintf(cmd.OutOrStdout(), "Wayfinder inspector on http://%s\n", srv.Addr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})

		g.Go(func() error {
			defer stopLoop()
			<-gctx.Done()
			logger.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
				_ = srv.Close()
			}

			var saveErr error
			callErr := loop.Call(shutdownCtx, func() {
				if app.SessionID() != "" {
					saveErr = app.Save(shutdownCtx)
				}
				app.Close()
			})
			return errors.Join(callErr, saveErr)
		})

		if err := g.Wait(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Wayfinder inspector stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on (overrides config)")
	serveCmd.Flags().StringP("session", "s", "", "Session ID to resume and save on shutdown")
}
