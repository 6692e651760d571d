package main

import (
	"context"
	"log/slog"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/internal/adapters/file"
	"github.com/aretw0/wayfinder/internal/config"
	"github.com/aretw0/wayfinder/internal/demo"
	"github.com/aretw0/wayfinder/internal/demo/myjet"
	"github.com/aretw0/wayfinder/pkg/adapters/memory"
	"github.com/aretw0/wayfinder/pkg/adapters/redis"
	"github.com/aretw0/wayfinder/pkg/coordinator"
	"github.com/aretw0/wayfinder/pkg/nav"
	"github.com/aretw0/wayfinder/pkg/persistence/middleware"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/aretw0/wayfinder/pkg/session"
	"github.com/aretw0/wayfinder/pkg/store"
)

type demoApp = wayfinder.App[myjet.State, myjet.Action]

// openSessions builds the session manager configured by cfg. The returned
// func releases the backend.
func openSessions(cfg config.Config, logger *slog.Logger) (*session.Manager, func() error, error) {
	key, err := cfg.Store.Key()
	if err != nil {
		return nil, nil, err
	}

	var base ports.SnapshotStore
	closer := func() error { return nil }
	opts := []session.Option{session.WithLogger(logger)}

	switch cfg.Store.Kind {
	case config.StoreFile:
		base = file.New(cfg.Store.Path)
	case config.StoreRedis:
		var redisOpts []redis.Option
		if cfg.Store.RedisTTL > 0 {
			redisOpts = append(redisOpts, redis.WithTTL(cfg.Store.RedisTTL))
		}
		rs := redis.New(cfg.Store.RedisAddr, "", 0, redisOpts...)
		base = rs
		closer = rs.Close
		opts = append(opts, session.WithLocker(redis.NewLocker(rs.Client(), redis.DefaultPrefix)))
	default:
		base = memory.NewStore()
	}

	var mws []middleware.Middleware
	if len(cfg.Store.MaskKeys) > 0 {
		mws = append(mws, middleware.NewPIIMiddleware(cfg.Store.MaskKeys))
	}
	if key != nil {
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}

	logger.Debug("session store ready", "kind", cfg.Store.Kind, "masked", len(cfg.Store.MaskKeys), "encrypted", key != nil)
	return session.NewManager(middleware.Chain(base, mws...), opts...), closer, nil
}

func myjetRoot(s *store.Store[myjet.State, nav.Action[myjet.Action]], opts ...coordinator.Option) wayfinder.Root {
	return myjet.NewCoordinator(s, opts...)
}

// newDemoApp starts the MyJet app, resuming sessionID from sessions when it
// is set.
func newDemoApp(ctx context.Context, cfg config.Config, sessions *session.Manager, sessionID string, opts ...wayfinder.Option) (*demoApp, error) {
	env := demo.NewEnvironment(cfg.Tick)
	if sessionID == "" {
		return wayfinder.New(myjet.State{}, myjet.Reducer, env, myjetRoot, opts...), nil
	}
	return wayfinder.Open(ctx, sessions, sessionID, myjet.State{}, myjet.Reducer, env, myjetRoot, opts...)
}
