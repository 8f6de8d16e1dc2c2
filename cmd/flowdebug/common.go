package main

import (
	"context"

	"github.com/metalagman/flowdebug/internal/cases"
	"github.com/metalagman/flowdebug/internal/config"
	"github.com/metalagman/flowdebug/internal/db"
	"github.com/metalagman/flowdebug/internal/env"
	"github.com/rs/zerolog/log"
)

func openStore(ctx context.Context, cfg config.Config) (*cases.Store, error) {
	var (
		store *cases.Store
		err   error
	)
	switch cfg.Cases.SourceKind() {
	case config.SourceSQLite:
		store, err = db.Load(ctx, cfg.Cases.Path)
	default:
		store, err = cases.Load(cfg.Cases.Path)
	}
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("path", cfg.Cases.Path).
		Str("source", cfg.Cases.SourceKind()).
		Int("cases", store.Len()).
		Msg("case corpus loaded")
	return store, nil
}

func newEngine(cfg config.Config, store *cases.Store) (*env.Engine, error) {
	opts := []env.Option{env.WithMaxAttempts(cfg.Env.MaxAttempts)}
	if cfg.Env.Seed != nil {
		opts = append(opts, env.WithSeed(*cfg.Env.Seed))
	}
	return env.New(store, opts...)
}

func openEngine(ctx context.Context, cfg config.Config) (*cases.Store, *env.Engine, error) {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	engine, err := newEngine(cfg, store)
	if err != nil {
		return nil, nil, err
	}
	return store, engine, nil
}
