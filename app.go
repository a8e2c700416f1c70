// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/danielhkuo/pokepoll/auth"
	"github.com/danielhkuo/pokepoll/catalog"
	"github.com/danielhkuo/pokepoll/cliparse"
	"github.com/danielhkuo/pokepoll/logging"
	"github.com/danielhkuo/pokepoll/polls"
	"github.com/danielhkuo/pokepoll/store"
)

// app holds everything a command needs, opened from one Config.
type app struct {
	cfg     cliparse.Config
	store   *store.SQLStore
	svc     *polls.Service
	closers []io.Closer
}

func openApp(ctx context.Context, cfg cliparse.Config) (*app, error) {
	a := &app{cfg: cfg}

	logCloser, err := logging.Configure(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, logCloser)

	a.store, err = store.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	a.closers = append(a.closers, a.store)
	slog.Info("database schema ready", "driver", cfg.DatabaseType)

	var opts []catalog.Option
	switch {
	case cfg.CacheTTL == 0:
	case cfg.RedisURL != "":
		rc, err := catalog.NewRedisCache(cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("open redis cache: %w", err)
		}
		a.closers = append(a.closers, rc)
		opts = append(opts, catalog.WithCache(rc, cfg.CacheTTL))
		slog.Info("catalog cache", "backend", "redis", "ttl", cfg.CacheTTL)
	default:
		opts = append(opts, catalog.WithCache(catalog.NewMemoryCache(), cfg.CacheTTL))
		slog.Info("catalog cache", "backend", "memory", "ttl", cfg.CacheTTL)
	}
	cat := catalog.NewClient(cfg.CatalogURL, cfg.CatalogTimeout, opts...)

	a.svc = polls.New(a.store, cat, auth.Policy{Salt: cfg.AdminKeySalt})
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
