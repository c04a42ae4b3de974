// Package app wires config into the command environment.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"taskdash/internal/backend/restapi"
	"taskdash/internal/commands"
	"taskdash/internal/config"
	"taskdash/internal/session"
	"taskdash/internal/transport"
)

// Build creates the token store, API client and session service described by cfg.
// The returned cleanup flushes metrics and releases connections.
func Build(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*commands.Env, func(), error) {
	var (
		store   session.TokenStore
		closers []func() error
	)

	switch cfg.SessionBackend {
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
		}
		store = session.NewRedisStore(rdb, cfg.RedisPrefix)
		closers = append(closers, rdb.Close)
	default:
		store = session.NewFileStore(cfg.SessionPath())
	}

	reg := prometheus.NewRegistry()
	client, err := transport.New(cfg.APIURL,
		transport.WithTokenSource(session.NewTokenSource(store)),
		transport.WithTimeout(cfg.Timeout),
		transport.WithLogger(log),
		transport.WithMetrics(transport.NewMetrics(reg)),
	)
	if err != nil {
		for _, c := range closers {
			c()
		}
		return nil, nil, err
	}
	api := restapi.New(client)

	env := &commands.Env{
		Config:  cfg,
		Session: session.NewService(store, api, session.WithLogger(log)),
		Service: api,
		Log:     log,
		Stdin:   os.Stdin,
	}

	cleanup := func() {
		if cfg.MetricsFile != "" {
			if err := prometheus.WriteToTextfile(cfg.MetricsFile, reg); err != nil {
				log.Warn().Err(err).Str("path", cfg.MetricsFile).Msg("failed to write metrics")
			}
		}
		for _, c := range closers {
			if err := c(); err != nil {
				log.Debug().Err(err).Msg("close failed")
			}
		}
	}
	return env, cleanup, nil
}
