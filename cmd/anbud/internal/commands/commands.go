package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/nordfjell/anbud/internal/auth"
	"github.com/nordfjell/anbud/internal/config"
	"github.com/nordfjell/anbud/internal/engine"
	"github.com/nordfjell/anbud/internal/gateway"
	"github.com/nordfjell/anbud/internal/gateway/postgres"
	"github.com/nordfjell/anbud/internal/gateway/sqlite"
	"github.com/nordfjell/anbud/internal/logger"
)

type Globals struct {
	Config  string
	Debug   bool
	Version string
}

// loadConfig reads the configuration and wires up logging. Commands call
// this before anything else so that session validation can run against the
// configured secret without touching the gateway.
func loadConfig(globals *Globals) (config.Config, error) {
	cfg, err := config.Load(globals.Config)
	if err != nil {
		return config.Config{}, err
	}

	logger.Setup(cfg.LogLevel, globals.Debug)

	return cfg, nil
}

// newEngine builds the sync engine against the configured gateway backend
// and loads the initial graph. The caller must have validated the session
// first; the graph is only ever loaded for an authenticated principal.
func newEngine(ctx context.Context, cfg config.Config) (*engine.Engine, func(), error) {
	gw, closer, err := newGateway(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	e := engine.New(gw)
	if err := e.Load(ctx); err != nil {
		closer()
		return nil, nil, fmt.Errorf("failed to load graph: %w", err)
	}

	return e, closer, nil
}

func newGateway(ctx context.Context, cfg config.Config) (gateway.Gateway, func(), error) {
	switch cfg.Gateway.Backend {
	case config.BackendMemory:
		return gateway.NewMemory().Gateway(), func() {}, nil

	case config.BackendSQLite:
		db, err := sqlite.Open(cfg.Gateway.SQLitePath)
		if err != nil {
			return gateway.Gateway{}, nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return sqlite.New(db), func() { db.Close() }, nil

	case config.BackendPostgres:
		pool, err := connectPostgres(ctx, cfg.Gateway.Postgres)
		if err != nil {
			return gateway.Gateway{}, nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return gateway.Gateway{}, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return postgres.New(pool), pool.Close, nil

	default:
		return gateway.Gateway{}, nil, fmt.Errorf("unknown gateway backend: %s", cfg.Gateway.Backend)
	}
}

// connectPostgres retries the initial connection, the database may still be
// starting when the command runs.
func connectPostgres(ctx context.Context, poolCfg postgres.PoolConfig) (*pgxpool.Pool, error) {
	pool, err := backoff.Retry(ctx, func() (*pgxpool.Pool, error) {
		pool, err := postgres.NewPool(ctx, &poolCfg)
		if err != nil {
			log.Debug().Err(err).Msg("postgres connect attempt failed")
			return nil, err
		}
		return pool, nil
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(30*time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return pool, nil
}

// requirePrincipal validates the session token for commands that mutate data.
func requirePrincipal(cfg config.Config, token string) (auth.Principal, error) {
	if token == "" {
		return auth.Principal{}, fmt.Errorf("session token required, pass --session or set ANBUD_SESSION")
	}

	p, err := auth.ParseSession(cfg.Session.Secret, token)
	if err != nil {
		return auth.Principal{}, err
	}

	log.Debug().Str("principal", p.ID).Msg("session validated")

	return p, nil
}
