package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"quill/cmd/identity"
	authapi "quill/cmd/internal/auth/api"
	"quill/cmd/internal/auth/session"
	"quill/cmd/internal/content"
)

// App holds the wired application: configuration, stores, services and the
// HTTP handlers mounted by registerHTTP.
type App struct {
	cfg     Config
	log     *slog.Logger
	pool    *pgxpool.Pool
	metrics *Metrics

	sessions *session.Service
	auth     *authapi.Handler
	content  *content.Handler
}

// New wires the application. Postgres-backed stores are used when
// QUILL_DATABASE_URL is set; otherwise everything runs on the in-memory
// stores, which is the local-dev and test configuration.
func New(ctx context.Context, cfg Config, log *slog.Logger) (*App, error) {
	pool, err := NewDBPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var (
		accounts     identity.Repository
		refreshStore session.Store
		contentStore content.Store
	)
	if pool != nil {
		accounts, err = identity.NewPostgresRepository(pool, identity.WithSchema(cfg.DBSchema))
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("identity store: %w", err)
		}
		refreshStore, err = session.NewPostgresStore(pool, session.WithSchema(cfg.DBSchema))
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("refresh token store: %w", err)
		}
		contentStore, err = content.NewPostgresStore(pool, content.WithSchema(cfg.DBSchema))
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("content store: %w", err)
		}
		log.Info("using postgres stores", slog.String("schema", cfg.DBSchema))
	} else {
		accounts = identity.NewMemoryRepository()
		refreshStore = session.NewMemoryStore()
		contentStore = content.NewMemoryStore()
		log.Warn("no database configured, using in-memory stores")
	}

	sessCfg, err := session.LoadConfigFromEnv()
	if err != nil {
		if pool != nil {
			pool.Close()
		}
		return nil, err
	}
	sessions, err := session.NewService(sessCfg, accounts, refreshStore, log)
	if err != nil {
		if pool != nil {
			pool.Close()
		}
		return nil, err
	}

	metrics := NewMetrics()

	apiCfg := authapi.LoadConfigFromEnv()
	authHandler, err := authapi.NewHandler(log, apiCfg, sessions)
	if err != nil {
		if pool != nil {
			pool.Close()
		}
		return nil, err
	}
	authHandler.SetObserver(metrics.RecordAuthOutcome)

	contentHandler, err := content.NewHandler(log, contentStore, apiCfg.MaxBodyBytes)
	if err != nil {
		if pool != nil {
			pool.Close()
		}
		return nil, err
	}

	return &App{
		cfg:      cfg,
		log:      log,
		pool:     pool,
		metrics:  metrics,
		sessions: sessions,
		auth:     authHandler,
		content:  contentHandler,
	}, nil
}

// Close releases resources held by the app.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}
