// Package runtime assembles the configured application and manages the HTTP
// server lifecycle.
package runtime

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"

	"github.com/advisorhq/advisor-crm/internal/app"
	"github.com/advisorhq/advisor-crm/internal/app/httpapi"
	"github.com/advisorhq/advisor-crm/internal/app/storage/memory"
	"github.com/advisorhq/advisor-crm/internal/app/storage/postgres"
	"github.com/advisorhq/advisor-crm/internal/config"
	"github.com/advisorhq/advisor-crm/internal/middleware"
	"github.com/advisorhq/advisor-crm/internal/platform/database"
	"github.com/advisorhq/advisor-crm/pkg/logger"
)

// Application wires the configured stores, services and HTTP server.
type Application struct {
	cfg         config.Config
	log         *logger.Logger
	app         *app.Application
	httpServer  *http.Server
	rateLimiter *middleware.RateLimitMiddleware
	db          *sqlx.DB
}

// NewApplication constructs an application from configuration.
func NewApplication(ctx context.Context, cfg config.Config) (*Application, error) {
	log := logger.New(cfg.Logging)

	stores, db, err := buildStores(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("configure stores: %w", err)
	}

	application, err := app.New(stores, app.Options{
		SnapshotSchedule: cfg.Insights.Schedule,
	}, log)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, fmt.Errorf("build application: %w", err)
	}

	handler := httpapi.NewHandler(
		application.Clients,
		application.FollowUps,
		application.Insights,
		application.Integrations,
		application.Registry,
		log,
	)

	router := mux.NewRouter()
	// Registered on the router so the middleware sees the matched path
	// template instead of raw URLs.
	router.Use(middleware.NewMetricsMiddleware(application.Registry).Handler)
	handler.Register(router)

	rateLimiter := middleware.NewRateLimitMiddleware(cfg.RateLimit)

	chain := middleware.NewRecoveryMiddleware(log).Handler(
		middleware.NewTracingMiddleware(log).Handler(
			middleware.NewCORSMiddleware(cfg.Server.CORSOrigins).Handler(
				rateLimiter.Handler(router),
			),
		),
	)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Application{
		cfg:         cfg,
		log:         log,
		app:         application,
		httpServer:  httpServer,
		rateLimiter: rateLimiter,
		db:          db,
	}, nil
}

// Run starts the background services and the HTTP server, blocking until the
// context is cancelled or the server fails.
func (a *Application) Run(ctx context.Context) error {
	if err := a.app.Start(ctx); err != nil {
		return fmt.Errorf("start services: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Infof("HTTP server listening on %s", a.cfg.Server.Addr())
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server, the background services and the
// database connection.
func (a *Application) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := a.app.Stop(shutdownCtx); err != nil {
		a.log.WithError(err).Warn("error stopping services")
	}

	a.rateLimiter.Stop()

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.WithError(err).Warn("error closing database connection")
		}
	}

	return nil
}

func buildStores(ctx context.Context, cfg config.Config, log *logger.Logger) (app.Stores, *sqlx.DB, error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		db, err := database.Open(ctx, cfg.Storage.Postgres)
		if err != nil {
			return app.Stores{}, nil, err
		}
		if cfg.Storage.Postgres.Migrate {
			log.Info("applying database migrations")
			if err := database.Migrate(db); err != nil {
				db.Close()
				return app.Stores{}, nil, err
			}
		}
		store := postgres.New(db)
		return app.Stores{
			Clients:      store,
			FollowUps:    store,
			Metrics:      store,
			Integrations: store,
		}, db, nil

	case config.BackendMemory:
		var store *memory.Store
		if cfg.Storage.Seed {
			store = memory.NewSeeded()
		} else {
			store = memory.New()
		}
		return app.Stores{
			Clients:      store,
			FollowUps:    store,
			Metrics:      store,
			Integrations: store,
		}, nil, nil

	default:
		return app.Stores{}, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
