package app

import (
	"context"
	"fmt"

	"github.com/advisorhq/advisor-crm/internal/app/metrics"
	"github.com/advisorhq/advisor-crm/internal/app/services/clients"
	"github.com/advisorhq/advisor-crm/internal/app/services/followups"
	"github.com/advisorhq/advisor-crm/internal/app/services/insights"
	"github.com/advisorhq/advisor-crm/internal/app/services/integrations"
	"github.com/advisorhq/advisor-crm/internal/app/storage"
	"github.com/advisorhq/advisor-crm/internal/app/storage/memory"
	"github.com/advisorhq/advisor-crm/internal/app/system"
	"github.com/advisorhq/advisor-crm/pkg/logger"
)

// Stores encapsulates persistence dependencies. Nil stores default to the
// seeded in-memory implementation.
type Stores struct {
	Clients      storage.ClientStore
	FollowUps    storage.FollowUpStore
	Metrics      storage.MetricStore
	Integrations storage.IntegrationStore
}

// Options tunes optional application behaviour.
type Options struct {
	// SnapshotSchedule is the cron expression for the insights recorder.
	// Empty disables the recorder.
	SnapshotSchedule string
}

// Application ties the domain services together and manages their lifecycle.
type Application struct {
	manager *system.Manager
	log     *logger.Logger

	Clients      *clients.Service
	FollowUps    *followups.Service
	Insights     *insights.Service
	Integrations *integrations.Service
	Registry     *metrics.Registry
}

// New builds a fully initialised application with the provided stores.
func New(stores Stores, opts Options, log *logger.Logger) (*Application, error) {
	if log == nil {
		log = logger.NewDefault("app")
	}

	if stores.Clients == nil || stores.FollowUps == nil || stores.Metrics == nil || stores.Integrations == nil {
		mem := memory.NewSeeded()
		if stores.Clients == nil {
			stores.Clients = mem
		}
		if stores.FollowUps == nil {
			stores.FollowUps = mem
		}
		if stores.Metrics == nil {
			stores.Metrics = mem
		}
		if stores.Integrations == nil {
			stores.Integrations = mem
		}
	}

	manager := system.NewManager()

	clientService := clients.New(stores.Clients, log)
	followUpService := followups.New(stores.FollowUps, log)
	insightService := insights.New(stores.Metrics, log)
	integrationService := integrations.New(stores.Integrations, log)

	if opts.SnapshotSchedule != "" {
		recorder := insights.NewRecorder(insightService, stores.Clients, opts.SnapshotSchedule, log)
		if err := manager.Register(recorder); err != nil {
			return nil, fmt.Errorf("register recorder: %w", err)
		}
	}

	return &Application{
		manager:      manager,
		log:          log,
		Clients:      clientService,
		FollowUps:    followUpService,
		Insights:     insightService,
		Integrations: integrationService,
		Registry:     metrics.NewRegistry(),
	}, nil
}

// Attach registers an additional lifecycle-managed service. Call before Start.
func (a *Application) Attach(service system.Service) error {
	return a.manager.Register(service)
}

// Start begins all registered services.
func (a *Application) Start(ctx context.Context) error {
	return a.manager.Start(ctx)
}

// Stop stops all services.
func (a *Application) Stop(ctx context.Context) error {
	return a.manager.Stop(ctx)
}
