package storage

import (
	"context"
	"errors"
	"time"

	"github.com/advisorhq/advisor-crm/internal/app/domain/client"
	"github.com/advisorhq/advisor-crm/internal/app/domain/followup"
	"github.com/advisorhq/advisor-crm/internal/app/domain/integration"
	"github.com/advisorhq/advisor-crm/internal/app/domain/metric"
)

// ErrDuplicateEmail is returned by client stores when a create or update
// would reuse another client's email address.
var ErrDuplicateEmail = errors.New("email already in use")

// Stores signal domain-level absence with a comma-ok result, never an error.
// The error slot reports backend failures only; the in-memory implementation
// always returns nil errors.

// ClientStore persists client records.
type ClientStore interface {
	ListClients(ctx context.Context) ([]client.Client, error)
	GetClient(ctx context.Context, id string) (client.Client, bool, error)
	CreateClient(ctx context.Context, ins client.Insert) (client.Client, error)
	UpdateClient(ctx context.Context, id string, patch client.Patch) (client.Client, bool, error)
	DeleteClient(ctx context.Context, id string) (bool, error)
}

// FollowUpStore persists follow-up records and serves the derived queries the
// dashboard depends on.
type FollowUpStore interface {
	ListFollowUps(ctx context.Context) ([]followup.FollowUp, error)
	ListFollowUpsByClient(ctx context.Context, clientID string) ([]followup.FollowUp, error)
	// ListUpcomingFollowUps returns pending follow-ups scheduled strictly
	// after the current time, ascending by scheduled date. The result is
	// recomputed on every call against the live collection.
	ListUpcomingFollowUps(ctx context.Context) ([]followup.FollowUp, error)
	GetFollowUp(ctx context.Context, id string) (followup.FollowUp, bool, error)
	CreateFollowUp(ctx context.Context, ins followup.Insert) (followup.FollowUp, error)
	UpdateFollowUp(ctx context.Context, id string, patch followup.Patch) (followup.FollowUp, bool, error)
	DeleteFollowUp(ctx context.Context, id string) (bool, error)
}

// MetricStore persists business snapshots. Snapshots cannot be updated or
// deleted.
type MetricStore interface {
	ListMetrics(ctx context.Context) ([]metric.Metric, error)
	GetMetric(ctx context.Context, id string) (metric.Metric, bool, error)
	CreateMetric(ctx context.Context, ins metric.Insert) (metric.Metric, error)
	// LatestMetric returns the snapshot with the greatest date.
	LatestMetric(ctx context.Context) (metric.Metric, bool, error)
	// ListMetricsByDateRange returns snapshots with date in [start, end],
	// both bounds inclusive, in unspecified order.
	ListMetricsByDateRange(ctx context.Context, start, end time.Time) ([]metric.Metric, error)
}

// IntegrationStore persists integration records. Integrations cannot be
// deleted.
type IntegrationStore interface {
	ListIntegrations(ctx context.Context) ([]integration.Integration, error)
	GetIntegration(ctx context.Context, id string) (integration.Integration, bool, error)
	CreateIntegration(ctx context.Context, ins integration.Insert) (integration.Integration, error)
	UpdateIntegration(ctx context.Context, id string, patch integration.Patch) (integration.Integration, bool, error)
}
