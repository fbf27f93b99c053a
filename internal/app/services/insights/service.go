// Package insights serves the dashboard's business metric snapshots.
package insights

import (
	"context"
	"time"

	"github.com/advisorhq/advisor-crm/internal/app/domain/metric"
	"github.com/advisorhq/advisor-crm/internal/app/storage"
	"github.com/advisorhq/advisor-crm/pkg/logger"
)

// Service manages metric snapshots. Snapshots are append-only.
type Service struct {
	store storage.MetricStore
	log   *logger.Logger
}

// New constructs an insights service.
func New(store storage.MetricStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("insights")
	}
	return &Service{store: store, log: log}
}

// Latest returns the most recent snapshot by date, comma-ok absent when no
// snapshots exist.
func (s *Service) Latest(ctx context.Context) (metric.Metric, bool, error) {
	return s.store.LatestMetric(ctx)
}

// ByDateRange returns snapshots with date in [start, end] inclusive.
func (s *Service) ByDateRange(ctx context.Context, start, end time.Time) ([]metric.Metric, error) {
	return s.store.ListMetricsByDateRange(ctx, start, end)
}

// Record appends a snapshot.
func (s *Service) Record(ctx context.Context, ins metric.Insert) (metric.Metric, error) {
	m, err := s.store.CreateMetric(ctx, ins)
	if err != nil {
		return metric.Metric{}, err
	}
	s.log.WithField("metric_id", m.ID).
		WithField("date", m.Date).
		Info("metric snapshot recorded")
	return m, nil
}
