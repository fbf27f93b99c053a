package insights

import (
	"context"
	"fmt"
	"strconv"

	"github.com/robfig/cron/v3"

	"github.com/advisorhq/advisor-crm/internal/app/domain/client"
	"github.com/advisorhq/advisor-crm/internal/app/domain/metric"
	"github.com/advisorhq/advisor-crm/internal/app/storage"
	"github.com/advisorhq/advisor-crm/internal/app/system"
	"github.com/advisorhq/advisor-crm/pkg/logger"
)

var _ system.Service = (*Recorder)(nil)

// Recorder periodically derives a metric snapshot from the client book and
// appends it, so the dashboard's range queries have history to draw from
// even when nothing posts snapshots explicitly.
type Recorder struct {
	service  *Service
	clients  storage.ClientStore
	schedule string
	log      *logger.Logger

	cron  *cron.Cron
	entry cron.EntryID
}

// NewRecorder creates a lifecycle-managed snapshot recorder. schedule is a
// standard cron expression ("@hourly", "0 * * * *", ...).
func NewRecorder(service *Service, clients storage.ClientStore, schedule string, log *logger.Logger) *Recorder {
	if log == nil {
		log = logger.NewDefault("insights-recorder")
	}
	if schedule == "" {
		schedule = "@hourly"
	}
	return &Recorder{
		service:  service,
		clients:  clients,
		schedule: schedule,
		log:      log,
	}
}

func (r *Recorder) Name() string { return "insights-recorder" }

// Start schedules the snapshot job.
func (r *Recorder) Start(ctx context.Context) error {
	if r.cron != nil {
		return nil
	}
	c := cron.New()
	entry, err := c.AddFunc(r.schedule, func() { r.snapshot(context.Background()) })
	if err != nil {
		return fmt.Errorf("schedule %q: %w", r.schedule, err)
	}
	r.cron = c
	r.entry = entry
	c.Start()
	r.log.WithField("schedule", r.schedule).Info("insights recorder started")
	return nil
}

// Stop halts the schedule and waits for a running snapshot to finish.
func (r *Recorder) Stop(ctx context.Context) error {
	if r.cron == nil {
		return nil
	}
	stopCtx := r.cron.Stop()
	r.cron = nil
	select {
	case <-stopCtx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot derives and records one snapshot immediately. The cron job calls
// this on every tick; tests call it directly.
func (r *Recorder) Snapshot(ctx context.Context) (metric.Metric, error) {
	return r.derive(ctx)
}

func (r *Recorder) snapshot(ctx context.Context) {
	if _, err := r.derive(ctx); err != nil {
		r.log.WithError(err).Warn("snapshot failed")
	}
}

func (r *Recorder) derive(ctx context.Context) (metric.Metric, error) {
	all, err := r.clients.ListClients(ctx)
	if err != nil {
		return metric.Metric{}, fmt.Errorf("list clients: %w", err)
	}

	var (
		active  int
		revenue float64
	)
	for _, c := range all {
		if c.Status == client.StatusActive {
			active++
		}
		if c.PortfolioValue != nil {
			if v, perr := strconv.ParseFloat(*c.PortfolioValue, 64); perr == nil {
				revenue += v
			}
		}
	}

	conversion := 0.0
	if len(all) > 0 {
		conversion = float64(active) / float64(len(all)) * 100
	}

	growth := 0.0
	if prev, ok, gerr := r.service.Latest(ctx); gerr == nil && ok {
		if prevRevenue, perr := strconv.ParseFloat(prev.TotalRevenue, 64); perr == nil && prevRevenue > 0 {
			growth = (revenue - prevRevenue) / prevRevenue * 100
		}
	}

	ins := metric.Insert{
		Date:            nowUTC(),
		TotalRevenue:    strconv.FormatFloat(revenue, 'f', 2, 64),
		ActiveClients:   active,
		ConversionRate:  strconv.FormatFloat(conversion, 'f', 1, 64),
		PortfolioGrowth: strconv.FormatFloat(growth, 'f', 1, 64),
	}
	return r.service.Record(ctx, ins)
}
