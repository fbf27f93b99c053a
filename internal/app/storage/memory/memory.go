// Package memory provides the in-memory persistence layer backing the CRM
// API by default. It is the disposable implementation behind the storage
// interfaces; swapping in a real database touches nothing above the
// interface.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/advisorhq/advisor-crm/internal/app/domain/client"
	"github.com/advisorhq/advisor-crm/internal/app/domain/followup"
	"github.com/advisorhq/advisor-crm/internal/app/domain/integration"
	"github.com/advisorhq/advisor-crm/internal/app/domain/metric"
	"github.com/advisorhq/advisor-crm/internal/app/storage"
)

var (
	_ storage.ClientStore      = (*Store)(nil)
	_ storage.FollowUpStore    = (*Store)(nil)
	_ storage.MetricStore      = (*Store)(nil)
	_ storage.IntegrationStore = (*Store)(nil)
)

// Store is a thread-safe in-memory implementation of all storage interfaces.
// A single RWMutex guards each request's access to the collections, which is
// all the consistency the API requires: handlers never hold references into
// stored state because every read and write path clones reference fields.
type Store struct {
	mu           sync.RWMutex
	clients      map[string]client.Client
	followUps    map[string]followup.FollowUp
	metrics      map[string]metric.Metric
	integrations map[string]integration.Integration

	now func() time.Time
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		clients:      make(map[string]client.Client),
		followUps:    make(map[string]followup.FollowUp),
		metrics:      make(map[string]metric.Metric),
		integrations: make(map[string]integration.Integration),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the store clock. Tests use this to pin createdAt and
// updatedAt stamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func newID() string {
	return uuid.NewString()
}

// ClientStore implementation --------------------------------------------------

func (s *Store) ListClients(_ context.Context) ([]client.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]client.Client, 0, len(s.clients))
	for _, c := range s.clients {
		result = append(result, cloneClient(c))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (s *Store) GetClient(_ context.Context, id string) (client.Client, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.clients[id]
	if !ok {
		return client.Client{}, false, nil
	}
	return cloneClient(c), true, nil
}

func (s *Store) CreateClient(_ context.Context, ins client.Insert) (client.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTakenLocked(ins.Email, "") {
		return client.Client{}, storage.ErrDuplicateEmail
	}

	now := s.now()
	c := client.Client{
		ID:             newID(),
		Name:           ins.Name,
		Email:          ins.Email,
		Phone:          copyString(ins.Phone),
		Status:         ins.Status,
		InvestmentType: ins.InvestmentType,
		PortfolioValue: copyString(ins.PortfolioValue),
		LastContact:    copyTime(ins.LastContact),
		Notes:          copyString(ins.Notes),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if c.Status == "" {
		c.Status = client.StatusActive
	}

	s.clients[c.ID] = c
	return cloneClient(c), nil
}

func (s *Store) UpdateClient(_ context.Context, id string, patch client.Patch) (client.Client, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[id]
	if !ok {
		return client.Client{}, false, nil
	}

	if patch.Email != nil && s.emailTakenLocked(*patch.Email, id) {
		return client.Client{}, true, storage.ErrDuplicateEmail
	}

	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Email != nil {
		c.Email = *patch.Email
	}
	if patch.Phone != nil {
		c.Phone = copyString(patch.Phone)
	}
	if patch.Status != nil {
		c.Status = *patch.Status
	}
	if patch.InvestmentType != nil {
		c.InvestmentType = *patch.InvestmentType
	}
	if patch.PortfolioValue != nil {
		c.PortfolioValue = copyString(patch.PortfolioValue)
	}
	if patch.LastContact != nil {
		c.LastContact = copyTime(patch.LastContact)
	}
	if patch.Notes != nil {
		c.Notes = copyString(patch.Notes)
	}
	c.UpdatedAt = s.now()

	s.clients[id] = c
	return cloneClient(c), true, nil
}

func (s *Store) DeleteClient(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[id]; !ok {
		return false, nil
	}
	// No cascade: follow-ups referencing this client are left dangling.
	delete(s.clients, id)
	return true, nil
}

func (s *Store) emailTakenLocked(email, excludeID string) bool {
	for id, c := range s.clients {
		if id != excludeID && strings.EqualFold(c.Email, email) {
			return true
		}
	}
	return false
}

// FollowUpStore implementation ------------------------------------------------

func (s *Store) ListFollowUps(_ context.Context) ([]followup.FollowUp, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]followup.FollowUp, 0, len(s.followUps))
	for _, f := range s.followUps {
		result = append(result, cloneFollowUp(f))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (s *Store) ListFollowUpsByClient(_ context.Context, clientID string) ([]followup.FollowUp, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]followup.FollowUp, 0)
	for _, f := range s.followUps {
		if f.ClientID == clientID {
			result = append(result, cloneFollowUp(f))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (s *Store) ListUpcomingFollowUps(_ context.Context) ([]followup.FollowUp, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	result := make([]followup.FollowUp, 0)
	for _, f := range s.followUps {
		if f.Status == followup.StatusPending && f.ScheduledDate.After(now) {
			result = append(result, cloneFollowUp(f))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ScheduledDate.Before(result[j].ScheduledDate)
	})
	return result, nil
}

func (s *Store) GetFollowUp(_ context.Context, id string) (followup.FollowUp, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.followUps[id]
	if !ok {
		return followup.FollowUp{}, false, nil
	}
	return cloneFollowUp(f), true, nil
}

func (s *Store) CreateFollowUp(_ context.Context, ins followup.Insert) (followup.FollowUp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	f := followup.FollowUp{
		ID:            newID(),
		ClientID:      ins.ClientID,
		Title:         ins.Title,
		Description:   copyString(ins.Description),
		ScheduledDate: ins.ScheduledDate,
		Type:          ins.Type,
		Status:        ins.Status,
		Priority:      ins.Priority,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if f.Status == "" {
		f.Status = followup.StatusPending
	}
	if f.Priority == "" {
		f.Priority = followup.PriorityMedium
	}

	s.followUps[f.ID] = f
	return cloneFollowUp(f), nil
}

func (s *Store) UpdateFollowUp(_ context.Context, id string, patch followup.Patch) (followup.FollowUp, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.followUps[id]
	if !ok {
		return followup.FollowUp{}, false, nil
	}

	if patch.ClientID != nil {
		f.ClientID = *patch.ClientID
	}
	if patch.Title != nil {
		f.Title = *patch.Title
	}
	if patch.Description != nil {
		f.Description = copyString(patch.Description)
	}
	if patch.ScheduledDate != nil {
		f.ScheduledDate = *patch.ScheduledDate
	}
	if patch.Type != nil {
		f.Type = *patch.Type
	}
	if patch.Status != nil {
		f.Status = *patch.Status
	}
	if patch.Priority != nil {
		f.Priority = *patch.Priority
	}
	f.UpdatedAt = s.now()

	s.followUps[id] = f
	return cloneFollowUp(f), true, nil
}

func (s *Store) DeleteFollowUp(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.followUps[id]; !ok {
		return false, nil
	}
	delete(s.followUps, id)
	return true, nil
}

// MetricStore implementation --------------------------------------------------

func (s *Store) ListMetrics(_ context.Context) ([]metric.Metric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]metric.Metric, 0, len(s.metrics))
	for _, m := range s.metrics {
		result = append(result, cloneMetric(m))
	}
	return result, nil
}

func (s *Store) GetMetric(_ context.Context, id string) (metric.Metric, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.metrics[id]
	if !ok {
		return metric.Metric{}, false, nil
	}
	return cloneMetric(m), true, nil
}

func (s *Store) CreateMetric(_ context.Context, ins metric.Insert) (metric.Metric, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := metric.Metric{
		ID:              newID(),
		Date:            ins.Date,
		TotalRevenue:    ins.TotalRevenue,
		ActiveClients:   ins.ActiveClients,
		ConversionRate:  ins.ConversionRate,
		PortfolioGrowth: ins.PortfolioGrowth,
		MonthlyData:     cloneMonthlyData(ins.MonthlyData),
	}

	s.metrics[m.ID] = m
	return cloneMetric(m), nil
}

func (s *Store) LatestMetric(_ context.Context) (metric.Metric, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		latest metric.Metric
		found  bool
	)
	for _, m := range s.metrics {
		if !found || m.Date.After(latest.Date) {
			latest = m
			found = true
		}
	}
	if !found {
		return metric.Metric{}, false, nil
	}
	return cloneMetric(latest), true, nil
}

func (s *Store) ListMetricsByDateRange(_ context.Context, start, end time.Time) ([]metric.Metric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]metric.Metric, 0)
	for _, m := range s.metrics {
		if !m.Date.Before(start) && !m.Date.After(end) {
			result = append(result, cloneMetric(m))
		}
	}
	return result, nil
}

// IntegrationStore implementation ---------------------------------------------

func (s *Store) ListIntegrations(_ context.Context) ([]integration.Integration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]integration.Integration, 0, len(s.integrations))
	for _, in := range s.integrations {
		result = append(result, cloneIntegration(in))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (s *Store) GetIntegration(_ context.Context, id string) (integration.Integration, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	in, ok := s.integrations[id]
	if !ok {
		return integration.Integration{}, false, nil
	}
	return cloneIntegration(in), true, nil
}

func (s *Store) CreateIntegration(_ context.Context, ins integration.Insert) (integration.Integration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in := integration.Integration{
		ID:            newID(),
		Name:          ins.Name,
		Type:          ins.Type,
		Status:        ins.Status,
		Description:   copyString(ins.Description),
		Configuration: copyConfig(ins.Configuration),
		LastSync:      copyTime(ins.LastSync),
		CreatedAt:     s.now(),
	}
	if in.Status == "" {
		in.Status = integration.StatusDisconnected
	}

	s.integrations[in.ID] = in
	return cloneIntegration(in), nil
}

func (s *Store) UpdateIntegration(_ context.Context, id string, patch integration.Patch) (integration.Integration, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in, ok := s.integrations[id]
	if !ok {
		return integration.Integration{}, false, nil
	}

	if patch.Name != nil {
		in.Name = *patch.Name
	}
	if patch.Type != nil {
		in.Type = *patch.Type
	}
	if patch.Status != nil {
		in.Status = *patch.Status
	}
	if patch.Description != nil {
		in.Description = copyString(patch.Description)
	}
	if patch.Configuration != nil {
		in.Configuration = copyConfig(patch.Configuration)
	}
	if patch.LastSync != nil {
		in.LastSync = copyTime(patch.LastSync)
	}

	s.integrations[id] = in
	return cloneIntegration(in), true, nil
}

// Helpers ---------------------------------------------------------------------

func copyString(src *string) *string {
	if src == nil {
		return nil
	}
	v := *src
	return &v
}

func copyTime(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	v := *src
	return &v
}

func copyConfig(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func cloneClient(c client.Client) client.Client {
	c.Phone = copyString(c.Phone)
	c.PortfolioValue = copyString(c.PortfolioValue)
	c.LastContact = copyTime(c.LastContact)
	c.Notes = copyString(c.Notes)
	return c
}

func cloneFollowUp(f followup.FollowUp) followup.FollowUp {
	f.Description = copyString(f.Description)
	return f
}

func cloneMonthlyData(md *metric.MonthlyData) *metric.MonthlyData {
	if md == nil {
		return nil
	}
	return &metric.MonthlyData{
		Revenue: append([]float64(nil), md.Revenue...),
		Clients: append([]int(nil), md.Clients...),
	}
}

func cloneMetric(m metric.Metric) metric.Metric {
	m.MonthlyData = cloneMonthlyData(m.MonthlyData)
	return m
}

func cloneIntegration(in integration.Integration) integration.Integration {
	in.Description = copyString(in.Description)
	in.Configuration = copyConfig(in.Configuration)
	in.LastSync = copyTime(in.LastSync)
	return in
}
