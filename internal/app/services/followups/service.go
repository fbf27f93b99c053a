// Package followups holds the follow-up scheduling business logic.
package followups

import (
	"context"
	"strings"

	"github.com/advisorhq/advisor-crm/internal/app/domain/followup"
	"github.com/advisorhq/advisor-crm/internal/app/storage"
	"github.com/advisorhq/advisor-crm/pkg/logger"
)

// Service manages follow-up records.
type Service struct {
	store storage.FollowUpStore
	log   *logger.Logger
}

// New constructs a follow-up service.
func New(store storage.FollowUpStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("followups")
	}
	return &Service{store: store, log: log}
}

// List returns every follow-up.
func (s *Service) List(ctx context.Context) ([]followup.FollowUp, error) {
	return s.store.ListFollowUps(ctx)
}

// ListByClient returns the follow-ups referencing one client.
func (s *Service) ListByClient(ctx context.Context, clientID string) ([]followup.FollowUp, error) {
	return s.store.ListFollowUpsByClient(ctx, clientID)
}

// ListUpcoming returns pending follow-ups scheduled after now, earliest
// first. The answer reflects the wall clock at call time; nothing is cached.
func (s *Service) ListUpcoming(ctx context.Context) ([]followup.FollowUp, error) {
	return s.store.ListUpcomingFollowUps(ctx)
}

// Get returns a follow-up by id, comma-ok absent.
func (s *Service) Get(ctx context.Context, id string) (followup.FollowUp, bool, error) {
	return s.store.GetFollowUp(ctx, id)
}

// Create stores a new follow-up. The client reference is deliberately not
// checked against the client collection.
func (s *Service) Create(ctx context.Context, ins followup.Insert) (followup.FollowUp, error) {
	ins.Title = strings.TrimSpace(ins.Title)

	f, err := s.store.CreateFollowUp(ctx, ins)
	if err != nil {
		return followup.FollowUp{}, err
	}
	s.log.WithField("follow_up_id", f.ID).
		WithField("client_id", f.ClientID).
		WithField("scheduled_date", f.ScheduledDate).
		Info("follow-up created")
	return f, nil
}

// Update applies a partial update to an existing follow-up.
func (s *Service) Update(ctx context.Context, id string, patch followup.Patch) (followup.FollowUp, bool, error) {
	f, ok, err := s.store.UpdateFollowUp(ctx, id, patch)
	if err != nil || !ok {
		return followup.FollowUp{}, ok, err
	}
	s.log.WithField("follow_up_id", f.ID).Info("follow-up updated")
	return f, true, nil
}

// Delete removes a follow-up.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := s.store.DeleteFollowUp(ctx, id)
	if err == nil && ok {
		s.log.WithField("follow_up_id", id).Info("follow-up deleted")
	}
	return ok, err
}
