// Package integrations manages the external integration registry. Records
// here describe hookups; they carry status, not live connections.
package integrations

import (
	"context"
	"strings"

	"github.com/advisorhq/advisor-crm/internal/app/domain/integration"
	"github.com/advisorhq/advisor-crm/internal/app/storage"
	"github.com/advisorhq/advisor-crm/pkg/logger"
)

// Service manages integration records.
type Service struct {
	store storage.IntegrationStore
	log   *logger.Logger
}

// New constructs an integration service.
func New(store storage.IntegrationStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("integrations")
	}
	return &Service{store: store, log: log}
}

// List returns every integration.
func (s *Service) List(ctx context.Context) ([]integration.Integration, error) {
	return s.store.ListIntegrations(ctx)
}

// Get returns an integration by id, comma-ok absent.
func (s *Service) Get(ctx context.Context, id string) (integration.Integration, bool, error) {
	return s.store.GetIntegration(ctx, id)
}

// Create registers a new integration.
func (s *Service) Create(ctx context.Context, ins integration.Insert) (integration.Integration, error) {
	ins.Name = strings.TrimSpace(ins.Name)
	ins.Type = strings.TrimSpace(ins.Type)

	in, err := s.store.CreateIntegration(ctx, ins)
	if err != nil {
		return integration.Integration{}, err
	}
	s.log.WithField("integration_id", in.ID).
		WithField("type", in.Type).
		Info("integration registered")
	return in, nil
}

// Update applies a partial update. There is no delete: integrations are
// disconnected, never removed.
func (s *Service) Update(ctx context.Context, id string, patch integration.Patch) (integration.Integration, bool, error) {
	in, ok, err := s.store.UpdateIntegration(ctx, id, patch)
	if err != nil || !ok {
		return integration.Integration{}, ok, err
	}
	s.log.WithField("integration_id", in.ID).Info("integration updated")
	return in, true, nil
}
