// Package clients holds the client-book business logic.
package clients

import (
	"context"
	"strings"

	"github.com/advisorhq/advisor-crm/internal/app/domain/client"
	"github.com/advisorhq/advisor-crm/internal/app/storage"
	"github.com/advisorhq/advisor-crm/pkg/logger"
)

// Service manages client records.
type Service struct {
	store storage.ClientStore
	log   *logger.Logger
}

// New constructs a client service.
func New(store storage.ClientStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("clients")
	}
	return &Service{store: store, log: log}
}

// List returns every client.
func (s *Service) List(ctx context.Context) ([]client.Client, error) {
	return s.store.ListClients(ctx)
}

// Get returns a client by id, comma-ok absent.
func (s *Service) Get(ctx context.Context, id string) (client.Client, bool, error) {
	return s.store.GetClient(ctx, id)
}

// Create stores a new client. Email uniqueness is enforced by the store and
// surfaced as storage.ErrDuplicateEmail.
func (s *Service) Create(ctx context.Context, ins client.Insert) (client.Client, error) {
	ins.Name = strings.TrimSpace(ins.Name)
	ins.Email = strings.TrimSpace(ins.Email)

	c, err := s.store.CreateClient(ctx, ins)
	if err != nil {
		return client.Client{}, err
	}
	s.log.WithField("client_id", c.ID).
		WithField("status", c.Status).
		Info("client created")
	return c, nil
}

// Update applies a partial update to an existing client.
func (s *Service) Update(ctx context.Context, id string, patch client.Patch) (client.Client, bool, error) {
	c, ok, err := s.store.UpdateClient(ctx, id, patch)
	if err != nil || !ok {
		return client.Client{}, ok, err
	}
	s.log.WithField("client_id", c.ID).Info("client updated")
	return c, true, nil
}

// Delete removes a client. Follow-ups referencing it are intentionally left
// in place.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := s.store.DeleteClient(ctx, id)
	if err == nil && ok {
		s.log.WithField("client_id", id).Info("client deleted")
	}
	return ok, err
}
