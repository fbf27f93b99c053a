package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/advisorhq/advisor-crm/internal/app/domain/client"
	"github.com/advisorhq/advisor-crm/internal/app/domain/followup"
	"github.com/advisorhq/advisor-crm/internal/app/domain/integration"
	"github.com/advisorhq/advisor-crm/internal/app/domain/metric"
	"github.com/advisorhq/advisor-crm/internal/app/storage"
)

// testClock returns a clock that advances one second per call, so records
// created in sequence get distinct, ordered timestamps.
func testClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func strPtr(s string) *string { return &s }

func TestCreateClientDefaultsStatus(t *testing.T) {
	store := New()
	ctx := context.Background()

	created, err := store.CreateClient(ctx, client.Insert{
		Name:           "Ada Lovelace",
		Email:          "ada@example.com",
		InvestmentType: client.InvestmentRetirement,
	})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	if created.Status != client.StatusActive {
		t.Fatalf("expected default status %q, got %q", client.StatusActive, created.Status)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}
}

func TestGetClientAbsentIsNotAnError(t *testing.T) {
	store := New()

	rec, ok, err := store.GetClient(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected comma-ok false, got record %+v", rec)
	}
}

func TestUpdateClientMergesPatch(t *testing.T) {
	store := New()
	ctx := context.Background()

	created, err := store.CreateClient(ctx, client.Insert{
		Name:           "Ada Lovelace",
		Email:          "ada@example.com",
		Phone:          strPtr("555-0100"),
		InvestmentType: client.InvestmentRetirement,
	})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	updated, ok, err := store.UpdateClient(ctx, created.ID, client.Patch{
		Status: strPtr(client.StatusInactive),
		Notes:  strPtr("moved abroad"),
	})
	if err != nil {
		t.Fatalf("update client: %v", err)
	}
	if !ok {
		t.Fatal("expected client to be found")
	}
	if updated.Status != client.StatusInactive {
		t.Fatalf("expected patched status, got %q", updated.Status)
	}
	if updated.Notes == nil || *updated.Notes != "moved abroad" {
		t.Fatalf("expected patched notes, got %v", updated.Notes)
	}
	// Untouched fields survive.
	if updated.Name != "Ada Lovelace" {
		t.Fatalf("expected name to be retained, got %q", updated.Name)
	}
	if updated.Phone == nil || *updated.Phone != "555-0100" {
		t.Fatalf("expected phone to be retained, got %v", updated.Phone)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) && !updated.UpdatedAt.Equal(updated.CreatedAt) {
		t.Fatal("expected updatedAt >= createdAt")
	}

	_, ok, err = store.UpdateClient(ctx, "no-such-id", client.Patch{Name: strPtr("x")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected comma-ok false for unknown id")
	}
}

func TestUpdateClientEmptyPatchAdvancesOnlyUpdatedAt(t *testing.T) {
	store := New().WithClock(testClock(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)))
	ctx := context.Background()

	created, err := store.CreateClient(ctx, client.Insert{
		Name:           "Grace Hopper",
		Email:          "grace@example.com",
		Phone:          strPtr("555-0101"),
		Status:         client.StatusPending,
		InvestmentType: client.InvestmentInsurance,
		PortfolioValue: strPtr("99000.00"),
		Notes:          strPtr("prefers email"),
	})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	updated, ok, err := store.UpdateClient(ctx, created.ID, client.Patch{})
	if err != nil {
		t.Fatalf("update client: %v", err)
	}
	if !ok {
		t.Fatal("expected client to be found")
	}

	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("expected updatedAt to advance, got %v then %v", created.UpdatedAt, updated.UpdatedAt)
	}
	// Everything else is the record as created.
	updated.UpdatedAt = created.UpdatedAt
	if updated.ID != created.ID ||
		updated.Name != created.Name ||
		updated.Email != created.Email ||
		updated.Status != created.Status ||
		updated.InvestmentType != created.InvestmentType ||
		!updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("empty patch changed the record: %+v vs %+v", updated, created)
	}
	if *updated.Phone != *created.Phone || *updated.PortfolioValue != *created.PortfolioValue || *updated.Notes != *created.Notes {
		t.Fatal("empty patch changed pointer fields")
	}
}

func TestCreatedClientIDsAreUnique(t *testing.T) {
	store := New()
	ctx := context.Background()

	seen := make(map[string]struct{})
	for i := 0; i < 25; i++ {
		c, err := store.CreateClient(ctx, client.Insert{
			Name:  fmt.Sprintf("Client %d", i),
			Email: fmt.Sprintf("client%d@example.com", i),
		})
		if err != nil {
			t.Fatalf("create client %d: %v", i, err)
		}
		if c.ID == "" {
			t.Fatalf("create client %d: empty id", i)
		}
		if _, dup := seen[c.ID]; dup {
			t.Fatalf("duplicate id %q at create %d", c.ID, i)
		}
		seen[c.ID] = struct{}{}
	}
}

func TestDeleteClient(t *testing.T) {
	store := New()
	ctx := context.Background()

	created, err := store.CreateClient(ctx, client.Insert{
		Name:           "Ada Lovelace",
		Email:          "ada@example.com",
		InvestmentType: client.InvestmentInsurance,
	})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	removed, err := store.DeleteClient(ctx, created.ID)
	if err != nil {
		t.Fatalf("delete client: %v", err)
	}
	if !removed {
		t.Fatal("expected delete to report removal")
	}

	removed, err = store.DeleteClient(ctx, created.ID)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if removed {
		t.Fatal("expected second delete to report absence")
	}
}

func TestCreateClientRejectsDuplicateEmail(t *testing.T) {
	store := New()
	ctx := context.Background()

	if _, err := store.CreateClient(ctx, client.Insert{
		Name:           "Ada Lovelace",
		Email:          "ada@example.com",
		InvestmentType: client.InvestmentRetirement,
	}); err != nil {
		t.Fatalf("create client: %v", err)
	}

	// Case-insensitive match.
	_, err := store.CreateClient(ctx, client.Insert{
		Name:           "Impostor",
		Email:          "ADA@example.com",
		InvestmentType: client.InvestmentRetirement,
	})
	if !errors.Is(err, storage.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUpdateClientRejectsDuplicateEmail(t *testing.T) {
	store := New()
	ctx := context.Background()

	if _, err := store.CreateClient(ctx, client.Insert{
		Name:           "Ada",
		Email:          "ada@example.com",
		InvestmentType: client.InvestmentRetirement,
	}); err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := store.CreateClient(ctx, client.Insert{
		Name:           "Grace",
		Email:          "grace@example.com",
		InvestmentType: client.InvestmentInvestment,
	})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	_, _, err = store.UpdateClient(ctx, second.ID, client.Patch{Email: strPtr("ada@example.com")})
	if !errors.Is(err, storage.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	// A client may keep its own email through a patch.
	_, ok, err := store.UpdateClient(ctx, second.ID, client.Patch{
		Email: strPtr("grace@example.com"),
		Name:  strPtr("Grace Hopper"),
	})
	if err != nil {
		t.Fatalf("self-email patch: %v", err)
	}
	if !ok {
		t.Fatal("expected client to be found")
	}
}

func TestListClientsOrderedByCreation(t *testing.T) {
	store := New().WithClock(testClock(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)))
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		if _, err := store.CreateClient(ctx, client.Insert{
			Name:           "Client " + email,
			Email:          email,
			InvestmentType: client.InvestmentRetirement,
		}); err != nil {
			t.Fatalf("create %s: %v", email, err)
		}
	}

	records, err := store.ListClients(ctx)
	if err != nil {
		t.Fatalf("list clients: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 clients, got %d", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].CreatedAt.Before(records[i-1].CreatedAt) {
			t.Fatal("expected clients ordered by createdAt")
		}
	}
}

func TestStoredRecordsAreIsolatedFromCallers(t *testing.T) {
	store := New()
	ctx := context.Background()

	created, err := store.CreateClient(ctx, client.Insert{
		Name:           "Ada",
		Email:          "ada@example.com",
		Phone:          strPtr("555-0100"),
		InvestmentType: client.InvestmentRetirement,
	})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	// Mutating the returned record must not leak into the store.
	*created.Phone = "tampered"

	fetched, ok, err := store.GetClient(ctx, created.ID)
	if err != nil || !ok {
		t.Fatalf("get client: ok=%v err=%v", ok, err)
	}
	if *fetched.Phone != "555-0100" {
		t.Fatalf("store state was mutated through a returned record: %q", *fetched.Phone)
	}
}

func TestDeleteClientLeavesFollowUpsInPlace(t *testing.T) {
	store := New()
	ctx := context.Background()

	created, err := store.CreateClient(ctx, client.Insert{
		Name:           "Ada",
		Email:          "ada@example.com",
		InvestmentType: client.InvestmentRetirement,
	})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	if _, err := store.CreateFollowUp(ctx, followup.Insert{
		ClientID:      created.ID,
		Title:         "quarterly review",
		ScheduledDate: time.Now().Add(24 * time.Hour),
		Type:          followup.TypeReview,
	}); err != nil {
		t.Fatalf("create follow-up: %v", err)
	}

	if _, err := store.DeleteClient(ctx, created.ID); err != nil {
		t.Fatalf("delete client: %v", err)
	}

	remaining, err := store.ListFollowUpsByClient(ctx, created.ID)
	if err != nil {
		t.Fatalf("list follow-ups: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("expected dangling follow-up to survive, got %d records", len(remaining))
	}
}

func TestCreateFollowUpDefaults(t *testing.T) {
	store := New()

	created, err := store.CreateFollowUp(context.Background(), followup.Insert{
		ClientID:      "some-client",
		Title:         "call about rollover",
		ScheduledDate: time.Now().Add(time.Hour),
		Type:          followup.TypeCall,
	})
	if err != nil {
		t.Fatalf("create follow-up: %v", err)
	}
	if created.Status != followup.StatusPending {
		t.Fatalf("expected default status pending, got %q", created.Status)
	}
	if created.Priority != followup.PriorityMedium {
		t.Fatalf("expected default priority medium, got %q", created.Priority)
	}
}

func TestListUpcomingFollowUps(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	store := New().WithClock(func() time.Time { return clock })
	ctx := context.Background()

	mk := func(title string, offset time.Duration, status string) {
		t.Helper()
		if _, err := store.CreateFollowUp(ctx, followup.Insert{
			ClientID:      "c1",
			Title:         title,
			ScheduledDate: base.Add(offset),
			Type:          followup.TypeCall,
			Status:        status,
		}); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}

	mk("past", -time.Hour, followup.StatusPending)
	mk("soon", time.Hour, followup.StatusPending)
	mk("later", 48*time.Hour, followup.StatusPending)
	mk("done", 2*time.Hour, followup.StatusCompleted)
	mk("dropped", 3*time.Hour, followup.StatusCancelled)

	upcoming, err := store.ListUpcomingFollowUps(ctx)
	if err != nil {
		t.Fatalf("list upcoming: %v", err)
	}
	if len(upcoming) != 2 {
		t.Fatalf("expected 2 upcoming follow-ups, got %d", len(upcoming))
	}
	if upcoming[0].Title != "soon" || upcoming[1].Title != "later" {
		t.Fatalf("expected ascending schedule order, got %q then %q", upcoming[0].Title, upcoming[1].Title)
	}

	// The view is recomputed per call: once the clock passes "soon",
	// it drops out.
	clock = base.Add(2 * time.Hour)
	upcoming, err = store.ListUpcomingFollowUps(ctx)
	if err != nil {
		t.Fatalf("list upcoming after clock move: %v", err)
	}
	if len(upcoming) != 1 || upcoming[0].Title != "later" {
		t.Fatalf("expected only %q to remain, got %d records", "later", len(upcoming))
	}
}

func TestLatestMetric(t *testing.T) {
	store := New()
	ctx := context.Background()

	if _, _, err := store.LatestMetric(ctx); err != nil {
		t.Fatalf("latest on empty store: %v", err)
	}
	if _, ok, _ := store.LatestMetric(ctx); ok {
		t.Fatal("expected comma-ok false on empty store")
	}

	older, err := store.CreateMetric(ctx, metric.Insert{
		Date:            time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		TotalRevenue:    "100000.00",
		ActiveClients:   10,
		ConversionRate:  "20.0",
		PortfolioGrowth: "5.0",
	})
	if err != nil {
		t.Fatalf("create older metric: %v", err)
	}
	newer, err := store.CreateMetric(ctx, metric.Insert{
		Date:            time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		TotalRevenue:    "120000.00",
		ActiveClients:   12,
		ConversionRate:  "22.0",
		PortfolioGrowth: "6.0",
	})
	if err != nil {
		t.Fatalf("create newer metric: %v", err)
	}

	latest, ok, err := store.LatestMetric(ctx)
	if err != nil {
		t.Fatalf("latest metric: %v", err)
	}
	if !ok {
		t.Fatal("expected a latest metric")
	}
	if latest.ID != newer.ID {
		t.Fatalf("expected metric %s, got %s (older is %s)", newer.ID, latest.ID, older.ID)
	}
}

func TestListMetricsByDateRangeBoundsAreInclusive(t *testing.T) {
	store := New()
	ctx := context.Background()

	dates := []time.Time{
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range dates {
		if _, err := store.CreateMetric(ctx, metric.Insert{
			Date:            d,
			TotalRevenue:    "1.00",
			ActiveClients:   1,
			ConversionRate:  "1.0",
			PortfolioGrowth: "1.0",
		}); err != nil {
			t.Fatalf("create metric for %s: %v", d, err)
		}
	}

	records, err := store.ListMetricsByDateRange(ctx, dates[0], dates[2])
	if err != nil {
		t.Fatalf("list by range: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected both bounds included, got %d of 3", len(records))
	}

	records, err = store.ListMetricsByDateRange(ctx, dates[1], dates[1])
	if err != nil {
		t.Fatalf("list by degenerate range: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected single-day range to match one record, got %d", len(records))
	}
}

func TestCreateIntegrationDefaultsStatus(t *testing.T) {
	store := New()

	created, err := store.CreateIntegration(context.Background(), integration.Insert{
		Name: "CRM Sync",
		Type: "crm",
		Configuration: map[string]any{
			"endpoint": "https://crm.example.com",
		},
	})
	if err != nil {
		t.Fatalf("create integration: %v", err)
	}
	if created.Status != integration.StatusDisconnected {
		t.Fatalf("expected default status disconnected, got %q", created.Status)
	}
}

func TestIntegrationConfigurationIsCloned(t *testing.T) {
	store := New()
	ctx := context.Background()

	cfg := map[string]any{"endpoint": "https://crm.example.com"}
	created, err := store.CreateIntegration(ctx, integration.Insert{
		Name:          "CRM Sync",
		Type:          "crm",
		Configuration: cfg,
	})
	if err != nil {
		t.Fatalf("create integration: %v", err)
	}

	cfg["endpoint"] = "tampered"
	created.Configuration["endpoint"] = "also tampered"

	fetched, ok, err := store.GetIntegration(ctx, created.ID)
	if err != nil || !ok {
		t.Fatalf("get integration: ok=%v err=%v", ok, err)
	}
	if fetched.Configuration["endpoint"] != "https://crm.example.com" {
		t.Fatalf("configuration leaked caller mutations: %v", fetched.Configuration)
	}
}

func TestSeededStoreMatchesDemoDataset(t *testing.T) {
	store := NewSeeded()
	ctx := context.Background()

	clientsList, err := store.ListClients(ctx)
	if err != nil {
		t.Fatalf("list clients: %v", err)
	}
	if len(clientsList) != 3 {
		t.Fatalf("expected 3 seeded clients, got %d", len(clientsList))
	}

	followUps, err := store.ListFollowUps(ctx)
	if err != nil {
		t.Fatalf("list follow-ups: %v", err)
	}
	if len(followUps) != 3 {
		t.Fatalf("expected 3 seeded follow-ups, got %d", len(followUps))
	}
	for _, f := range followUps {
		if f.Status != followup.StatusPending {
			t.Fatalf("expected seeded follow-ups pending, got %q", f.Status)
		}
	}

	if _, ok, _ := store.LatestMetric(ctx); !ok {
		t.Fatal("expected a seeded metric snapshot")
	}

	integrationsList, err := store.ListIntegrations(ctx)
	if err != nil {
		t.Fatalf("list integrations: %v", err)
	}
	if len(integrationsList) != 3 {
		t.Fatalf("expected 3 seeded integrations, got %d", len(integrationsList))
	}
}
