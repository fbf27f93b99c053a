// Package postgres implements the storage interfaces on PostgreSQL via sqlx.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/advisorhq/advisor-crm/internal/app/domain/client"
	"github.com/advisorhq/advisor-crm/internal/app/domain/followup"
	"github.com/advisorhq/advisor-crm/internal/app/domain/integration"
	"github.com/advisorhq/advisor-crm/internal/app/domain/metric"
	"github.com/advisorhq/advisor-crm/internal/app/storage"
)

// pq error code for unique constraint violations.
const uniqueViolation = "23505"

// Store implements the storage interfaces backed by PostgreSQL.
type Store struct {
	db *sqlx.DB
}

var _ storage.ClientStore = (*Store)(nil)
var _ storage.FollowUpStore = (*Store)(nil)
var _ storage.MetricStore = (*Store)(nil)
var _ storage.IntegrationStore = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// --- ClientStore ------------------------------------------------------------

const clientColumns = `id, name, email, phone, status, investment_type, portfolio_value, last_contact, notes, created_at, updated_at`

func (s *Store) ListClients(ctx context.Context) ([]client.Client, error) {
	records := []client.Client{}
	err := s.db.SelectContext(ctx, &records, `
		SELECT `+clientColumns+`
		FROM clients
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return records, nil
}

func (s *Store) GetClient(ctx context.Context, id string) (client.Client, bool, error) {
	var rec client.Client
	err := s.db.GetContext(ctx, &rec, `
		SELECT `+clientColumns+`
		FROM clients
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return client.Client{}, false, nil
	}
	if err != nil {
		return client.Client{}, false, fmt.Errorf("failed to get client: %w", err)
	}
	return rec, true, nil
}

func (s *Store) CreateClient(ctx context.Context, ins client.Insert) (client.Client, error) {
	now := time.Now().UTC()
	rec := client.Client{
		ID:             uuid.NewString(),
		Name:           ins.Name,
		Email:          ins.Email,
		Phone:          ins.Phone,
		Status:         ins.Status,
		InvestmentType: ins.InvestmentType,
		PortfolioValue: ins.PortfolioValue,
		LastContact:    ins.LastContact,
		Notes:          ins.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if rec.Status == "" {
		rec.Status = client.StatusActive
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO clients (`+clientColumns+`)
		VALUES (:id, :name, :email, :phone, :status, :investment_type, :portfolio_value, :last_contact, :notes, :created_at, :updated_at)
	`, rec)
	if isUniqueViolation(err) {
		return client.Client{}, storage.ErrDuplicateEmail
	}
	if err != nil {
		return client.Client{}, fmt.Errorf("failed to create client: %w", err)
	}
	return rec, nil
}

func (s *Store) UpdateClient(ctx context.Context, id string, patch client.Patch) (client.Client, bool, error) {
	var rec client.Client
	err := s.db.GetContext(ctx, &rec, `
		UPDATE clients SET
			name = COALESCE($2, name),
			email = COALESCE($3, email),
			phone = COALESCE($4, phone),
			status = COALESCE($5, status),
			investment_type = COALESCE($6, investment_type),
			portfolio_value = COALESCE($7, portfolio_value),
			last_contact = COALESCE($8, last_contact),
			notes = COALESCE($9, notes),
			updated_at = $10
		WHERE id = $1
		RETURNING `+clientColumns+`
	`, id, patch.Name, patch.Email, patch.Phone, patch.Status, patch.InvestmentType,
		patch.PortfolioValue, patch.LastContact, patch.Notes, time.Now().UTC())
	if errors.Is(err, sql.ErrNoRows) {
		return client.Client{}, false, nil
	}
	if isUniqueViolation(err) {
		return client.Client{}, false, storage.ErrDuplicateEmail
	}
	if err != nil {
		return client.Client{}, false, fmt.Errorf("failed to update client: %w", err)
	}
	return rec, true, nil
}

func (s *Store) DeleteClient(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete client: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return rows > 0, nil
}

// --- FollowUpStore ----------------------------------------------------------

const followUpColumns = `id, client_id, title, description, scheduled_date, type, status, priority, created_at, updated_at`

func (s *Store) ListFollowUps(ctx context.Context) ([]followup.FollowUp, error) {
	records := []followup.FollowUp{}
	err := s.db.SelectContext(ctx, &records, `
		SELECT `+followUpColumns+`
		FROM follow_ups
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list follow-ups: %w", err)
	}
	return records, nil
}

func (s *Store) ListFollowUpsByClient(ctx context.Context, clientID string) ([]followup.FollowUp, error) {
	records := []followup.FollowUp{}
	err := s.db.SelectContext(ctx, &records, `
		SELECT `+followUpColumns+`
		FROM follow_ups
		WHERE client_id = $1
		ORDER BY created_at, id
	`, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list follow-ups by client: %w", err)
	}
	return records, nil
}

func (s *Store) ListUpcomingFollowUps(ctx context.Context) ([]followup.FollowUp, error) {
	records := []followup.FollowUp{}
	err := s.db.SelectContext(ctx, &records, `
		SELECT `+followUpColumns+`
		FROM follow_ups
		WHERE status = $1 AND scheduled_date > $2
		ORDER BY scheduled_date
	`, followup.StatusPending, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming follow-ups: %w", err)
	}
	return records, nil
}

func (s *Store) GetFollowUp(ctx context.Context, id string) (followup.FollowUp, bool, error) {
	var rec followup.FollowUp
	err := s.db.GetContext(ctx, &rec, `
		SELECT `+followUpColumns+`
		FROM follow_ups
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return followup.FollowUp{}, false, nil
	}
	if err != nil {
		return followup.FollowUp{}, false, fmt.Errorf("failed to get follow-up: %w", err)
	}
	return rec, true, nil
}

func (s *Store) CreateFollowUp(ctx context.Context, ins followup.Insert) (followup.FollowUp, error) {
	now := time.Now().UTC()
	rec := followup.FollowUp{
		ID:            uuid.NewString(),
		ClientID:      ins.ClientID,
		Title:         ins.Title,
		Description:   ins.Description,
		ScheduledDate: ins.ScheduledDate,
		Type:          ins.Type,
		Status:        ins.Status,
		Priority:      ins.Priority,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if rec.Status == "" {
		rec.Status = followup.StatusPending
	}
	if rec.Priority == "" {
		rec.Priority = followup.PriorityMedium
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO follow_ups (`+followUpColumns+`)
		VALUES (:id, :client_id, :title, :description, :scheduled_date, :type, :status, :priority, :created_at, :updated_at)
	`, rec)
	if err != nil {
		return followup.FollowUp{}, fmt.Errorf("failed to create follow-up: %w", err)
	}
	return rec, nil
}

func (s *Store) UpdateFollowUp(ctx context.Context, id string, patch followup.Patch) (followup.FollowUp, bool, error) {
	var rec followup.FollowUp
	err := s.db.GetContext(ctx, &rec, `
		UPDATE follow_ups SET
			client_id = COALESCE($2, client_id),
			title = COALESCE($3, title),
			description = COALESCE($4, description),
			scheduled_date = COALESCE($5, scheduled_date),
			type = COALESCE($6, type),
			status = COALESCE($7, status),
			priority = COALESCE($8, priority),
			updated_at = $9
		WHERE id = $1
		RETURNING `+followUpColumns+`
	`, id, patch.ClientID, patch.Title, patch.Description, patch.ScheduledDate,
		patch.Type, patch.Status, patch.Priority, time.Now().UTC())
	if errors.Is(err, sql.ErrNoRows) {
		return followup.FollowUp{}, false, nil
	}
	if err != nil {
		return followup.FollowUp{}, false, fmt.Errorf("failed to update follow-up: %w", err)
	}
	return rec, true, nil
}

func (s *Store) DeleteFollowUp(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM follow_ups WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete follow-up: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return rows > 0, nil
}

// --- MetricStore ------------------------------------------------------------

const metricColumns = `id, date, total_revenue, active_clients, conversion_rate, portfolio_growth, monthly_data`

// metricRow carries the raw JSONB column alongside the scalar fields.
type metricRow struct {
	ID              string    `db:"id"`
	Date            time.Time `db:"date"`
	TotalRevenue    string    `db:"total_revenue"`
	ActiveClients   int       `db:"active_clients"`
	ConversionRate  string    `db:"conversion_rate"`
	PortfolioGrowth string    `db:"portfolio_growth"`
	MonthlyData     []byte    `db:"monthly_data"`
}

func (r metricRow) toMetric() (metric.Metric, error) {
	rec := metric.Metric{
		ID:              r.ID,
		Date:            r.Date,
		TotalRevenue:    r.TotalRevenue,
		ActiveClients:   r.ActiveClients,
		ConversionRate:  r.ConversionRate,
		PortfolioGrowth: r.PortfolioGrowth,
	}
	if len(r.MonthlyData) > 0 {
		var md metric.MonthlyData
		if err := json.Unmarshal(r.MonthlyData, &md); err != nil {
			return metric.Metric{}, fmt.Errorf("failed to decode monthly data: %w", err)
		}
		rec.MonthlyData = &md
	}
	return rec, nil
}

func metricsFromRows(rows []metricRow) ([]metric.Metric, error) {
	records := make([]metric.Metric, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toMetric()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *Store) ListMetrics(ctx context.Context) ([]metric.Metric, error) {
	rows := []metricRow{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+metricColumns+`
		FROM metrics
		ORDER BY date, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list metrics: %w", err)
	}
	return metricsFromRows(rows)
}

func (s *Store) GetMetric(ctx context.Context, id string) (metric.Metric, bool, error) {
	var row metricRow
	err := s.db.GetContext(ctx, &row, `
		SELECT `+metricColumns+`
		FROM metrics
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return metric.Metric{}, false, nil
	}
	if err != nil {
		return metric.Metric{}, false, fmt.Errorf("failed to get metric: %w", err)
	}
	rec, err := row.toMetric()
	if err != nil {
		return metric.Metric{}, false, err
	}
	return rec, true, nil
}

func (s *Store) CreateMetric(ctx context.Context, ins metric.Insert) (metric.Metric, error) {
	rec := metric.Metric{
		ID:              uuid.NewString(),
		Date:            ins.Date,
		TotalRevenue:    ins.TotalRevenue,
		ActiveClients:   ins.ActiveClients,
		ConversionRate:  ins.ConversionRate,
		PortfolioGrowth: ins.PortfolioGrowth,
		MonthlyData:     ins.MonthlyData,
	}

	var monthlyJSON []byte
	if rec.MonthlyData != nil {
		var err error
		monthlyJSON, err = json.Marshal(rec.MonthlyData)
		if err != nil {
			return metric.Metric{}, fmt.Errorf("failed to encode monthly data: %w", err)
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO metrics (`+metricColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, rec.ID, rec.Date, rec.TotalRevenue, rec.ActiveClients, rec.ConversionRate,
		rec.PortfolioGrowth, monthlyJSON)
	if err != nil {
		return metric.Metric{}, fmt.Errorf("failed to create metric: %w", err)
	}
	return rec, nil
}

func (s *Store) LatestMetric(ctx context.Context) (metric.Metric, bool, error) {
	var row metricRow
	err := s.db.GetContext(ctx, &row, `
		SELECT `+metricColumns+`
		FROM metrics
		ORDER BY date DESC
		LIMIT 1
	`)
	if errors.Is(err, sql.ErrNoRows) {
		return metric.Metric{}, false, nil
	}
	if err != nil {
		return metric.Metric{}, false, fmt.Errorf("failed to get latest metric: %w", err)
	}
	rec, err := row.toMetric()
	if err != nil {
		return metric.Metric{}, false, err
	}
	return rec, true, nil
}

func (s *Store) ListMetricsByDateRange(ctx context.Context, start, end time.Time) ([]metric.Metric, error) {
	rows := []metricRow{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+metricColumns+`
		FROM metrics
		WHERE date >= $1 AND date <= $2
		ORDER BY date, id
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list metrics by date range: %w", err)
	}
	return metricsFromRows(rows)
}

// --- IntegrationStore -------------------------------------------------------

const integrationColumns = `id, name, type, status, description, configuration, last_sync, created_at`

type integrationRow struct {
	ID            string     `db:"id"`
	Name          string     `db:"name"`
	Type          string     `db:"type"`
	Status        string     `db:"status"`
	Description   *string    `db:"description"`
	Configuration []byte     `db:"configuration"`
	LastSync      *time.Time `db:"last_sync"`
	CreatedAt     time.Time  `db:"created_at"`
}

func (r integrationRow) toIntegration() (integration.Integration, error) {
	rec := integration.Integration{
		ID:          r.ID,
		Name:        r.Name,
		Type:        r.Type,
		Status:      r.Status,
		Description: r.Description,
		LastSync:    r.LastSync,
		CreatedAt:   r.CreatedAt,
	}
	if len(r.Configuration) > 0 {
		if err := json.Unmarshal(r.Configuration, &rec.Configuration); err != nil {
			return integration.Integration{}, fmt.Errorf("failed to decode configuration: %w", err)
		}
	}
	return rec, nil
}

func (s *Store) ListIntegrations(ctx context.Context) ([]integration.Integration, error) {
	rows := []integrationRow{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+integrationColumns+`
		FROM integrations
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list integrations: %w", err)
	}
	records := make([]integration.Integration, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toIntegration()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *Store) GetIntegration(ctx context.Context, id string) (integration.Integration, bool, error) {
	var row integrationRow
	err := s.db.GetContext(ctx, &row, `
		SELECT `+integrationColumns+`
		FROM integrations
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return integration.Integration{}, false, nil
	}
	if err != nil {
		return integration.Integration{}, false, fmt.Errorf("failed to get integration: %w", err)
	}
	rec, err := row.toIntegration()
	if err != nil {
		return integration.Integration{}, false, err
	}
	return rec, true, nil
}

func (s *Store) CreateIntegration(ctx context.Context, ins integration.Insert) (integration.Integration, error) {
	rec := integration.Integration{
		ID:            uuid.NewString(),
		Name:          ins.Name,
		Type:          ins.Type,
		Status:        ins.Status,
		Description:   ins.Description,
		Configuration: ins.Configuration,
		LastSync:      ins.LastSync,
		CreatedAt:     time.Now().UTC(),
	}
	if rec.Status == "" {
		rec.Status = integration.StatusDisconnected
	}

	var configJSON []byte
	if rec.Configuration != nil {
		var err error
		configJSON, err = json.Marshal(rec.Configuration)
		if err != nil {
			return integration.Integration{}, fmt.Errorf("failed to encode configuration: %w", err)
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO integrations (`+integrationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, rec.ID, rec.Name, rec.Type, rec.Status, rec.Description, configJSON,
		rec.LastSync, rec.CreatedAt)
	if err != nil {
		return integration.Integration{}, fmt.Errorf("failed to create integration: %w", err)
	}
	return rec, nil
}

func (s *Store) UpdateIntegration(ctx context.Context, id string, patch integration.Patch) (integration.Integration, bool, error) {
	var configJSON []byte
	if patch.Configuration != nil {
		var err error
		configJSON, err = json.Marshal(patch.Configuration)
		if err != nil {
			return integration.Integration{}, false, fmt.Errorf("failed to encode configuration: %w", err)
		}
	}

	var row integrationRow
	err := s.db.GetContext(ctx, &row, `
		UPDATE integrations SET
			name = COALESCE($2, name),
			type = COALESCE($3, type),
			status = COALESCE($4, status),
			description = COALESCE($5, description),
			configuration = COALESCE($6, configuration),
			last_sync = COALESCE($7, last_sync)
		WHERE id = $1
		RETURNING `+integrationColumns+`
	`, id, patch.Name, patch.Type, patch.Status, patch.Description, configJSON, patch.LastSync)
	if errors.Is(err, sql.ErrNoRows) {
		return integration.Integration{}, false, nil
	}
	if err != nil {
		return integration.Integration{}, false, fmt.Errorf("failed to update integration: %w", err)
	}
	rec, err := row.toIntegration()
	if err != nil {
		return integration.Integration{}, false, err
	}
	return rec, true, nil
}
