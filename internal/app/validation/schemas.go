package validation

import (
	"encoding/json"

	"github.com/advisorhq/advisor-crm/internal/app/domain/client"
	"github.com/advisorhq/advisor-crm/internal/app/domain/followup"
	"github.com/advisorhq/advisor-crm/internal/app/domain/integration"
	"github.com/advisorhq/advisor-crm/internal/app/domain/metric"
)

// ClientInsert validates a client creation payload.
func ClientInsert(raw map[string]any) (client.Insert, error) {
	var (
		iss issues
		ins client.Insert
	)

	if name, ok := requireString(raw, "name", &iss); ok {
		if name == "" {
			iss.add("name", ReasonMissing, "name must not be empty")
		} else {
			ins.Name = name
		}
	}
	if email, ok := requireString(raw, "email", &iss); ok {
		ins.Email = email
	}
	ins.Phone, _ = optionalString(raw, "phone", &iss)
	if status, ok := optionalEnum(raw, "status", client.Statuses, &iss); ok && status != nil {
		ins.Status = *status
	}
	if it, ok := requireEnum(raw, "investmentType", client.InvestmentTypes, &iss); ok {
		ins.InvestmentType = it
	}
	ins.PortfolioValue, _ = optionalString(raw, "portfolioValue", &iss)
	ins.LastContact, _ = optionalTimestamp(raw, "lastContact", &iss)
	ins.Notes, _ = optionalString(raw, "notes", &iss)

	if err := iss.err(); err != nil {
		return client.Insert{}, err
	}
	return ins, nil
}

// ClientPatch validates a partial client update. Every field is optional but
// present fields must still type-check and satisfy the enums.
func ClientPatch(raw map[string]any) (client.Patch, error) {
	var (
		iss   issues
		patch client.Patch
	)

	patch.Name, _ = optionalString(raw, "name", &iss)
	patch.Email, _ = optionalString(raw, "email", &iss)
	patch.Phone, _ = optionalString(raw, "phone", &iss)
	patch.Status, _ = optionalEnum(raw, "status", client.Statuses, &iss)
	patch.InvestmentType, _ = optionalEnum(raw, "investmentType", client.InvestmentTypes, &iss)
	patch.PortfolioValue, _ = optionalString(raw, "portfolioValue", &iss)
	patch.LastContact, _ = optionalTimestamp(raw, "lastContact", &iss)
	patch.Notes, _ = optionalString(raw, "notes", &iss)

	if err := iss.err(); err != nil {
		return client.Patch{}, err
	}
	return patch, nil
}

// FollowUpInsert validates a follow-up creation payload. scheduledDate is
// normalized to a timestamp before it reaches the store.
func FollowUpInsert(raw map[string]any) (followup.Insert, error) {
	var (
		iss issues
		ins followup.Insert
	)

	if clientID, ok := requireString(raw, "clientId", &iss); ok {
		ins.ClientID = clientID
	}
	if title, ok := requireString(raw, "title", &iss); ok {
		ins.Title = title
	}
	ins.Description, _ = optionalString(raw, "description", &iss)
	if date, ok := requireTimestamp(raw, "scheduledDate", &iss); ok {
		ins.ScheduledDate = date
	}
	if typ, ok := requireEnum(raw, "type", followup.Types, &iss); ok {
		ins.Type = typ
	}
	if status, ok := optionalEnum(raw, "status", followup.Statuses, &iss); ok && status != nil {
		ins.Status = *status
	}
	if priority, ok := optionalEnum(raw, "priority", followup.Priorities, &iss); ok && priority != nil {
		ins.Priority = *priority
	}

	if err := iss.err(); err != nil {
		return followup.Insert{}, err
	}
	return ins, nil
}

// FollowUpPatch validates a partial follow-up update.
func FollowUpPatch(raw map[string]any) (followup.Patch, error) {
	var (
		iss   issues
		patch followup.Patch
	)

	patch.ClientID, _ = optionalString(raw, "clientId", &iss)
	patch.Title, _ = optionalString(raw, "title", &iss)
	patch.Description, _ = optionalString(raw, "description", &iss)
	patch.ScheduledDate, _ = optionalTimestamp(raw, "scheduledDate", &iss)
	patch.Type, _ = optionalEnum(raw, "type", followup.Types, &iss)
	patch.Status, _ = optionalEnum(raw, "status", followup.Statuses, &iss)
	patch.Priority, _ = optionalEnum(raw, "priority", followup.Priorities, &iss)

	if err := iss.err(); err != nil {
		return followup.Patch{}, err
	}
	return patch, nil
}

// MetricInsert validates a snapshot payload.
func MetricInsert(raw map[string]any) (metric.Insert, error) {
	var (
		iss issues
		ins metric.Insert
	)

	if date, ok := requireTimestamp(raw, "date", &iss); ok {
		ins.Date = date
	}
	if rev, ok := requireString(raw, "totalRevenue", &iss); ok {
		ins.TotalRevenue = rev
	}
	if active, ok := requireInt(raw, "activeClients", &iss); ok {
		ins.ActiveClients = active
	}
	if rate, ok := requireString(raw, "conversionRate", &iss); ok {
		ins.ConversionRate = rate
	}
	if growth, ok := requireString(raw, "portfolioGrowth", &iss); ok {
		ins.PortfolioGrowth = growth
	}
	if md, ok := optionalObject(raw, "monthlyData", &iss); ok && md != nil {
		parsed, perr := parseMonthlyData(md)
		if perr != nil {
			iss.add("monthlyData", ReasonInvalidType, "monthlyData must carry revenue and clients arrays")
		} else {
			ins.MonthlyData = parsed
		}
	}

	if err := iss.err(); err != nil {
		return metric.Insert{}, err
	}
	return ins, nil
}

// IntegrationInsert validates an integration registration payload.
func IntegrationInsert(raw map[string]any) (integration.Insert, error) {
	var (
		iss issues
		ins integration.Insert
	)

	if name, ok := requireString(raw, "name", &iss); ok {
		ins.Name = name
	}
	// type is an open set; any string is accepted.
	if typ, ok := requireString(raw, "type", &iss); ok {
		ins.Type = typ
	}
	if status, ok := optionalEnum(raw, "status", integration.Statuses, &iss); ok && status != nil {
		ins.Status = *status
	}
	ins.Description, _ = optionalString(raw, "description", &iss)
	ins.Configuration, _ = optionalObject(raw, "configuration", &iss)
	ins.LastSync, _ = optionalTimestamp(raw, "lastSync", &iss)

	if err := iss.err(); err != nil {
		return integration.Insert{}, err
	}
	return ins, nil
}

// IntegrationPatch validates a partial integration update.
func IntegrationPatch(raw map[string]any) (integration.Patch, error) {
	var (
		iss   issues
		patch integration.Patch
	)

	patch.Name, _ = optionalString(raw, "name", &iss)
	patch.Type, _ = optionalString(raw, "type", &iss)
	patch.Status, _ = optionalEnum(raw, "status", integration.Statuses, &iss)
	patch.Description, _ = optionalString(raw, "description", &iss)
	patch.Configuration, _ = optionalObject(raw, "configuration", &iss)
	patch.LastSync, _ = optionalTimestamp(raw, "lastSync", &iss)

	if err := iss.err(); err != nil {
		return integration.Patch{}, err
	}
	return patch, nil
}

func parseMonthlyData(raw map[string]any) (*metric.MonthlyData, error) {
	// Round-trip through JSON rather than walking both arrays by hand.
	buf, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var md metric.MonthlyData
	if err := json.Unmarshal(buf, &md); err != nil {
		return nil, err
	}
	return &md, nil
}
