package validation

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/advisorhq/advisor-crm/internal/app/domain/client"
	"github.com/advisorhq/advisor-crm/internal/app/domain/followup"
)

// decode mirrors what the HTTP layer hands the validators: a generic map
// produced by encoding/json, so numbers arrive as float64.
func decode(t *testing.T, body string) map[string]any {
	t.Helper()
	var raw map[string]any
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	return raw
}

func fieldReasons(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *validation.Error, got %T: %v", err, err)
	}
	reasons := make(map[string]string, len(verr.Fields))
	for _, f := range verr.Fields {
		reasons[f.Field] = f.Reason
	}
	return reasons
}

func TestClientInsertValid(t *testing.T) {
	ins, err := ClientInsert(decode(t, `{
		"name": "Ada Lovelace",
		"email": "ada@example.com",
		"phone": "555-0100",
		"investmentType": "retirement",
		"portfolioValue": "125000.50",
		"lastContact": "2025-05-20T10:00:00Z"
	}`))
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", ins.Name)
	assert.Equal(t, "ada@example.com", ins.Email)
	assert.Equal(t, client.InvestmentRetirement, ins.InvestmentType)
	assert.Empty(t, ins.Status, "status left for the store to default")
	require.NotNil(t, ins.PortfolioValue)
	assert.Equal(t, "125000.50", *ins.PortfolioValue)
	require.NotNil(t, ins.LastContact)
	assert.Equal(t, time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC), ins.LastContact.UTC())
}

func TestClientInsertCollectsAllFailures(t *testing.T) {
	_, err := ClientInsert(decode(t, `{
		"name": 42,
		"status": "vip",
		"investmentType": "crypto"
	}`))
	require.Error(t, err)

	reasons := fieldReasons(t, err)
	assert.Equal(t, ReasonInvalidType, reasons["name"])
	assert.Equal(t, ReasonMissing, reasons["email"])
	assert.Equal(t, ReasonInvalidEnum, reasons["status"])
	assert.Equal(t, ReasonInvalidEnum, reasons["investmentType"])
}

func TestClientInsertRejectsEmptyName(t *testing.T) {
	_, err := ClientInsert(decode(t, `{
		"name": "",
		"email": "ada@example.com",
		"investmentType": "retirement"
	}`))
	require.Error(t, err)
	assert.Equal(t, ReasonMissing, fieldReasons(t, err)["name"])
}

func TestClientPatchAllFieldsOptional(t *testing.T) {
	patch, err := ClientPatch(decode(t, `{}`))
	require.NoError(t, err)
	assert.Nil(t, patch.Name)
	assert.Nil(t, patch.Email)
	assert.Nil(t, patch.Status)
}

func TestClientPatchPresentFieldsStillTypeCheck(t *testing.T) {
	_, err := ClientPatch(decode(t, `{"status": "vip", "name": 7}`))
	require.Error(t, err)

	reasons := fieldReasons(t, err)
	assert.Equal(t, ReasonInvalidEnum, reasons["status"])
	assert.Equal(t, ReasonInvalidType, reasons["name"])
}

func TestClientPatchNullIsTreatedAsOmitted(t *testing.T) {
	patch, err := ClientPatch(decode(t, `{"phone": null, "name": "Ada"}`))
	require.NoError(t, err)
	assert.Nil(t, patch.Phone)
	require.NotNil(t, patch.Name)
	assert.Equal(t, "Ada", *patch.Name)
}

func TestFollowUpInsertScheduledDateFormats(t *testing.T) {
	cases := []struct {
		name string
		body string
		want time.Time
	}{
		{
			name: "rfc3339",
			body: `{"clientId":"c1","title":"call","type":"call","scheduledDate":"2025-06-15T14:30:00Z"}`,
			want: time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC),
		},
		{
			name: "date only",
			body: `{"clientId":"c1","title":"call","type":"call","scheduledDate":"2025-06-15"}`,
			want: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "unix milliseconds",
			body: `{"clientId":"c1","title":"call","type":"call","scheduledDate":1750000000000}`,
			want: time.UnixMilli(1750000000000).UTC(),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ins, err := FollowUpInsert(decode(t, tc.body))
			require.NoError(t, err)
			assert.True(t, ins.ScheduledDate.UTC().Equal(tc.want), "got %s, want %s", ins.ScheduledDate, tc.want)
		})
	}
}

func TestFollowUpInsertRejectsBadDate(t *testing.T) {
	_, err := FollowUpInsert(decode(t, `{
		"clientId": "c1",
		"title": "call",
		"type": "call",
		"scheduledDate": "not a date"
	}`))
	require.Error(t, err)
	assert.Equal(t, ReasonInvalidTimestamp, fieldReasons(t, err)["scheduledDate"])
}

func TestFollowUpInsertRequiredFields(t *testing.T) {
	_, err := FollowUpInsert(decode(t, `{}`))
	require.Error(t, err)

	reasons := fieldReasons(t, err)
	for _, field := range []string{"clientId", "title", "scheduledDate", "type"} {
		assert.Equal(t, ReasonMissing, reasons[field], "field %s", field)
	}
}

func TestFollowUpInsertDefaultsLeftToStore(t *testing.T) {
	ins, err := FollowUpInsert(decode(t, `{
		"clientId": "c1",
		"title": "quarterly review",
		"type": "review",
		"scheduledDate": "2025-06-15T10:00:00Z"
	}`))
	require.NoError(t, err)
	assert.Empty(t, ins.Status)
	assert.Empty(t, ins.Priority)
	assert.Equal(t, followup.TypeReview, ins.Type)
}

func TestMetricInsertValid(t *testing.T) {
	ins, err := MetricInsert(decode(t, `{
		"date": "2025-06-01T00:00:00Z",
		"totalRevenue": "847239.00",
		"activeClients": 1247,
		"conversionRate": "24.3",
		"portfolioGrowth": "18.7",
		"monthlyData": {"revenue": [1.5, 2.5], "clients": [10, 12]}
	}`))
	require.NoError(t, err)
	assert.Equal(t, 1247, ins.ActiveClients)
	require.NotNil(t, ins.MonthlyData)
	assert.Equal(t, []float64{1.5, 2.5}, ins.MonthlyData.Revenue)
	assert.Equal(t, []int{10, 12}, ins.MonthlyData.Clients)
}

func TestMetricInsertRejectsFractionalClientCount(t *testing.T) {
	_, err := MetricInsert(decode(t, `{
		"date": "2025-06-01T00:00:00Z",
		"totalRevenue": "1.00",
		"activeClients": 12.5,
		"conversionRate": "1.0",
		"portfolioGrowth": "1.0"
	}`))
	require.Error(t, err)
	assert.Equal(t, ReasonInvalidType, fieldReasons(t, err)["activeClients"])
}

func TestIntegrationInsertTypeIsOpenSet(t *testing.T) {
	ins, err := IntegrationInsert(decode(t, `{
		"name": "Webhook Relay",
		"type": "webhooks",
		"configuration": {"url": "https://hooks.example.com"}
	}`))
	require.NoError(t, err)
	assert.Equal(t, "webhooks", ins.Type)
	assert.Equal(t, "https://hooks.example.com", ins.Configuration["url"])
}

func TestIntegrationInsertStatusEnumStillEnforced(t *testing.T) {
	_, err := IntegrationInsert(decode(t, `{
		"name": "Webhook Relay",
		"type": "webhooks",
		"status": "flaky"
	}`))
	require.Error(t, err)
	assert.Equal(t, ReasonInvalidEnum, fieldReasons(t, err)["status"])
}

func TestErrorMessageListsFailedFields(t *testing.T) {
	_, err := ClientInsert(decode(t, `{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
	assert.Contains(t, err.Error(), "email")
}
