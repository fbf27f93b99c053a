package memory

import (
	"context"
	"time"

	"github.com/advisorhq/advisor-crm/internal/app/domain/client"
	"github.com/advisorhq/advisor-crm/internal/app/domain/followup"
	"github.com/advisorhq/advisor-crm/internal/app/domain/integration"
	"github.com/advisorhq/advisor-crm/internal/app/domain/metric"
)

// NewSeeded creates a store preloaded with the sample dataset the dashboard
// ships with. All state is volatile; the same fixtures come back on every
// process start.
func NewSeeded() *Store {
	s := New()
	s.seed()
	return s
}

func (s *Store) seed() {
	ctx := context.Background()
	now := s.now()

	sampleClients := []client.Insert{
		{
			Name:           "Sarah Johnson",
			Email:          "sarah.johnson@email.com",
			Phone:          strptr("+1-555-0123"),
			Status:         client.StatusActive,
			InvestmentType: client.InvestmentRetirement,
			PortfolioValue: strptr("250000.00"),
			LastContact:    timeptr(now.Add(-2 * time.Hour)),
			Notes:          strptr("Interested in expanding retirement portfolio"),
		},
		{
			Name:           "Michael Chen",
			Email:          "michael.chen@email.com",
			Phone:          strptr("+1-555-0124"),
			Status:         client.StatusPending,
			InvestmentType: client.InvestmentInvestment,
			PortfolioValue: strptr("450000.00"),
			LastContact:    timeptr(now.Add(-4 * time.Hour)),
			Notes:          strptr("Reviewing investment proposal"),
		},
		{
			Name:           "Emily Rodriguez",
			Email:          "emily.rodriguez@email.com",
			Phone:          strptr("+1-555-0125"),
			Status:         client.StatusActive,
			InvestmentType: client.InvestmentInsurance,
			PortfolioValue: strptr("180000.00"),
			LastContact:    timeptr(now.Add(-24 * time.Hour)),
			Notes:          strptr("Updated life insurance policy"),
		},
	}

	clientIDs := make([]string, 0, len(sampleClients))
	for _, ins := range sampleClients {
		c, err := s.CreateClient(ctx, ins)
		if err != nil {
			continue
		}
		clientIDs = append(clientIDs, c.ID)
	}

	tomorrow := atHour(now.AddDate(0, 0, 1), 14, 0)
	friday := atHour(now.AddDate(0, 0, 5), 10, 30)
	nextMonday := atHour(now.AddDate(0, 0, 8), 15, 0)

	sampleFollowUps := []followup.Insert{
		{
			ClientID:      clientIDs[0],
			Title:         "Quarterly portfolio review",
			Description:   strptr("Review Q4 performance and discuss strategy for next year"),
			ScheduledDate: tomorrow,
			Type:          followup.TypeMeeting,
			Status:        followup.StatusPending,
			Priority:      followup.PriorityHigh,
		},
		{
			ClientID:      clientIDs[1],
			Title:         "Investment strategy call",
			Description:   strptr("Discuss new investment opportunities"),
			ScheduledDate: friday,
			Type:          followup.TypeCall,
			Status:        followup.StatusPending,
			Priority:      followup.PriorityMedium,
		},
		{
			ClientID:      clientIDs[2],
			Title:         "New client onboarding",
			Description:   strptr("Complete onboarding process and documentation"),
			ScheduledDate: nextMonday,
			Type:          followup.TypeMeeting,
			Status:        followup.StatusPending,
			Priority:      followup.PriorityHigh,
		},
	}
	for _, ins := range sampleFollowUps {
		_, _ = s.CreateFollowUp(ctx, ins)
	}

	_, _ = s.CreateMetric(ctx, metric.Insert{
		Date:            now,
		TotalRevenue:    "847239.00",
		ActiveClients:   1247,
		ConversionRate:  "24.3",
		PortfolioGrowth: "18.7",
		MonthlyData: &metric.MonthlyData{
			Revenue: []float64{65000, 70000, 68000, 75000, 82000, 78000, 85000, 88000, 92000, 85000, 90000, 95000},
			Clients: []int{980, 1020, 1050, 1120, 1180, 1200, 1210, 1230, 1240, 1245, 1246, 1247},
		},
	})

	sampleIntegrations := []integration.Insert{
		{
			Name:          "CRM Sync",
			Type:          "crm",
			Status:        integration.StatusConnected,
			Description:   strptr("Syncing client data with Salesforce"),
			Configuration: map[string]any{"endpoint": "https://api.salesforce.com", "apiKey": "***"},
			LastSync:      timeptr(now),
		},
		{
			Name:          "Market Data",
			Type:          "market_data",
			Status:        integration.StatusConnected,
			Description:   strptr("Real-time market data feed"),
			Configuration: map[string]any{"endpoint": "https://api.marketdata.com", "apiKey": "***"},
			LastSync:      timeptr(now),
		},
		{
			Name:          "Email Automation",
			Type:          "email",
			Status:        integration.StatusDisconnected,
			Description:   strptr("Automated follow-up emails"),
			Configuration: map[string]any{"provider": "mailchimp", "apiKey": ""},
		},
	}
	for _, ins := range sampleIntegrations {
		_, _ = s.CreateIntegration(ctx, ins)
	}
}

func atHour(t time.Time, hour, minute int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location())
}

func strptr(v string) *string { return &v }

func timeptr(v time.Time) *time.Time { return &v }
