package metric

import "time"

// MonthlyData holds the per-month series rendered by the dashboard charts.
type MonthlyData struct {
	Revenue []float64 `json:"revenue"`
	Clients []int     `json:"clients"`
}

// Metric is a point-in-time business snapshot. Snapshots are append-only:
// there is no update or delete operation.
type Metric struct {
	ID              string       `json:"id" db:"id"`
	Date            time.Time    `json:"date" db:"date"`
	TotalRevenue    string       `json:"totalRevenue" db:"total_revenue"`
	ActiveClients   int          `json:"activeClients" db:"active_clients"`
	ConversionRate  string       `json:"conversionRate" db:"conversion_rate"`
	PortfolioGrowth string       `json:"portfolioGrowth" db:"portfolio_growth"`
	MonthlyData     *MonthlyData `json:"monthlyData" db:"monthly_data"`
}

// Insert carries the validated fields for recording a snapshot.
type Insert struct {
	Date            time.Time
	TotalRevenue    string
	ActiveClients   int
	ConversionRate  string
	PortfolioGrowth string
	MonthlyData     *MonthlyData
}
