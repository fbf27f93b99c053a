package client

import "time"

// Status describes where a client sits in the advisory relationship.
const (
	StatusActive   = "active"
	StatusPending  = "pending"
	StatusInactive = "inactive"
)

// Investment types offered by the practice.
const (
	InvestmentRetirement = "retirement"
	InvestmentInvestment = "investment"
	InvestmentInsurance  = "insurance"
)

// Statuses lists the accepted client status values.
var Statuses = []string{StatusActive, StatusPending, StatusInactive}

// InvestmentTypes lists the accepted investment type values.
var InvestmentTypes = []string{InvestmentRetirement, InvestmentInvestment, InvestmentInsurance}

// Client represents an advisory client. Monetary amounts are kept as decimal
// strings so no precision is lost between the API and storage.
type Client struct {
	ID             string     `json:"id" db:"id"`
	Name           string     `json:"name" db:"name"`
	Email          string     `json:"email" db:"email"`
	Phone          *string    `json:"phone" db:"phone"`
	Status         string     `json:"status" db:"status"`
	InvestmentType string     `json:"investmentType" db:"investment_type"`
	PortfolioValue *string    `json:"portfolioValue" db:"portfolio_value"`
	LastContact    *time.Time `json:"lastContact" db:"last_contact"`
	Notes          *string    `json:"notes" db:"notes"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time  `json:"updatedAt" db:"updated_at"`
}

// Insert carries the validated fields for creating a client. Status left
// empty is defaulted by the store.
type Insert struct {
	Name           string
	Email          string
	Phone          *string
	Status         string
	InvestmentType string
	PortfolioValue *string
	LastContact    *time.Time
	Notes          *string
}

// Patch carries a partial update. Nil fields are left untouched.
type Patch struct {
	Name           *string
	Email          *string
	Phone          *string
	Status         *string
	InvestmentType *string
	PortfolioValue *string
	LastContact    *time.Time
	Notes          *string
}
