package integration

import "time"

// Connection statuses. The type field is an open set (crm, market_data,
// email, ...) and is not enumerated here.
const (
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
	StatusError        = "error"
)

// Statuses lists the accepted integration status values.
var Statuses = []string{StatusConnected, StatusDisconnected, StatusError}

// Integration is an inert record describing an external system hookup. It
// carries a status field, not a live connection, and cannot be deleted.
type Integration struct {
	ID            string         `json:"id" db:"id"`
	Name          string         `json:"name" db:"name"`
	Type          string         `json:"type" db:"type"`
	Status        string         `json:"status" db:"status"`
	Description   *string        `json:"description" db:"description"`
	Configuration map[string]any `json:"configuration" db:"configuration"`
	LastSync      *time.Time     `json:"lastSync" db:"last_sync"`
	CreatedAt     time.Time      `json:"createdAt" db:"created_at"`
}

// Insert carries the validated fields for registering an integration. Status
// left empty is defaulted by the store.
type Insert struct {
	Name          string
	Type          string
	Status        string
	Description   *string
	Configuration map[string]any
	LastSync      *time.Time
}

// Patch carries a partial update. Nil fields are left untouched.
type Patch struct {
	Name          *string
	Type          *string
	Status        *string
	Description   *string
	Configuration map[string]any
	LastSync      *time.Time
}
