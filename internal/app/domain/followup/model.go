package followup

import "time"

// Follow-up interaction types.
const (
	TypeCall    = "call"
	TypeMeeting = "meeting"
	TypeEmail   = "email"
	TypeReview  = "review"
)

// Follow-up statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Types lists the accepted follow-up type values.
var Types = []string{TypeCall, TypeMeeting, TypeEmail, TypeReview}

// Statuses lists the accepted follow-up status values.
var Statuses = []string{StatusPending, StatusCompleted, StatusCancelled}

// Priorities lists the accepted priority values.
var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

// FollowUp is a scheduled client touchpoint. ClientID is a soft reference:
// deleting a client leaves its follow-ups dangling rather than cascading.
type FollowUp struct {
	ID            string    `json:"id" db:"id"`
	ClientID      string    `json:"clientId" db:"client_id"`
	Title         string    `json:"title" db:"title"`
	Description   *string   `json:"description" db:"description"`
	ScheduledDate time.Time `json:"scheduledDate" db:"scheduled_date"`
	Type          string    `json:"type" db:"type"`
	Status        string    `json:"status" db:"status"`
	Priority      string    `json:"priority" db:"priority"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// Insert carries the validated fields for creating a follow-up. Status and
// Priority left empty are defaulted by the store.
type Insert struct {
	ClientID      string
	Title         string
	Description   *string
	ScheduledDate time.Time
	Type          string
	Status        string
	Priority      string
}

// Patch carries a partial update. Nil fields are left untouched.
type Patch struct {
	ClientID      *string
	Title         *string
	Description   *string
	ScheduledDate *time.Time
	Type          *string
	Status        *string
	Priority      *string
}
