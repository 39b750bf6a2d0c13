package reconcile

import (
	"time"

	"roster-sync/feature/roster/models"
)

// Record is one normalized person from the personnel source.
type Record struct {
	// ExternalID is the source-of-truth identity (national id with check digit).
	ExternalID string
	// Email is the contact email proposed by the source. It may be empty for
	// people that already exist, since updates keep the stored email.
	Email     string
	FullName  string
	Role      models.Role
	Company   models.Company
	StartDate *time.Time
	EndDate   *time.Time
	// Ranges are the absence and vacation spans to expand into daily events.
	Ranges []Range
}

// Range is an inclusive span of calendar days with its source labels.
type Range struct {
	Category   models.Category
	Descriptor string
	Start      time.Time
	End        time.Time
}

// Valid reports whether the range covers at least one day.
func (r Range) Valid() bool {
	return !r.Start.After(r.End)
}

// Span is an inclusive date interval.
type Span struct {
	Start time.Time
	End   time.Time
}

// ReplaceScope selects the stored events of one person that a run replaces:
// events on any of Dates, and events whose source range overlaps one of Spans.
type ReplaceScope struct {
	Dates []time.Time
	Spans []Span
}

// IsEmpty reports whether the scope selects nothing.
func (s ReplaceScope) IsEmpty() bool {
	return len(s.Dates) == 0 && len(s.Spans) == 0
}

// ActionType represents the type of write planned for a record.
type ActionType string

const (
	// ActionCreate inserts a new person.
	ActionCreate ActionType = "create"
	// ActionUpdate refreshes an existing person, keeping its email and credential.
	ActionUpdate ActionType = "update"
)

// Action represents a planned write for one record.
type Action struct {
	// Type specifies the write to perform.
	Type ActionType `json:"type"`

	// ExternalID is the identity of the record.
	ExternalID string `json:"external_id"`

	// Email is the email the person ends up with: the deduplicated source
	// email for creates, the stored email for updates.
	Email string `json:"email"`

	// Renamed is set when deduplication rewrote the source email of a create.
	Renamed bool `json:"renamed,omitempty"`

	// Events is the number of daily events the record expands to.
	Events int `json:"events"`

	Record   Record         `json:"-"`
	Existing *models.Person `json:"-"`
}

// Failure records a record that could not be processed.
type Failure struct {
	ExternalID string `json:"external_id"`
	Reason     string `json:"reason"`
}

// Plan contains the planned writes of one run, computed before any write.
type Plan struct {
	Company  models.Company `json:"company"`
	Actions  []Action       `json:"actions"`
	Failures []Failure      `json:"failures"`
	Summary  PlanSummary    `json:"summary"`
}

// PlanSummary provides aggregate counts for a plan.
type PlanSummary struct {
	// Total is the number of records in the batch.
	Total int `json:"total"`
	// Creates counts people that will be inserted.
	Creates int `json:"creates"`
	// Updates counts people that will be updated.
	Updates int `json:"updates"`
	// Renamed counts creates whose email was rewritten by deduplication.
	Renamed int `json:"renamed"`
	// Failed counts records whose lookup failed.
	Failed int `json:"failed"`
	// Events counts the daily events the batch expands to.
	Events int `json:"events"`
}

// Summary reports the outcome of an applied run. Every record lands in
// exactly one of Created, Updated or Failed: a record whose person write
// succeeded but whose event writes failed counts as Failed only.
type Summary struct {
	Created       int `json:"created"`
	Updated       int `json:"updated"`
	Failed        int `json:"failed"`
	EventsWritten int `json:"events_written"`
	EventsRemoved int `json:"events_removed"`
}
