package syncrun

import (
	"time"

	"github.com/google/uuid"
)

// Outcome is the per-item result recorded in the audit trail.
type Outcome string

const (
	OutcomeSuccess Outcome = "SUCCESS"
	OutcomeFailed  Outcome = "FAILED"
	OutcomeSkipped Outcome = "SKIPPED"
)

// String returns the string representation of Outcome
func (o Outcome) String() string {
	return string(o)
}

// ItemLog is one append-only audit entry. Exactly one entry is written per
// processed item, so a run's log set always equals its ItemsSeen counter.
// Entries are immutable once written.
type ItemLog struct {
	ID             uuid.UUID
	RunID          uuid.UUID
	ItemExternalID string
	Outcome        Outcome
	// ErrorDetail explains a FAILED outcome
	ErrorDetail string
	// Warning annotates a SUCCESS outcome that needs operator attention,
	// e.g. an unmapped raw status that normalized to UNKNOWN
	Warning     string
	AttemptedAt time.Time
}

// NewItemLog creates an audit entry for one processed item.
func NewItemLog(runID uuid.UUID, externalID string, outcome Outcome) *ItemLog {
	return &ItemLog{
		ID:             uuid.New(),
		RunID:          runID,
		ItemExternalID: externalID,
		Outcome:        outcome,
		AttemptedAt:    time.Now(),
	}
}
