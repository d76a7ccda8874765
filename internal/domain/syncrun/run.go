package syncrun

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pazarhub/backend/internal/domain/marketplace"
)

var (
	ErrRunNotFound = errors.New("syncrun: run not found")
	// ErrRunActive is returned when a second sync is triggered for a tuple
	// that already has a running run. The trigger is rejected, not queued.
	ErrRunActive      = errors.New("syncrun: a run is already active for this tuple")
	ErrRunTerminal    = errors.New("syncrun: run is in a terminal state")
	ErrInvalidRunArgs = errors.New("syncrun: invalid run arguments")
)

// State is the lifecycle state of a sync run.
type State string

const (
	StatePending        State = "PENDING"
	StateRunning        State = "RUNNING"
	StateSuccess        State = "SUCCESS"
	StatePartialFailure State = "PARTIAL_FAILURE"
	StateFailed         State = "FAILED"
)

// IsValid returns true if the state is a known run state
func (s State) IsValid() bool {
	switch s {
	case StatePending, StateRunning, StateSuccess, StatePartialFailure, StateFailed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true for states that never transition again
func (s State) IsTerminal() bool {
	switch s {
	case StateSuccess, StatePartialFailure, StateFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation of State
func (s State) String() string {
	return string(s)
}

// Key identifies the mutual-exclusion tuple: at most one run may be active
// per (owner, marketplace, entity type) at any time.
type Key struct {
	OwnerID     uuid.UUID
	Marketplace marketplace.Code
	Entity      marketplace.EntityType
}

// String renders the key in its lock-key form.
func (k Key) String() string {
	return fmt.Sprintf("%s:%s:%s", k.OwnerID, k.Marketplace, k.Entity)
}

// Run is one execution of synchronization for an (owner, marketplace,
// entity type) tuple.
type Run struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Marketplace marketplace.Code
	Entity      marketplace.EntityType
	State       State
	// Error holds the run-level failure reason when State is FAILED
	Error        string
	PagesFetched int
	ItemsSeen    int
	ItemsFailed  int
	StartedAt    time.Time
	// FinishedAt is nil while the run is pending or running
	FinishedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// New creates a pending run for the given tuple.
func New(ownerID uuid.UUID, code marketplace.Code, entity marketplace.EntityType) (*Run, error) {
	if ownerID == uuid.Nil || !code.IsValid() || !entity.IsValid() {
		return nil, ErrInvalidRunArgs
	}
	now := time.Now()
	return &Run{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Marketplace: code,
		Entity:      entity,
		State:       StatePending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Key returns the mutual-exclusion tuple of the run.
func (r *Run) Key() Key {
	return Key{OwnerID: r.OwnerID, Marketplace: r.Marketplace, Entity: r.Entity}
}

// Start transitions Pending -> Running.
func (r *Run) Start() error {
	if r.State != StatePending {
		return fmt.Errorf("%w: cannot start from %s", ErrRunTerminal, r.State)
	}
	r.State = StateRunning
	r.StartedAt = time.Now()
	r.UpdatedAt = r.StartedAt
	return nil
}

// Complete finalizes a running run from its item counters: Success when
// nothing failed, PartialFailure when at least one item failed but the run
// itself reached the end of its pages.
func (r *Run) Complete(pagesFetched, itemsSeen, itemsFailed int) error {
	if r.State != StateRunning {
		return fmt.Errorf("%w: cannot complete from %s", ErrRunTerminal, r.State)
	}
	now := time.Now()
	r.PagesFetched = pagesFetched
	r.ItemsSeen = itemsSeen
	r.ItemsFailed = itemsFailed
	r.FinishedAt = &now
	r.UpdatedAt = now
	if itemsFailed == 0 {
		r.State = StateSuccess
	} else {
		r.State = StatePartialFailure
	}
	return nil
}

// Fail marks a running run as aborted before completion. Item counters hold
// whatever progress was committed before the abort; committed upserts are
// idempotent, so partial progress is retained.
func (r *Run) Fail(pagesFetched, itemsSeen, itemsFailed int, reason string) error {
	if r.State != StateRunning && r.State != StatePending {
		return fmt.Errorf("%w: cannot fail from %s", ErrRunTerminal, r.State)
	}
	now := time.Now()
	r.PagesFetched = pagesFetched
	r.ItemsSeen = itemsSeen
	r.ItemsFailed = itemsFailed
	r.Error = reason
	r.State = StateFailed
	r.FinishedAt = &now
	r.UpdatedAt = now
	return nil
}
