package outbox

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pazarhub/backend/internal/domain/marketplace"
)

var (
	ErrEntryNotFound = errors.New("outbox: entry not found")
	ErrNotExhausted  = errors.New("outbox: can only reset exhausted entries")
	// ErrDownstreamRejected means the ERP explicitly refused the payload.
	// Retrying a semantically rejected payload is futile, so the entry is
	// exhausted immediately.
	ErrDownstreamRejected = errors.New("outbox: downstream rejected payload")
)

// Default retry configuration
const (
	DefaultMaxAttempts = 5
	DefaultBaseBackoff = time.Minute
)

// State is the delivery state of an outbox entry.
type State string

const (
	StatePending State = "PENDING"
	StateSent    State = "SENT"
	// StateExhausted is terminal: the retry ceiling was reached or the
	// downstream rejected the payload. Exhausted entries are surfaced for
	// manual operator action, never silently dropped.
	StateExhausted State = "EXHAUSTED"
)

// String returns the string representation of State
func (s State) String() string {
	return string(s)
}

// Key derives the deterministic idempotency key for forwarding one canonical
// record to one target system. The same (marketplace, external id, target)
// always yields the same key, so a re-sync can never enqueue a duplicate.
func Key(code marketplace.Code, externalID, target string) string {
	sum := sha256.Sum256([]byte(string(code) + "|" + externalID + "|" + target))
	return hex.EncodeToString(sum[:])
}

// Entry buffers one downstream push for bounded retry.
type Entry struct {
	ID             uuid.UUID
	OwnerID        uuid.UUID
	IdempotencyKey string
	Marketplace    marketplace.Code
	// ExternalID is the marketplace order id the payload was built from
	ExternalID string
	// Target names the downstream system, e.g. "erp"
	Target  string
	Payload []byte
	State   State
	// AttemptCount is the number of failed delivery attempts so far
	AttemptCount int
	MaxAttempts  int
	LastError    string
	// NextAttemptAt gates the dispatch pass; zero means due immediately
	NextAttemptAt time.Time
	// Reference is the downstream acknowledgment id, set on SENT
	Reference string
	SentAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewEntry creates a pending entry due immediately.
func NewEntry(ownerID uuid.UUID, code marketplace.Code, externalID, target string, payload []byte) *Entry {
	now := time.Now()
	return &Entry{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		IdempotencyKey: Key(code, externalID, target),
		Marketplace:    code,
		ExternalID:     externalID,
		Target:         target,
		Payload:        payload,
		State:          StatePending,
		MaxAttempts:    DefaultMaxAttempts,
		NextAttemptAt:  now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Due reports whether the entry is ready for a delivery attempt.
func (e *Entry) Due(now time.Time) bool {
	return e.State == StatePending && !e.NextAttemptAt.After(now)
}

// MarkSent records the downstream acknowledgment reference.
func (e *Entry) MarkSent(reference string) {
	now := time.Now()
	e.State = StateSent
	e.Reference = reference
	e.SentAt = &now
	e.UpdatedAt = now
}

// MarkFailed records a retryable failure: the attempt counter advances and
// the next attempt is pushed out with exponential backoff. Once the ceiling
// is reached the entry becomes Exhausted.
func (e *Entry) MarkFailed(errMsg string) {
	e.AttemptCount++
	e.LastError = errMsg
	e.UpdatedAt = time.Now()

	if e.AttemptCount >= e.MaxAttempts {
		e.State = StateExhausted
		return
	}
	backoff := DefaultBaseBackoff * time.Duration(1<<uint(e.AttemptCount-1))
	e.NextAttemptAt = time.Now().Add(backoff)
}

// MarkRejected exhausts the entry immediately after an explicit downstream
// rejection.
func (e *Entry) MarkRejected(errMsg string) {
	e.AttemptCount++
	e.LastError = errMsg
	e.State = StateExhausted
	e.UpdatedAt = time.Now()
}

// ResetForRetry reactivates an exhausted entry after operator intervention.
func (e *Entry) ResetForRetry() error {
	if e.State != StateExhausted {
		return fmt.Errorf("%w: state is %s", ErrNotExhausted, e.State)
	}
	e.State = StatePending
	e.AttemptCount = 0
	e.LastError = ""
	e.NextAttemptAt = time.Now()
	e.UpdatedAt = time.Now()
	return nil
}

// Repository persists outbox entries keyed by idempotency key.
type Repository interface {
	// CreateIfAbsent inserts the entry unless one with the same idempotency
	// key already exists; the existing entry is left untouched either way.
	// Returns true when the entry was newly created.
	CreateIfAbsent(ctx context.Context, entry *Entry) (bool, error)
	// FindByKey returns the entry for an idempotency key or ErrEntryNotFound
	FindByKey(ctx context.Context, key string) (*Entry, error)
	// FindDue returns pending entries whose next attempt time has elapsed
	FindDue(ctx context.Context, now time.Time, limit int) ([]*Entry, error)
	// FindExhausted lists exhausted entries for operator review, newest first
	FindExhausted(ctx context.Context, page, pageSize int) ([]*Entry, int64, error)
	// Update persists state changes of an existing entry
	Update(ctx context.Context, entry *Entry) error
	// CountByState returns entry counts grouped by state
	CountByState(ctx context.Context) (map[State]int64, error)
}

// ERPClient is the port to the downstream ERP. SubmitOrder is idempotent on
// the key: the ERP applies a payload at most once per key despite retries.
type ERPClient interface {
	// SubmitOrder forwards one canonical order payload. On success it returns
	// the ERP's acknowledgment reference. A retryable failure is any error
	// other than ErrDownstreamRejected.
	SubmitOrder(ctx context.Context, payload []byte, idempotencyKey string) (string, error)
}
