package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pazarhub/backend/internal/domain/marketplace"
	"github.com/pazarhub/backend/internal/domain/outbox"
)

// OutboxEntryModel is the persistence model for the outbox.Entry entity.
// The idempotency key carries a unique index; CreateIfAbsent leans on it to
// make enqueueing race-safe across concurrent syncs.
type OutboxEntryModel struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey"`
	OwnerID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	IdempotencyKey string           `gorm:"type:varchar(64);not null;uniqueIndex"`
	Marketplace    marketplace.Code `gorm:"type:varchar(20);not null"`
	ExternalID     string           `gorm:"type:varchar(100);not null"`
	Target         string           `gorm:"type:varchar(50);not null"`
	Payload        []byte           `gorm:"type:jsonb"`
	State          string           `gorm:"type:varchar(20);not null;index:idx_outbox_due,priority:1"`
	AttemptCount   int              `gorm:"not null;default:0"`
	MaxAttempts    int              `gorm:"not null;default:5"`
	LastError      string           `gorm:"type:text"`
	NextAttemptAt  time.Time        `gorm:"index:idx_outbox_due,priority:2"`
	Reference      string           `gorm:"type:varchar(100)"`
	SentAt         *time.Time
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OutboxEntryModel) TableName() string {
	return "outbox_entries"
}

// ToDomain converts the persistence model to a domain Entry
func (m *OutboxEntryModel) ToDomain() *outbox.Entry {
	return &outbox.Entry{
		ID:             m.ID,
		OwnerID:        m.OwnerID,
		IdempotencyKey: m.IdempotencyKey,
		Marketplace:    m.Marketplace,
		ExternalID:     m.ExternalID,
		Target:         m.Target,
		Payload:        m.Payload,
		State:          outbox.State(m.State),
		AttemptCount:   m.AttemptCount,
		MaxAttempts:    m.MaxAttempts,
		LastError:      m.LastError,
		NextAttemptAt:  m.NextAttemptAt,
		Reference:      m.Reference,
		SentAt:         m.SentAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Entry
func (m *OutboxEntryModel) FromDomain(e *outbox.Entry) {
	m.ID = e.ID
	m.OwnerID = e.OwnerID
	m.IdempotencyKey = e.IdempotencyKey
	m.Marketplace = e.Marketplace
	m.ExternalID = e.ExternalID
	m.Target = e.Target
	m.Payload = e.Payload
	m.State = e.State.String()
	m.AttemptCount = e.AttemptCount
	m.MaxAttempts = e.MaxAttempts
	m.LastError = e.LastError
	m.NextAttemptAt = e.NextAttemptAt
	m.Reference = e.Reference
	m.SentAt = e.SentAt
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// OutboxEntryModelFromDomain creates a persistence model from a domain Entry
func OutboxEntryModelFromDomain(e *outbox.Entry) *OutboxEntryModel {
	m := &OutboxEntryModel{}
	m.FromDomain(e)
	return m
}
