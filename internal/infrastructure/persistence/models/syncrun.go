package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pazarhub/backend/internal/domain/marketplace"
	"github.com/pazarhub/backend/internal/domain/syncrun"
)

// SyncRunModel is the persistence model for the syncrun.Run entity.
type SyncRunModel struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key"`
	OwnerID      uuid.UUID        `gorm:"type:uuid;not null;index:idx_sync_run_owner,priority:1"`
	Marketplace  marketplace.Code `gorm:"type:varchar(20);not null;index:idx_sync_run_owner,priority:2"`
	Entity       string           `gorm:"type:varchar(20);not null;index:idx_sync_run_owner,priority:3"`
	State        string           `gorm:"type:varchar(20);not null;index"`
	Error        string           `gorm:"type:text"`
	PagesFetched int              `gorm:"not null;default:0"`
	ItemsSeen    int              `gorm:"not null;default:0"`
	ItemsFailed  int              `gorm:"not null;default:0"`
	StartedAt    time.Time
	FinishedAt   *time.Time
	CreatedAt    time.Time `gorm:"not null;index"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SyncRunModel) TableName() string {
	return "sync_runs"
}

// ToDomain converts the persistence model to a domain Run.
func (m *SyncRunModel) ToDomain() *syncrun.Run {
	return &syncrun.Run{
		ID:           m.ID,
		OwnerID:      m.OwnerID,
		Marketplace:  m.Marketplace,
		Entity:       marketplace.EntityType(m.Entity),
		State:        syncrun.State(m.State),
		Error:        m.Error,
		PagesFetched: m.PagesFetched,
		ItemsSeen:    m.ItemsSeen,
		ItemsFailed:  m.ItemsFailed,
		StartedAt:    m.StartedAt,
		FinishedAt:   m.FinishedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Run.
func (m *SyncRunModel) FromDomain(r *syncrun.Run) {
	m.ID = r.ID
	m.OwnerID = r.OwnerID
	m.Marketplace = r.Marketplace
	m.Entity = r.Entity.String()
	m.State = r.State.String()
	m.Error = r.Error
	m.PagesFetched = r.PagesFetched
	m.ItemsSeen = r.ItemsSeen
	m.ItemsFailed = r.ItemsFailed
	m.StartedAt = r.StartedAt
	m.FinishedAt = r.FinishedAt
	m.CreatedAt = r.CreatedAt
	m.UpdatedAt = r.UpdatedAt
}

// SyncRunModelFromDomain creates a persistence model from a domain Run.
func SyncRunModelFromDomain(r *syncrun.Run) *SyncRunModel {
	m := &SyncRunModel{}
	m.FromDomain(r)
	return m
}

// ItemLogModel is the persistence model for the syncrun.ItemLog entry.
// Rows are insert-only.
type ItemLogModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	RunID          uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemExternalID string    `gorm:"type:varchar(100);not null"`
	Outcome        string    `gorm:"type:varchar(20);not null"`
	ErrorDetail    string    `gorm:"type:text"`
	Warning        string    `gorm:"type:text"`
	AttemptedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ItemLogModel) TableName() string {
	return "sync_item_logs"
}

// ToDomain converts the persistence model to a domain ItemLog.
func (m *ItemLogModel) ToDomain() *syncrun.ItemLog {
	return &syncrun.ItemLog{
		ID:             m.ID,
		RunID:          m.RunID,
		ItemExternalID: m.ItemExternalID,
		Outcome:        syncrun.Outcome(m.Outcome),
		ErrorDetail:    m.ErrorDetail,
		Warning:        m.Warning,
		AttemptedAt:    m.AttemptedAt,
	}
}

// FromDomain populates the persistence model from a domain ItemLog.
func (m *ItemLogModel) FromDomain(l *syncrun.ItemLog) {
	m.ID = l.ID
	m.RunID = l.RunID
	m.ItemExternalID = l.ItemExternalID
	m.Outcome = l.Outcome.String()
	m.ErrorDetail = l.ErrorDetail
	m.Warning = l.Warning
	m.AttemptedAt = l.AttemptedAt
}
