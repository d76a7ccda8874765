package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pazarhub/backend/internal/domain/outbox"
	"github.com/pazarhub/backend/internal/infrastructure/persistence/models"
)

// GormOutboxRepository implements outbox.Repository using GORM
type GormOutboxRepository struct {
	db *gorm.DB
}

// NewGormOutboxRepository creates a new GormOutboxRepository
func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// CreateIfAbsent inserts the entry unless one with the same idempotency key
// already exists. The unique index on idempotency_key makes the insert
// race-safe; DO NOTHING leaves an existing entry untouched regardless of its
// state, which is what keeps re-syncs from re-enqueueing delivered orders.
func (r *GormOutboxRepository) CreateIfAbsent(ctx context.Context, entry *outbox.Entry) (bool, error) {
	model := models.OutboxEntryModelFromDomain(entry)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "idempotency_key"}},
			DoNothing: true,
		}).
		Create(model)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindByKey returns the entry for an idempotency key
func (r *GormOutboxRepository) FindByKey(ctx context.Context, key string) (*outbox.Entry, error) {
	var model models.OutboxEntryModel
	if err := r.db.WithContext(ctx).
		First(&model, "idempotency_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, outbox.ErrEntryNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindDue returns pending entries whose next attempt time has elapsed,
// oldest first so starved entries drain before fresh ones.
func (r *GormOutboxRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]*outbox.Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.OutboxEntryModel
	if err := r.db.WithContext(ctx).
		Where("state = ? AND next_attempt_at <= ?", outbox.StatePending.String(), now).
		Order("next_attempt_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	entries := make([]*outbox.Entry, 0, len(rows))
	for i := range rows {
		entries = append(entries, rows[i].ToDomain())
	}
	return entries, nil
}

// FindExhausted lists exhausted entries for operator review, newest first
func (r *GormOutboxRepository) FindExhausted(ctx context.Context, page, pageSize int) ([]*outbox.Entry, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := r.db.WithContext(ctx).
		Model(&models.OutboxEntryModel{}).
		Where("state = ?", outbox.StateExhausted.String())

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.OutboxEntryModel
	if err := query.
		Order("updated_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]*outbox.Entry, 0, len(rows))
	for i := range rows {
		entries = append(entries, rows[i].ToDomain())
	}
	return entries, total, nil
}

// Update persists state changes of an existing entry
func (r *GormOutboxRepository) Update(ctx context.Context, entry *outbox.Entry) error {
	model := models.OutboxEntryModelFromDomain(entry)
	result := r.db.WithContext(ctx).
		Model(&models.OutboxEntryModel{}).
		Where("id = ?", entry.ID).
		Select("state", "attempt_count", "last_error", "next_attempt_at",
			"reference", "sent_at", "updated_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return outbox.ErrEntryNotFound
	}
	return nil
}

// CountByState returns entry counts grouped by state
func (r *GormOutboxRepository) CountByState(ctx context.Context) (map[outbox.State]int64, error) {
	type row struct {
		State string
		Count int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&models.OutboxEntryModel{}).
		Select("state, count(*) as count").
		Group("state").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[outbox.State]int64, len(rows))
	for _, r := range rows {
		out[outbox.State(r.State)] = r.Count
	}
	return out, nil
}

var _ outbox.Repository = (*GormOutboxRepository)(nil)
