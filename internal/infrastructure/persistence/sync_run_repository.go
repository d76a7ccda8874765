package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pazarhub/backend/internal/domain/syncrun"
	"github.com/pazarhub/backend/internal/infrastructure/persistence/models"
)

// GormSyncRunRepository implements syncrun.RunRepository using GORM
type GormSyncRunRepository struct {
	db *gorm.DB
}

// NewGormSyncRunRepository creates a new GormSyncRunRepository
func NewGormSyncRunRepository(db *gorm.DB) *GormSyncRunRepository {
	return &GormSyncRunRepository{db: db}
}

// Save creates or updates a run
func (r *GormSyncRunRepository) Save(ctx context.Context, run *syncrun.Run) error {
	model := models.SyncRunModelFromDomain(run)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"state", "error", "pages_fetched", "items_seen", "items_failed",
				"started_at", "finished_at", "updated_at",
			}),
		}).
		Create(model).Error
}

// FindByID finds a run by its ID
func (r *GormSyncRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*syncrun.Run, error) {
	var model models.SyncRunModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, syncrun.ErrRunNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists runs for an owner, newest first
func (r *GormSyncRunRepository) FindAll(ctx context.Context, ownerID uuid.UUID, filter syncrun.RunFilter) ([]syncrun.Run, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.SyncRunModel{}).
		Where("owner_id = ?", ownerID)

	if filter.Marketplace != nil {
		query = query.Where("marketplace = ?", *filter.Marketplace)
	}
	if filter.Entity != nil {
		query = query.Where("entity = ?", filter.Entity.String())
	}
	if filter.State != nil {
		query = query.Where("state = ?", filter.State.String())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var rows []models.SyncRunModel
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	runs := make([]syncrun.Run, 0, len(rows))
	for i := range rows {
		runs = append(runs, *rows[i].ToDomain())
	}
	return runs, total, nil
}

var _ syncrun.RunRepository = (*GormSyncRunRepository)(nil)

// GormItemLogRepository implements syncrun.ItemLogRepository using GORM
type GormItemLogRepository struct {
	db *gorm.DB
}

// NewGormItemLogRepository creates a new GormItemLogRepository
func NewGormItemLogRepository(db *gorm.DB) *GormItemLogRepository {
	return &GormItemLogRepository{db: db}
}

// Append writes audit entries. Entries are insert-only.
func (r *GormItemLogRepository) Append(ctx context.Context, entries ...*syncrun.ItemLog) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]models.ItemLogModel, 0, len(entries))
	for _, e := range entries {
		var m models.ItemLogModel
		m.FromDomain(e)
		rows = append(rows, m)
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// FindByRun returns all entries for a run in write order
func (r *GormItemLogRepository) FindByRun(ctx context.Context, runID uuid.UUID) ([]syncrun.ItemLog, error) {
	var rows []models.ItemLogModel
	if err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("attempted_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	logs := make([]syncrun.ItemLog, 0, len(rows))
	for i := range rows {
		logs = append(logs, *rows[i].ToDomain())
	}
	return logs, nil
}

// CountByRun returns the number of entries for a run
func (r *GormItemLogRepository) CountByRun(ctx context.Context, runID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ItemLogModel{}).
		Where("run_id = ?", runID).
		Count(&count).Error
	return count, err
}

var _ syncrun.ItemLogRepository = (*GormItemLogRepository)(nil)
