package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pazarhub/backend/internal/domain/marketplace"
	"github.com/pazarhub/backend/internal/infrastructure/persistence/models"
)

// GormCanonicalOrderRepository implements marketplace.OrderRepository using GORM
type GormCanonicalOrderRepository struct {
	db *gorm.DB
}

// NewGormCanonicalOrderRepository creates a new GormCanonicalOrderRepository
func NewGormCanonicalOrderRepository(db *gorm.DB) *GormCanonicalOrderRepository {
	return &GormCanonicalOrderRepository{db: db}
}

// FindByExternalID finds an order by its natural key
func (r *GormCanonicalOrderRepository) FindByExternalID(ctx context.Context, ownerID uuid.UUID, code marketplace.Code, externalID string) (*marketplace.CanonicalOrder, error) {
	var model models.CanonicalOrderModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND marketplace = ? AND external_id = ?", ownerID, code, externalID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, marketplace.ErrRecordNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Upsert inserts or updates the order by its natural key. The erp_reference
// column is deliberately excluded from the conflict update so a re-sync can
// never clear an acknowledgment that was already recorded.
func (r *GormCanonicalOrderRepository) Upsert(ctx context.Context, order *marketplace.CanonicalOrder) error {
	model := models.CanonicalOrderModelFromDomain(order)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "owner_id"}, {Name: "marketplace"}, {Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"order_number", "status", "raw_status", "customer", "items",
				"total_amount", "currency", "placed_at", "raw_payload", "updated_at",
			}),
		}).
		Create(model).Error
}

// SetERPReference writes the downstream acknowledgment reference onto the
// order. The guard in the WHERE clause keeps an existing reference intact.
func (r *GormCanonicalOrderRepository) SetERPReference(ctx context.Context, ownerID uuid.UUID, code marketplace.Code, externalID, ref string) error {
	result := r.db.WithContext(ctx).
		Model(&models.CanonicalOrderModel{}).
		Where("owner_id = ? AND marketplace = ? AND external_id = ? AND (erp_reference = '' OR erp_reference IS NULL)",
			ownerID, code, externalID).
		Update("erp_reference", ref)
	return result.Error
}

// CountByExternalID returns how many rows exist for the natural key
func (r *GormCanonicalOrderRepository) CountByExternalID(ctx context.Context, ownerID uuid.UUID, code marketplace.Code, externalID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CanonicalOrderModel{}).
		Where("owner_id = ? AND marketplace = ? AND external_id = ?", ownerID, code, externalID).
		Count(&count).Error
	return count, err
}

var _ marketplace.OrderRepository = (*GormCanonicalOrderRepository)(nil)
