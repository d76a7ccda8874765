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

// GormCanonicalProductRepository implements marketplace.ProductRepository using GORM
type GormCanonicalProductRepository struct {
	db *gorm.DB
}

// NewGormCanonicalProductRepository creates a new GormCanonicalProductRepository
func NewGormCanonicalProductRepository(db *gorm.DB) *GormCanonicalProductRepository {
	return &GormCanonicalProductRepository{db: db}
}

// FindByExternalID finds a product by its natural key
func (r *GormCanonicalProductRepository) FindByExternalID(ctx context.Context, ownerID uuid.UUID, code marketplace.Code, externalID string) (*marketplace.CanonicalProduct, error) {
	var model models.CanonicalProductModel
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

// Upsert inserts or updates the product by its natural key
func (r *GormCanonicalProductRepository) Upsert(ctx context.Context, product *marketplace.CanonicalProduct) error {
	model := models.CanonicalProductModelFromDomain(product)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "owner_id"}, {Name: "marketplace"}, {Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"barcode", "sku", "title", "price", "stock_quantity",
				"approval", "raw_status", "raw_payload", "last_synced_at", "updated_at",
			}),
		}).
		Create(model).Error
}

var _ marketplace.ProductRepository = (*GormCanonicalProductRepository)(nil)

// GormCanonicalQuestionRepository implements marketplace.QuestionRepository using GORM
type GormCanonicalQuestionRepository struct {
	db *gorm.DB
}

// NewGormCanonicalQuestionRepository creates a new GormCanonicalQuestionRepository
func NewGormCanonicalQuestionRepository(db *gorm.DB) *GormCanonicalQuestionRepository {
	return &GormCanonicalQuestionRepository{db: db}
}

// FindByExternalID finds a question by its natural key
func (r *GormCanonicalQuestionRepository) FindByExternalID(ctx context.Context, ownerID uuid.UUID, code marketplace.Code, externalID string) (*marketplace.CanonicalQuestion, error) {
	var model models.CanonicalQuestionModel
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

// Upsert inserts or updates the question by its natural key
func (r *GormCanonicalQuestionRepository) Upsert(ctx context.Context, question *marketplace.CanonicalQuestion) error {
	model := &models.CanonicalQuestionModel{}
	model.FromDomain(question)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "owner_id"}, {Name: "marketplace"}, {Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"product_external_id", "customer_name", "text", "answered",
				"asked_at", "raw_payload", "updated_at",
			}),
		}).
		Create(model).Error
}

var _ marketplace.QuestionRepository = (*GormCanonicalQuestionRepository)(nil)

// GormCanonicalReturnRepository implements marketplace.ReturnRepository using GORM
type GormCanonicalReturnRepository struct {
	db *gorm.DB
}

// NewGormCanonicalReturnRepository creates a new GormCanonicalReturnRepository
func NewGormCanonicalReturnRepository(db *gorm.DB) *GormCanonicalReturnRepository {
	return &GormCanonicalReturnRepository{db: db}
}

// FindByExternalID finds a return request by its natural key
func (r *GormCanonicalReturnRepository) FindByExternalID(ctx context.Context, ownerID uuid.UUID, code marketplace.Code, externalID string) (*marketplace.CanonicalReturn, error) {
	var model models.CanonicalReturnModel
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

// Upsert inserts or updates the return request by its natural key
func (r *GormCanonicalReturnRepository) Upsert(ctx context.Context, ret *marketplace.CanonicalReturn) error {
	model := &models.CanonicalReturnModel{}
	model.FromDomain(ret)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "owner_id"}, {Name: "marketplace"}, {Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"order_external_id", "reason", "status", "raw_status",
				"requested_at", "raw_payload", "updated_at",
			}),
		}).
		Create(model).Error
}

var _ marketplace.ReturnRepository = (*GormCanonicalReturnRepository)(nil)
