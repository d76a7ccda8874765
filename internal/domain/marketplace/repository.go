package marketplace

import (
	"context"

	"github.com/google/uuid"
)

// OrderRepository persists canonical orders keyed by
// (owner, marketplace, external_id).
type OrderRepository interface {
	// FindByExternalID returns the stored order or ErrRecordNotFound
	FindByExternalID(ctx context.Context, ownerID uuid.UUID, code Code, externalID string) (*CanonicalOrder, error)
	// Upsert inserts or updates the order by its natural key
	Upsert(ctx context.Context, order *CanonicalOrder) error
	// SetERPReference writes the downstream acknowledgment reference onto the
	// order. It never overwrites an existing non-empty reference.
	SetERPReference(ctx context.Context, ownerID uuid.UUID, code Code, externalID, ref string) error
	// CountByExternalID returns how many rows exist for the natural key
	CountByExternalID(ctx context.Context, ownerID uuid.UUID, code Code, externalID string) (int64, error)
}

// ProductRepository persists canonical products.
type ProductRepository interface {
	FindByExternalID(ctx context.Context, ownerID uuid.UUID, code Code, externalID string) (*CanonicalProduct, error)
	Upsert(ctx context.Context, product *CanonicalProduct) error
}

// QuestionRepository persists canonical customer questions.
type QuestionRepository interface {
	FindByExternalID(ctx context.Context, ownerID uuid.UUID, code Code, externalID string) (*CanonicalQuestion, error)
	Upsert(ctx context.Context, question *CanonicalQuestion) error
}

// ReturnRepository persists canonical return requests.
type ReturnRepository interface {
	FindByExternalID(ctx context.Context, ownerID uuid.UUID, code Code, externalID string) (*CanonicalReturn, error)
	Upsert(ctx context.Context, ret *CanonicalReturn) error
}
