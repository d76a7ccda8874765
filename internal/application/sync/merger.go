package sync

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pazarhub/backend/internal/domain/marketplace"
)

// RecordMerger folds freshly fetched canonical records into the stored ones.
// All merges key on (owner, marketplace, external id): the same item synced
// twice updates one row, it never duplicates. Mutable marketplace fields
// (status, totals, stock) always take the incoming value; line items are
// replaced wholesale; customer fields merge field-wise so a list call that
// omits the email does not erase one we already have.
type RecordMerger struct {
	orders    marketplace.OrderRepository
	products  marketplace.ProductRepository
	questions marketplace.QuestionRepository
	returns   marketplace.ReturnRepository
}

// NewRecordMerger creates a RecordMerger over the canonical repositories.
func NewRecordMerger(
	orders marketplace.OrderRepository,
	products marketplace.ProductRepository,
	questions marketplace.QuestionRepository,
	returns marketplace.ReturnRepository,
) *RecordMerger {
	return &RecordMerger{
		orders:    orders,
		products:  products,
		questions: questions,
		returns:   returns,
	}
}

// MergeOrder upserts an incoming order. Returns the merged order as stored.
func (m *RecordMerger) MergeOrder(ctx context.Context, incoming *marketplace.CanonicalOrder) (*marketplace.CanonicalOrder, error) {
	stored, err := m.orders.FindByExternalID(ctx, incoming.OwnerID, incoming.Marketplace, incoming.ExternalID)
	switch {
	case err == nil:
		incoming.ID = stored.ID
		incoming.CreatedAt = stored.CreatedAt
		incoming.Customer = marketplace.MergeCustomer(stored.Customer, incoming.Customer)
		// The ERP reference is sticky: only the dispatch path writes it.
		incoming.ERPReference = stored.ERPReference
	case errors.Is(err, marketplace.ErrRecordNotFound):
		if incoming.ID == uuid.Nil {
			incoming.ID = uuid.New()
		}
		incoming.CreatedAt = time.Now()
	default:
		return nil, err
	}
	incoming.UpdatedAt = time.Now()

	if err := m.orders.Upsert(ctx, incoming); err != nil {
		return nil, err
	}
	return incoming, nil
}

// MergeProduct upserts an incoming product listing.
func (m *RecordMerger) MergeProduct(ctx context.Context, incoming *marketplace.CanonicalProduct) error {
	stored, err := m.products.FindByExternalID(ctx, incoming.OwnerID, incoming.Marketplace, incoming.ExternalID)
	switch {
	case err == nil:
		incoming.ID = stored.ID
		incoming.CreatedAt = stored.CreatedAt
	case errors.Is(err, marketplace.ErrRecordNotFound):
		if incoming.ID == uuid.Nil {
			incoming.ID = uuid.New()
		}
		incoming.CreatedAt = time.Now()
	default:
		return err
	}
	now := time.Now()
	incoming.LastSyncedAt = now
	incoming.UpdatedAt = now
	return m.products.Upsert(ctx, incoming)
}

// MergeQuestion upserts an incoming customer question.
func (m *RecordMerger) MergeQuestion(ctx context.Context, incoming *marketplace.CanonicalQuestion) error {
	stored, err := m.questions.FindByExternalID(ctx, incoming.OwnerID, incoming.Marketplace, incoming.ExternalID)
	switch {
	case err == nil:
		incoming.ID = stored.ID
		incoming.CreatedAt = stored.CreatedAt
	case errors.Is(err, marketplace.ErrRecordNotFound):
		if incoming.ID == uuid.Nil {
			incoming.ID = uuid.New()
		}
		incoming.CreatedAt = time.Now()
	default:
		return err
	}
	incoming.UpdatedAt = time.Now()
	return m.questions.Upsert(ctx, incoming)
}

// MergeReturn upserts an incoming return request.
func (m *RecordMerger) MergeReturn(ctx context.Context, incoming *marketplace.CanonicalReturn) error {
	stored, err := m.returns.FindByExternalID(ctx, incoming.OwnerID, incoming.Marketplace, incoming.ExternalID)
	switch {
	case err == nil:
		incoming.ID = stored.ID
		incoming.CreatedAt = stored.CreatedAt
	case errors.Is(err, marketplace.ErrRecordNotFound):
		if incoming.ID == uuid.Nil {
			incoming.ID = uuid.New()
		}
		incoming.CreatedAt = time.Now()
	default:
		return err
	}
	incoming.UpdatedAt = time.Now()
	return m.returns.Upsert(ctx, incoming)
}
