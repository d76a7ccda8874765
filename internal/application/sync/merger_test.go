package sync

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pazarhub/backend/internal/domain/marketplace"
)

func newTestMerger() (*RecordMerger, *memOrderRepo) {
	orders := newMemOrderRepo()
	return NewRecordMerger(orders, newMemProductRepo(), memQuestionRepo{}, memReturnRepo{}), orders
}

func TestMergeOrderInsertsThenUpdatesInPlace(t *testing.T) {
	merger, orders := newTestMerger()
	ownerID := uuid.New()

	first := &marketplace.CanonicalOrder{
		OwnerID:     ownerID,
		Marketplace: marketplace.CodeTrendyol,
		ExternalID:  "X1",
		Status:      marketplace.OrderStatusNew,
		RawStatus:   "Created",
		TotalAmount: decimal.NewFromInt(100),
		Items: []marketplace.LineItem{
			{Barcode: "b1", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100)},
		},
	}
	_, err := merger.MergeOrder(context.Background(), first)
	require.NoError(t, err)

	stored, err := orders.FindByExternalID(context.Background(), ownerID, marketplace.CodeTrendyol, "X1")
	require.NoError(t, err)
	firstID := stored.ID

	second := &marketplace.CanonicalOrder{
		OwnerID:     ownerID,
		Marketplace: marketplace.CodeTrendyol,
		ExternalID:  "X1",
		Status:      marketplace.OrderStatusShipped,
		RawStatus:   "Shipped",
		TotalAmount: decimal.NewFromInt(100),
		Items: []marketplace.LineItem{
			{Barcode: "b1", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(50)},
			{Barcode: "b2", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(50)},
		},
	}
	_, err = merger.MergeOrder(context.Background(), second)
	require.NoError(t, err)

	stored, err = orders.FindByExternalID(context.Background(), ownerID, marketplace.CodeTrendyol, "X1")
	require.NoError(t, err)
	assert.Equal(t, firstID, stored.ID, "re-sync must update the same row")
	assert.Equal(t, marketplace.OrderStatusShipped, stored.Status)
	// Line items are replaced wholesale, never appended.
	assert.Len(t, stored.Items, 2)
}

func TestMergeOrderCustomerFieldsMergeFieldWise(t *testing.T) {
	merger, orders := newTestMerger()
	ownerID := uuid.New()

	_, err := merger.MergeOrder(context.Background(), &marketplace.CanonicalOrder{
		OwnerID:     ownerID,
		Marketplace: marketplace.CodeHepsiburada,
		ExternalID:  "H1",
		Customer:    marketplace.Customer{Name: "Ada Yilmaz", Email: "ada@example.com"},
	})
	require.NoError(t, err)

	// The follow-up payload has a phone but no email.
	_, err = merger.MergeOrder(context.Background(), &marketplace.CanonicalOrder{
		OwnerID:     ownerID,
		Marketplace: marketplace.CodeHepsiburada,
		ExternalID:  "H1",
		Customer:    marketplace.Customer{Name: "Ada Yilmaz", Phone: "5551112233"},
	})
	require.NoError(t, err)

	stored, err := orders.FindByExternalID(context.Background(), ownerID, marketplace.CodeHepsiburada, "H1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", stored.Customer.Email, "absent field keeps stored value")
	assert.Equal(t, "5551112233", stored.Customer.Phone, "present field wins")
}

func TestMergeOrderKeepsERPReferenceSticky(t *testing.T) {
	merger, orders := newTestMerger()
	ownerID := uuid.New()

	_, err := merger.MergeOrder(context.Background(), &marketplace.CanonicalOrder{
		OwnerID:     ownerID,
		Marketplace: marketplace.CodeN11,
		ExternalID:  "N1",
	})
	require.NoError(t, err)
	require.NoError(t, orders.SetERPReference(context.Background(), ownerID, marketplace.CodeN11, "N1", "ERP-9"))

	// A re-sync carries no reference; the stored one must survive.
	_, err = merger.MergeOrder(context.Background(), &marketplace.CanonicalOrder{
		OwnerID:     ownerID,
		Marketplace: marketplace.CodeN11,
		ExternalID:  "N1",
		Status:      marketplace.OrderStatusDelivered,
	})
	require.NoError(t, err)

	stored, err := orders.FindByExternalID(context.Background(), ownerID, marketplace.CodeN11, "N1")
	require.NoError(t, err)
	assert.Equal(t, "ERP-9", stored.ERPReference)
	assert.Equal(t, marketplace.OrderStatusDelivered, stored.Status)
}

func TestMergeOrdersSameExternalIDDifferentMarketplacesStayDistinct(t *testing.T) {
	merger, orders := newTestMerger()
	ownerID := uuid.New()

	for _, code := range []marketplace.Code{marketplace.CodeTrendyol, marketplace.CodeHepsiburada} {
		_, err := merger.MergeOrder(context.Background(), &marketplace.CanonicalOrder{
			OwnerID:     ownerID,
			Marketplace: code,
			ExternalID:  "SHARED-1",
		})
		require.NoError(t, err)
	}

	a, err := orders.FindByExternalID(context.Background(), ownerID, marketplace.CodeTrendyol, "SHARED-1")
	require.NoError(t, err)
	b, err := orders.FindByExternalID(context.Background(), ownerID, marketplace.CodeHepsiburada, "SHARED-1")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}
