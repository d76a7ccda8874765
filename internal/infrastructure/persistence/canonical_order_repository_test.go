package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pazarhub/backend/internal/domain/marketplace"
)

// newMockOrderRepository creates a GormCanonicalOrderRepository with a mocked SQL connection
func newMockOrderRepository(t *testing.T) (*GormCanonicalOrderRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormCanonicalOrderRepository(gormDB), mock, mockDB
}

func TestGormCanonicalOrderRepository_FindByExternalID(t *testing.T) {
	t.Run("finds existing order", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		ownerID := uuid.New()
		orderID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "owner_id", "marketplace", "external_id", "order_number", "status", "raw_status", "customer", "items", "total_amount", "currency", "placed_at", "erp_reference"}).
			AddRow(orderID, ownerID, "TRENDYOL", "880088", "TY-1001", "SHIPPED", "Shipped",
				`{"Name":"Ada Yilmaz"}`, `[{"Barcode":"b1","Quantity":"2","UnitPrice":"74.95"}]`,
				decimal.NewFromFloat(149.90), "TRY", time.Now(), "")

		mock.ExpectQuery(`SELECT \* FROM "canonical_orders" WHERE owner_id = \$1 AND marketplace = \$2 AND external_id = \$3 ORDER BY .* LIMIT .*`).
			WithArgs(ownerID, "TRENDYOL", "880088", 1).
			WillReturnRows(rows)

		order, err := repo.FindByExternalID(context.Background(), ownerID, marketplace.CodeTrendyol, "880088")

		assert.NoError(t, err)
		require.NotNil(t, order)
		assert.Equal(t, "TY-1001", order.OrderNumber)
		assert.Equal(t, marketplace.OrderStatusShipped, order.Status)
		assert.Equal(t, "Ada Yilmaz", order.Customer.Name)
		require.Len(t, order.Items, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to ErrRecordNotFound", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		ownerID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "canonical_orders"`).
			WillReturnError(gorm.ErrRecordNotFound)

		order, err := repo.FindByExternalID(context.Background(), ownerID, marketplace.CodeTrendyol, "missing")

		assert.ErrorIs(t, err, marketplace.ErrRecordNotFound)
		assert.Nil(t, order)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCanonicalOrderRepository_Upsert(t *testing.T) {
	t.Run("upserts by natural key without touching erp_reference", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		order := &marketplace.CanonicalOrder{
			ID:          uuid.New(),
			OwnerID:     uuid.New(),
			Marketplace: marketplace.CodeTrendyol,
			ExternalID:  "880088",
			Status:      marketplace.OrderStatusNew,
			TotalAmount: decimal.NewFromInt(100),
		}

		mock.ExpectExec(`INSERT INTO "canonical_orders" .* ON CONFLICT \("owner_id","marketplace","external_id"\) DO UPDATE SET .*"status"=.*`).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.Upsert(context.Background(), order)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCanonicalOrderRepository_SetERPReference(t *testing.T) {
	t.Run("guards against overwriting an existing reference", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		ownerID := uuid.New()
		mock.ExpectExec(`UPDATE "canonical_orders" SET .* WHERE owner_id = \$\d+ AND marketplace = \$\d+ AND external_id = \$\d+ AND \(erp_reference = '' OR erp_reference IS NULL\)`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SetERPReference(context.Background(), ownerID, marketplace.CodeTrendyol, "880088", "ERP-42")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
