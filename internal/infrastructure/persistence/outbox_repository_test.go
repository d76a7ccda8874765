package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pazarhub/backend/internal/domain/marketplace"
	"github.com/pazarhub/backend/internal/domain/outbox"
)

// newMockOutboxRepository creates a GormOutboxRepository with a mocked SQL connection
func newMockOutboxRepository(t *testing.T) (*GormOutboxRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormOutboxRepository(gormDB), mock, mockDB
}

func TestGormOutboxRepository_CreateIfAbsent(t *testing.T) {
	t.Run("reports created on first insert", func(t *testing.T) {
		repo, mock, mockDB := newMockOutboxRepository(t)
		defer mockDB.Close()

		entry := outbox.NewEntry(uuid.New(), marketplace.CodeTrendyol, "880088", "erp", []byte(`{}`))

		mock.ExpectExec(`INSERT INTO "outbox_entries" .* ON CONFLICT \("idempotency_key"\) DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(1, 1))

		created, err := repo.CreateIfAbsent(context.Background(), entry)

		assert.NoError(t, err)
		assert.True(t, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports not created when key already exists", func(t *testing.T) {
		repo, mock, mockDB := newMockOutboxRepository(t)
		defer mockDB.Close()

		entry := outbox.NewEntry(uuid.New(), marketplace.CodeTrendyol, "880088", "erp", []byte(`{}`))

		mock.ExpectExec(`INSERT INTO "outbox_entries" .* ON CONFLICT \("idempotency_key"\) DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		created, err := repo.CreateIfAbsent(context.Background(), entry)

		assert.NoError(t, err)
		assert.False(t, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOutboxRepository_FindDue(t *testing.T) {
	t.Run("selects pending entries past their attempt time", func(t *testing.T) {
		repo, mock, mockDB := newMockOutboxRepository(t)
		defer mockDB.Close()

		now := time.Now()
		rows := sqlmock.NewRows([]string{"id", "owner_id", "idempotency_key", "marketplace", "external_id", "target", "state", "attempt_count", "max_attempts", "next_attempt_at"}).
			AddRow(uuid.New(), uuid.New(), "abc123", "TRENDYOL", "880088", "erp", "PENDING", 1, 5, now.Add(-time.Minute))

		mock.ExpectQuery(`SELECT \* FROM "outbox_entries" WHERE state = \$1 AND next_attempt_at <= \$2 ORDER BY next_attempt_at ASC LIMIT .*`).
			WithArgs("PENDING", sqlmock.AnyArg(), 10).
			WillReturnRows(rows)

		entries, err := repo.FindDue(context.Background(), now, 10)

		assert.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, outbox.StatePending, entries[0].State)
		assert.Equal(t, 1, entries[0].AttemptCount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOutboxRepository_Update(t *testing.T) {
	t.Run("returns ErrEntryNotFound for a vanished row", func(t *testing.T) {
		repo, mock, mockDB := newMockOutboxRepository(t)
		defer mockDB.Close()

		entry := outbox.NewEntry(uuid.New(), marketplace.CodeN11, "1", "erp", nil)
		entry.MarkSent("ERP-7")

		mock.ExpectExec(`UPDATE "outbox_entries" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), entry)

		assert.ErrorIs(t, err, outbox.ErrEntryNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
