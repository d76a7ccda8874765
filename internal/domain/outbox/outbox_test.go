package outbox

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pazarhub/backend/internal/domain/marketplace"
)

func TestKeyIsDeterministic(t *testing.T) {
	k1 := Key(marketplace.CodeTrendyol, "TY-1001", "erp")
	k2 := Key(marketplace.CodeTrendyol, "TY-1001", "erp")
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 64, "hex-encoded sha256")
}

func TestKeyVariesPerComponent(t *testing.T) {
	base := Key(marketplace.CodeTrendyol, "TY-1001", "erp")
	assert.NotEqual(t, base, Key(marketplace.CodeN11, "TY-1001", "erp"))
	assert.NotEqual(t, base, Key(marketplace.CodeTrendyol, "TY-1002", "erp"))
	assert.NotEqual(t, base, Key(marketplace.CodeTrendyol, "TY-1001", "warehouse"))
}

func TestNewEntry(t *testing.T) {
	ownerID := uuid.New()
	entry := NewEntry(ownerID, marketplace.CodeHepsiburada, "HB-42", "erp", []byte(`{"id":"HB-42"}`))

	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.Equal(t, ownerID, entry.OwnerID)
	assert.Equal(t, Key(marketplace.CodeHepsiburada, "HB-42", "erp"), entry.IdempotencyKey)
	assert.Equal(t, StatePending, entry.State)
	assert.Equal(t, 0, entry.AttemptCount)
	assert.Equal(t, DefaultMaxAttempts, entry.MaxAttempts)
	assert.True(t, entry.Due(time.Now()), "new entries are due immediately")
}

func TestEntryDue(t *testing.T) {
	entry := NewEntry(uuid.New(), marketplace.CodeN11, "N11-1", "erp", nil)
	now := time.Now()

	entry.NextAttemptAt = now.Add(time.Minute)
	assert.False(t, entry.Due(now))

	entry.NextAttemptAt = now.Add(-time.Minute)
	assert.True(t, entry.Due(now))

	entry.State = StateSent
	assert.False(t, entry.Due(now), "sent entries are never due")
}

func TestMarkSent(t *testing.T) {
	entry := NewEntry(uuid.New(), marketplace.CodeTrendyol, "TY-1", "erp", nil)

	entry.MarkSent("ERP-REF-7")

	assert.Equal(t, StateSent, entry.State)
	assert.Equal(t, "ERP-REF-7", entry.Reference)
	require.NotNil(t, entry.SentAt)
}

func TestMarkFailedBacksOffExponentially(t *testing.T) {
	entry := NewEntry(uuid.New(), marketplace.CodeTrendyol, "TY-1", "erp", nil)

	before := time.Now()
	entry.MarkFailed("erp timeout")

	assert.Equal(t, StatePending, entry.State)
	assert.Equal(t, 1, entry.AttemptCount)
	assert.Equal(t, "erp timeout", entry.LastError)
	// first retry is one base backoff out
	assert.WithinDuration(t, before.Add(DefaultBaseBackoff), entry.NextAttemptAt, time.Second)

	before = time.Now()
	entry.MarkFailed("erp timeout")
	assert.Equal(t, 2, entry.AttemptCount)
	assert.WithinDuration(t, before.Add(2*DefaultBaseBackoff), entry.NextAttemptAt, time.Second)
}

func TestMarkFailedExhaustsAtCeiling(t *testing.T) {
	entry := NewEntry(uuid.New(), marketplace.CodeTrendyol, "TY-1", "erp", nil)

	for i := 0; i < DefaultMaxAttempts; i++ {
		entry.MarkFailed("still down")
	}

	assert.Equal(t, StateExhausted, entry.State)
	assert.Equal(t, DefaultMaxAttempts, entry.AttemptCount)
}

func TestMarkRejectedExhaustsImmediately(t *testing.T) {
	entry := NewEntry(uuid.New(), marketplace.CodeIdefix, "IDX-1", "erp", nil)

	entry.MarkRejected("unknown product code")

	assert.Equal(t, StateExhausted, entry.State)
	assert.Equal(t, 1, entry.AttemptCount)
	assert.Equal(t, "unknown product code", entry.LastError)
}

func TestResetForRetry(t *testing.T) {
	entry := NewEntry(uuid.New(), marketplace.CodePazarama, "PZ-1", "erp", nil)
	entry.MarkRejected("transient misclassified by operator judgement")

	require.NoError(t, entry.ResetForRetry())

	assert.Equal(t, StatePending, entry.State)
	assert.Equal(t, 0, entry.AttemptCount)
	assert.Empty(t, entry.LastError)
	assert.True(t, entry.Due(time.Now()))
}

func TestResetForRetryRequiresExhausted(t *testing.T) {
	pending := NewEntry(uuid.New(), marketplace.CodeTrendyol, "TY-1", "erp", nil)
	assert.ErrorIs(t, pending.ResetForRetry(), ErrNotExhausted)

	sent := NewEntry(uuid.New(), marketplace.CodeTrendyol, "TY-2", "erp", nil)
	sent.MarkSent("REF")
	assert.ErrorIs(t, sent.ResetForRetry(), ErrNotExhausted)
}
