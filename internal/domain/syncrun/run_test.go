package syncrun

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pazarhub/backend/internal/domain/marketplace"
)

func newRunningRun(t *testing.T) *Run {
	t.Helper()
	run, err := New(uuid.New(), marketplace.CodeTrendyol, marketplace.EntityOrder)
	require.NoError(t, err)
	require.NoError(t, run.Start())
	return run
}

func TestNewRun(t *testing.T) {
	ownerID := uuid.New()
	run, err := New(ownerID, marketplace.CodeN11, marketplace.EntityProduct)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, run.ID)
	assert.Equal(t, ownerID, run.OwnerID)
	assert.Equal(t, marketplace.CodeN11, run.Marketplace)
	assert.Equal(t, marketplace.EntityProduct, run.Entity)
	assert.Equal(t, StatePending, run.State)
	assert.Nil(t, run.FinishedAt)
}

func TestNewRunRejectsInvalidArgs(t *testing.T) {
	tests := []struct {
		name   string
		owner  uuid.UUID
		code   marketplace.Code
		entity marketplace.EntityType
	}{
		{"nil owner", uuid.Nil, marketplace.CodeTrendyol, marketplace.EntityOrder},
		{"invalid marketplace", uuid.New(), marketplace.Code("EBAY"), marketplace.EntityOrder},
		{"invalid entity", uuid.New(), marketplace.CodeTrendyol, marketplace.EntityType("INVOICE")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.owner, tt.code, tt.entity)
			assert.ErrorIs(t, err, ErrInvalidRunArgs)
		})
	}
}

func TestRunKeyString(t *testing.T) {
	ownerID := uuid.MustParse("a3bb189e-8bf9-3888-9912-ace4e6543002")
	run, err := New(ownerID, marketplace.CodeHepsiburada, marketplace.EntityReturn)
	require.NoError(t, err)

	assert.Equal(t, "a3bb189e-8bf9-3888-9912-ace4e6543002:HEPSIBURADA:RETURN", run.Key().String())
}

func TestRunStart(t *testing.T) {
	run, err := New(uuid.New(), marketplace.CodeTrendyol, marketplace.EntityOrder)
	require.NoError(t, err)

	require.NoError(t, run.Start())
	assert.Equal(t, StateRunning, run.State)
	assert.False(t, run.StartedAt.IsZero())

	// double start is rejected
	assert.ErrorIs(t, run.Start(), ErrRunTerminal)
}

func TestRunCompleteSuccess(t *testing.T) {
	run := newRunningRun(t)

	require.NoError(t, run.Complete(3, 120, 0))
	assert.Equal(t, StateSuccess, run.State)
	assert.Equal(t, 3, run.PagesFetched)
	assert.Equal(t, 120, run.ItemsSeen)
	require.NotNil(t, run.FinishedAt)
}

func TestRunCompletePartialFailure(t *testing.T) {
	run := newRunningRun(t)

	require.NoError(t, run.Complete(2, 50, 4))
	assert.Equal(t, StatePartialFailure, run.State)
	assert.Equal(t, 4, run.ItemsFailed)
}

func TestRunCompleteFromPendingRejected(t *testing.T) {
	run, err := New(uuid.New(), marketplace.CodeTrendyol, marketplace.EntityOrder)
	require.NoError(t, err)

	assert.ErrorIs(t, run.Complete(0, 0, 0), ErrRunTerminal)
}

func TestRunFail(t *testing.T) {
	run := newRunningRun(t)

	require.NoError(t, run.Fail(1, 20, 20, "credentials rejected"))
	assert.Equal(t, StateFailed, run.State)
	assert.Equal(t, "credentials rejected", run.Error)
	assert.Equal(t, 1, run.PagesFetched, "partial progress is retained")
	require.NotNil(t, run.FinishedAt)

	// terminal runs never transition again
	assert.ErrorIs(t, run.Fail(0, 0, 0, "again"), ErrRunTerminal)
	assert.ErrorIs(t, run.Complete(0, 0, 0), ErrRunTerminal)
}

func TestRunFailFromPending(t *testing.T) {
	run, err := New(uuid.New(), marketplace.CodePazarama, marketplace.EntityOrder)
	require.NoError(t, err)

	// a run that never acquired its lock fails before starting
	require.NoError(t, run.Fail(0, 0, 0, "lock held"))
	assert.Equal(t, StateFailed, run.State)
}

func TestStatePredicates(t *testing.T) {
	assert.True(t, StateSuccess.IsTerminal())
	assert.True(t, StatePartialFailure.IsTerminal())
	assert.True(t, StateFailed.IsTerminal())
	assert.False(t, StatePending.IsTerminal())
	assert.False(t, StateRunning.IsTerminal())

	assert.True(t, StateRunning.IsValid())
	assert.False(t, State("DONE").IsValid())
}

func TestNewItemLog(t *testing.T) {
	runID := uuid.New()
	log := NewItemLog(runID, "TY-1001", OutcomeFailed)

	assert.NotEqual(t, uuid.Nil, log.ID)
	assert.Equal(t, runID, log.RunID)
	assert.Equal(t, "TY-1001", log.ItemExternalID)
	assert.Equal(t, OutcomeFailed, log.Outcome)
	assert.False(t, log.AttemptedAt.IsZero())
}
