package syncrun

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pazarhub/backend/internal/domain/marketplace"
)

// RunFilter narrows a run listing. Nil fields match everything.
type RunFilter struct {
	Marketplace *marketplace.Code
	Entity      *marketplace.EntityType
	State       *State
	Page        int
	PageSize    int
}

// RunRepository persists sync runs.
type RunRepository interface {
	// Save creates or updates a run
	Save(ctx context.Context, run *Run) error
	// FindByID returns the run or ErrRunNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*Run, error)
	// FindAll lists runs for an owner, newest first
	FindAll(ctx context.Context, ownerID uuid.UUID, filter RunFilter) ([]Run, int64, error)
}

// ItemLogRepository appends and reads the per-item audit trail.
type ItemLogRepository interface {
	// Append writes entries. Entries are immutable once written.
	Append(ctx context.Context, entries ...*ItemLog) error
	// FindByRun returns all entries for a run in write order
	FindByRun(ctx context.Context, runID uuid.UUID) ([]ItemLog, error)
	// CountByRun returns the number of entries for a run
	CountByRun(ctx context.Context, runID uuid.UUID) (int64, error)
}

// Locker serializes runs per tuple across all workers sharing the backing
// store. TryAcquire is atomic: it returns false when another holder owns the
// key. The TTL bounds how long a crashed worker can wedge a tuple.
type Locker interface {
	TryAcquire(ctx context.Context, key Key, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key Key) error
}
