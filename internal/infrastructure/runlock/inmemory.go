package runlock

import (
	"context"
	"sync"
	"time"

	"github.com/pazarhub/backend/internal/domain/syncrun"
)

// InMemoryLocker implements syncrun.Locker for single-process deployments
// and tests. Expired holds are reaped lazily on the next acquire.
type InMemoryLocker struct {
	mu    sync.Mutex
	holds map[string]time.Time
}

// NewInMemoryLocker creates an in-memory run locker.
func NewInMemoryLocker() *InMemoryLocker {
	return &InMemoryLocker{holds: make(map[string]time.Time)}
}

// TryAcquire claims the tuple unless an unexpired hold exists.
func (l *InMemoryLocker) TryAcquire(_ context.Context, key syncrun.Key, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if expiry, ok := l.holds[key.String()]; ok && expiry.After(now) {
		return false, nil
	}
	l.holds[key.String()] = now.Add(ttl)
	return true, nil
}

// Release frees the tuple.
func (l *InMemoryLocker) Release(_ context.Context, key syncrun.Key) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.holds, key.String())
	return nil
}

// Ensure InMemoryLocker implements syncrun.Locker
var _ syncrun.Locker = (*InMemoryLocker)(nil)
