package cache

import (
	"context"
	stdsync "sync"
	"time"

	"github.com/google/uuid"

	"github.com/opencatalog/backend/internal/domain/sync"
)

// InMemoryRunLock implements RunLock using an in-memory map. It is
// suitable for single-instance deployments and testing. Held locks
// expire after the TTL so a panicked run cannot block its pair forever.
type InMemoryRunLock struct {
	mu    stdsync.Mutex
	held  map[string]time.Time
	ttl   time.Duration
	clock func() time.Time
}

// NewInMemoryRunLock creates a new in-memory run lock
func NewInMemoryRunLock() *InMemoryRunLock {
	return &InMemoryRunLock{
		held:  make(map[string]time.Time),
		ttl:   defaultLockTTL,
		clock: time.Now,
	}
}

// TryAcquire attempts to take the lock for the pair
func (l *InMemoryRunLock) TryAcquire(_ context.Context, tenantID uuid.UUID, source sync.SourceCode) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := lockKey(tenantID, source)
	if expiresAt, exists := l.held[key]; exists && l.clock().Before(expiresAt) {
		return false, nil
	}
	l.held[key] = l.clock().Add(l.ttl)
	return true, nil
}

// Release frees the lock for the pair. Releasing a lock that is not
// held is a no-op.
func (l *InMemoryRunLock) Release(_ context.Context, tenantID uuid.UUID, source sync.SourceCode) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, lockKey(tenantID, source))
	return nil
}

func lockKey(tenantID uuid.UUID, source sync.SourceCode) string {
	return tenantID.String() + ":" + string(source)
}

// Ensure InMemoryRunLock implements RunLock
var _ sync.RunLock = (*InMemoryRunLock)(nil)
