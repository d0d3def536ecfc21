package sync

import (
	"context"

	"github.com/google/uuid"
)

// RunLock serializes batch runs per (tenant, source) pair. Runs for
// different pairs proceed concurrently; a second run for the same pair
// is rejected while the first holds the lock.
type RunLock interface {
	// TryAcquire attempts to take the lock for the pair.
	// Returns false when another run already holds it.
	TryAcquire(ctx context.Context, tenantID uuid.UUID, source SourceCode) (bool, error)

	// Release frees the lock for the pair. Releasing a lock that is
	// not held is a no-op.
	Release(ctx context.Context, tenantID uuid.UUID, source SourceCode) error
}
