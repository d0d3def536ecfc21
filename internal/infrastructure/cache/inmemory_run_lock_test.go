package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencatalog/backend/internal/domain/sync"
)

func TestInMemoryRunLock(t *testing.T) {
	ctx := context.Background()

	t.Run("acquires a free lock", func(t *testing.T) {
		lock := NewInMemoryRunLock()
		acquired, err := lock.TryAcquire(ctx, uuid.New(), sync.SourceCodeOdoo)
		require.NoError(t, err)
		assert.True(t, acquired)
	})

	t.Run("rejects a second acquisition for the same pair", func(t *testing.T) {
		lock := NewInMemoryRunLock()
		tenantID := uuid.New()

		acquired, err := lock.TryAcquire(ctx, tenantID, sync.SourceCodeOdoo)
		require.NoError(t, err)
		require.True(t, acquired)

		acquired, err = lock.TryAcquire(ctx, tenantID, sync.SourceCodeOdoo)
		require.NoError(t, err)
		assert.False(t, acquired)
	})

	t.Run("different pairs do not contend", func(t *testing.T) {
		lock := NewInMemoryRunLock()
		tenantID := uuid.New()

		acquired, err := lock.TryAcquire(ctx, tenantID, sync.SourceCodeOdoo)
		require.NoError(t, err)
		require.True(t, acquired)

		acquired, err = lock.TryAcquire(ctx, tenantID, sync.SourceCodeShopify)
		require.NoError(t, err)
		assert.True(t, acquired, "another source for the same tenant")

		acquired, err = lock.TryAcquire(ctx, uuid.New(), sync.SourceCodeOdoo)
		require.NoError(t, err)
		assert.True(t, acquired, "the same source for another tenant")
	})

	t.Run("release frees the pair", func(t *testing.T) {
		lock := NewInMemoryRunLock()
		tenantID := uuid.New()

		acquired, err := lock.TryAcquire(ctx, tenantID, sync.SourceCodeOdoo)
		require.NoError(t, err)
		require.True(t, acquired)

		require.NoError(t, lock.Release(ctx, tenantID, sync.SourceCodeOdoo))

		acquired, err = lock.TryAcquire(ctx, tenantID, sync.SourceCodeOdoo)
		require.NoError(t, err)
		assert.True(t, acquired)
	})

	t.Run("releasing an unheld lock is a no-op", func(t *testing.T) {
		lock := NewInMemoryRunLock()
		assert.NoError(t, lock.Release(ctx, uuid.New(), sync.SourceCodeOdoo))
	})

	t.Run("expired locks can be reacquired", func(t *testing.T) {
		lock := NewInMemoryRunLock()
		tenantID := uuid.New()

		now := time.Now()
		lock.clock = func() time.Time { return now }

		acquired, err := lock.TryAcquire(ctx, tenantID, sync.SourceCodeOdoo)
		require.NoError(t, err)
		require.True(t, acquired)

		lock.clock = func() time.Time { return now.Add(defaultLockTTL + time.Minute) }

		acquired, err = lock.TryAcquire(ctx, tenantID, sync.SourceCodeOdoo)
		require.NoError(t, err)
		assert.True(t, acquired, "a leaked lock expires")
	})
}
