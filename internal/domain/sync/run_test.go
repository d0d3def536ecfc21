package sync

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRun(t *testing.T) {
	tenantID := uuid.New()

	t.Run("starts running", func(t *testing.T) {
		run, err := NewRun(tenantID, SourceCodeOdoo, "scheduler")
		require.NoError(t, err)
		assert.Equal(t, RunStatusRunning, run.Status)
		assert.False(t, run.Status.IsTerminal())
		assert.False(t, run.StartedAt.IsZero())
		assert.Nil(t, run.FinishedAt)
	})

	t.Run("rejects missing tenant", func(t *testing.T) {
		_, err := NewRun(uuid.Nil, SourceCodeOdoo, "")
		require.Error(t, err)
	})

	t.Run("rejects unknown source", func(t *testing.T) {
		_, err := NewRun(tenantID, SourceCode("EBAY"), "")
		require.ErrorIs(t, err, ErrUnknownSource)
	})
}

func TestRunComplete(t *testing.T) {
	tenantID := uuid.New()

	t.Run("clean run completes as success", func(t *testing.T) {
		run, err := NewRun(tenantID, SourceCodeShopify, "api")
		require.NoError(t, err)

		result := NewSyncResult(SourceCodeShopify)
		result.Record(OkOutcome("A", EffectCreated))
		result.Finish()

		run.Complete(result)
		assert.Equal(t, RunStatusSuccess, run.Status)
		assert.Equal(t, 1, run.SyncedCount)
		assert.Equal(t, 1, run.CreatedCount)
		require.NotNil(t, run.FinishedAt)
	})

	t.Run("mixed run completes as partial", func(t *testing.T) {
		run, err := NewRun(tenantID, SourceCodeShopify, "api")
		require.NoError(t, err)

		result := NewSyncResult(SourceCodeShopify)
		result.Record(OkOutcome("A", EffectUpdated))
		result.Record(ErrOutcome(NewMappingError("B", errors.New("no sku"))))
		result.Finish()

		run.Complete(result)
		assert.Equal(t, RunStatusPartial, run.Status)
		assert.Equal(t, 1, run.ErrorCount)
		assert.Len(t, run.Errors, 1)
	})

	t.Run("aborted run completes as failed", func(t *testing.T) {
		run, err := NewRun(tenantID, SourceCodeShopify, "api")
		require.NoError(t, err)

		result := NewSyncResult(SourceCodeShopify)
		result.Abort(NewConnectionError(SourceCodeShopify, FailureUnreachable, errors.New("dial tcp")))

		run.Complete(result)
		assert.Equal(t, RunStatusFailed, run.Status)
		assert.True(t, run.Status.IsTerminal())
		assert.Zero(t, run.SyncedCount)
	})
}
