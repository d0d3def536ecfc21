package sync

import (
	"time"

	"github.com/google/uuid"

	"github.com/opencatalog/backend/internal/domain/shared"
)

// RunStatus is the persisted status of a batch run
type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusPartial RunStatus = "partial"
	RunStatusFailed  RunStatus = "failed"
)

// IsValid returns true if the status is one of the known values
func (s RunStatus) IsValid() bool {
	switch s {
	case RunStatusRunning, RunStatusSuccess, RunStatusPartial, RunStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true for final states
func (s RunStatus) IsTerminal() bool {
	return s != RunStatusRunning
}

// Run is the persisted record of one batch synchronization run.
// It exists for operator visibility; the SyncResult returned to the
// caller is derived from the same counts.
type Run struct {
	shared.TenantAggregateRoot
	Source       SourceCode `gorm:"type:varchar(20);not null;index"`
	Status       RunStatus  `gorm:"type:varchar(20);not null;default:'running'"`
	SyncedCount  int        `gorm:"not null;default:0"`
	CreatedCount int        `gorm:"not null;default:0"`
	UpdatedCount int        `gorm:"not null;default:0"`
	ErrorCount   int        `gorm:"not null;default:0"`
	Errors       []string   `gorm:"type:jsonb;serializer:json"`
	TriggeredBy  string     `gorm:"type:varchar(100)"`
	StartedAt    time.Time  `gorm:"not null"`
	FinishedAt   *time.Time
}

// TableName returns the table name for GORM
func (Run) TableName() string {
	return "sync_runs"
}

// NewRun starts a run record for a tenant and source
func NewRun(tenantID uuid.UUID, source SourceCode, triggeredBy string) (*Run, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewValidationError("tenant ID is required")
	}
	if !source.IsValid() {
		return nil, ErrUnknownSource
	}

	return &Run{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Source:              source,
		Status:              RunStatusRunning,
		Errors:              make([]string, 0),
		TriggeredBy:         triggeredBy,
		StartedAt:           time.Now(),
	}, nil
}

// Complete folds the final result into the run record
func (r *Run) Complete(result *SyncResult) {
	r.SyncedCount = result.SyncedCount
	r.CreatedCount = result.CreatedCount
	r.UpdatedCount = result.UpdatedCount
	r.ErrorCount = result.ErrorCount
	r.Errors = result.Errors

	switch {
	case result.Success:
		r.Status = RunStatusSuccess
	case result.SyncedCount > 0:
		r.Status = RunStatusPartial
	default:
		r.Status = RunStatusFailed
	}

	now := time.Now()
	r.FinishedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()
}
