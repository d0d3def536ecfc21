package sync

import (
	"context"

	"github.com/google/uuid"

	"github.com/opencatalog/backend/internal/domain/shared"
)

// RunRepository persists batch run records
type RunRepository interface {
	// Save creates or updates a run record
	Save(ctx context.Context, run *Run) error

	// FindByIDForTenant finds a run by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Run, error)

	// FindAllForTenant lists runs for a tenant, newest first
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Run, error)

	// FindBySource lists runs for a tenant and source, newest first
	FindBySource(ctx context.Context, tenantID uuid.UUID, source SourceCode, filter shared.Filter) ([]Run, error)

	// CountForTenant counts runs for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}
