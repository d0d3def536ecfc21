package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/opencatalog/backend/internal/domain/shared"
	"github.com/opencatalog/backend/internal/domain/sync"
)

// GormRunRepository implements RunRepository using GORM
type GormRunRepository struct {
	db *gorm.DB
}

// NewGormRunRepository creates a new GormRunRepository
func NewGormRunRepository(db *gorm.DB) *GormRunRepository {
	return &GormRunRepository{db: db}
}

// Save creates or updates a run record
func (r *GormRunRepository) Save(ctx context.Context, run *sync.Run) error {
	return r.db.WithContext(ctx).Save(run).Error
}

// FindByIDForTenant finds a run by ID within a tenant
func (r *GormRunRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sync.Run, error) {
	var run sync.Run
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &run, nil
}

// FindAllForTenant lists runs for a tenant, newest first
func (r *GormRunRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sync.Run, error) {
	var runs []sync.Run
	query := r.applyFilter(r.db.WithContext(ctx).Where("tenant_id = ?", tenantID), filter)
	if err := query.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// FindBySource lists runs for a tenant and source, newest first
func (r *GormRunRepository) FindBySource(ctx context.Context, tenantID uuid.UUID, source sync.SourceCode, filter shared.Filter) ([]sync.Run, error) {
	var runs []sync.Run
	query := r.applyFilter(
		r.db.WithContext(ctx).Where("tenant_id = ? AND source = ?", tenantID, source),
		filter,
	)
	if err := query.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// CountForTenant counts runs for a tenant
func (r *GormRunRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&sync.Run{}).Where("tenant_id = ?", tenantID)
	if source, ok := filter.Filters["source"]; ok {
		query = query.Where("source = ?", source)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies pagination and ordering; runs default to newest first
func (r *GormRunRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if source, ok := filter.Filters["source"]; ok {
		query = query.Where("source = ?", source)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit())
	}

	orderBy := ValidateSortField(filter.OrderBy, RunSortFields, "started_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// Ensure GormRunRepository implements RunRepository
var _ sync.RunRepository = (*GormRunRepository)(nil)
