package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/opencatalog/backend/internal/domain/catalog"
	"github.com/opencatalog/backend/internal/domain/shared"
)

// auditBatchSize caps the rows per insert when appending entries
const auditBatchSize = 100

// GormAuditLog implements AuditLog using GORM
type GormAuditLog struct {
	db *gorm.DB
}

// NewGormAuditLog creates a new GormAuditLog
func NewGormAuditLog(db *gorm.DB) *GormAuditLog {
	return &GormAuditLog{db: db}
}

// Append stores a batch of audit entries
func (l *GormAuditLog) Append(ctx context.Context, entries []catalog.AuditEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return l.db.WithContext(ctx).CreateInBatches(entries, auditBatchSize).Error
}

// ListForProduct lists entries for one product, newest first
func (l *GormAuditLog) ListForProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]catalog.AuditEntry, error) {
	query := l.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID)
	if action, ok := filter.Filters["action"]; ok {
		query = query.Where("action = ?", action)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit())
	}

	orderBy := ValidateSortField(filter.OrderBy, AuditSortFields, "timestamp")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var entries []catalog.AuditEntry
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Ensure GormAuditLog implements AuditLog
var _ catalog.AuditLog = (*GormAuditLog)(nil)
