package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions recorded by product mutations
const (
	AuditActionRename             = "product.rename"
	AuditActionChangeDescription  = "product.change_description"
	AuditActionChangeStatus       = "product.change_status"
	AuditActionChangeType         = "product.change_type"
	AuditActionSetPricing         = "product.set_pricing"
	AuditActionSetWeight          = "product.set_weight"
	AuditActionSetDimensions      = "product.set_dimensions"
	AuditActionSetCategories      = "product.set_categories"
	AuditActionSetTags            = "product.set_tags"
	AuditActionSetSEO             = "product.set_seo"
	AuditActionAddVariant         = "product.add_variant"
	AuditActionRemoveVariant      = "product.remove_variant"
	AuditActionReplaceVariants    = "product.replace_variants"
	AuditActionUpdateVariantStock = "product.update_variant_stock"
	AuditActionUpdateVariantPrice = "product.update_variant_price"
	AuditActionAddImage           = "product.add_image"
	AuditActionRemoveImage        = "product.remove_image"
	AuditActionSetPrimaryImage    = "product.set_primary_image"
	AuditActionReplaceImages      = "product.replace_images"
)

type values = map[string]any

// AuditEntry describes one mutation applied to a product. Entries are
// collected on the aggregate and drained by the caller; the aggregate
// itself never persists them.
type AuditEntry struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	ProductID uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	Action    string         `gorm:"type:varchar(50);not null" json:"action"`
	OldValues map[string]any `gorm:"type:jsonb;serializer:json" json:"old_values,omitempty"`
	NewValues map[string]any `gorm:"type:jsonb;serializer:json" json:"new_values,omitempty"`
	ChangedBy string         `gorm:"type:varchar(100)" json:"changed_by,omitempty"`
	Reason    string         `gorm:"type:varchar(255)" json:"reason,omitempty"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
}

// TableName returns the table name for GORM
func (AuditEntry) TableName() string {
	return "product_audit_entries"
}

func (p *Product) recordAudit(action string, oldValues, newValues map[string]any) {
	p.auditTrail = append(p.auditTrail, AuditEntry{
		ID:        uuid.New(),
		TenantID:  p.TenantID,
		ProductID: p.ID,
		Action:    action,
		OldValues: oldValues,
		NewValues: newValues,
		Timestamp: time.Now(),
	})
}

// TakeAuditEntries drains the collected audit entries, stamping each
// with the acting principal and reason supplied by the caller.
func (p *Product) TakeAuditEntries(changedBy, reason string) []AuditEntry {
	entries := p.auditTrail
	p.auditTrail = nil
	for i := range entries {
		entries[i].ChangedBy = changedBy
		entries[i].Reason = reason
	}
	return entries
}

// PendingAuditCount returns how many audit entries are waiting to be drained
func (p *Product) PendingAuditCount() int {
	return len(p.auditTrail)
}
