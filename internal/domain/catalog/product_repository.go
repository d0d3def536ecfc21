package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/opencatalog/backend/internal/domain/shared"
)

// ProductRepository is the catalog store port. Create, Update, and
// SKUExists must each be individually atomic with respect to
// concurrent writers; the database unique constraint on
// (tenant_id, sku) is the final arbiter against duplicate creation.
type ProductRepository interface {
	// FindByIDForTenant finds a product by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)

	// FindBySKU finds a product by its SKU within a tenant.
	// Returns shared.ErrNotFound when no product matches.
	FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*Product, error)

	// FindAllForTenant finds all products for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, error)

	// FindByStatus finds products by status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status ProductStatus, filter shared.Filter) ([]Product, error)

	// Create persists a new product together with its owned variants and images
	Create(ctx context.Context, product *Product) error

	// Update persists changes to an existing product, replacing its
	// owned variants and images
	Update(ctx context.Context, product *Product) error

	// DeleteForTenant deletes a product within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// SKUExists checks whether a product with the SKU exists in the
	// tenant, optionally excluding one product ID
	SKUExists(ctx context.Context, tenantID uuid.UUID, sku string, excludeID *uuid.UUID) (bool, error)

	// CountForTenant counts products for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// AuditLog persists drained product audit entries
type AuditLog interface {
	// Append stores a batch of audit entries
	Append(ctx context.Context, entries []AuditEntry) error

	// ListForProduct lists entries for one product, newest first
	ListForProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]AuditEntry, error)
}
