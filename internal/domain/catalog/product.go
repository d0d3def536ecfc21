package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/opencatalog/backend/internal/domain/shared"
	"github.com/opencatalog/backend/internal/domain/shared/valueobject"
)

// ProductStatus represents the lifecycle status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusArchived ProductStatus = "archived"
)

// IsValid returns true if the status is one of the known values
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusActive, ProductStatusInactive, ProductStatusDraft, ProductStatusArchived:
		return true
	default:
		return false
	}
}

// ProductType represents the structural type of a product
type ProductType string

const (
	ProductTypeSimple   ProductType = "simple"
	ProductTypeVariable ProductType = "variable"
	ProductTypeGrouped  ProductType = "grouped"
	ProductTypeExternal ProductType = "external"
)

// IsValid returns true if the type is one of the known values
func (t ProductType) IsValid() bool {
	switch t {
	case ProductTypeSimple, ProductTypeVariable, ProductTypeGrouped, ProductTypeExternal:
		return true
	default:
		return false
	}
}

// Product is the canonical, tenant-scoped catalog product.
// It is the aggregate root for product-related operations; the SKU is the
// business key used to reconcile records coming from external sources.
type Product struct {
	shared.TenantAggregateRoot
	SKU              string                 `gorm:"type:varchar(100);not null;uniqueIndex:idx_products_tenant_sku,priority:2"`
	Name             string                 `gorm:"type:varchar(200);not null"`
	Description      string                 `gorm:"type:text"`
	ShortDescription string                 `gorm:"type:varchar(500)"`
	Status           ProductStatus          `gorm:"type:varchar(20);not null;default:'draft'"`
	Type             ProductType            `gorm:"column:product_type;type:varchar(20);not null;default:'simple'"`
	Price            decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Cost             decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Weight           decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Dimensions       valueobject.Dimensions `gorm:"type:jsonb;serializer:json"`
	Categories       []string               `gorm:"type:jsonb;serializer:json"`
	Tags             []string               `gorm:"type:jsonb;serializer:json"`
	Metadata         map[string]any         `gorm:"type:jsonb;serializer:json"`
	SEOTitle         string                 `gorm:"type:varchar(200)"`
	SEODescription   string                 `gorm:"type:varchar(500)"`
	SEOKeywords      []string               `gorm:"type:jsonb;serializer:json"`
	Variants         []Variant              `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Images           []Image                `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`

	auditTrail []AuditEntry `gorm:"-"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product in draft status with type simple
func NewProduct(tenantID uuid.UUID, sku, name string) (*Product, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewValidationError("tenant ID is required")
	}
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}

	product := &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SKU:                 strings.ToUpper(sku),
		Name:                name,
		Status:              ProductStatusDraft,
		Type:                ProductTypeSimple,
		Price:               decimal.Zero,
		Cost:                decimal.Zero,
		Weight:              decimal.Zero,
		Dimensions:          valueobject.ZeroDimensions(),
		Categories:          []string{},
		Tags:                []string{},
		Metadata:            map[string]any{},
		SEOKeywords:         []string{},
		Variants:            []Variant{},
		Images:              []Image{},
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Rename changes the product name
func (p *Product) Rename(name string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	old := p.Name
	p.Name = name
	p.touch()

	p.recordAudit(AuditActionRename, values{"name": old}, values{"name": name})
	p.AddDomainEvent(NewProductUpdatedEvent(p))
	return nil
}

// ChangeDescription changes the long and short descriptions
func (p *Product) ChangeDescription(description, shortDescription string) error {
	if len(shortDescription) > 500 {
		return shared.NewValidationError("short description cannot exceed 500 characters")
	}

	old := values{"description": p.Description, "short_description": p.ShortDescription}
	p.Description = description
	p.ShortDescription = shortDescription
	p.touch()

	p.recordAudit(AuditActionChangeDescription, old,
		values{"description": description, "short_description": shortDescription})
	p.AddDomainEvent(NewProductUpdatedEvent(p))
	return nil
}

// ChangeStatus changes the product status
func (p *Product) ChangeStatus(status ProductStatus) error {
	if !status.IsValid() {
		return shared.NewValidationError("unknown product status: " + string(status))
	}
	if p.Status == status {
		return nil
	}

	old := p.Status
	p.Status = status
	p.touch()

	p.recordAudit(AuditActionChangeStatus, values{"status": old}, values{"status": status})
	p.AddDomainEvent(NewProductStatusChangedEvent(p, old, status))
	return nil
}

// ChangeType changes the product type, re-checking the variant invariant
func (p *Product) ChangeType(t ProductType) error {
	if !t.IsValid() {
		return shared.NewValidationError("unknown product type: " + string(t))
	}
	if t == ProductTypeSimple && len(p.Variants) > 0 {
		return shared.NewInvariantViolation("a simple product cannot have variants")
	}
	if t == ProductTypeVariable && len(p.Variants) == 0 {
		return shared.NewInvariantViolation("a variable product must have at least one variant")
	}
	if p.Type == t {
		return nil
	}

	old := p.Type
	p.Type = t
	p.touch()

	p.recordAudit(AuditActionChangeType, values{"product_type": old}, values{"product_type": t})
	p.AddDomainEvent(NewProductUpdatedEvent(p))
	return nil
}

// SetPricing sets the selling price and cost
func (p *Product) SetPricing(price, cost valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewValidationError("price cannot be negative")
	}
	if cost.IsNegative() {
		return shared.NewValidationError("cost cannot be negative")
	}

	oldPrice, oldCost := p.Price, p.Cost
	p.Price = price.Amount()
	p.Cost = cost.Amount()
	p.touch()

	p.recordAudit(AuditActionSetPricing,
		values{"price": oldPrice, "cost": oldCost},
		values{"price": p.Price, "cost": p.Cost})
	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice, oldCost))
	return nil
}

// SetWeight sets the product weight
func (p *Product) SetWeight(weight decimal.Decimal) error {
	if weight.IsNegative() {
		return shared.NewValidationError("weight cannot be negative")
	}

	old := p.Weight
	p.Weight = weight
	p.touch()

	p.recordAudit(AuditActionSetWeight, values{"weight": old}, values{"weight": weight})
	return nil
}

// SetDimensions sets the product dimensions
func (p *Product) SetDimensions(dims valueobject.Dimensions) error {
	if dims.HasNegativeSide() {
		return shared.NewValidationError("dimensions cannot be negative")
	}

	old := p.Dimensions
	p.Dimensions = dims
	p.touch()

	p.recordAudit(AuditActionSetDimensions, values{"dimensions": old}, values{"dimensions": dims})
	return nil
}

// SetCategories replaces the category set
func (p *Product) SetCategories(categories []string) {
	old := p.Categories
	p.Categories = normalizeSet(categories)
	p.touch()

	p.recordAudit(AuditActionSetCategories, values{"categories": old}, values{"categories": p.Categories})
	p.AddDomainEvent(NewProductUpdatedEvent(p))
}

// SetTags replaces the tag set
func (p *Product) SetTags(tags []string) {
	old := p.Tags
	p.Tags = normalizeSet(tags)
	p.touch()

	p.recordAudit(AuditActionSetTags, values{"tags": old}, values{"tags": p.Tags})
}

// SetSEO sets the human-owned SEO fields.
// Source synchronization never calls this; SEO fields belong to editors.
func (p *Product) SetSEO(title, description string, keywords []string) error {
	if len(title) > 200 {
		return shared.NewValidationError("SEO title cannot exceed 200 characters")
	}
	if len(description) > 500 {
		return shared.NewValidationError("SEO description cannot exceed 500 characters")
	}

	old := values{"seo_title": p.SEOTitle, "seo_description": p.SEODescription, "seo_keywords": p.SEOKeywords}
	p.SEOTitle = title
	p.SEODescription = description
	p.SEOKeywords = normalizeSet(keywords)
	p.touch()

	p.recordAudit(AuditActionSetSEO, old,
		values{"seo_title": title, "seo_description": description, "seo_keywords": p.SEOKeywords})
	return nil
}

// MergeMetadata merges key/value pairs into the metadata bag.
// Keys are namespaced by their producer (e.g. "odoo_id", "shopify_vendor")
// and are round-tripped verbatim, never interpreted here.
func (p *Product) MergeMetadata(meta map[string]any) {
	if len(meta) == 0 {
		return
	}
	if p.Metadata == nil {
		p.Metadata = map[string]any{}
	}
	for k, v := range meta {
		p.Metadata[k] = v
	}
	p.touch()
}

// touch bumps the modification timestamp and optimistic-lock version
func (p *Product) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// HasVariants returns true if the product owns at least one variant
func (p *Product) HasVariants() bool {
	return len(p.Variants) > 0
}

// Validate re-checks every aggregate invariant.
// It is called at construction and persistence boundaries.
func (p *Product) Validate() error {
	if p.TenantID == uuid.Nil {
		return shared.NewValidationError("tenant ID is required")
	}
	if err := validateSKU(p.SKU); err != nil {
		return err
	}
	if err := validateProductName(p.Name); err != nil {
		return err
	}
	if !p.Status.IsValid() {
		return shared.NewValidationError("unknown product status: " + string(p.Status))
	}
	if !p.Type.IsValid() {
		return shared.NewValidationError("unknown product type: " + string(p.Type))
	}
	if p.Price.IsNegative() {
		return shared.NewValidationError("price cannot be negative")
	}
	if p.Cost.IsNegative() {
		return shared.NewValidationError("cost cannot be negative")
	}
	if p.Weight.IsNegative() {
		return shared.NewValidationError("weight cannot be negative")
	}
	if p.Type == ProductTypeSimple && len(p.Variants) > 0 {
		return shared.NewInvariantViolation("a simple product cannot have variants")
	}
	if p.Type == ProductTypeVariable && len(p.Variants) == 0 {
		return shared.NewInvariantViolation("a variable product must have at least one variant")
	}
	seen := make(map[string]struct{}, len(p.Variants))
	for i := range p.Variants {
		v := &p.Variants[i]
		if err := v.Validate(); err != nil {
			return err
		}
		if _, dup := seen[v.SKU]; dup {
			return shared.NewInvariantViolation("duplicate variant SKU: " + v.SKU)
		}
		seen[v.SKU] = struct{}{}
	}
	return nil
}

// validateSKU validates the product SKU (business key)
func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewValidationError("SKU cannot be empty")
	}
	if len(sku) > 100 {
		return shared.NewValidationError("SKU cannot exceed 100 characters")
	}
	for _, r := range sku {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' || r == '.') {
			return shared.NewValidationError("SKU can only contain letters, numbers, underscores, hyphens, and dots")
		}
	}
	return nil
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if name == "" {
		return shared.NewValidationError("product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewValidationError("product name cannot exceed 200 characters")
	}
	return nil
}

// normalizeSet trims, deduplicates, and drops empty entries while
// preserving first-seen order
func normalizeSet(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
