package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/opencatalog/backend/internal/domain/shared"
	"github.com/opencatalog/backend/internal/domain/shared/valueobject"
)

// Variant is a sellable variation of a product (size, color, ...).
// It belongs to exactly one product and carries its own SKU, unique
// within the parent.
type Variant struct {
	shared.BaseEntity
	ProductID     uuid.UUID               `gorm:"type:uuid;not null;index"`
	SKU           string                  `gorm:"type:varchar(100);not null"`
	Price         decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	Cost          decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	StockQuantity int                     `gorm:"not null;default:0"`
	Weight        decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	Dimensions    *valueobject.Dimensions `gorm:"type:jsonb;serializer:json"`
	Attributes    map[string]any          `gorm:"type:jsonb;serializer:json"`
	IsActive      bool                    `gorm:"not null;default:true"`
	SortOrder     int                     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Variant) TableName() string {
	return "product_variants"
}

// VariantInput carries the fields needed to attach a variant to a product
type VariantInput struct {
	SKU           string
	Price         decimal.Decimal
	Cost          decimal.Decimal
	StockQuantity int
	Weight        decimal.Decimal
	Dimensions    *valueobject.Dimensions
	Attributes    map[string]any
	IsActive      bool
}

// Validate checks the variant's own invariants
func (v *Variant) Validate() error {
	if v.SKU == "" {
		return shared.NewValidationError("variant SKU cannot be empty")
	}
	if v.Price.IsNegative() {
		return shared.NewValidationError("variant price cannot be negative")
	}
	if v.Cost.IsNegative() {
		return shared.NewValidationError("variant cost cannot be negative")
	}
	if v.StockQuantity < 0 {
		return shared.NewValidationError("variant stock quantity cannot be negative")
	}
	if v.Weight.IsNegative() {
		return shared.NewValidationError("variant weight cannot be negative")
	}
	if v.Dimensions != nil && v.Dimensions.HasNegativeSide() {
		return shared.NewValidationError("variant dimensions cannot be negative")
	}
	return nil
}

// AddVariant attaches a new variant to the product.
// Fails on simple products and on duplicate variant SKUs.
func (p *Product) AddVariant(in VariantInput) error {
	if p.Type == ProductTypeSimple {
		return shared.NewInvariantViolation("a simple product cannot have variants")
	}

	variant := Variant{
		BaseEntity:    shared.NewBaseEntity(),
		ProductID:     p.ID,
		SKU:           strings.ToUpper(in.SKU),
		Price:         in.Price,
		Cost:          in.Cost,
		StockQuantity: in.StockQuantity,
		Weight:        in.Weight,
		Dimensions:    in.Dimensions,
		Attributes:    in.Attributes,
		IsActive:      in.IsActive,
		SortOrder:     len(p.Variants),
	}
	if err := variant.Validate(); err != nil {
		return err
	}
	if p.findVariant(variant.SKU) != nil {
		return shared.NewInvariantViolation("duplicate variant SKU: " + variant.SKU)
	}

	p.Variants = append(p.Variants, variant)
	p.touch()

	p.recordAudit(AuditActionAddVariant, nil, values{"variant_sku": variant.SKU})
	p.AddDomainEvent(NewProductVariantAddedEvent(p, &variant))
	return nil
}

// RemoveVariant detaches a variant by its SKU.
// Fails when removing the last variant of a variable product.
func (p *Product) RemoveVariant(variantSKU string) error {
	variantSKU = strings.ToUpper(variantSKU)
	idx := -1
	for i := range p.Variants {
		if p.Variants[i].SKU == variantSKU {
			idx = i
			break
		}
	}
	if idx < 0 {
		return shared.ErrNotFound
	}
	if p.Type == ProductTypeVariable && len(p.Variants) == 1 {
		return shared.NewInvariantViolation("a variable product must have at least one variant")
	}

	removed := p.Variants[idx]
	p.Variants = append(p.Variants[:idx], p.Variants[idx+1:]...)
	for i := range p.Variants {
		p.Variants[i].SortOrder = i
	}
	p.touch()

	p.recordAudit(AuditActionRemoveVariant, values{"variant_sku": removed.SKU}, nil)
	p.AddDomainEvent(NewProductVariantRemovedEvent(p, &removed))
	return nil
}

// UpdateVariantStock sets the stock quantity of one variant
func (p *Product) UpdateVariantStock(variantSKU string, quantity int) error {
	if quantity < 0 {
		return shared.NewValidationError("variant stock quantity cannot be negative")
	}
	variant := p.findVariant(strings.ToUpper(variantSKU))
	if variant == nil {
		return shared.ErrNotFound
	}

	old := variant.StockQuantity
	variant.StockQuantity = quantity
	p.touch()

	p.recordAudit(AuditActionUpdateVariantStock,
		values{"variant_sku": variant.SKU, "stock_quantity": old},
		values{"variant_sku": variant.SKU, "stock_quantity": quantity})
	return nil
}

// UpdateVariantPrice sets the price of one variant
func (p *Product) UpdateVariantPrice(variantSKU string, price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewValidationError("variant price cannot be negative")
	}
	variant := p.findVariant(strings.ToUpper(variantSKU))
	if variant == nil {
		return shared.ErrNotFound
	}

	old := variant.Price
	variant.Price = price.Amount()
	p.touch()

	p.recordAudit(AuditActionUpdateVariantPrice,
		values{"variant_sku": variant.SKU, "price": old},
		values{"variant_sku": variant.SKU, "price": variant.Price})
	return nil
}

// ReplaceVariants swaps the full variant list, used by variant-aware
// source synchronization. The type invariant is re-checked afterwards.
func (p *Product) ReplaceVariants(inputs []VariantInput) error {
	if p.Type == ProductTypeSimple && len(inputs) > 0 {
		return shared.NewInvariantViolation("a simple product cannot have variants")
	}
	if p.Type == ProductTypeVariable && len(inputs) == 0 {
		return shared.NewInvariantViolation("a variable product must have at least one variant")
	}

	variants := make([]Variant, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for i, in := range inputs {
		variant := Variant{
			BaseEntity:    shared.NewBaseEntity(),
			ProductID:     p.ID,
			SKU:           strings.ToUpper(in.SKU),
			Price:         in.Price,
			Cost:          in.Cost,
			StockQuantity: in.StockQuantity,
			Weight:        in.Weight,
			Dimensions:    in.Dimensions,
			Attributes:    in.Attributes,
			IsActive:      in.IsActive,
			SortOrder:     i,
		}
		if err := variant.Validate(); err != nil {
			return err
		}
		if _, dup := seen[variant.SKU]; dup {
			return shared.NewInvariantViolation("duplicate variant SKU: " + variant.SKU)
		}
		seen[variant.SKU] = struct{}{}
		variants = append(variants, variant)
	}

	p.Variants = variants
	p.touch()

	p.recordAudit(AuditActionReplaceVariants, nil, values{"variant_count": len(variants)})
	return nil
}

// SetTypeWithVariants sets the product type and full variant list in
// one step so the type/variant invariant can be checked atomically.
// Variant-aware source synchronization uses this to move a product
// between simple and variable shapes.
func (p *Product) SetTypeWithVariants(t ProductType, inputs []VariantInput) error {
	if !t.IsValid() {
		return shared.NewValidationError("unknown product type: " + string(t))
	}
	if t == ProductTypeSimple && len(inputs) > 0 {
		return shared.NewInvariantViolation("a simple product cannot have variants")
	}
	if t == ProductTypeVariable && len(inputs) == 0 {
		return shared.NewInvariantViolation("a variable product must have at least one variant")
	}

	oldType := p.Type
	p.Type = t
	if err := p.ReplaceVariants(inputs); err != nil {
		p.Type = oldType
		return err
	}

	if oldType != t {
		p.recordAudit(AuditActionChangeType, values{"product_type": oldType}, values{"product_type": t})
	}
	return nil
}

func (p *Product) findVariant(sku string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].SKU == sku {
			return &p.Variants[i]
		}
	}
	return nil
}
