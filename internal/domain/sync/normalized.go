package sync

import (
	"github.com/shopspring/decimal"

	"github.com/opencatalog/backend/internal/domain/catalog"
)

// NormalizedProduct is the single canonical shape every source maps
// into. Fields the source did not supply keep their zero value and the
// corresponding Has* flag unset; the reconciler only overwrites fields
// the source actually supplied.
type NormalizedProduct struct {
	SKU              string
	Name             string
	Description      string
	ShortDescription string
	Status           catalog.ProductStatus
	Type             catalog.ProductType
	Price            decimal.Decimal
	Cost             decimal.Decimal
	Weight           decimal.Decimal
	HasWeight        bool
	Categories       []string
	Tags             []string

	// Images and HasImages: HasImages false means the source said
	// nothing about images and existing ones are preserved
	Images    []NormalizedImage
	HasImages bool

	// Variants and VariantAware: only variant-aware sources may
	// replace a product's variants
	Variants     []NormalizedVariant
	VariantAware bool

	// SourceMetadata holds source-native identifiers and flags under
	// namespaced keys (e.g. "odoo_id", "shopify_vendor"); round-tripped
	// verbatim for auditability and future re-mapping
	SourceMetadata map[string]any
}

// NormalizedImage is a source-supplied product image
type NormalizedImage struct {
	URL string
	Alt string
}

// NormalizedVariant is a source-supplied product variant
type NormalizedVariant struct {
	SKU           string
	Price         decimal.Decimal
	Cost          decimal.Decimal
	StockQuantity int
	Attributes    map[string]any
	IsActive      bool
}

// Validate checks the DTO carries the minimum the reconciler needs
func (p *NormalizedProduct) Validate() error {
	if p.SKU == "" {
		return NewMappingError(p.Name, ErrRecordMissingSKU)
	}
	if p.Name == "" {
		return NewMappingError(p.SKU, ErrRecordMissingName)
	}
	return nil
}
