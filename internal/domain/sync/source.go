package sync

import (
	"context"
	"time"
)

// SourceCode identifies an external product source
type SourceCode string

const (
	// SourceCodeOdoo is the Odoo ERP source
	SourceCodeOdoo SourceCode = "ODOO"
	// SourceCodeShopify is the Shopify marketplace source
	SourceCodeShopify SourceCode = "SHOPIFY"
	// SourceCodeWooCommerce is the WooCommerce marketplace source
	SourceCodeWooCommerce SourceCode = "WOOCOMMERCE"
	// SourceCodeTrendyol is the Trendyol marketplace source
	SourceCodeTrendyol SourceCode = "TRENDYOL"
)

// IsValid returns true if the source code is valid
func (c SourceCode) IsValid() bool {
	switch c {
	case SourceCodeOdoo, SourceCodeShopify, SourceCodeWooCommerce, SourceCodeTrendyol:
		return true
	default:
		return false
	}
}

// String returns the string representation of SourceCode
func (c SourceCode) String() string {
	return string(c)
}

// VariantAware reports whether the source models product variants.
// Only Shopify exposes a usable variant structure; the other sources
// deliver flat products.
func (c SourceCode) VariantAware() bool {
	return c == SourceCodeShopify
}

// DisplayName returns a human-readable name for the source
func (c SourceCode) DisplayName() string {
	switch c {
	case SourceCodeOdoo:
		return "Odoo ERP"
	case SourceCodeShopify:
		return "Shopify"
	case SourceCodeWooCommerce:
		return "WooCommerce"
	case SourceCodeTrendyol:
		return "Trendyol"
	default:
		return string(c)
	}
}

// Credentials are source-specific connection secrets. The core never
// inspects their contents; it only carries them to the adapter.
type Credentials interface {
	// SourceCode returns the source these credentials belong to
	SourceCode() SourceCode
	// Validate checks that all required fields are present
	Validate() error
}

// NativeRecord is one product in a source's own representation.
// Concrete record types form a closed set, one per source, defined
// next to their adapters; the core only ever sees them through the
// adapter's Normalize.
type NativeRecord interface {
	// SourceCode returns the source this record came from
	SourceCode() SourceCode
	// Ref returns a human-readable identifier (name or native ID)
	// used to tag per-item errors
	Ref() string
}

// Filters narrows a source fetch
type Filters struct {
	// Status filters by the source's native status value, when supported
	Status string
	// Search is a free-text filter, when supported
	Search string
	// UpdatedSince limits results to records modified after this time
	UpdatedSince *time.Time
	// Raw carries source-specific filter parameters verbatim
	Raw map[string]string
}

// IsZero reports whether no filter is set
func (f Filters) IsZero() bool {
	return f.Status == "" && f.Search == "" && f.UpdatedSince == nil && len(f.Raw) == 0
}

// Page is a fetch pagination request (1-indexed)
type Page struct {
	Number int
	Size   int
}

// Normalize clamps the page to sane bounds
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 || p.Size > 250 {
		p.Size = 100
	}
	return p
}

// FetchResult is one page of native records from a source
type FetchResult struct {
	Items   []NativeRecord
	Total   int
	HasMore bool
}

// SourceAdapter is the port to one external product source. Concrete
// implementations live in the infrastructure layer; transport details
// (protocol, authentication, retries) are theirs alone.
type SourceAdapter interface {
	// SourceCode returns the source this adapter handles
	SourceCode() SourceCode

	// TestConnection performs a handshake with the source. A failure
	// is always a *ConnectionError carrying the failure class.
	TestConnection(ctx context.Context, creds Credentials) error

	// FetchPage fetches one page of native product records. A failure
	// before any items are obtained is a *ConnectionError.
	FetchPage(ctx context.Context, creds Credentials, filters Filters, page Page) (*FetchResult, error)

	// Normalize transforms one of this source's native records into
	// the canonical NormalizedProduct. It is pure; a record that
	// cannot be normalized yields a mapping ItemError.
	Normalize(record NativeRecord) (*NormalizedProduct, error)
}

// SourceRegistry resolves adapters by source code
type SourceRegistry interface {
	// GetAdapter returns the adapter for the source code
	GetAdapter(code SourceCode) (SourceAdapter, error)
	// ListAdapters returns all registered adapters
	ListAdapters() []SourceAdapter
}
