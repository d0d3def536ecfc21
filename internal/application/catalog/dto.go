package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/opencatalog/backend/internal/domain/catalog"
	"github.com/opencatalog/backend/internal/domain/shared"
	"github.com/opencatalog/backend/internal/domain/shared/valueobject"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	SKU              string            `json:"sku" binding:"required,min=1,max=100"`
	Name             string            `json:"name" binding:"required,min=1,max=255"`
	Description      string            `json:"description" binding:"max=5000"`
	ShortDescription string            `json:"short_description" binding:"max=500"`
	Status           string            `json:"status" binding:"omitempty,oneof=active inactive draft archived"`
	Type             string            `json:"product_type" binding:"omitempty,oneof=simple variable grouped external"`
	Price            *decimal.Decimal  `json:"price"`
	Cost             *decimal.Decimal  `json:"cost"`
	Weight           *decimal.Decimal  `json:"weight"`
	Dimensions       *DimensionsInput  `json:"dimensions"`
	Categories       []string          `json:"categories"`
	Tags             []string          `json:"tags"`
	SEOTitle         string            `json:"seo_title" binding:"max=255"`
	SEODescription   string            `json:"seo_description" binding:"max=500"`
	SEOKeywords      []string          `json:"seo_keywords"`
	Variants         []VariantRequest  `json:"variants" binding:"omitempty,dive"`
	Images           []ImageRequest    `json:"images" binding:"omitempty,dive"`
	Metadata         map[string]any    `json:"metadata"`
}

// UpdateProductRequest represents a request to update a product.
// Nil fields are left unchanged.
type UpdateProductRequest struct {
	Name             *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Description      *string          `json:"description" binding:"omitempty,max=5000"`
	ShortDescription *string          `json:"short_description" binding:"omitempty,max=500"`
	Status           *string          `json:"status" binding:"omitempty,oneof=active inactive draft archived"`
	Price            *decimal.Decimal `json:"price"`
	Cost             *decimal.Decimal `json:"cost"`
	Weight           *decimal.Decimal `json:"weight"`
	Dimensions       *DimensionsInput `json:"dimensions"`
	Categories       []string         `json:"categories"`
	Tags             []string         `json:"tags"`
	SEOTitle         *string          `json:"seo_title" binding:"omitempty,max=255"`
	SEODescription   *string          `json:"seo_description" binding:"omitempty,max=500"`
	SEOKeywords      []string         `json:"seo_keywords"`
}

// ChangeStatusRequest represents a request to change a product's status
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active inactive draft archived"`
}

// VariantRequest represents one variant in a create or replace request
type VariantRequest struct {
	SKU           string           `json:"sku" binding:"required,min=1,max=100"`
	Price         decimal.Decimal  `json:"price"`
	Cost          decimal.Decimal  `json:"cost"`
	StockQuantity int              `json:"stock_quantity"`
	Weight        *decimal.Decimal `json:"weight"`
	Attributes    map[string]any   `json:"attributes"`
	IsActive      *bool            `json:"is_active"`
}

// ImageRequest represents one image in a create or replace request
type ImageRequest struct {
	URL     string `json:"url" binding:"required,url"`
	AltText string `json:"alt_text" binding:"max=255"`
}

// DimensionsInput represents product dimensions in a request
type DimensionsInput struct {
	Length decimal.Decimal `json:"length"`
	Width  decimal.Decimal `json:"width"`
	Height decimal.Decimal `json:"height"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive draft archived"`
	Category string `form:"category"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToFilter converts the list filter to a repository filter
func (f ProductListFilter) ToFilter() shared.Filter {
	filter := shared.DefaultFilter()
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.OrderBy != "" {
		filter.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		filter.OrderDir = f.OrderDir
	}
	filter.Search = f.Search
	if f.Status != "" {
		filter.Filters["status"] = f.Status
	}
	if f.Category != "" {
		filter.Filters["category"] = f.Category
	}
	return filter
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID               uuid.UUID         `json:"id"`
	TenantID         uuid.UUID         `json:"tenant_id"`
	SKU              string            `json:"sku"`
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	ShortDescription string            `json:"short_description"`
	Status           string            `json:"status"`
	Type             string            `json:"product_type"`
	Price            decimal.Decimal   `json:"price"`
	Cost             decimal.Decimal   `json:"cost"`
	Weight           decimal.Decimal   `json:"weight"`
	Dimensions       *DimensionsInput  `json:"dimensions,omitempty"`
	Categories       []string          `json:"categories"`
	Tags             []string          `json:"tags"`
	SEOTitle         string            `json:"seo_title,omitempty"`
	SEODescription   string            `json:"seo_description,omitempty"`
	SEOKeywords      []string          `json:"seo_keywords,omitempty"`
	Metadata         map[string]any    `json:"metadata,omitempty"`
	Variants         []VariantResponse `json:"variants,omitempty"`
	Images           []ImageResponse   `json:"images,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	Version          int               `json:"version"`
}

// ProductListResponse represents a list item for products
type ProductListResponse struct {
	ID        uuid.UUID       `json:"id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Status    string          `json:"status"`
	Type      string          `json:"product_type"`
	Price     decimal.Decimal `json:"price"`
	Variants  int             `json:"variant_count"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// VariantResponse represents a variant in API responses
type VariantResponse struct {
	ID            uuid.UUID       `json:"id"`
	SKU           string          `json:"sku"`
	Price         decimal.Decimal `json:"price"`
	Cost          decimal.Decimal `json:"cost"`
	StockQuantity int             `json:"stock_quantity"`
	Attributes    map[string]any  `json:"attributes,omitempty"`
	IsActive      bool            `json:"is_active"`
	SortOrder     int             `json:"sort_order"`
}

// ImageResponse represents an image in API responses
type ImageResponse struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	AltText   string    `json:"alt_text,omitempty"`
	IsPrimary bool      `json:"is_primary"`
	SortOrder int       `json:"sort_order"`
}

// AuditEntryResponse represents one audit trail entry in API responses
type AuditEntryResponse struct {
	ID        uuid.UUID      `json:"id"`
	ProductID uuid.UUID      `json:"product_id"`
	Action    string         `json:"action"`
	OldValues map[string]any `json:"old_values,omitempty"`
	NewValues map[string]any `json:"new_values,omitempty"`
	ChangedBy string         `json:"changed_by,omitempty"`
	Reason    string         `json:"reason,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	resp := ProductResponse{
		ID:               p.ID,
		TenantID:         p.TenantID,
		SKU:              p.SKU,
		Name:             p.Name,
		Description:      p.Description,
		ShortDescription: p.ShortDescription,
		Status:           string(p.Status),
		Type:             string(p.Type),
		Price:            p.Price,
		Cost:             p.Cost,
		Weight:           p.Weight,
		Categories:       p.Categories,
		Tags:             p.Tags,
		SEOTitle:         p.SEOTitle,
		SEODescription:   p.SEODescription,
		SEOKeywords:      p.SEOKeywords,
		Metadata:         p.Metadata,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
		Version:          p.Version,
	}
	if !p.Dimensions.IsZero() {
		resp.Dimensions = &DimensionsInput{
			Length: p.Dimensions.Length,
			Width:  p.Dimensions.Width,
			Height: p.Dimensions.Height,
		}
	}
	for i := range p.Variants {
		v := &p.Variants[i]
		resp.Variants = append(resp.Variants, VariantResponse{
			ID:            v.ID,
			SKU:           v.SKU,
			Price:         v.Price,
			Cost:          v.Cost,
			StockQuantity: v.StockQuantity,
			Attributes:    v.Attributes,
			IsActive:      v.IsActive,
			SortOrder:     v.SortOrder,
		})
	}
	for i := range p.Images {
		img := &p.Images[i]
		resp.Images = append(resp.Images, ImageResponse{
			ID:        img.ID,
			URL:       img.URL,
			AltText:   img.AltText,
			IsPrimary: img.IsPrimary,
			SortOrder: img.SortOrder,
		})
	}
	return resp
}

// ToProductListResponse converts a domain Product to ProductListResponse
func ToProductListResponse(p *catalog.Product) ProductListResponse {
	return ProductListResponse{
		ID:        p.ID,
		SKU:       p.SKU,
		Name:      p.Name,
		Status:    string(p.Status),
		Type:      string(p.Type),
		Price:     p.Price,
		Variants:  len(p.Variants),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ToAuditEntryResponse converts a domain AuditEntry to AuditEntryResponse
func ToAuditEntryResponse(e *catalog.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:        e.ID,
		ProductID: e.ProductID,
		Action:    e.Action,
		OldValues: e.OldValues,
		NewValues: e.NewValues,
		ChangedBy: e.ChangedBy,
		Reason:    e.Reason,
		Timestamp: e.Timestamp,
	}
}

func (d *DimensionsInput) toValueObject() (valueobject.Dimensions, error) {
	return valueobject.NewDimensions(d.Length, d.Width, d.Height)
}
