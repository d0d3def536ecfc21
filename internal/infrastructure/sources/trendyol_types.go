package sources

import (
	"github.com/opencatalog/backend/internal/domain/sync"
)

// trendyolProductsResponse is the paged envelope of the products endpoint
type trendyolProductsResponse struct {
	TotalElements int               `json:"totalElements"`
	TotalPages    int               `json:"totalPages"`
	Page          int               `json:"page"`
	Size          int               `json:"size"`
	Content       []TrendyolProduct `json:"content"`
}

// trendyolErrorResponse is the error envelope the gateway returns
type trendyolErrorResponse struct {
	Errors []struct {
		Key     string `json:"key"`
		Message string `json:"message"`
	} `json:"errors"`
}

// TrendyolProduct is a supplier product from the gateway
type TrendyolProduct struct {
	ID            string              `json:"id"`
	Barcode       string              `json:"barcode"`
	Title         string              `json:"title"`
	ProductMainID string              `json:"productMainId"`
	StockCode     string              `json:"stockCode"`
	Brand         string              `json:"brand"`
	CategoryName  string              `json:"categoryName"`
	Description   string              `json:"description"`
	Quantity      int                 `json:"quantity"`
	ListPrice     float64             `json:"listPrice"`
	SalePrice     float64             `json:"salePrice"`
	Approved      bool                `json:"approved"`
	Archived      bool                `json:"archived"`
	OnSale        bool                `json:"onSale"`
	Images        []TrendyolImage     `json:"images"`
	Attributes    []TrendyolAttribute `json:"attributes"`
}

// TrendyolImage is a product image reference
type TrendyolImage struct {
	URL string `json:"url"`
}

// TrendyolAttribute is one category attribute value
type TrendyolAttribute struct {
	AttributeName  string `json:"attributeName"`
	AttributeValue string `json:"attributeValue"`
}

// SourceCode returns the source this record came from
func (p TrendyolProduct) SourceCode() sync.SourceCode {
	return sync.SourceCodeTrendyol
}

// Ref returns a human-readable reference for error reporting
func (p TrendyolProduct) Ref() string {
	if p.StockCode != "" {
		return p.StockCode
	}
	if p.Barcode != "" {
		return p.Barcode
	}
	return "trendyol:" + p.ID
}

// sku prefers the supplier stock code over the barcode
func (p TrendyolProduct) sku() string {
	if p.StockCode != "" {
		return p.StockCode
	}
	return p.Barcode
}

// price prefers the sale price over the list price
func (p TrendyolProduct) price() float64 {
	if p.SalePrice > 0 {
		return p.SalePrice
	}
	return p.ListPrice
}

// Ensure TrendyolProduct implements NativeRecord interface
var _ sync.NativeRecord = TrendyolProduct{}
