package sources

import (
	"strconv"

	"github.com/opencatalog/backend/internal/domain/sync"
)

// shopifyProductsResponse is the envelope of GET products.json
type shopifyProductsResponse struct {
	Products []ShopifyProduct `json:"products"`
}

// shopifyCountResponse is the envelope of GET products/count.json
type shopifyCountResponse struct {
	Count int `json:"count"`
}

// shopifyShopResponse is the envelope of GET shop.json
type shopifyShopResponse struct {
	Shop struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"shop"`
}

// shopifyErrorResponse is the error envelope the Admin API returns
type shopifyErrorResponse struct {
	Errors any `json:"errors"`
}

// ShopifyProduct is a product from the Admin API
type ShopifyProduct struct {
	ID       int64            `json:"id"`
	Title    string           `json:"title"`
	BodyHTML string           `json:"body_html"`
	Vendor   string           `json:"vendor"`
	Handle   string           `json:"handle"`
	Status   string           `json:"status"`
	Tags     string           `json:"tags"`
	Variants []ShopifyVariant `json:"variants"`
	Images   []ShopifyImage   `json:"images"`
}

// ShopifyVariant is a product variant from the Admin API
type ShopifyVariant struct {
	ID                int64  `json:"id"`
	SKU               string `json:"sku"`
	Title             string `json:"title"`
	Price             string `json:"price"`
	CompareAtPrice    string `json:"compare_at_price"`
	InventoryQuantity int    `json:"inventory_quantity"`
	Grams             int    `json:"grams"`
	Option1           string `json:"option1"`
	Option2           string `json:"option2"`
	Option3           string `json:"option3"`
}

// ShopifyImage is a product image from the Admin API
type ShopifyImage struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// SourceCode returns the source this record came from
func (p ShopifyProduct) SourceCode() sync.SourceCode {
	return sync.SourceCodeShopify
}

// Ref returns a human-readable reference for error reporting
func (p ShopifyProduct) Ref() string {
	if sku := p.primarySKU(); sku != "" {
		return sku
	}
	return "shopify:" + strconv.FormatInt(p.ID, 10)
}

// primarySKU returns the first variant's SKU; Shopify has no
// product-level SKU, the first variant stands in for it.
func (p ShopifyProduct) primarySKU() string {
	if len(p.Variants) > 0 {
		return p.Variants[0].SKU
	}
	return ""
}

// hasRealVariants reports whether the product has more than the
// single default variant Shopify creates for every product
func (p ShopifyProduct) hasRealVariants() bool {
	if len(p.Variants) > 1 {
		return true
	}
	return len(p.Variants) == 1 && p.Variants[0].Title != "Default Title"
}

// Ensure ShopifyProduct implements NativeRecord interface
var _ sync.NativeRecord = ShopifyProduct{}
