package sources

import (
	"strconv"

	"github.com/opencatalog/backend/internal/domain/sync"
)

// WooProduct is a product from the WooCommerce REST API
type WooProduct struct {
	ID               int64         `json:"id"`
	SKU              string        `json:"sku"`
	Name             string        `json:"name"`
	Status           string        `json:"status"`
	Type             string        `json:"type"`
	Description      string        `json:"description"`
	ShortDescription string        `json:"short_description"`
	Permalink        string        `json:"permalink"`
	Price            string        `json:"price"`
	RegularPrice     string        `json:"regular_price"`
	Weight           string        `json:"weight"`
	Categories       []WooTerm     `json:"categories"`
	Tags             []WooTerm     `json:"tags"`
	Images           []WooImage    `json:"images"`
	MetaData         []WooMetaData `json:"meta_data"`
}

// WooTerm is a category or tag reference
type WooTerm struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// WooImage is a product image
type WooImage struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// WooMetaData is one entry from the product meta_data array
type WooMetaData struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// wooErrorResponse is the WP REST error envelope
type wooErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SourceCode returns the source this record came from
func (p WooProduct) SourceCode() sync.SourceCode {
	return sync.SourceCodeWooCommerce
}

// Ref returns a human-readable reference for error reporting
func (p WooProduct) Ref() string {
	if p.SKU != "" {
		return p.SKU
	}
	return "woo:" + strconv.FormatInt(p.ID, 10)
}

// metaValue returns the value of the first meta entry with the key
func (p WooProduct) metaValue(key string) (any, bool) {
	for _, m := range p.MetaData {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Ensure WooProduct implements NativeRecord interface
var _ sync.NativeRecord = WooProduct{}
