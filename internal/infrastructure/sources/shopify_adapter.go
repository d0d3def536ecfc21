package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/opencatalog/backend/internal/domain/catalog"
	"github.com/opencatalog/backend/internal/domain/sync"
)

// ShopifyAdapter fetches products from the Shopify Admin REST API.
// Shopify owns product structure: its records are variant-aware, so a
// sync may restructure a product between simple and variable.
type ShopifyAdapter struct {
	httpClient *http.Client
}

// NewShopifyAdapter creates a new Shopify adapter
func NewShopifyAdapter() *ShopifyAdapter {
	return &ShopifyAdapter{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SourceCode returns the source this adapter handles
func (a *ShopifyAdapter) SourceCode() sync.SourceCode {
	return sync.SourceCodeShopify
}

// TestConnection fetches the shop resource as a handshake
func (a *ShopifyAdapter) TestConnection(ctx context.Context, creds sync.Credentials) error {
	config, err := a.shopifyConfig(creds)
	if err != nil {
		return err
	}

	var shop shopifyShopResponse
	return a.get(ctx, config, config.apiURL("shop.json"), &shop)
}

// FetchPage fetches one page of products
func (a *ShopifyAdapter) FetchPage(ctx context.Context, creds sync.Credentials, filters sync.Filters, page sync.Page) (*sync.FetchResult, error) {
	config, err := a.shopifyConfig(creds)
	if err != nil {
		return nil, err
	}

	page = page.Normalize()
	query := url.Values{}
	query.Set("limit", strconv.Itoa(page.Size))
	query.Set("page", strconv.Itoa(page.Number))
	if filters.Status != "" {
		query.Set("status", filters.Status)
	}
	if filters.Search != "" {
		query.Set("title", filters.Search)
	}
	if filters.UpdatedSince != nil {
		query.Set("updated_at_min", filters.UpdatedSince.UTC().Format(time.RFC3339))
	}
	for k, v := range filters.Raw {
		query.Set(k, v)
	}

	var resp shopifyProductsResponse
	if err := a.get(ctx, config, config.apiURL("products.json")+"?"+query.Encode(), &resp); err != nil {
		return nil, err
	}

	// the total is only worth one extra round-trip on the first page
	total := 0
	if page.Number == 1 {
		var count shopifyCountResponse
		if err := a.get(ctx, config, config.apiURL("products/count.json"), &count); err == nil {
			total = count.Count
		}
	}

	items := make([]sync.NativeRecord, 0, len(resp.Products))
	for _, p := range resp.Products {
		items = append(items, p)
	}
	return &sync.FetchResult{
		Items:   items,
		Total:   total,
		HasMore: len(resp.Products) == page.Size,
	}, nil
}

// Normalize maps a Shopify product into the canonical shape. The first
// variant's SKU stands in for the product SKU; descriptions are
// stripped of HTML; Shopify exposes no cost, so it is estimated.
func (a *ShopifyAdapter) Normalize(record sync.NativeRecord) (*sync.NormalizedProduct, error) {
	product, ok := record.(ShopifyProduct)
	if !ok {
		return nil, sync.NewMappingError(record.Ref(), sync.ErrRecordWrongSource)
	}

	sku := product.primarySKU()
	if sku == "" {
		return nil, sync.NewMappingError(record.Ref(), sync.ErrRecordMissingSKU)
	}

	description := stripMarkup(product.BodyHTML)
	price := decimal.Zero
	if len(product.Variants) > 0 {
		price = parsePrice(product.Variants[0].Price)
	}

	normalized := &sync.NormalizedProduct{
		SKU:              sku,
		Name:             product.Title,
		Description:      description,
		ShortDescription: shortDescription(description),
		Status:           shopifyStatus(product.Status),
		Type:             catalog.ProductTypeSimple,
		Price:            price,
		Cost:             estimateCost(price, decimal.Zero),
		Tags:             splitTags(product.Tags),
		VariantAware:     true,
		SourceMetadata: map[string]any{
			"shopify_id":     product.ID,
			"shopify_handle": product.Handle,
		},
	}
	if product.Vendor != "" {
		normalized.SourceMetadata["shopify_vendor"] = product.Vendor
	}
	if len(product.Variants) > 0 && product.Variants[0].Grams > 0 {
		normalized.Weight = decimal.NewFromInt(int64(product.Variants[0].Grams)).Div(decimal.NewFromInt(1000))
		normalized.HasWeight = true
	}

	if product.hasRealVariants() {
		normalized.Type = catalog.ProductTypeVariable
		normalized.Variants = make([]sync.NormalizedVariant, 0, len(product.Variants))
		for _, v := range product.Variants {
			variantSKU := v.SKU
			if variantSKU == "" {
				variantSKU = fmt.Sprintf("%s-V%d", sku, v.ID)
			}
			variantPrice := parsePrice(v.Price)
			// overselling reports negative inventory; the catalog
			// does not track oversold stock
			stock := v.InventoryQuantity
			if stock < 0 {
				stock = 0
			}
			normalized.Variants = append(normalized.Variants, sync.NormalizedVariant{
				SKU:           variantSKU,
				Price:         variantPrice,
				Cost:          estimateCost(variantPrice, decimal.Zero),
				StockQuantity: stock,
				Attributes:    shopifyVariantAttributes(v),
				IsActive:      true,
			})
		}
	}

	if len(product.Images) > 0 {
		normalized.HasImages = true
		normalized.Images = make([]sync.NormalizedImage, 0, len(product.Images))
		for _, img := range product.Images {
			normalized.Images = append(normalized.Images, sync.NormalizedImage{URL: img.Src, Alt: img.Alt})
		}
	}
	return normalized, nil
}

// shopifyStatus maps the Shopify product status onto a catalog status.
// Unknown values fall back to draft so nothing unexpectedly goes live.
func shopifyStatus(status string) catalog.ProductStatus {
	switch status {
	case "active":
		return catalog.ProductStatusActive
	case "draft":
		return catalog.ProductStatusDraft
	case "archived":
		return catalog.ProductStatusArchived
	default:
		return catalog.ProductStatusDraft
	}
}

// shopifyVariantAttributes collects the option values into attributes
func shopifyVariantAttributes(v ShopifyVariant) map[string]any {
	attrs := make(map[string]any, 4)
	attrs["shopify_variant_id"] = v.ID
	if v.Option1 != "" {
		attrs["option1"] = v.Option1
	}
	if v.Option2 != "" {
		attrs["option2"] = v.Option2
	}
	if v.Option3 != "" {
		attrs["option3"] = v.Option3
	}
	return attrs
}

// splitTags splits Shopify's comma-separated tag string
func splitTags(tags string) []string {
	if strings.TrimSpace(tags) == "" {
		return nil
	}
	parts := strings.Split(tags, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parsePrice parses Shopify's decimal-as-string price fields
func parsePrice(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// get performs a GET against the Admin API and decodes the response
func (a *ShopifyAdapter) get(ctx context.Context, config *ShopifyConfig, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("shopify: failed to create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", config.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := a.client(config).Do(req)
	if err != nil {
		return classifyTransportError(sync.SourceCodeShopify, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return classifyTransportError(sync.SourceCodeShopify, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return sync.NewConnectionError(sync.SourceCodeShopify, sync.FailureInvalidCredentials,
			fmt.Errorf("shopify: HTTP %d: %s", resp.StatusCode, shopifyErrorMessage(body)))
	case resp.StatusCode == http.StatusNotFound:
		return sync.NewConnectionError(sync.SourceCodeShopify, sync.FailureUnreachable,
			fmt.Errorf("shopify: HTTP 404: shop or resource not found"))
	case resp.StatusCode >= 400:
		return sync.NewConnectionError(sync.SourceCodeShopify, sync.FailureUnknown,
			fmt.Errorf("shopify: HTTP %d: %s", resp.StatusCode, shopifyErrorMessage(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return sync.NewConnectionError(sync.SourceCodeShopify, sync.FailureUnknown,
			fmt.Errorf("shopify: failed to parse response: %w", err))
	}
	return nil
}

// shopifyErrorMessage extracts the errors field from an error body
func shopifyErrorMessage(body []byte) string {
	var errResp shopifyErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Errors == nil {
		return "request failed"
	}
	return fmt.Sprintf("%v", errResp.Errors)
}

func (a *ShopifyAdapter) shopifyConfig(creds sync.Credentials) (*ShopifyConfig, error) {
	config, ok := creds.(*ShopifyConfig)
	if !ok {
		return nil, wrongCredentials(sync.SourceCodeShopify, creds)
	}
	if err := config.Validate(); err != nil {
		return nil, sync.NewConnectionError(sync.SourceCodeShopify, sync.FailureInvalidCredentials, err)
	}
	return config, nil
}

func (a *ShopifyAdapter) client(config *ShopifyConfig) *http.Client {
	if config.TimeoutSeconds > 0 {
		return &http.Client{Timeout: time.Duration(config.TimeoutSeconds) * time.Second}
	}
	return a.httpClient
}

// Ensure ShopifyAdapter implements SourceAdapter interface
var _ sync.SourceAdapter = (*ShopifyAdapter)(nil)
