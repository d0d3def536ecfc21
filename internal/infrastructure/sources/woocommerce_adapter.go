package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/opencatalog/backend/internal/domain/catalog"
	"github.com/opencatalog/backend/internal/domain/sync"
)

// WooCommerceAdapter fetches products from the WooCommerce REST API.
// Variations live behind a separate per-product endpoint, so a sweep
// does not see them: WooCommerce records are never variant-aware and
// existing variants survive a sync untouched.
type WooCommerceAdapter struct {
	httpClient *http.Client
}

// NewWooCommerceAdapter creates a new WooCommerce adapter
func NewWooCommerceAdapter() *WooCommerceAdapter {
	return &WooCommerceAdapter{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SourceCode returns the source this adapter handles
func (a *WooCommerceAdapter) SourceCode() sync.SourceCode {
	return sync.SourceCodeWooCommerce
}

// TestConnection fetches a single product as a handshake
func (a *WooCommerceAdapter) TestConnection(ctx context.Context, creds sync.Credentials) error {
	config, err := a.wooConfig(creds)
	if err != nil {
		return err
	}
	_, _, err = a.get(ctx, config, config.apiURL("products")+"?per_page=1")
	return err
}

// FetchPage fetches one page of products. The WP REST headers carry
// the total count, which feeds the result's Total.
func (a *WooCommerceAdapter) FetchPage(ctx context.Context, creds sync.Credentials, filters sync.Filters, page sync.Page) (*sync.FetchResult, error) {
	config, err := a.wooConfig(creds)
	if err != nil {
		return nil, err
	}

	page = page.Normalize()
	query := url.Values{}
	query.Set("page", strconv.Itoa(page.Number))
	query.Set("per_page", strconv.Itoa(page.Size))
	query.Set("orderby", "id")
	query.Set("order", "asc")
	if filters.Status != "" {
		query.Set("status", filters.Status)
	}
	if filters.Search != "" {
		query.Set("search", filters.Search)
	}
	if filters.UpdatedSince != nil {
		query.Set("modified_after", filters.UpdatedSince.UTC().Format(time.RFC3339))
	}
	for k, v := range filters.Raw {
		query.Set(k, v)
	}

	body, header, err := a.get(ctx, config, config.apiURL("products")+"?"+query.Encode())
	if err != nil {
		return nil, err
	}

	var products []WooProduct
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, sync.NewConnectionError(sync.SourceCodeWooCommerce, sync.FailureUnknown,
			fmt.Errorf("woocommerce: failed to parse products response: %w", err))
	}

	items := make([]sync.NativeRecord, 0, len(products))
	for _, p := range products {
		items = append(items, p)
	}

	result := &sync.FetchResult{Items: items, HasMore: len(products) == page.Size}
	if total, err := strconv.Atoi(header.Get("X-WP-Total")); err == nil {
		result.Total = total
	}
	if totalPages, err := strconv.Atoi(header.Get("X-WP-TotalPages")); err == nil {
		result.HasMore = page.Number < totalPages
	}
	return result, nil
}

// Normalize maps a WooCommerce product into the canonical shape. The
// native type field maps one to one; cost comes from store meta when a
// costing plugin provides it, otherwise it is estimated.
func (a *WooCommerceAdapter) Normalize(record sync.NativeRecord) (*sync.NormalizedProduct, error) {
	product, ok := record.(WooProduct)
	if !ok {
		return nil, sync.NewMappingError(record.Ref(), sync.ErrRecordWrongSource)
	}
	if product.SKU == "" {
		return nil, sync.NewMappingError(record.Ref(), sync.ErrRecordMissingSKU)
	}

	price := parsePrice(product.Price)
	if price.IsZero() {
		price = parsePrice(product.RegularPrice)
	}
	description := stripMarkup(product.Description)
	short := stripMarkup(product.ShortDescription)
	if short == "" {
		short = shortDescription(description)
	}

	normalized := &sync.NormalizedProduct{
		SKU:              product.SKU,
		Name:             product.Name,
		Description:      description,
		ShortDescription: short,
		Status:           wooStatus(product.Status),
		Type:             wooType(product.Type),
		Price:            price,
		Cost:             estimateCost(price, wooCost(product)),
		Categories:       termNames(product.Categories),
		Tags:             termNames(product.Tags),
		SourceMetadata: map[string]any{
			"woo_id":        product.ID,
			"woo_permalink": product.Permalink,
		},
	}
	if weight := parsePrice(product.Weight); weight.IsPositive() {
		normalized.Weight = weight
		normalized.HasWeight = true
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

// wooStatus maps the WordPress post status onto a catalog status.
// Unknown values fall back to draft.
func wooStatus(status string) catalog.ProductStatus {
	switch status {
	case "publish":
		return catalog.ProductStatusActive
	case "draft", "pending":
		return catalog.ProductStatusDraft
	case "private":
		return catalog.ProductStatusInactive
	case "trash":
		return catalog.ProductStatusArchived
	default:
		return catalog.ProductStatusDraft
	}
}

// wooType maps the native product type; the names already match
func wooType(t string) catalog.ProductType {
	switch t {
	case "simple", "variable", "grouped", "external":
		return catalog.ProductType(t)
	default:
		return catalog.ProductTypeSimple
	}
}

// wooCost reads the cost of goods meta a costing plugin stores
func wooCost(p WooProduct) decimal.Decimal {
	for _, key := range []string{"_wc_cog_cost", "_cost", "cost"} {
		if v, ok := p.metaValue(key); ok {
			if s, ok := v.(string); ok {
				return parsePrice(s)
			}
			if f, ok := v.(float64); ok {
				return decimal.NewFromFloat(f)
			}
		}
	}
	return decimal.Zero
}

func termNames(terms []WooTerm) []string {
	if len(terms) == 0 {
		return nil
	}
	names := make([]string, 0, len(terms))
	for _, t := range terms {
		if t.Name != "" {
			names = append(names, t.Name)
		}
	}
	return names
}

// get performs an authenticated GET and returns body and headers
func (a *WooCommerceAdapter) get(ctx context.Context, config *WooCommerceConfig, rawURL string) ([]byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("woocommerce: failed to create request: %w", err)
	}
	req.SetBasicAuth(config.ConsumerKey, config.ConsumerSecret)
	req.Header.Set("Accept", "application/json")

	resp, err := a.client(config).Do(req)
	if err != nil {
		return nil, nil, classifyTransportError(sync.SourceCodeWooCommerce, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, nil, classifyTransportError(sync.SourceCodeWooCommerce, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, nil, sync.NewConnectionError(sync.SourceCodeWooCommerce, sync.FailureInvalidCredentials,
			fmt.Errorf("woocommerce: HTTP %d: %s", resp.StatusCode, wooErrorMessage(body)))
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil, sync.NewConnectionError(sync.SourceCodeWooCommerce, sync.FailureUnreachable,
			fmt.Errorf("woocommerce: HTTP 404: REST API not found at %s", config.StoreURL))
	case resp.StatusCode >= 400:
		return nil, nil, sync.NewConnectionError(sync.SourceCodeWooCommerce, sync.FailureUnknown,
			fmt.Errorf("woocommerce: HTTP %d: %s", resp.StatusCode, wooErrorMessage(body)))
	}
	return body, resp.Header, nil
}

// wooErrorMessage extracts the message from a WP REST error body
func wooErrorMessage(body []byte) string {
	var errResp wooErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Message == "" {
		return "request failed"
	}
	return errResp.Message
}

func (a *WooCommerceAdapter) wooConfig(creds sync.Credentials) (*WooCommerceConfig, error) {
	config, ok := creds.(*WooCommerceConfig)
	if !ok {
		return nil, wrongCredentials(sync.SourceCodeWooCommerce, creds)
	}
	if err := config.Validate(); err != nil {
		return nil, sync.NewConnectionError(sync.SourceCodeWooCommerce, sync.FailureInvalidCredentials, err)
	}
	return config, nil
}

func (a *WooCommerceAdapter) client(config *WooCommerceConfig) *http.Client {
	if config.TimeoutSeconds > 0 {
		return &http.Client{Timeout: time.Duration(config.TimeoutSeconds) * time.Second}
	}
	return a.httpClient
}

// Ensure WooCommerceAdapter implements SourceAdapter interface
var _ sync.SourceAdapter = (*WooCommerceAdapter)(nil)
