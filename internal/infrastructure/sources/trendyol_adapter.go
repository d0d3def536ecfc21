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

// TrendyolAdapter fetches supplier products from the Trendyol gateway.
// The gateway pages from zero; the adapter translates the engine's
// 1-indexed pages. Approval and archive flags drive the status mapping.
type TrendyolAdapter struct {
	httpClient *http.Client
}

// NewTrendyolAdapter creates a new Trendyol adapter
func NewTrendyolAdapter() *TrendyolAdapter {
	return &TrendyolAdapter{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SourceCode returns the source this adapter handles
func (a *TrendyolAdapter) SourceCode() sync.SourceCode {
	return sync.SourceCodeTrendyol
}

// TestConnection fetches a single-product page as a handshake
func (a *TrendyolAdapter) TestConnection(ctx context.Context, creds sync.Credentials) error {
	config, err := a.trendyolConfig(creds)
	if err != nil {
		return err
	}
	_, err = a.fetch(ctx, config, url.Values{"page": {"0"}, "size": {"1"}})
	return err
}

// FetchPage fetches one page of supplier products
func (a *TrendyolAdapter) FetchPage(ctx context.Context, creds sync.Credentials, filters sync.Filters, page sync.Page) (*sync.FetchResult, error) {
	config, err := a.trendyolConfig(creds)
	if err != nil {
		return nil, err
	}

	page = page.Normalize()
	query := url.Values{}
	query.Set("page", strconv.Itoa(page.Number-1))
	query.Set("size", strconv.Itoa(page.Size))
	if filters.Status != "" {
		// the gateway filters on approval, not a status string
		query.Set("approved", strconv.FormatBool(filters.Status == "active"))
	}
	if filters.UpdatedSince != nil {
		query.Set("startDate", strconv.FormatInt(filters.UpdatedSince.UnixMilli(), 10))
		query.Set("dateQueryType", "LAST_MODIFIED_DATE")
	}
	for k, v := range filters.Raw {
		query.Set(k, v)
	}

	resp, err := a.fetch(ctx, config, query)
	if err != nil {
		return nil, err
	}

	items := make([]sync.NativeRecord, 0, len(resp.Content))
	for _, p := range resp.Content {
		items = append(items, p)
	}
	return &sync.FetchResult{
		Items:   items,
		Total:   resp.TotalElements,
		HasMore: page.Number < resp.TotalPages,
	}, nil
}

// Normalize maps a Trendyol product into the canonical shape. The
// stock code stands in for the SKU with the barcode as fallback;
// Trendyol exposes no cost, so it is estimated.
func (a *TrendyolAdapter) Normalize(record sync.NativeRecord) (*sync.NormalizedProduct, error) {
	product, ok := record.(TrendyolProduct)
	if !ok {
		return nil, sync.NewMappingError(record.Ref(), sync.ErrRecordWrongSource)
	}

	sku := product.sku()
	if sku == "" {
		return nil, sync.NewMappingError(record.Ref(), sync.ErrRecordMissingSKU)
	}

	price := decimal.NewFromFloat(product.price())
	description := stripMarkup(product.Description)

	normalized := &sync.NormalizedProduct{
		SKU:              sku,
		Name:             product.Title,
		Description:      description,
		ShortDescription: shortDescription(description),
		Status:           trendyolStatus(product),
		Type:             catalog.ProductTypeSimple,
		Price:            price,
		Cost:             estimateCost(price, decimal.Zero),
		SourceMetadata: map[string]any{
			"trendyol_content_id": product.ID,
			"trendyol_barcode":    product.Barcode,
		},
	}
	if product.Brand != "" {
		normalized.SourceMetadata["trendyol_brand"] = product.Brand
	}
	if product.ProductMainID != "" {
		normalized.SourceMetadata["trendyol_main_id"] = product.ProductMainID
	}
	if product.CategoryName != "" {
		normalized.Categories = []string{product.CategoryName}
	}
	for _, attr := range product.Attributes {
		if attr.AttributeName != "" && attr.AttributeValue != "" {
			normalized.Tags = append(normalized.Tags, attr.AttributeName+": "+attr.AttributeValue)
		}
	}
	if len(product.Images) > 0 {
		normalized.HasImages = true
		normalized.Images = make([]sync.NormalizedImage, 0, len(product.Images))
		for _, img := range product.Images {
			normalized.Images = append(normalized.Images, sync.NormalizedImage{URL: img.URL, Alt: product.Title})
		}
	}
	return normalized, nil
}

// trendyolStatus derives the catalog status from the approval flags.
// Unapproved content stays in draft until Trendyol accepts it.
func trendyolStatus(p TrendyolProduct) catalog.ProductStatus {
	switch {
	case p.Archived:
		return catalog.ProductStatusArchived
	case !p.Approved:
		return catalog.ProductStatusDraft
	case !p.OnSale:
		return catalog.ProductStatusInactive
	default:
		return catalog.ProductStatusActive
	}
}

// fetch performs an authenticated GET against the products endpoint
func (a *TrendyolAdapter) fetch(ctx context.Context, config *TrendyolConfig, query url.Values) (*trendyolProductsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, config.productsURL()+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("trendyol: failed to create request: %w", err)
	}
	req.SetBasicAuth(config.APIKey, config.APISecret)
	req.Header.Set("User-Agent", config.userAgent())
	req.Header.Set("Accept", "application/json")

	resp, err := a.client(config).Do(req)
	if err != nil {
		return nil, classifyTransportError(sync.SourceCodeTrendyol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, classifyTransportError(sync.SourceCodeTrendyol, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, sync.NewConnectionError(sync.SourceCodeTrendyol, sync.FailureInvalidCredentials,
			fmt.Errorf("trendyol: HTTP %d: %s", resp.StatusCode, trendyolErrorMessage(body)))
	case resp.StatusCode == http.StatusNotFound:
		return nil, sync.NewConnectionError(sync.SourceCodeTrendyol, sync.FailureUnreachable,
			fmt.Errorf("trendyol: HTTP 404: supplier %s not found", config.SupplierID))
	case resp.StatusCode >= 400:
		return nil, sync.NewConnectionError(sync.SourceCodeTrendyol, sync.FailureUnknown,
			fmt.Errorf("trendyol: HTTP %d: %s", resp.StatusCode, trendyolErrorMessage(body)))
	}

	var productsResp trendyolProductsResponse
	if err := json.Unmarshal(body, &productsResp); err != nil {
		return nil, sync.NewConnectionError(sync.SourceCodeTrendyol, sync.FailureUnknown,
			fmt.Errorf("trendyol: failed to parse products response: %w", err))
	}
	return &productsResp, nil
}

// trendyolErrorMessage joins the messages from an error body
func trendyolErrorMessage(body []byte) string {
	var errResp trendyolErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || len(errResp.Errors) == 0 {
		return "request failed"
	}
	messages := make([]string, 0, len(errResp.Errors))
	for _, e := range errResp.Errors {
		messages = append(messages, e.Message)
	}
	return strings.Join(messages, "; ")
}

func (a *TrendyolAdapter) trendyolConfig(creds sync.Credentials) (*TrendyolConfig, error) {
	config, ok := creds.(*TrendyolConfig)
	if !ok {
		return nil, wrongCredentials(sync.SourceCodeTrendyol, creds)
	}
	if err := config.Validate(); err != nil {
		return nil, sync.NewConnectionError(sync.SourceCodeTrendyol, sync.FailureInvalidCredentials, err)
	}
	return config, nil
}

func (a *TrendyolAdapter) client(config *TrendyolConfig) *http.Client {
	if config.TimeoutSeconds > 0 {
		return &http.Client{Timeout: time.Duration(config.TimeoutSeconds) * time.Second}
	}
	return a.httpClient
}

// Ensure TrendyolAdapter implements SourceAdapter interface
var _ sync.SourceAdapter = (*TrendyolAdapter)(nil)
