package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/opencatalog/backend/internal/domain/catalog"
	"github.com/opencatalog/backend/internal/domain/sync"
)

// OdooAdapter fetches products from an Odoo instance over JSON-RPC.
// Authentication yields a numeric uid which every subsequent call
// carries; a uid of zero means the credentials were rejected.
type OdooAdapter struct {
	httpClient *http.Client
}

// NewOdooAdapter creates a new Odoo adapter
func NewOdooAdapter() *OdooAdapter {
	return &OdooAdapter{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SourceCode returns the source this adapter handles
func (a *OdooAdapter) SourceCode() sync.SourceCode {
	return sync.SourceCodeOdoo
}

// TestConnection authenticates against the Odoo common service
func (a *OdooAdapter) TestConnection(ctx context.Context, creds sync.Credentials) error {
	config, err := a.config(creds)
	if err != nil {
		return err
	}
	_, err = a.authenticate(ctx, config)
	return err
}

// FetchPage fetches one page of product.template records
func (a *OdooAdapter) FetchPage(ctx context.Context, creds sync.Credentials, filters sync.Filters, page sync.Page) (*sync.FetchResult, error) {
	config, err := a.config(creds)
	if err != nil {
		return nil, err
	}
	uid, err := a.authenticate(ctx, config)
	if err != nil {
		return nil, err
	}

	page = page.Normalize()
	domain := buildOdooDomain(filters)
	options := map[string]any{
		"fields": odooProductFields,
		"limit":  page.Size,
		"offset": (page.Number - 1) * page.Size,
		"order":  "id asc",
	}

	raw, err := a.call(ctx, config, "object", "execute_kw", []any{
		config.Database, uid, config.Password,
		"product.template", "search_read",
		[]any{domain}, options,
	})
	if err != nil {
		return nil, err
	}

	var products []OdooProduct
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, sync.NewConnectionError(sync.SourceCodeOdoo, sync.FailureUnknown,
			fmt.Errorf("odoo: failed to parse search_read response: %w", err))
	}

	items := make([]sync.NativeRecord, 0, len(products))
	for _, p := range products {
		items = append(items, p)
	}
	return &sync.FetchResult{
		Items:   items,
		HasMore: len(products) == page.Size,
	}, nil
}

// Normalize maps an Odoo product record into the canonical shape.
// Odoo carries a real standard price; the estimate only fills in when
// it is absent. Odoo knows nothing about variants here, so records are
// never variant-aware.
func (a *OdooAdapter) Normalize(record sync.NativeRecord) (*sync.NormalizedProduct, error) {
	product, ok := record.(OdooProduct)
	if !ok {
		return nil, sync.NewMappingError(record.Ref(), sync.ErrRecordWrongSource)
	}

	price := decimal.NewFromFloat(product.ListPrice)
	description := stripMarkup(product.DescriptionHTML.String())
	if description == "" {
		description = strings.TrimSpace(product.DescriptionSale.String())
	}

	normalized := &sync.NormalizedProduct{
		SKU:              product.DefaultCode.String(),
		Name:             product.Name,
		Description:      description,
		ShortDescription: shortDescription(description),
		Status:           odooStatus(product),
		Type:             catalog.ProductTypeSimple,
		Price:            price,
		Cost:             estimateCost(price, decimal.NewFromFloat(product.StandardPrice)),
		SourceMetadata: map[string]any{
			"odoo_id": product.ID,
		},
	}
	if product.Weight > 0 {
		normalized.Weight = decimal.NewFromFloat(product.Weight)
		normalized.HasWeight = true
	}
	if category := product.categoryName(); category != "" {
		normalized.Categories = []string{category}
	}
	if product.Barcode != "" {
		normalized.SourceMetadata["odoo_barcode"] = product.Barcode.String()
	}

	if normalized.SKU == "" {
		return nil, sync.NewMappingError(record.Ref(), sync.ErrRecordMissingSKU)
	}
	return normalized, nil
}

// odooStatus maps the active/sale_ok pair onto a catalog status
func odooStatus(p OdooProduct) catalog.ProductStatus {
	switch {
	case !p.Active:
		return catalog.ProductStatusArchived
	case !p.SaleOK:
		return catalog.ProductStatusDraft
	default:
		return catalog.ProductStatusActive
	}
}

// buildOdooDomain translates generic filters into an Odoo search domain
func buildOdooDomain(filters sync.Filters) []any {
	domain := make([]any, 0, 3)
	if filters.Search != "" {
		domain = append(domain, []any{"name", "ilike", filters.Search})
	}
	if filters.UpdatedSince != nil {
		domain = append(domain, []any{"write_date", ">=", filters.UpdatedSince.UTC().Format("2006-01-02 15:04:05")})
	}
	for field, value := range filters.Raw {
		domain = append(domain, []any{field, "=", value})
	}
	return domain
}

// authenticate logs in against the common service and returns the uid
func (a *OdooAdapter) authenticate(ctx context.Context, config *OdooConfig) (int64, error) {
	raw, err := a.call(ctx, config, "common", "authenticate", []any{
		config.Database, config.Username, config.Password, map[string]any{},
	})
	if err != nil {
		return 0, err
	}

	// Odoo answers false instead of a uid when the login is rejected
	var uid int64
	if err := json.Unmarshal(raw, &uid); err != nil || uid == 0 {
		return 0, sync.NewConnectionError(sync.SourceCodeOdoo, sync.FailureInvalidCredentials,
			fmt.Errorf("odoo: authentication rejected for %q", config.Username))
	}
	return uid, nil
}

// call performs one JSON-RPC request against the Odoo endpoint
func (a *OdooAdapter) call(ctx context.Context, config *OdooConfig, service, method string, args []any) (json.RawMessage, error) {
	payload, err := json.Marshal(jsonRPCRequest{
		JSONRPC: "2.0",
		Method:  "call",
		Params:  jsonRPCParams{Service: service, Method: method, Args: args},
		ID:      time.Now().UnixNano(),
	})
	if err != nil {
		return nil, fmt.Errorf("odoo: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, config.BaseURL+"/jsonrpc", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("odoo: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client(config).Do(req)
	if err != nil {
		return nil, classifyTransportError(sync.SourceCodeOdoo, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, classifyTransportError(sync.SourceCodeOdoo, err)
	}
	if resp.StatusCode >= 400 {
		return nil, sync.NewConnectionError(sync.SourceCodeOdoo, sync.FailureUnreachable,
			fmt.Errorf("odoo: HTTP %d", resp.StatusCode))
	}

	var rpcResp jsonRPCResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return nil, sync.NewConnectionError(sync.SourceCodeOdoo, sync.FailureUnknown,
			fmt.Errorf("odoo: failed to parse response: %w", err))
	}
	if rpcResp.Error != nil {
		return nil, classifyOdooError(rpcResp.Error)
	}
	return rpcResp.Result, nil
}

// classifyOdooError maps a server-side RPC error onto a failure class.
// A missing database surfaces as a KeyError naming the database.
func classifyOdooError(rpcErr *jsonRPCError) *sync.ConnectionError {
	message := strings.ToLower(rpcErr.Error())
	switch {
	case strings.Contains(message, "database") && strings.Contains(message, "not exist"),
		strings.Contains(rpcErr.Data.Name, "KeyError"):
		return sync.NewConnectionError(sync.SourceCodeOdoo, sync.FailureDatabaseNotFound, rpcErr)
	case strings.Contains(message, "access denied"), strings.Contains(message, "accessdenied"):
		return sync.NewConnectionError(sync.SourceCodeOdoo, sync.FailureInvalidCredentials, rpcErr)
	default:
		return sync.NewConnectionError(sync.SourceCodeOdoo, sync.FailureUnknown, rpcErr)
	}
}

func (a *OdooAdapter) config(creds sync.Credentials) (*OdooConfig, error) {
	config, ok := creds.(*OdooConfig)
	if !ok {
		return nil, wrongCredentials(sync.SourceCodeOdoo, creds)
	}
	if err := config.Validate(); err != nil {
		return nil, sync.NewConnectionError(sync.SourceCodeOdoo, sync.FailureInvalidCredentials, err)
	}
	return config, nil
}

func (a *OdooAdapter) client(config *OdooConfig) *http.Client {
	if config.TimeoutSeconds > 0 {
		return &http.Client{Timeout: time.Duration(config.TimeoutSeconds) * time.Second}
	}
	return a.httpClient
}

// Ensure OdooAdapter implements SourceAdapter interface
var _ sync.SourceAdapter = (*OdooAdapter)(nil)
