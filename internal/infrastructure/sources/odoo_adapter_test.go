package sources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencatalog/backend/internal/domain/catalog"
	"github.com/opencatalog/backend/internal/domain/sync"
)

func TestOdooConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *OdooConfig
		wantErr error
	}{
		{
			name:    "valid config",
			config:  &OdooConfig{BaseURL: "https://erp.example.com", Database: "prod", Username: "admin", Password: "secret"},
			wantErr: nil,
		},
		{
			name:    "missing base URL",
			config:  &OdooConfig{Database: "prod", Username: "admin", Password: "secret"},
			wantErr: ErrOdooConfigMissingBaseURL,
		},
		{
			name:    "missing database",
			config:  &OdooConfig{BaseURL: "https://erp.example.com", Username: "admin", Password: "secret"},
			wantErr: ErrOdooConfigMissingDatabase,
		},
		{
			name:    "missing username",
			config:  &OdooConfig{BaseURL: "https://erp.example.com", Database: "prod", Password: "secret"},
			wantErr: ErrOdooConfigMissingUsername,
		},
		{
			name:    "missing password",
			config:  &OdooConfig{BaseURL: "https://erp.example.com", Database: "prod", Username: "admin"},
			wantErr: ErrOdooConfigMissingPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.True(t, tt.config.TimeoutSeconds > 0)
			}
		})
	}
}

// newOdooServer fakes the /jsonrpc endpoint: authenticate answers with
// authResult, search_read answers with the given products
func newOdooServer(t *testing.T, authResult any, products []map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/jsonrpc", r.URL.Path)

		var rpcReq jsonRPCRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rpcReq))

		var result any
		switch rpcReq.Params.Method {
		case "authenticate":
			result = authResult
		case "execute_kw":
			result = products
		default:
			t.Fatalf("unexpected RPC method %q", rpcReq.Params.Method)
		}

		payload, err := json.Marshal(result)
		require.NoError(t, err)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      rpcReq.ID,
			"result":  json.RawMessage(payload),
		})
	}))
}

func TestOdooAdapter_TestConnection(t *testing.T) {
	adapter := NewOdooAdapter()

	t.Run("accepted credentials", func(t *testing.T) {
		server := newOdooServer(t, int64(7), nil)
		defer server.Close()

		config := NewOdooConfig(server.URL, "prod", "admin", "secret")
		assert.NoError(t, adapter.TestConnection(context.Background(), config))
	})

	t.Run("rejected credentials answer false", func(t *testing.T) {
		server := newOdooServer(t, false, nil)
		defer server.Close()

		config := NewOdooConfig(server.URL, "prod", "admin", "wrong")
		err := adapter.TestConnection(context.Background(), config)

		var connErr *sync.ConnectionError
		require.ErrorAs(t, err, &connErr)
		assert.Equal(t, sync.FailureInvalidCredentials, connErr.Class)
	})

	t.Run("missing database is classified", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"jsonrpc": "2.0",
				"error": map[string]any{
					"code":    200,
					"message": "Odoo Server Error",
					"data":    map[string]any{"name": "builtins.KeyError", "message": "nosuchdb"},
				},
			})
		}))
		defer server.Close()

		config := NewOdooConfig(server.URL, "nosuchdb", "admin", "secret")
		err := adapter.TestConnection(context.Background(), config)

		var connErr *sync.ConnectionError
		require.ErrorAs(t, err, &connErr)
		assert.Equal(t, sync.FailureDatabaseNotFound, connErr.Class)
	})

	t.Run("unreachable host is classified", func(t *testing.T) {
		config := NewOdooConfig("http://127.0.0.1:1", "prod", "admin", "secret")
		err := adapter.TestConnection(context.Background(), config)

		var connErr *sync.ConnectionError
		require.ErrorAs(t, err, &connErr)
		assert.Equal(t, sync.FailureUnreachable, connErr.Class)
	})

	t.Run("wrong credentials type", func(t *testing.T) {
		err := adapter.TestConnection(context.Background(), NewShopifyConfig("shop.myshopify.com", "token"))
		var connErr *sync.ConnectionError
		require.ErrorAs(t, err, &connErr)
		assert.Equal(t, sync.FailureInvalidCredentials, connErr.Class)
	})
}

func TestOdooAdapter_FetchPage(t *testing.T) {
	adapter := NewOdooAdapter()

	server := newOdooServer(t, int64(7), []map[string]any{
		{
			"id":             42,
			"default_code":   "CHAIR-001",
			"barcode":        "8690000000001",
			"name":           "Ergonomic Chair",
			"description":    "<p>A <b>great</b> chair</p>",
			"list_price":     149.90,
			"standard_price": 99.50,
			"weight":         12.5,
			"active":         true,
			"sale_ok":        true,
			"categ_id":       []any{5, "Office / Seating"},
		},
		{
			// Odoo sends false for empty char fields
			"id":           43,
			"default_code": false,
			"barcode":      false,
			"name":         "Draft thing",
			"description":  false,
			"list_price":   0.0,
			"active":       true,
			"sale_ok":      false,
			"categ_id":     false,
		},
	})
	defer server.Close()

	config := NewOdooConfig(server.URL, "prod", "admin", "secret")
	result, err := adapter.FetchPage(context.Background(), config, sync.Filters{}, sync.Page{Number: 1, Size: 100})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	assert.False(t, result.HasMore)

	first, ok := result.Items[0].(OdooProduct)
	require.True(t, ok)
	assert.Equal(t, "CHAIR-001", first.Ref())

	second, ok := result.Items[1].(OdooProduct)
	require.True(t, ok)
	assert.Equal(t, "odoo:43", second.Ref())
	assert.Equal(t, "", second.DefaultCode.String())
}

func TestOdooAdapter_Normalize(t *testing.T) {
	adapter := NewOdooAdapter()

	t.Run("full record", func(t *testing.T) {
		record := OdooProduct{
			ID:              42,
			DefaultCode:     "CHAIR-001",
			Barcode:         "8690000000001",
			Name:            "Ergonomic Chair",
			DescriptionHTML: "<p>A <b>great</b> chair</p>",
			ListPrice:       149.90,
			StandardPrice:   99.50,
			Weight:          12.5,
			Active:          true,
			SaleOK:          true,
			CategID:         []any{float64(5), "Office / Seating"},
		}

		normalized, err := adapter.Normalize(record)
		require.NoError(t, err)
		assert.Equal(t, "CHAIR-001", normalized.SKU)
		assert.Equal(t, "A great chair", normalized.Description)
		assert.Equal(t, catalog.ProductStatusActive, normalized.Status)
		assert.Equal(t, catalog.ProductTypeSimple, normalized.Type)
		assert.True(t, normalized.Price.Equal(decimal.NewFromFloat(149.90)))
		// the real standard price wins over the estimate
		assert.True(t, normalized.Cost.Equal(decimal.NewFromFloat(99.50)))
		assert.True(t, normalized.HasWeight)
		assert.Equal(t, []string{"Office / Seating"}, normalized.Categories)
		assert.Equal(t, int64(42), normalized.SourceMetadata["odoo_id"])
		assert.Equal(t, "8690000000001", normalized.SourceMetadata["odoo_barcode"])
		assert.False(t, normalized.VariantAware)
	})

	t.Run("missing standard price falls back to estimate", func(t *testing.T) {
		record := OdooProduct{ID: 1, DefaultCode: "X-1", Name: "X", ListPrice: 100, Active: true, SaleOK: true}
		normalized, err := adapter.Normalize(record)
		require.NoError(t, err)
		assert.True(t, normalized.Cost.Equal(decimal.NewFromInt(70)))
	})

	t.Run("status mapping", func(t *testing.T) {
		archived, err := adapter.Normalize(OdooProduct{ID: 1, DefaultCode: "A", Name: "A", Active: false})
		require.NoError(t, err)
		assert.Equal(t, catalog.ProductStatusArchived, archived.Status)

		draft, err := adapter.Normalize(OdooProduct{ID: 2, DefaultCode: "B", Name: "B", Active: true, SaleOK: false})
		require.NoError(t, err)
		assert.Equal(t, catalog.ProductStatusDraft, draft.Status)
	})

	t.Run("missing SKU is a mapping error", func(t *testing.T) {
		_, err := adapter.Normalize(OdooProduct{ID: 9, Name: "No code"})
		var itemErr *sync.ItemError
		require.ErrorAs(t, err, &itemErr)
		assert.Equal(t, sync.ItemErrorMapping, itemErr.Kind)
	})

	t.Run("record from another source", func(t *testing.T) {
		_, err := adapter.Normalize(ShopifyProduct{ID: 1, Title: "Nope"})
		assert.ErrorIs(t, err, sync.ErrRecordWrongSource)
	})
}
