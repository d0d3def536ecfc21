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

func TestShopifyConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *ShopifyConfig
		wantErr error
	}{
		{
			name:    "valid config",
			config:  &ShopifyConfig{ShopDomain: "acme.myshopify.com", AccessToken: "shpat_xxx"},
			wantErr: nil,
		},
		{
			name:    "missing domain",
			config:  &ShopifyConfig{AccessToken: "shpat_xxx"},
			wantErr: ErrShopifyConfigMissingDomain,
		},
		{
			name:    "missing token",
			config:  &ShopifyConfig{ShopDomain: "acme.myshopify.com"},
			wantErr: ErrShopifyConfigMissingToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestShopifyAdapter_TestConnection(t *testing.T) {
	adapter := NewShopifyAdapter()

	t.Run("accepted token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/admin/api/2024-01/shop.json", r.URL.Path)
			assert.Equal(t, "shpat_xxx", r.Header.Get("X-Shopify-Access-Token"))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"shop": map[string]any{"id": 1, "name": "Acme"},
			})
		}))
		defer server.Close()

		config := NewShopifyConfig(server.URL, "shpat_xxx")
		assert.NoError(t, adapter.TestConnection(context.Background(), config))
	})

	t.Run("rejected token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"errors": "[API] Invalid API key or access token"})
		}))
		defer server.Close()

		config := NewShopifyConfig(server.URL, "bad-token")
		err := adapter.TestConnection(context.Background(), config)

		var connErr *sync.ConnectionError
		require.ErrorAs(t, err, &connErr)
		assert.Equal(t, sync.FailureInvalidCredentials, connErr.Class)
	})

	t.Run("unknown shop", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		config := NewShopifyConfig(server.URL, "shpat_xxx")
		err := adapter.TestConnection(context.Background(), config)

		var connErr *sync.ConnectionError
		require.ErrorAs(t, err, &connErr)
		assert.Equal(t, sync.FailureUnreachable, connErr.Class)
	})
}

func TestShopifyAdapter_FetchPage(t *testing.T) {
	adapter := NewShopifyAdapter()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/admin/api/2024-01/products.json":
			assert.Equal(t, "100", r.URL.Query().Get("limit"))
			assert.Equal(t, "active", r.URL.Query().Get("status"))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"products": []map[string]any{
					{
						"id":     1001,
						"title":  "T-Shirt",
						"status": "active",
						"variants": []map[string]any{
							{"id": 2001, "sku": "TS-001", "title": "Default Title", "price": "19.90"},
						},
					},
				},
			})
		case "/admin/api/2024-01/products/count.json":
			_ = json.NewEncoder(w).Encode(map[string]any{"count": 37})
		default:
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
	}))
	defer server.Close()

	config := NewShopifyConfig(server.URL, "shpat_xxx")
	result, err := adapter.FetchPage(context.Background(), config, sync.Filters{Status: "active"}, sync.Page{Number: 1, Size: 100})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, 37, result.Total)
	assert.False(t, result.HasMore)
	assert.Equal(t, "TS-001", result.Items[0].Ref())
}

func TestShopifyAdapter_Normalize(t *testing.T) {
	adapter := NewShopifyAdapter()

	t.Run("single default variant stays simple", func(t *testing.T) {
		record := ShopifyProduct{
			ID:       1001,
			Title:    "T-Shirt",
			BodyHTML: "<p>Soft &amp; comfy</p>",
			Vendor:   "Acme",
			Handle:   "t-shirt",
			Status:   "active",
			Tags:     "apparel, summer",
			Variants: []ShopifyVariant{
				{ID: 2001, SKU: "TS-001", Title: "Default Title", Price: "19.90", Grams: 250},
			},
			Images: []ShopifyImage{{Src: "https://cdn.example.com/ts.jpg", Alt: "front"}},
		}

		normalized, err := adapter.Normalize(record)
		require.NoError(t, err)
		assert.Equal(t, "TS-001", normalized.SKU)
		assert.Equal(t, "Soft & comfy", normalized.Description)
		assert.Equal(t, catalog.ProductStatusActive, normalized.Status)
		assert.Equal(t, catalog.ProductTypeSimple, normalized.Type)
		assert.Empty(t, normalized.Variants)
		assert.True(t, normalized.VariantAware)
		assert.True(t, normalized.Price.Equal(decimal.NewFromFloat(19.90)))
		assert.True(t, normalized.Cost.Equal(decimal.NewFromFloat(13.93)))
		assert.True(t, normalized.HasWeight)
		assert.True(t, normalized.Weight.Equal(decimal.NewFromFloat(0.25)))
		assert.Equal(t, []string{"apparel", "summer"}, normalized.Tags)
		assert.Equal(t, int64(1001), normalized.SourceMetadata["shopify_id"])
		assert.Equal(t, "Acme", normalized.SourceMetadata["shopify_vendor"])
		require.True(t, normalized.HasImages)
		require.Len(t, normalized.Images, 1)
		assert.Equal(t, "front", normalized.Images[0].Alt)
	})

	t.Run("multiple variants become variable", func(t *testing.T) {
		record := ShopifyProduct{
			ID:     1002,
			Title:  "Hoodie",
			Status: "active",
			Variants: []ShopifyVariant{
				{ID: 2002, SKU: "HD-001-S", Title: "S", Price: "39.90", Option1: "S", InventoryQuantity: 4},
				{ID: 2003, SKU: "", Title: "M", Price: "39.90", Option1: "M"},
			},
		}

		normalized, err := adapter.Normalize(record)
		require.NoError(t, err)
		assert.Equal(t, catalog.ProductTypeVariable, normalized.Type)
		require.Len(t, normalized.Variants, 2)
		assert.Equal(t, "HD-001-S", normalized.Variants[0].SKU)
		assert.Equal(t, 4, normalized.Variants[0].StockQuantity)
		assert.Equal(t, "S", normalized.Variants[0].Attributes["option1"])
		// a variant without an SKU gets a derived one
		assert.Equal(t, "HD-001-S-V2003", normalized.Variants[1].SKU)
	})

	t.Run("oversold inventory clamps to zero stock", func(t *testing.T) {
		record := ShopifyProduct{
			ID:     1005,
			Title:  "Backpack",
			Status: "active",
			Variants: []ShopifyVariant{
				{ID: 2005, SKU: "BP-001-BLK", Title: "Black", Price: "59.00", Option1: "Black", InventoryQuantity: -3},
				{ID: 2006, SKU: "BP-001-GRY", Title: "Grey", Price: "59.00", Option1: "Grey", InventoryQuantity: 7},
			},
		}

		normalized, err := adapter.Normalize(record)
		require.NoError(t, err)
		require.Len(t, normalized.Variants, 2)
		assert.Equal(t, 0, normalized.Variants[0].StockQuantity)
		assert.Equal(t, 7, normalized.Variants[1].StockQuantity)
	})

	t.Run("no variants means no SKU", func(t *testing.T) {
		_, err := adapter.Normalize(ShopifyProduct{ID: 1003, Title: "Bare"})
		var itemErr *sync.ItemError
		require.ErrorAs(t, err, &itemErr)
		assert.Equal(t, sync.ItemErrorMapping, itemErr.Kind)
		assert.ErrorIs(t, err, sync.ErrRecordMissingSKU)
	})

	t.Run("unknown status falls back to draft", func(t *testing.T) {
		normalized, err := adapter.Normalize(ShopifyProduct{
			ID:       1004,
			Title:    "Mystery",
			Status:   "whatever",
			Variants: []ShopifyVariant{{ID: 2004, SKU: "MY-001", Title: "Default Title", Price: "5.00"}},
		})
		require.NoError(t, err)
		assert.Equal(t, catalog.ProductStatusDraft, normalized.Status)
	})
}
