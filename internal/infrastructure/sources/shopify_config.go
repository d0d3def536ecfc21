package sources

import (
	"errors"
	"fmt"
	"strings"

	"github.com/opencatalog/backend/internal/domain/sync"
)

// shopifyAPIVersion is the pinned Admin API version
const shopifyAPIVersion = "2024-01"

// ShopifyConfig holds the per-tenant credentials for a Shopify shop
type ShopifyConfig struct {
	// ShopDomain is the myshopify domain, e.g. acme.myshopify.com
	ShopDomain string
	// AccessToken is the Admin API access token
	AccessToken string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// Errors for Shopify configuration
var (
	ErrShopifyConfigMissingDomain = errors.New("shopify: shop domain is required")
	ErrShopifyConfigMissingToken  = errors.New("shopify: access token is required")
)

// NewShopifyConfig creates a Shopify configuration with defaults
func NewShopifyConfig(shopDomain, accessToken string) *ShopifyConfig {
	return &ShopifyConfig{
		ShopDomain:     strings.TrimRight(shopDomain, "/"),
		AccessToken:    accessToken,
		TimeoutSeconds: 30,
	}
}

// SourceCode returns the source these credentials belong to
func (c *ShopifyConfig) SourceCode() sync.SourceCode {
	return sync.SourceCodeShopify
}

// Validate validates the Shopify configuration
func (c *ShopifyConfig) Validate() error {
	if c.ShopDomain == "" {
		return ErrShopifyConfigMissingDomain
	}
	if c.AccessToken == "" {
		return ErrShopifyConfigMissingToken
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// apiURL builds an Admin API URL for the given resource path
func (c *ShopifyConfig) apiURL(resource string) string {
	domain := c.ShopDomain
	if !strings.Contains(domain, "://") {
		domain = "https://" + domain
	}
	return fmt.Sprintf("%s/admin/api/%s/%s", domain, shopifyAPIVersion, resource)
}

// Ensure ShopifyConfig implements Credentials interface
var _ sync.Credentials = (*ShopifyConfig)(nil)
