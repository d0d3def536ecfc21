package sources

import (
	"errors"
	"strings"

	"github.com/opencatalog/backend/internal/domain/sync"
)

// WooCommerceConfig holds the per-tenant credentials for a WooCommerce
// store. The REST API authenticates with a consumer key/secret pair
// over basic auth.
type WooCommerceConfig struct {
	// StoreURL is the WordPress site root, e.g. https://shop.example.com
	StoreURL string
	// ConsumerKey is the WooCommerce REST API consumer key
	ConsumerKey string
	// ConsumerSecret is the WooCommerce REST API consumer secret
	ConsumerSecret string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// Errors for WooCommerce configuration
var (
	ErrWooConfigMissingStoreURL = errors.New("woocommerce: store URL is required")
	ErrWooConfigMissingKey      = errors.New("woocommerce: consumer key is required")
	ErrWooConfigMissingSecret   = errors.New("woocommerce: consumer secret is required")
)

// NewWooCommerceConfig creates a WooCommerce configuration with defaults
func NewWooCommerceConfig(storeURL, consumerKey, consumerSecret string) *WooCommerceConfig {
	return &WooCommerceConfig{
		StoreURL:       strings.TrimRight(storeURL, "/"),
		ConsumerKey:    consumerKey,
		ConsumerSecret: consumerSecret,
		TimeoutSeconds: 30,
	}
}

// SourceCode returns the source these credentials belong to
func (c *WooCommerceConfig) SourceCode() sync.SourceCode {
	return sync.SourceCodeWooCommerce
}

// Validate validates the WooCommerce configuration
func (c *WooCommerceConfig) Validate() error {
	if c.StoreURL == "" {
		return ErrWooConfigMissingStoreURL
	}
	if c.ConsumerKey == "" {
		return ErrWooConfigMissingKey
	}
	if c.ConsumerSecret == "" {
		return ErrWooConfigMissingSecret
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// apiURL builds a REST API URL for the given resource path
func (c *WooCommerceConfig) apiURL(resource string) string {
	return c.StoreURL + "/wp-json/wc/v3/" + resource
}

// Ensure WooCommerceConfig implements Credentials interface
var _ sync.Credentials = (*WooCommerceConfig)(nil)
