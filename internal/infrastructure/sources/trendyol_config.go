package sources

import (
	"errors"
	"fmt"
	"strings"

	"github.com/opencatalog/backend/internal/domain/sync"
)

// TrendyolProductionAPIURL is the production gateway endpoint
const TrendyolProductionAPIURL = "https://api.trendyol.com/sapigw"

// TrendyolConfig holds the per-tenant credentials for a Trendyol
// supplier account
type TrendyolConfig struct {
	// SupplierID is the numeric supplier (seller) ID
	SupplierID string
	// APIKey is the Trendyol API key
	APIKey string
	// APISecret is the Trendyol API secret
	APISecret string
	// APIBaseURL is the gateway root; defaults to production
	APIBaseURL string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// Errors for Trendyol configuration
var (
	ErrTrendyolConfigMissingSupplier = errors.New("trendyol: supplier ID is required")
	ErrTrendyolConfigMissingKey      = errors.New("trendyol: API key is required")
	ErrTrendyolConfigMissingSecret   = errors.New("trendyol: API secret is required")
)

// NewTrendyolConfig creates a Trendyol configuration with defaults
func NewTrendyolConfig(supplierID, apiKey, apiSecret string) *TrendyolConfig {
	return &TrendyolConfig{
		SupplierID:     supplierID,
		APIKey:         apiKey,
		APISecret:      apiSecret,
		APIBaseURL:     TrendyolProductionAPIURL,
		TimeoutSeconds: 30,
	}
}

// SourceCode returns the source these credentials belong to
func (c *TrendyolConfig) SourceCode() sync.SourceCode {
	return sync.SourceCodeTrendyol
}

// Validate validates the Trendyol configuration
func (c *TrendyolConfig) Validate() error {
	if c.SupplierID == "" {
		return ErrTrendyolConfigMissingSupplier
	}
	if c.APIKey == "" {
		return ErrTrendyolConfigMissingKey
	}
	if c.APISecret == "" {
		return ErrTrendyolConfigMissingSecret
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = TrendyolProductionAPIURL
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// productsURL builds the supplier products endpoint URL
func (c *TrendyolConfig) productsURL() string {
	return fmt.Sprintf("%s/suppliers/%s/products", c.APIBaseURL, c.SupplierID)
}

// userAgent is the agent string Trendyol requires for self integrations
func (c *TrendyolConfig) userAgent() string {
	return c.SupplierID + " - SelfIntegration"
}

// Ensure TrendyolConfig implements Credentials interface
var _ sync.Credentials = (*TrendyolConfig)(nil)
