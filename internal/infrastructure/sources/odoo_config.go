package sources

import (
	"errors"
	"strings"

	"github.com/opencatalog/backend/internal/domain/sync"
)

// OdooConfig holds the per-tenant credentials for an Odoo instance.
// It is passed to the adapter on every call; the adapter itself keeps
// no tenant state.
type OdooConfig struct {
	// BaseURL is the Odoo server root, e.g. https://erp.example.com
	BaseURL string
	// Database is the Odoo database name
	Database string
	// Username is the Odoo login
	Username string
	// Password is the Odoo password or API key
	Password string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// Errors for Odoo configuration
var (
	ErrOdooConfigMissingBaseURL  = errors.New("odoo: base URL is required")
	ErrOdooConfigMissingDatabase = errors.New("odoo: database name is required")
	ErrOdooConfigMissingUsername = errors.New("odoo: username is required")
	ErrOdooConfigMissingPassword = errors.New("odoo: password is required")
)

// NewOdooConfig creates an Odoo configuration with defaults
func NewOdooConfig(baseURL, database, username, password string) *OdooConfig {
	return &OdooConfig{
		BaseURL:        strings.TrimRight(baseURL, "/"),
		Database:       database,
		Username:       username,
		Password:       password,
		TimeoutSeconds: 30,
	}
}

// SourceCode returns the source these credentials belong to
func (c *OdooConfig) SourceCode() sync.SourceCode {
	return sync.SourceCodeOdoo
}

// Validate validates the Odoo configuration
func (c *OdooConfig) Validate() error {
	if c.BaseURL == "" {
		return ErrOdooConfigMissingBaseURL
	}
	if c.Database == "" {
		return ErrOdooConfigMissingDatabase
	}
	if c.Username == "" {
		return ErrOdooConfigMissingUsername
	}
	if c.Password == "" {
		return ErrOdooConfigMissingPassword
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// Ensure OdooConfig implements Credentials interface
var _ sync.Credentials = (*OdooConfig)(nil)
