package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/opencatalog/backend/internal/infrastructure/logger"
)

// Tenant context keys
const (
	TenantIDKey     = "tenant_id"
	TenantHeaderKey = "X-Tenant-ID"
)

// TenantMiddlewareConfig holds configuration for tenant middleware
type TenantMiddlewareConfig struct {
	// HeaderEnabled enables X-Tenant-ID header extraction as a fallback
	HeaderEnabled bool
	// SkipPaths are paths that don't require tenant context
	SkipPaths []string
	// Required determines if tenant context is mandatory
	Required bool
}

// DefaultTenantConfig returns default tenant middleware configuration
func DefaultTenantConfig() TenantMiddlewareConfig {
	return TenantMiddlewareConfig{
		HeaderEnabled: true,
		SkipPaths:     []string{"/health", "/healthz", "/ready", "/api/v1/system"},
		Required:      true,
	}
}

// TenantMiddleware extracts the tenant from the request.
// Extraction order: JWT claims, then the X-Tenant-ID header.
func TenantMiddleware() gin.HandlerFunc {
	return TenantMiddlewareWithConfig(DefaultTenantConfig())
}

// TenantMiddlewareWithConfig returns tenant middleware with custom
// configuration
func TenantMiddlewareWithConfig(cfg TenantMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		tenantID := GetJWTTenantID(c)
		if tenantID == "" && cfg.HeaderEnabled {
			tenantID = c.GetHeader(TenantHeaderKey)
		}

		if tenantID == "" {
			if cfg.Required {
				respondTenantRequired(c, "Tenant identification required")
			} else {
				c.Next()
			}
			return
		}

		parsed, err := uuid.Parse(tenantID)
		if err != nil || parsed == uuid.Nil {
			respondTenantRequired(c, "Invalid tenant ID format")
			return
		}

		c.Set(TenantIDKey, parsed)

		ctx := c.Request.Context()
		ctx, _ = logger.WithTenantID(ctx, logger.FromContext(ctx), parsed.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func respondTenantRequired(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "ERR_UNAUTHORIZED",
			"message": message,
		},
	})
}

// GetTenantID retrieves the parsed tenant ID from gin.Context
func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	if v, exists := c.Get(TenantIDKey); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id, true
		}
	}
	return uuid.Nil, false
}
