package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	syncapp "github.com/opencatalog/backend/internal/application/sync"
	"github.com/opencatalog/backend/internal/domain/shared"
	syncdomain "github.com/opencatalog/backend/internal/domain/sync"
	"github.com/opencatalog/backend/internal/infrastructure/sources"
	"github.com/opencatalog/backend/internal/interfaces/http/dto"
)

// SyncHandler handles catalog synchronization endpoints
type SyncHandler struct {
	BaseHandler
	syncService *syncapp.Service
	registry    *sources.Registry
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(syncService *syncapp.Service, registry *sources.Registry) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
		registry:    registry,
	}
}

// SourceCredentialsRequest carries per-source connection secrets.
// Only the fields for the targeted source need to be set.
type SourceCredentialsRequest struct {
	// Odoo
	BaseURL  string `json:"base_url"`
	Database string `json:"database"`
	Username string `json:"username"`
	Password string `json:"password"`
	// Shopify
	ShopDomain  string `json:"shop_domain"`
	AccessToken string `json:"access_token"`
	// WooCommerce
	StoreURL       string `json:"store_url"`
	ConsumerKey    string `json:"consumer_key"`
	ConsumerSecret string `json:"consumer_secret"`
	// Trendyol
	SupplierID string `json:"supplier_id"`
	APIKey     string `json:"api_key"`
	APISecret  string `json:"api_secret"`
	// Optional HTTP timeout override, in seconds
	TimeoutSeconds int `json:"timeout_seconds"`
}

// toCredentials builds the adapter credentials for the given source
func (r SourceCredentialsRequest) toCredentials(source syncdomain.SourceCode) (syncdomain.Credentials, error) {
	switch source {
	case syncdomain.SourceCodeOdoo:
		cfg := sources.NewOdooConfig(r.BaseURL, r.Database, r.Username, r.Password)
		if r.TimeoutSeconds > 0 {
			cfg.TimeoutSeconds = r.TimeoutSeconds
		}
		return cfg, cfg.Validate()
	case syncdomain.SourceCodeShopify:
		cfg := sources.NewShopifyConfig(r.ShopDomain, r.AccessToken)
		if r.TimeoutSeconds > 0 {
			cfg.TimeoutSeconds = r.TimeoutSeconds
		}
		return cfg, cfg.Validate()
	case syncdomain.SourceCodeWooCommerce:
		cfg := sources.NewWooCommerceConfig(r.StoreURL, r.ConsumerKey, r.ConsumerSecret)
		if r.TimeoutSeconds > 0 {
			cfg.TimeoutSeconds = r.TimeoutSeconds
		}
		return cfg, cfg.Validate()
	case syncdomain.SourceCodeTrendyol:
		cfg := sources.NewTrendyolConfig(r.SupplierID, r.APIKey, r.APISecret)
		if r.TimeoutSeconds > 0 {
			cfg.TimeoutSeconds = r.TimeoutSeconds
		}
		return cfg, cfg.Validate()
	default:
		return nil, syncdomain.ErrUnknownSource
	}
}

// SyncTriggerRequest is the body of a sync trigger call
type SyncTriggerRequest struct {
	Credentials SourceCredentialsRequest  `json:"credentials" binding:"required"`
	Filters     syncapp.SyncFilterRequest `json:"filters"`
}

// SourceInfoResponse describes one registered source
type SourceInfoResponse struct {
	Code         string `json:"code"`
	DisplayName  string `json:"display_name"`
	VariantAware bool   `json:"variant_aware"`
}

func parseSourceParam(c *gin.Context) (syncdomain.SourceCode, bool) {
	source := syncdomain.SourceCode(strings.ToUpper(c.Param("source")))
	return source, source.IsValid()
}

// Trigger handles POST /sync/:source. The run executes synchronously
// and the response is the run report.
func (h *SyncHandler) Trigger(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	source, ok := parseSourceParam(c)
	if !ok {
		h.ErrorWithCode(c, dto.ErrCodeUnknownSource, "Unknown source: "+c.Param("source"))
		return
	}

	var req SyncTriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	creds, err := req.Credentials.toCredentials(source)
	if err != nil {
		h.BindError(c, err)
		return
	}

	filters := req.Filters.ToFilters()
	var result *syncdomain.SyncResult
	if filters.IsZero() {
		result = h.syncService.SyncAll(c.Request.Context(), tenantID, source, creds, getActor(c))
	} else {
		result = h.syncService.SyncFiltered(c.Request.Context(), tenantID, source, creds, filters, getActor(c))
	}

	if !result.Success && len(result.Errors) > 0 {
		switch result.Errors[0] {
		case syncdomain.ErrSyncInProgress.Error():
			h.Error(c, http.StatusConflict, dto.ErrCodeSyncInProgress, result.Errors[0])
			return
		case syncdomain.ErrSourceNotConfigured.Error():
			h.ErrorWithCode(c, dto.ErrCodeSourceNotConfigured, result.Errors[0])
			return
		}
	}

	h.Success(c, result)
}

// TestConnection handles POST /sync/:source/test
func (h *SyncHandler) TestConnection(c *gin.Context) {
	source, ok := parseSourceParam(c)
	if !ok {
		h.ErrorWithCode(c, dto.ErrCodeUnknownSource, "Unknown source: "+c.Param("source"))
		return
	}

	var req SourceCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	creds, err := req.toCredentials(source)
	if err != nil {
		h.BindError(c, err)
		return
	}

	resp := syncapp.TestConnectionResponse{
		Source:    source.String(),
		Connected: true,
	}

	if err := h.syncService.TestSource(c.Request.Context(), source, creds); err != nil {
		if errors.Is(err, syncdomain.ErrSourceNotConfigured) {
			h.ErrorWithCode(c, dto.ErrCodeSourceNotConfigured, err.Error())
			return
		}

		resp.Connected = false
		var connErr *syncdomain.ConnectionError
		if errors.As(err, &connErr) {
			resp.Class = string(connErr.Class)
			resp.Message = connErr.Class.UserMessage()
		} else {
			resp.Class = string(syncdomain.FailureUnknown)
			resp.Message = err.Error()
		}
	}

	h.Success(c, resp)
}

// ListSources handles GET /sync/sources
func (h *SyncHandler) ListSources(c *gin.Context) {
	adapters := h.registry.ListAdapters()
	infos := make([]SourceInfoResponse, 0, len(adapters))
	for _, adapter := range adapters {
		infos = append(infos, SourceInfoResponse{
			Code:         adapter.SourceCode().String(),
			DisplayName:  adapter.SourceCode().DisplayName(),
			VariantAware: adapter.SourceCode().VariantAware(),
		})
	}
	h.Success(c, infos)
}

// ListRuns handles GET /sync/runs
func (h *SyncHandler) ListRuns(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BindError(c, err)
		return
	}

	var source syncdomain.SourceCode
	if raw := c.Query("source"); raw != "" {
		source = syncdomain.SourceCode(strings.ToUpper(raw))
		if !source.IsValid() {
			h.ErrorWithCode(c, dto.ErrCodeUnknownSource, "Unknown source: "+raw)
			return
		}
	}

	filter := shared.DefaultFilter()
	filter.OrderBy = "started_at"
	if listReq.Page > 0 {
		filter.Page = listReq.Page
	}
	if listReq.PageSize > 0 {
		filter.PageSize = listReq.PageSize
	}
	if listReq.OrderBy != "" {
		filter.OrderBy = listReq.OrderBy
	}
	if listReq.OrderDir != "" {
		filter.OrderDir = listReq.OrderDir
	}

	page, err := h.syncService.ListRuns(c.Request.Context(), tenantID, source, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetRun handles GET /sync/runs/:id
func (h *SyncHandler) GetRun(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid run ID")
		return
	}

	run, err := h.syncService.GetRun(c.Request.Context(), tenantID, runID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, run)
}
