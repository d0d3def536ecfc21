package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	catalogapp "github.com/opencatalog/backend/internal/application/catalog"
	"github.com/opencatalog/backend/internal/domain/catalog"
	"github.com/opencatalog/backend/internal/domain/shared"
	"github.com/opencatalog/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeProductRepository is an in-memory catalog.ProductRepository
type fakeProductRepository struct {
	products  map[uuid.UUID]*catalog.Product
	returnErr error
}

func newFakeProductRepository() *fakeProductRepository {
	return &fakeProductRepository{products: make(map[uuid.UUID]*catalog.Product)}
}

func (f *fakeProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	if f.returnErr != nil {
		return nil, f.returnErr
	}
	if p, ok := f.products[id]; ok && p.TenantID == tenantID {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeProductRepository) FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*catalog.Product, error) {
	if f.returnErr != nil {
		return nil, f.returnErr
	}
	for _, p := range f.products {
		if p.TenantID == tenantID && strings.EqualFold(p.SKU, sku) {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	if f.returnErr != nil {
		return nil, f.returnErr
	}
	var result []catalog.Product
	for _, p := range f.products {
		if p.TenantID == tenantID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (f *fakeProductRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status catalog.ProductStatus, filter shared.Filter) ([]catalog.Product, error) {
	var result []catalog.Product
	for _, p := range f.products {
		if p.TenantID == tenantID && p.Status == status {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (f *fakeProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	if f.returnErr != nil {
		return f.returnErr
	}
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	if f.returnErr != nil {
		return f.returnErr
	}
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	if f.returnErr != nil {
		return f.returnErr
	}
	if p, ok := f.products[id]; ok && p.TenantID == tenantID {
		delete(f.products, id)
		return nil
	}
	return shared.ErrNotFound
}

func (f *fakeProductRepository) SKUExists(ctx context.Context, tenantID uuid.UUID, sku string, excludeID *uuid.UUID) (bool, error) {
	if f.returnErr != nil {
		return false, f.returnErr
	}
	for _, p := range f.products {
		if excludeID != nil && p.ID == *excludeID {
			continue
		}
		if p.TenantID == tenantID && strings.EqualFold(p.SKU, sku) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	for _, p := range f.products {
		if p.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

// fakeAuditLog is an in-memory catalog.AuditLog
type fakeAuditLog struct {
	entries []catalog.AuditEntry
}

func (f *fakeAuditLog) Append(ctx context.Context, entries []catalog.AuditEntry) error {
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeAuditLog) ListForProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]catalog.AuditEntry, error) {
	var result []catalog.AuditEntry
	for _, e := range f.entries {
		if e.TenantID == tenantID && e.ProductID == productID {
			result = append(result, e)
		}
	}
	return result, nil
}

// fakeEventPublisher swallows domain events
type fakeEventPublisher struct{}

func (fakeEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return nil
}

func newTestProductService(repo *fakeProductRepository) *catalogapp.ProductService {
	return catalogapp.NewProductService(repo, &fakeAuditLog{}, fakeEventPublisher{}, zap.NewNop())
}

func TestBaseHandler_HandleError(t *testing.T) {
	h := &BaseHandler{}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, "ERR_NOT_FOUND"},
		{"already exists", shared.ErrAlreadyExists, http.StatusConflict, "ERR_ALREADY_EXISTS"},
		{"validation", shared.NewValidationError("sku is required"), http.StatusBadRequest, "ERR_VALIDATION"},
		{"invariant", shared.NewInvariantViolation("simple products cannot have variants"), http.StatusUnprocessableEntity, "ERR_INVARIANT_VIOLATION"},
		{"plain error", assert.AnError, http.StatusInternalServerError, "ERR_INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
		})
	}
}

func TestGetTenantID_HeaderFallback(t *testing.T) {
	tenantID := uuid.New()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set(middleware.TenantHeaderKey, tenantID.String())

	got, err := getTenantID(c)
	assert.NoError(t, err)
	assert.Equal(t, tenantID, got)
}

func TestGetTenantID_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := getTenantID(c)
	assert.Error(t, err)
}

func TestGetActor(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "api", getActor(c))

	c.Set(middleware.JWTUsernameKey, "ops")
	assert.Equal(t, "ops", getActor(c))
}
