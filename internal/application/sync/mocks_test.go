package sync

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/opencatalog/backend/internal/domain/catalog"
	"github.com/opencatalog/backend/internal/domain/shared"
	"github.com/opencatalog/backend/internal/domain/sync"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status catalog.ProductStatus, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, status, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockProductRepository) SKUExists(ctx context.Context, tenantID uuid.UUID, sku string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, sku, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockRunRepository is a mock implementation of sync.RunRepository
type MockRunRepository struct {
	mock.Mock
}

func (m *MockRunRepository) Save(ctx context.Context, run *sync.Run) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockRunRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sync.Run, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sync.Run), args.Error(1)
}

func (m *MockRunRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sync.Run, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]sync.Run), args.Error(1)
}

func (m *MockRunRepository) FindBySource(ctx context.Context, tenantID uuid.UUID, source sync.SourceCode, filter shared.Filter) ([]sync.Run, error) {
	args := m.Called(ctx, tenantID, source, filter)
	return args.Get(0).([]sync.Run), args.Error(1)
}

func (m *MockRunRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockRunLock is a mock implementation of sync.RunLock
type MockRunLock struct {
	mock.Mock
}

func (m *MockRunLock) TryAcquire(ctx context.Context, tenantID uuid.UUID, source sync.SourceCode) (bool, error) {
	args := m.Called(ctx, tenantID, source)
	return args.Bool(0), args.Error(1)
}

func (m *MockRunLock) Release(ctx context.Context, tenantID uuid.UUID, source sync.SourceCode) error {
	args := m.Called(ctx, tenantID, source)
	return args.Error(0)
}

// recordingAuditLog collects appended audit entries
type recordingAuditLog struct {
	entries []catalog.AuditEntry
}

func (l *recordingAuditLog) Append(_ context.Context, entries []catalog.AuditEntry) error {
	l.entries = append(l.entries, entries...)
	return nil
}

func (l *recordingAuditLog) ListForProduct(_ context.Context, tenantID, productID uuid.UUID, _ shared.Filter) ([]catalog.AuditEntry, error) {
	var out []catalog.AuditEntry
	for _, e := range l.entries {
		if e.TenantID == tenantID && e.ProductID == productID {
			out = append(out, e)
		}
	}
	return out, nil
}

// recordingPublisher collects published domain events
type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

// fakeCredentials is a no-op credentials stub
type fakeCredentials struct {
	source sync.SourceCode
}

func (c fakeCredentials) SourceCode() sync.SourceCode { return c.source }
func (c fakeCredentials) Validate() error             { return nil }

// fakeRecord is a native record whose normalization outcome is canned
type fakeRecord struct {
	ref     string
	source  sync.SourceCode
	dto     *sync.NormalizedProduct
	normErr error
}

func (r fakeRecord) SourceCode() sync.SourceCode { return r.source }
func (r fakeRecord) Ref() string                 { return r.ref }

// fakeAdapter serves canned pages of fakeRecords
type fakeAdapter struct {
	source     sync.SourceCode
	pages      [][]sync.NativeRecord
	connectErr error
	fetchErr   error
	fetchCalls int

	// afterFirstNormalize, when set, runs once after the first
	// Normalize call; used to cancel a context mid-sweep
	afterFirstNormalize func()
	normalizeCalls      int
}

func (a *fakeAdapter) SourceCode() sync.SourceCode { return a.source }

func (a *fakeAdapter) TestConnection(_ context.Context, _ sync.Credentials) error {
	return a.connectErr
}

func (a *fakeAdapter) FetchPage(_ context.Context, _ sync.Credentials, _ sync.Filters, page sync.Page) (*sync.FetchResult, error) {
	a.fetchCalls++
	if a.fetchErr != nil {
		return nil, a.fetchErr
	}
	idx := page.Number - 1
	if idx < 0 || idx >= len(a.pages) {
		return &sync.FetchResult{}, nil
	}
	return &sync.FetchResult{
		Items:   a.pages[idx],
		HasMore: idx < len(a.pages)-1,
	}, nil
}

func (a *fakeAdapter) Normalize(record sync.NativeRecord) (*sync.NormalizedProduct, error) {
	a.normalizeCalls++
	if a.normalizeCalls == 1 && a.afterFirstNormalize != nil {
		a.afterFirstNormalize()
	}
	r := record.(fakeRecord)
	if r.normErr != nil {
		return nil, r.normErr
	}
	return r.dto, nil
}

// fakeRegistry resolves a single adapter
type fakeRegistry struct {
	adapter sync.SourceAdapter
}

func (r fakeRegistry) GetAdapter(code sync.SourceCode) (sync.SourceAdapter, error) {
	if r.adapter == nil || r.adapter.SourceCode() != code {
		return nil, sync.ErrSourceNotConfigured
	}
	return r.adapter, nil
}

func (r fakeRegistry) ListAdapters() []sync.SourceAdapter {
	if r.adapter == nil {
		return nil
	}
	return []sync.SourceAdapter{r.adapter}
}
