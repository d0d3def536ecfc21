package sources

import (
	"sort"
	stdsync "sync"

	"github.com/opencatalog/backend/internal/domain/sync"
)

// Registry resolves source adapters by source code
type Registry struct {
	mu       stdsync.RWMutex
	adapters map[sync.SourceCode]sync.SourceAdapter
}

// NewRegistry creates a registry with the given adapters
func NewRegistry(adapters ...sync.SourceAdapter) *Registry {
	r := &Registry{adapters: make(map[sync.SourceCode]sync.SourceAdapter)}
	for _, adapter := range adapters {
		r.Register(adapter)
	}
	return r
}

// Register adds or replaces the adapter for its source code
func (r *Registry) Register(adapter sync.SourceAdapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[adapter.SourceCode()] = adapter
}

// GetAdapter returns the adapter for the source code
func (r *Registry) GetAdapter(code sync.SourceCode) (sync.SourceAdapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	adapter, ok := r.adapters[code]
	if !ok {
		if !code.IsValid() {
			return nil, sync.ErrUnknownSource
		}
		return nil, sync.ErrSourceNotConfigured
	}
	return adapter, nil
}

// ListAdapters returns all registered adapters in source code order
func (r *Registry) ListAdapters() []sync.SourceAdapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	adapters := make([]sync.SourceAdapter, 0, len(r.adapters))
	for _, adapter := range r.adapters {
		adapters = append(adapters, adapter)
	}
	sort.Slice(adapters, func(i, j int) bool {
		return adapters[i].SourceCode() < adapters[j].SourceCode()
	})
	return adapters
}

// Ensure Registry implements SourceRegistry interface
var _ sync.SourceRegistry = (*Registry)(nil)
