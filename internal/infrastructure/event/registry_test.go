package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opencatalog/backend/internal/domain/catalog"
	"github.com/opencatalog/backend/internal/domain/shared"
)

type noopHandler struct {
	types []string
}

func (h *noopHandler) Handle(ctx context.Context, event shared.DomainEvent) error { return nil }
func (h *noopHandler) EventTypes() []string                                       { return h.types }

func TestHandlerRegistry_RegisterAndGet(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := &noopHandler{types: []string{catalog.EventTypeProductCreated}}

	registry.Register(handler, handler.EventTypes()...)

	got := registry.GetHandlers(catalog.EventTypeProductCreated)
	assert.Len(t, got, 1)
	assert.Empty(t, registry.GetHandlers(catalog.EventTypeProductDeleted))
}

func TestHandlerRegistry_WildcardReceivesEverything(t *testing.T) {
	registry := NewHandlerRegistry()
	wildcard := &noopHandler{}

	registry.Register(wildcard)

	assert.Len(t, registry.GetHandlers(catalog.EventTypeProductCreated), 1)
	assert.Len(t, registry.GetHandlers(catalog.EventTypeProductStatusChanged), 1)
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	registry := NewHandlerRegistry()
	specific := &noopHandler{types: []string{catalog.EventTypeProductCreated}}
	wildcard := &noopHandler{}
	registry.Register(specific, specific.EventTypes()...)
	registry.Register(wildcard)

	registry.Unregister(specific)
	registry.Unregister(wildcard)

	assert.Empty(t, registry.GetHandlers(catalog.EventTypeProductCreated))
	assert.Empty(t, registry.GetAllHandlers())
}

func TestHandlerRegistry_GetAllHandlersDeduplicates(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := &noopHandler{types: []string{
		catalog.EventTypeProductCreated,
		catalog.EventTypeProductUpdated,
	}}

	registry.Register(handler, handler.EventTypes()...)

	assert.Len(t, registry.GetAllHandlers(), 1)
}
