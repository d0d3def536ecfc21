package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/opencatalog/backend/internal/domain/catalog"
	"github.com/opencatalog/backend/internal/domain/shared"
)

// ProductLifecycleHandler observes product lifecycle events and emits
// structured log records for them. Catalog mutations arrive from both
// the API and source synchronization, so this is the single place
// where every change becomes visible in the logs.
type ProductLifecycleHandler struct {
	logger *zap.Logger
}

// NewProductLifecycleHandler creates a new ProductLifecycleHandler
func NewProductLifecycleHandler(logger *zap.Logger) *ProductLifecycleHandler {
	return &ProductLifecycleHandler{logger: logger.Named("catalog.lifecycle")}
}

// EventTypes returns the event types this handler subscribes to
func (h *ProductLifecycleHandler) EventTypes() []string {
	return []string{
		catalog.EventTypeProductCreated,
		catalog.EventTypeProductStatusChanged,
		catalog.EventTypeProductDeleted,
	}
}

// Handle logs the product lifecycle event
func (h *ProductLifecycleHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", event.EventType()),
		zap.String("tenant_id", event.TenantID().String()),
		zap.String("product_id", event.AggregateID().String()),
	}

	switch e := event.(type) {
	case *catalog.ProductCreatedEvent:
		fields = append(fields, zap.String("sku", e.SKU), zap.String("status", string(e.Status)))
		h.logger.Info("product created", fields...)
	case *catalog.ProductStatusChangedEvent:
		fields = append(fields,
			zap.String("old_status", string(e.OldStatus)),
			zap.String("new_status", string(e.NewStatus)))
		h.logger.Info("product status changed", fields...)
	case *catalog.ProductDeletedEvent:
		fields = append(fields, zap.String("sku", e.SKU))
		h.logger.Info("product deleted", fields...)
	default:
		h.logger.Debug("product event", fields...)
	}
	return nil
}

// Ensure ProductLifecycleHandler satisfies the handler contract
var _ shared.EventHandler = (*ProductLifecycleHandler)(nil)
