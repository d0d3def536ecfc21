package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/opencatalog/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated        = "ProductCreated"
	EventTypeProductUpdated        = "ProductUpdated"
	EventTypeProductStatusChanged  = "ProductStatusChanged"
	EventTypeProductPriceChanged   = "ProductPriceChanged"
	EventTypeProductVariantAdded   = "ProductVariantAdded"
	EventTypeProductVariantRemoved = "ProductVariantRemoved"
	EventTypeProductDeleted        = "ProductDeleted"
)

// ProductCreatedEvent is published when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID     `json:"product_id"`
	SKU       string        `json:"sku"`
	Name      string        `json:"name"`
	Status    ProductStatus `json:"status"`
	Type      ProductType   `json:"product_type"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID, product.TenantID),
		ProductID:       product.ID,
		SKU:             product.SKU,
		Name:            product.Name,
		Status:          product.Status,
		Type:            product.Type,
	}
}

// ProductUpdatedEvent is published when a product's core fields change
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
}

// NewProductUpdatedEvent creates a new ProductUpdatedEvent
func NewProductUpdatedEvent(product *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, AggregateTypeProduct, product.ID, product.TenantID),
		ProductID:       product.ID,
		SKU:             product.SKU,
		Name:            product.Name,
	}
}

// ProductStatusChangedEvent is published when a product's status changes
type ProductStatusChangedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID     `json:"product_id"`
	SKU       string        `json:"sku"`
	OldStatus ProductStatus `json:"old_status"`
	NewStatus ProductStatus `json:"new_status"`
}

// NewProductStatusChangedEvent creates a new ProductStatusChangedEvent
func NewProductStatusChangedEvent(product *Product, oldStatus, newStatus ProductStatus) *ProductStatusChangedEvent {
	return &ProductStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductStatusChanged, AggregateTypeProduct, product.ID, product.TenantID),
		ProductID:       product.ID,
		SKU:             product.SKU,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// ProductPriceChangedEvent is published when pricing changes
type ProductPriceChangedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	SKU       string          `json:"sku"`
	OldPrice  decimal.Decimal `json:"old_price"`
	OldCost   decimal.Decimal `json:"old_cost"`
	NewPrice  decimal.Decimal `json:"new_price"`
	NewCost   decimal.Decimal `json:"new_cost"`
}

// NewProductPriceChangedEvent creates a new ProductPriceChangedEvent
func NewProductPriceChangedEvent(product *Product, oldPrice, oldCost decimal.Decimal) *ProductPriceChangedEvent {
	return &ProductPriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductPriceChanged, AggregateTypeProduct, product.ID, product.TenantID),
		ProductID:       product.ID,
		SKU:             product.SKU,
		OldPrice:        oldPrice,
		OldCost:         oldCost,
		NewPrice:        product.Price,
		NewCost:         product.Cost,
	}
}

// ProductVariantAddedEvent is published when a variant is attached
type ProductVariantAddedEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID `json:"product_id"`
	VariantID  uuid.UUID `json:"variant_id"`
	VariantSKU string    `json:"variant_sku"`
}

// NewProductVariantAddedEvent creates a new ProductVariantAddedEvent
func NewProductVariantAddedEvent(product *Product, variant *Variant) *ProductVariantAddedEvent {
	return &ProductVariantAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductVariantAdded, AggregateTypeProduct, product.ID, product.TenantID),
		ProductID:       product.ID,
		VariantID:       variant.ID,
		VariantSKU:      variant.SKU,
	}
}

// ProductVariantRemovedEvent is published when a variant is detached
type ProductVariantRemovedEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID `json:"product_id"`
	VariantID  uuid.UUID `json:"variant_id"`
	VariantSKU string    `json:"variant_sku"`
}

// NewProductVariantRemovedEvent creates a new ProductVariantRemovedEvent
func NewProductVariantRemovedEvent(product *Product, variant *Variant) *ProductVariantRemovedEvent {
	return &ProductVariantRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductVariantRemoved, AggregateTypeProduct, product.ID, product.TenantID),
		ProductID:       product.ID,
		VariantID:       variant.ID,
		VariantSKU:      variant.SKU,
	}
}

// ProductDeletedEvent is published when a product is explicitly deleted
type ProductDeletedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	SKU       string    `json:"sku"`
}

// NewProductDeletedEvent creates a new ProductDeletedEvent
func NewProductDeletedEvent(product *Product) *ProductDeletedEvent {
	return &ProductDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductDeleted, AggregateTypeProduct, product.ID, product.TenantID),
		ProductID:       product.ID,
		SKU:             product.SKU,
	}
}
