package sync

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opencatalog/backend/internal/domain/catalog"
	"github.com/opencatalog/backend/internal/domain/shared"
	"github.com/opencatalog/backend/internal/domain/shared/valueobject"
	"github.com/opencatalog/backend/internal/domain/sync"
)

// syncActor attributes audit entries written by a batch run
const syncActor = "sync"

// Reconciler folds one normalized source record into the canonical
// catalog: create when no product with the record's SKU exists for the
// tenant, otherwise update in place. Only fields the source supplied
// are overwritten; dimensions, SEO fields and the creation timestamp
// always survive an update, and variants survive unless the record
// came from a variant-aware source. A type asserted by a source that
// carries no variants is applied only when it fits the variants the
// product already has.
type Reconciler struct {
	productRepo catalog.ProductRepository
	auditLog    catalog.AuditLog
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewReconciler creates a new Reconciler
func NewReconciler(productRepo catalog.ProductRepository) *Reconciler {
	return &Reconciler{
		productRepo: productRepo,
		logger:      zap.NewNop(),
	}
}

// WithObservers wires the audit log and event publisher so sync writes
// leave the same trail as API writes
func (r *Reconciler) WithObservers(auditLog catalog.AuditLog, publisher shared.EventPublisher, logger *zap.Logger) *Reconciler {
	r.auditLog = auditLog
	r.publisher = publisher
	if logger != nil {
		r.logger = logger
	}
	return r
}

// Reconcile applies one normalized record for the tenant and reports
// whether a product was created or updated. Every failure is returned
// as an *sync.ItemError so the caller can fold it into the batch
// result without aborting the sweep.
func (r *Reconciler) Reconcile(ctx context.Context, tenantID uuid.UUID, record *sync.NormalizedProduct) (sync.ItemEffect, error) {
	if err := record.Validate(); err != nil {
		return "", err
	}

	// the aggregate stores SKUs uppercased; look up the same way so a
	// re-sync of a lowercase source SKU finds the product it created
	record.SKU = strings.ToUpper(strings.TrimSpace(record.SKU))

	existing, err := r.productRepo.FindBySKU(ctx, tenantID, record.SKU)
	switch {
	case err == nil:
		return sync.EffectUpdated, r.update(ctx, existing, record)
	case errors.Is(err, shared.ErrNotFound):
		return sync.EffectCreated, r.create(ctx, tenantID, record)
	default:
		return "", sync.NewPersistenceError(record.SKU, err)
	}
}

func (r *Reconciler) create(ctx context.Context, tenantID uuid.UUID, record *sync.NormalizedProduct) error {
	product, err := catalog.NewProduct(tenantID, record.SKU, record.Name)
	if err != nil {
		return sync.NewValidationItemError(record.SKU, err)
	}
	if err := r.apply(product, record); err != nil {
		return sync.NewValidationItemError(record.SKU, err)
	}
	if err := r.productRepo.Create(ctx, product); err != nil {
		return sync.NewPersistenceError(record.SKU, err)
	}
	r.flush(ctx, product)
	return nil
}

func (r *Reconciler) update(ctx context.Context, product *catalog.Product, record *sync.NormalizedProduct) error {
	if err := product.Rename(record.Name); err != nil {
		return sync.NewValidationItemError(record.SKU, err)
	}
	if err := r.apply(product, record); err != nil {
		return sync.NewValidationItemError(record.SKU, err)
	}
	if err := r.productRepo.Update(ctx, product); err != nil {
		return sync.NewPersistenceError(record.SKU, err)
	}
	r.flush(ctx, product)
	return nil
}

// flush drains the aggregate's audit entries and domain events after a
// successful write, mirroring the API write path. Failures are logged,
// never surfaced: the write itself already happened.
func (r *Reconciler) flush(ctx context.Context, product *catalog.Product) {
	entries := product.TakeAuditEntries(syncActor, "reconciled from source")
	if r.auditLog != nil && len(entries) > 0 {
		if err := r.auditLog.Append(ctx, entries); err != nil {
			r.logger.Error("failed to append audit entries",
				zap.String("product_id", product.ID.String()),
				zap.Error(err))
		}
	}
	if events := product.GetDomainEvents(); r.publisher != nil && len(events) > 0 {
		if err := r.publisher.Publish(ctx, events...); err != nil {
			r.logger.Error("failed to publish domain events",
				zap.String("product_id", product.ID.String()),
				zap.Error(err))
		}
	}
	product.ClearDomainEvents()
}

// apply overwrites the source-owned fields on the aggregate. Fields
// the record did not carry (weight, images without HasWeight/HasImages,
// variants from non-variant-aware sources) are left untouched, as are
// the human-owned SEO fields and dimensions, which no source supplies.
func (r *Reconciler) apply(product *catalog.Product, record *sync.NormalizedProduct) error {
	if err := product.ChangeDescription(record.Description, record.ShortDescription); err != nil {
		return err
	}
	if record.Status != "" {
		if err := product.ChangeStatus(record.Status); err != nil {
			return err
		}
	}

	if record.VariantAware {
		if err := product.SetTypeWithVariants(record.Type, variantInputs(record.Variants)); err != nil {
			return err
		}
	} else if t := record.Type; t != "" && t != product.Type && typeFitsVariants(t, product.HasVariants()) {
		if err := product.ChangeType(t); err != nil {
			return err
		}
	}

	price := valueobject.NewMoneyUSD(record.Price)
	cost := valueobject.NewMoneyUSD(record.Cost)
	if err := product.SetPricing(price, cost); err != nil {
		return err
	}
	if record.HasWeight {
		if err := product.SetWeight(record.Weight); err != nil {
			return err
		}
	}

	product.SetCategories(record.Categories)
	product.SetTags(record.Tags)

	if record.HasImages {
		if err := product.ReplaceImages(imageInputs(record.Images)); err != nil {
			return err
		}
	}

	product.MergeMetadata(record.SourceMetadata)
	return product.Validate()
}

// typeFitsVariants reports whether a type asserted by a record that
// carries no variants is structurally compatible with the variants the
// product already has. A sweep that cannot see variants must not force
// a type change that would orphan or fabricate them: WooCommerce
// reporting "variable" on a variant-less product, or Odoo defaulting to
// "simple" over a product a Shopify sync gave variants, both keep the
// current type.
func typeFitsVariants(t catalog.ProductType, hasVariants bool) bool {
	switch t {
	case catalog.ProductTypeSimple:
		return !hasVariants
	case catalog.ProductTypeVariable:
		return hasVariants
	default:
		return true
	}
}

func variantInputs(variants []sync.NormalizedVariant) []catalog.VariantInput {
	inputs := make([]catalog.VariantInput, 0, len(variants))
	for _, v := range variants {
		inputs = append(inputs, catalog.VariantInput{
			SKU:           v.SKU,
			Price:         v.Price,
			Cost:          v.Cost,
			StockQuantity: v.StockQuantity,
			Attributes:    v.Attributes,
			IsActive:      v.IsActive,
		})
	}
	return inputs
}

func imageInputs(images []sync.NormalizedImage) []catalog.ImageInput {
	inputs := make([]catalog.ImageInput, 0, len(images))
	for _, img := range images {
		inputs = append(inputs, catalog.ImageInput{URL: img.URL, AltText: img.Alt})
	}
	return inputs
}
