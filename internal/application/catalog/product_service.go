package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/opencatalog/backend/internal/domain/catalog"
	"github.com/opencatalog/backend/internal/domain/shared"
	"github.com/opencatalog/backend/internal/domain/shared/valueobject"
)

// ProductService handles catalog business operations. Every mutation
// goes through the aggregate so the audit trail and domain events stay
// consistent; drained audit entries are appended to the audit log and
// events handed to the publisher after a successful write.
type ProductService struct {
	productRepo catalog.ProductRepository
	auditLog    catalog.AuditLog
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	auditLog catalog.AuditLog,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		auditLog:    auditLog,
		publisher:   publisher,
		logger:      logger,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, actor string, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.SKUExists(ctx, tenantID, req.SKU, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A product with this SKU already exists")
	}

	product, err := catalog.NewProduct(tenantID, req.SKU, req.Name)
	if err != nil {
		return nil, err
	}

	if err := s.applyCreate(product, req); err != nil {
		return nil, err
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.flush(ctx, product, actor, "created via API")

	resp := ToProductResponse(product)
	return &resp, nil
}

// Get returns one product with its variants and images
func (s *ProductService) Get(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetBySKU returns one product looked up by SKU
func (s *ProductService) GetBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySKU(ctx, tenantID, sku)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List returns a page of products for the tenant
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, listFilter ProductListFilter) (*shared.Paginated[ProductListResponse], error) {
	filter := listFilter.ToFilter()

	var (
		products []catalog.Product
		err      error
	)
	if listFilter.Status != "" {
		products, err = s.productRepo.FindByStatus(ctx, tenantID, catalog.ProductStatus(listFilter.Status), filter)
	} else {
		products, err = s.productRepo.FindAllForTenant(ctx, tenantID, filter)
	}
	if err != nil {
		return nil, err
	}

	total, err := s.productRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ProductListResponse, 0, len(products))
	for i := range products {
		items = append(items, ToProductListResponse(&products[i]))
	}
	paginated := shared.NewPaginated(items, total, filter.Page, filter.Limit())
	return &paginated, nil
}

// Update applies the non-nil fields of the request to a product
func (s *ProductService) Update(ctx context.Context, tenantID, productID uuid.UUID, actor string, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	if err := s.applyUpdate(product, req); err != nil {
		return nil, err
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.flush(ctx, product, actor, "updated via API")

	resp := ToProductResponse(product)
	return &resp, nil
}

// ChangeStatus changes a product's lifecycle status
func (s *ProductService) ChangeStatus(ctx context.Context, tenantID, productID uuid.UUID, actor string, req ChangeStatusRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	if err := product.ChangeStatus(catalog.ProductStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.flush(ctx, product, actor, "status changed via API")

	resp := ToProductResponse(product)
	return &resp, nil
}

// ReplaceVariants swaps a product's full variant list
func (s *ProductService) ReplaceVariants(ctx context.Context, tenantID, productID uuid.UUID, actor string, reqs []VariantRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	if err := product.ReplaceVariants(variantInputs(reqs)); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.flush(ctx, product, actor, "variants replaced via API")

	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete deletes a product within a tenant
func (s *ProductService) Delete(ctx context.Context, tenantID, productID uuid.UUID, actor string) error {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return err
	}

	if err := s.productRepo.DeleteForTenant(ctx, tenantID, productID); err != nil {
		return err
	}

	product.AddDomainEvent(catalog.NewProductDeletedEvent(product))
	s.flush(ctx, product, actor, "deleted via API")
	return nil
}

// AuditTrail lists a product's audit entries, newest first
func (s *ProductService) AuditTrail(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]AuditEntryResponse, error) {
	if _, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID); err != nil {
		return nil, err
	}

	entries, err := s.auditLog.ListForProduct(ctx, tenantID, productID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]AuditEntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, ToAuditEntryResponse(&entries[i]))
	}
	return responses, nil
}

func (s *ProductService) applyCreate(product *catalog.Product, req CreateProductRequest) error {
	if req.Description != "" || req.ShortDescription != "" {
		if err := product.ChangeDescription(req.Description, req.ShortDescription); err != nil {
			return err
		}
	}
	if req.Status != "" {
		if err := product.ChangeStatus(catalog.ProductStatus(req.Status)); err != nil {
			return err
		}
	}
	if req.Type != "" || len(req.Variants) > 0 {
		t := catalog.ProductType(req.Type)
		if t == "" {
			t = catalog.ProductTypeSimple
		}
		if err := product.SetTypeWithVariants(t, variantInputs(req.Variants)); err != nil {
			return err
		}
	}

	price := decimalOrZero(req.Price)
	cost := decimalOrZero(req.Cost)
	if err := product.SetPricing(valueobject.NewMoneyUSD(price), valueobject.NewMoneyUSD(cost)); err != nil {
		return err
	}
	if req.Weight != nil {
		if err := product.SetWeight(*req.Weight); err != nil {
			return err
		}
	}
	if req.Dimensions != nil {
		dims, err := req.Dimensions.toValueObject()
		if err != nil {
			return err
		}
		if err := product.SetDimensions(dims); err != nil {
			return err
		}
	}

	product.SetCategories(req.Categories)
	product.SetTags(req.Tags)

	if req.SEOTitle != "" || req.SEODescription != "" || len(req.SEOKeywords) > 0 {
		if err := product.SetSEO(req.SEOTitle, req.SEODescription, req.SEOKeywords); err != nil {
			return err
		}
	}
	if len(req.Images) > 0 {
		if err := product.ReplaceImages(imageInputs(req.Images)); err != nil {
			return err
		}
	}
	product.MergeMetadata(req.Metadata)
	return nil
}

func (s *ProductService) applyUpdate(product *catalog.Product, req UpdateProductRequest) error {
	if req.Name != nil {
		if err := product.Rename(*req.Name); err != nil {
			return err
		}
	}
	if req.Description != nil || req.ShortDescription != nil {
		description := product.Description
		shortDescription := product.ShortDescription
		if req.Description != nil {
			description = *req.Description
		}
		if req.ShortDescription != nil {
			shortDescription = *req.ShortDescription
		}
		if err := product.ChangeDescription(description, shortDescription); err != nil {
			return err
		}
	}
	if req.Status != nil {
		if err := product.ChangeStatus(catalog.ProductStatus(*req.Status)); err != nil {
			return err
		}
	}
	if req.Price != nil || req.Cost != nil {
		price := product.Price
		cost := product.Cost
		if req.Price != nil {
			price = *req.Price
		}
		if req.Cost != nil {
			cost = *req.Cost
		}
		if err := product.SetPricing(valueobject.NewMoneyUSD(price), valueobject.NewMoneyUSD(cost)); err != nil {
			return err
		}
	}
	if req.Weight != nil {
		if err := product.SetWeight(*req.Weight); err != nil {
			return err
		}
	}
	if req.Dimensions != nil {
		dims, err := req.Dimensions.toValueObject()
		if err != nil {
			return err
		}
		if err := product.SetDimensions(dims); err != nil {
			return err
		}
	}
	if req.Categories != nil {
		product.SetCategories(req.Categories)
	}
	if req.Tags != nil {
		product.SetTags(req.Tags)
	}
	if req.SEOTitle != nil || req.SEODescription != nil || req.SEOKeywords != nil {
		title := product.SEOTitle
		description := product.SEODescription
		keywords := product.SEOKeywords
		if req.SEOTitle != nil {
			title = *req.SEOTitle
		}
		if req.SEODescription != nil {
			description = *req.SEODescription
		}
		if req.SEOKeywords != nil {
			keywords = req.SEOKeywords
		}
		if err := product.SetSEO(title, description, keywords); err != nil {
			return err
		}
	}
	return nil
}

// flush drains the aggregate's audit entries and domain events after a
// successful write. Failures here are logged, never surfaced: the
// write itself already happened.
func (s *ProductService) flush(ctx context.Context, product *catalog.Product, actor, reason string) {
	if entries := product.TakeAuditEntries(actor, reason); len(entries) > 0 {
		if err := s.auditLog.Append(ctx, entries); err != nil {
			s.logger.Error("failed to append audit entries",
				zap.String("product_id", product.ID.String()),
				zap.Error(err))
		}
	}
	if events := product.GetDomainEvents(); len(events) > 0 {
		if err := s.publisher.Publish(ctx, events...); err != nil {
			s.logger.Error("failed to publish domain events",
				zap.String("product_id", product.ID.String()),
				zap.Error(err))
		}
	}
	product.ClearDomainEvents()
}

func variantInputs(reqs []VariantRequest) []catalog.VariantInput {
	inputs := make([]catalog.VariantInput, 0, len(reqs))
	for _, r := range reqs {
		input := catalog.VariantInput{
			SKU:           r.SKU,
			Price:         r.Price,
			Cost:          r.Cost,
			StockQuantity: r.StockQuantity,
			Attributes:    r.Attributes,
			IsActive:      true,
		}
		if r.Weight != nil {
			input.Weight = *r.Weight
		}
		if r.IsActive != nil {
			input.IsActive = *r.IsActive
		}
		inputs = append(inputs, input)
	}
	return inputs
}

func imageInputs(reqs []ImageRequest) []catalog.ImageInput {
	inputs := make([]catalog.ImageInput, 0, len(reqs))
	for _, r := range reqs {
		inputs = append(inputs, catalog.ImageInput{URL: r.URL, AltText: r.AltText})
	}
	return inputs
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
