package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mesaposte/mesa-api/internal/domain/entity"
	"github.com/mesaposte/mesa-api/internal/domain/repository"
	"github.com/mesaposte/mesa-api/internal/infrastructure/cache"
	infraRepo "github.com/mesaposte/mesa-api/internal/infrastructure/repository"
	"github.com/mesaposte/mesa-api/pkg/apperror"
	"github.com/mesaposte/mesa-api/pkg/pagination"
	"github.com/mesaposte/mesa-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// menuCacheTTL bounds staleness when an invalidation is lost.
const menuCacheTTL = 10 * time.Minute

// ProductService handles menu catalog operations. The active menu is served
// through a per-tenant cache; any product mutation invalidates it.
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	menuCache    cache.MenuCache
}

// NewProductService creates a new product service
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	menuCache cache.MenuCache,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		menuCache:    menuCache,
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	CategoryID *uuid.UUID
	Name       string
	Code       string
	Price      decimal.Decimal
	Notes      *string
}

// CreateProduct creates a new menu item. Products without a category land in
// the tenant's "Uncategorized" bucket.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	if input.Name == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "name", Message: "Product name is required"},
		})
	}
	if input.Price.IsNegative() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "price", Message: "Price cannot be negative"},
		})
	}

	// Auto-generate code if not provided
	code := input.Code
	if code == "" {
		code = utils.GenerateProductCode()
	}

	existing, err := s.productRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Product code already exists")
	}

	categoryID := input.CategoryID
	if categoryID == nil {
		bucket, err := s.getOrCreateUncategorized(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		categoryID = &bucket.ID
	} else {
		category, err := s.categoryRepo.GetByID(ctx, *categoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperror.NewNotFoundError("Category")
		}
	}

	product := &entity.Product{
		TenantID:   tenantID,
		CategoryID: categoryID,
		Name:       input.Name,
		Code:       code,
		Price:      input.Price,
		Active:     true,
		Notes:      input.Notes,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.invalidateMenu(ctx, tenantID)
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// GetMenu returns the tenant's active products, cache-first
func (s *ProductService) GetMenu(ctx context.Context) ([]entity.Product, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	if products, hit, err := s.menuCache.Get(ctx, tenantID); err != nil {
		log.Printf("menu cache read failed for tenant %s: %v", tenantID, err)
	} else if hit {
		return products, nil
	}

	products, err := s.productRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.menuCache.Set(ctx, tenantID, products, menuCacheTTL); err != nil {
		log.Printf("menu cache write failed for tenant %s: %v", tenantID, err)
	}
	return products, nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	CategoryID *uuid.UUID
	Name       *string
	Price      *decimal.Decimal
	Active     *bool
	Notes      *string
}

// UpdateProduct updates a product. Price changes never touch lines already
// on a tab; those keep the price captured when they were added.
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperror.NewNotFoundError("Category")
		}
		product.CategoryID = input.CategoryID
	}
	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "price", Message: "Price cannot be negative"},
			})
		}
		product.Price = *input.Price
	}
	if input.Active != nil {
		product.Active = *input.Active
	}
	if input.Notes != nil {
		product.Notes = input.Notes
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.invalidateMenu(ctx, tenantID)
	return product, nil
}

// DeleteProduct deletes a product
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return apperror.NewBadRequestError("Tenant context required")
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateMenu(ctx, tenantID)
	return nil
}

// getOrCreateUncategorized returns the tenant's default category bucket,
// creating it on first use. Scoped by tenant, not global.
func (s *ProductService) getOrCreateUncategorized(ctx context.Context, tenantID uuid.UUID) (*entity.Category, error) {
	slug := utils.Slugify(entity.UncategorizedName)
	existing, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	category := &entity.Category{
		TenantID: tenantID,
		Name:     entity.UncategorizedName,
		Slug:     slug,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *ProductService) invalidateMenu(ctx context.Context, tenantID uuid.UUID) {
	if err := s.menuCache.Invalidate(ctx, tenantID); err != nil {
		log.Printf("menu cache invalidation failed for tenant %s: %v", tenantID, err)
	}
}
