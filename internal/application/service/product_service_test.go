package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mesaposte/mesa-api/internal/domain/entity"
	"github.com/mesaposte/mesa-api/pkg/pagination"
)

type fakeCategoryRepo struct {
	categories map[uuid.UUID]*entity.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[uuid.UUID]*entity.Category)}
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *entity.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	cp := *category
	r.categories[category.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCategoryRepo) GetBySlug(_ context.Context, slug string) (*entity.Category, error) {
	for _, c := range r.categories {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *entity.Category) error {
	cp := *category
	r.categories[category.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) List(_ context.Context, _ *pagination.PaginationParams, _ string) ([]entity.Category, int64, error) {
	var out []entity.Category
	for _, c := range r.categories {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

// recordingMenuCache counts cache traffic so tests can assert the
// cache-first read path and invalidation on writes.
type recordingMenuCache struct {
	entries     map[uuid.UUID][]entity.Product
	gets        int
	sets        int
	invalidates int
}

func newRecordingMenuCache() *recordingMenuCache {
	return &recordingMenuCache{entries: make(map[uuid.UUID][]entity.Product)}
}

func (c *recordingMenuCache) Get(_ context.Context, tenantID uuid.UUID) ([]entity.Product, bool, error) {
	c.gets++
	products, ok := c.entries[tenantID]
	return products, ok, nil
}

func (c *recordingMenuCache) Set(_ context.Context, tenantID uuid.UUID, products []entity.Product, _ time.Duration) error {
	c.sets++
	c.entries[tenantID] = products
	return nil
}

func (c *recordingMenuCache) Invalidate(_ context.Context, tenantID uuid.UUID) error {
	c.invalidates++
	delete(c.entries, tenantID)
	return nil
}

func newProductFixture() (*ledgerFixture, *ProductService, *recordingMenuCache) {
	f := newLedgerFixture()
	menuCache := newRecordingMenuCache()
	svc := NewProductService(f.products, newFakeCategoryRepo(), menuCache)
	return f, svc, menuCache
}

func TestGetMenuPopulatesAndReusesCache(t *testing.T) {
	f, svc, menuCache := newProductFixture()
	f.addProduct("burger", "10.00")
	f.addProduct("fries", "4.00")

	first, err := svc.GetMenu(f.ctx)
	if err != nil {
		t.Fatalf("menu failed: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 menu items, got %d", len(first))
	}
	if menuCache.sets != 1 {
		t.Fatalf("expected miss to populate the cache, got %d sets", menuCache.sets)
	}

	if _, err := svc.GetMenu(f.ctx); err != nil {
		t.Fatalf("second menu read failed: %v", err)
	}
	if menuCache.sets != 1 {
		t.Fatalf("expected second read served from cache, got %d sets", menuCache.sets)
	}
}

func TestProductMutationsInvalidateMenu(t *testing.T) {
	f, svc, menuCache := newProductFixture()

	created, err := svc.CreateProduct(f.ctx, &CreateProductInput{
		Name:  "burger",
		Price: money("10.00"),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if menuCache.invalidates != 1 {
		t.Fatalf("expected create to invalidate the menu, got %d", menuCache.invalidates)
	}

	newPrice := money("12.00")
	if _, err := svc.UpdateProduct(f.ctx, created.ID, &UpdateProductInput{Price: &newPrice}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if menuCache.invalidates != 2 {
		t.Fatalf("expected update to invalidate the menu, got %d", menuCache.invalidates)
	}

	if err := svc.DeleteProduct(f.ctx, created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if menuCache.invalidates != 3 {
		t.Fatalf("expected delete to invalidate the menu, got %d", menuCache.invalidates)
	}
}

func TestCreateProductFallsBackToUncategorized(t *testing.T) {
	f, svc, _ := newProductFixture()

	created, err := svc.CreateProduct(f.ctx, &CreateProductInput{
		Name:  "burger",
		Price: money("10.00"),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.CategoryID == nil {
		t.Fatalf("expected product bucketed into a category")
	}

	// A second uncategorized product reuses the same bucket.
	second, err := svc.CreateProduct(f.ctx, &CreateProductInput{
		Name:  "fries",
		Price: money("4.00"),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if *second.CategoryID != *created.CategoryID {
		t.Fatalf("expected the uncategorized bucket to be reused")
	}
}

func TestCreateProductRejectsNegativePrice(t *testing.T) {
	f, svc, _ := newProductFixture()

	if _, err := svc.CreateProduct(f.ctx, &CreateProductInput{Name: "burger", Price: money("-1.00")}); err == nil {
		t.Fatalf("expected negative price to be rejected")
	}
}
