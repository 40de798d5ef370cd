package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jocril/storefront-backend/pkg/db/models"
	pkgerrors "github.com/jocril/storefront-backend/pkg/errors"
	"github.com/jocril/storefront-backend/pkg/pagination"
	"gorm.io/gorm"
)

type stubCatalogRepo struct {
	products       map[uuid.UUID]*models.Product
	productsBySlug map[string]*models.Product
	variants       map[uuid.UUID]*models.ProductVariant
	createVariant  func(ctx context.Context, variant *models.ProductVariant) (*models.ProductVariant, error)
	variantUpdates map[string]any
	decremented    map[uuid.UUID]int
}

func newStubCatalogRepo() *stubCatalogRepo {
	return &stubCatalogRepo{
		products:       make(map[uuid.UUID]*models.Product),
		productsBySlug: make(map[string]*models.Product),
		variants:       make(map[uuid.UUID]*models.ProductVariant),
		decremented:    make(map[uuid.UUID]int),
	}
}

func (s *stubCatalogRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubCatalogRepo) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if _, exists := s.productsBySlug[product.Slug]; exists {
		return nil, errors.New(`duplicate key value violates unique constraint "idx_products_slug"`)
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	s.products[product.ID] = product
	s.productsBySlug[product.Slug] = product
	return product, nil
}

func (s *stubCatalogRepo) UpdateProduct(ctx context.Context, productID uuid.UUID, updates map[string]any) error {
	return nil
}

func (s *stubCatalogRepo) FindProductByID(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, ok := s.products[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (s *stubCatalogRepo) FindProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	product, ok := s.productsBySlug[slug]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (s *stubCatalogRepo) ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductList, error) {
	return &ProductList{}, nil
}

func (s *stubCatalogRepo) CreateVariant(ctx context.Context, variant *models.ProductVariant) (*models.ProductVariant, error) {
	if s.createVariant != nil {
		return s.createVariant(ctx, variant)
	}
	if variant.ID == uuid.Nil {
		variant.ID = uuid.New()
	}
	s.variants[variant.ID] = variant
	return variant, nil
}

func (s *stubCatalogRepo) UpdateVariant(ctx context.Context, variantID uuid.UUID, updates map[string]any) error {
	s.variantUpdates = updates
	return nil
}

func (s *stubCatalogRepo) FindVariantByID(ctx context.Context, variantID uuid.UUID) (*models.ProductVariant, error) {
	variant, ok := s.variants[variantID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return variant, nil
}

func (s *stubCatalogRepo) FindVariantsByIDs(ctx context.Context, variantIDs []uuid.UUID) ([]models.ProductVariant, error) {
	var out []models.ProductVariant
	for _, id := range variantIDs {
		if v, ok := s.variants[id]; ok {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (s *stubCatalogRepo) ListActiveVariants(ctx context.Context) ([]models.ProductVariant, error) {
	var out []models.ProductVariant
	for _, v := range s.variants {
		if v.Active {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (s *stubCatalogRepo) DecrementStock(ctx context.Context, variantID uuid.UUID, qty int) error {
	s.decremented[variantID] += qty
	return nil
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	var domainErr *pkgerrors.Error
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected *pkgerrors.Error, got %v", err)
	}
	if domainErr.Code() != code {
		t.Fatalf("expected code %s, got %s", code, domainErr.Code())
	}
}

func TestCreateProductDerivesSlugAndPrefix(t *testing.T) {
	repo := newStubCatalogRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	detail, err := svc.CreateProduct(context.Background(), CreateProductInput{Name: "Expositor De Mesa Grande"})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if detail.Slug != "expositor-de-mesa-grande" {
		t.Fatalf("derived slug = %q", detail.Slug)
	}
	if detail.SKUPrefix != "EDMG" {
		t.Fatalf("derived sku prefix = %q", detail.SKUPrefix)
	}
}

func TestCreateProductDuplicateSlugConflicts(t *testing.T) {
	repo := newStubCatalogRepo()
	svc, _ := NewService(repo)

	ctx := context.Background()
	if _, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Vitrine Acrílica"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Vitrine Acrílica"})
	requireCode(t, err, pkgerrors.CodeConflict)
}

func TestCreateVariantBuildsSKUFromPrefix(t *testing.T) {
	repo := newStubCatalogRepo()
	svc, _ := NewService(repo)

	ctx := context.Background()
	detail, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Expositor De Mesa"})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	size := "30x20"
	_, err = svc.CreateVariant(ctx, CreateVariantInput{
		ProductID:  detail.ID,
		Size:       &size,
		PriceCents: 1250,
	})
	if err != nil {
		t.Fatalf("CreateVariant: %v", err)
	}

	var created *models.ProductVariant
	for _, v := range repo.variants {
		created = v
	}
	if created == nil {
		t.Fatal("variant not persisted")
	}
	if created.SKU != "EDM-30X20" {
		t.Fatalf("derived sku = %q", created.SKU)
	}
	if created.LowStockThreshold != 5 {
		t.Fatalf("default low stock threshold = %d", created.LowStockThreshold)
	}
}

func TestCreateVariantRejectsNonPositivePrice(t *testing.T) {
	repo := newStubCatalogRepo()
	svc, _ := NewService(repo)

	_, err := svc.CreateVariant(context.Background(), CreateVariantInput{ProductID: uuid.New(), PriceCents: 0})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestGetProductBySlugNotFound(t *testing.T) {
	repo := newStubCatalogRepo()
	svc, _ := NewService(repo)

	_, err := svc.GetProductBySlug(context.Background(), "missing")
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestDecrementRunsThroughRepo(t *testing.T) {
	repo := newStubCatalogRepo()
	svc, _ := NewService(repo)

	variantID := uuid.New()
	if err := svc.Decrement(context.Background(), nil, variantID, 3); err != nil {
		t.Fatalf("Decrement: %v", err)
	}
	if repo.decremented[variantID] != 3 {
		t.Fatalf("expected decrement of 3, got %d", repo.decremented[variantID])
	}
}
