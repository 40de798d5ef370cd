package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/jocril/storefront-backend/pkg/db/models"
	"github.com/jocril/storefront-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository defines persistence operations for products and variants.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, updates map[string]any) error
	FindProductByID(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	FindProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductList, error)
	CreateVariant(ctx context.Context, variant *models.ProductVariant) (*models.ProductVariant, error)
	UpdateVariant(ctx context.Context, variantID uuid.UUID, updates map[string]any) error
	FindVariantByID(ctx context.Context, variantID uuid.UUID) (*models.ProductVariant, error)
	FindVariantsByIDs(ctx context.Context, variantIDs []uuid.UUID) ([]models.ProductVariant, error)
	ListActiveVariants(ctx context.Context) ([]models.ProductVariant, error)
	DecrementStock(ctx context.Context, variantID uuid.UUID, qty int) error
}
