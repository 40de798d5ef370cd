package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jocril/storefront-backend/pkg/db"
	"github.com/jocril/storefront-backend/pkg/db/models"
	pkgerrors "github.com/jocril/storefront-backend/pkg/errors"
	"github.com/jocril/storefront-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Service exposes catalog reads plus the admin product/variant writes.
type Service interface {
	ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductList, error)
	GetProductBySlug(ctx context.Context, slug string) (*ProductDetail, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDetail, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDetail, error)
	CreateVariant(ctx context.Context, input CreateVariantInput) (*ProductDetail, error)
	UpdateVariant(ctx context.Context, variantID uuid.UUID, input UpdateVariantInput) (*ProductDetail, error)
	VariantsByIDs(ctx context.Context, variantIDs []uuid.UUID) ([]models.ProductVariant, error)
	Decrement(ctx context.Context, tx *gorm.DB, variantID uuid.UUID, qty int) error
}

type service struct {
	repo Repository
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductList, error) {
	list, err := s.repo.ListProducts(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return list, nil
}

func (s *service) GetProductBySlug(ctx context.Context, slug string) (*ProductDetail, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug required")
	}
	product, err := s.repo.FindProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return toProductDetail(product), nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDetail, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = GenerateSlug(name)
	}
	prefix := strings.TrimSpace(input.SKUPrefix)
	if prefix == "" {
		prefix = GenerateSKUPrefix(name)
	}

	product := &models.Product{
		Name:        name,
		Slug:        slug,
		SKUPrefix:   prefix,
		Description: input.Description,
		Category:    input.Category,
		Active:      true,
	}
	if input.Active != nil {
		product.Active = *input.Active
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return toProductDetail(created), nil
}

func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDetail, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if _, err := s.repo.FindProductByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Slug != nil {
		slug := strings.TrimSpace(*input.Slug)
		if slug == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug cannot be empty")
		}
		updates["slug"] = slug
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.Active != nil {
		updates["active"] = *input.Active
	}

	if err := s.repo.UpdateProduct(ctx, productID, updates); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload product")
	}
	return toProductDetail(product), nil
}

func (s *service) CreateVariant(ctx context.Context, input CreateVariantInput) (*ProductDetail, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.PriceCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant price must be positive")
	}
	if input.WeightGrams < 0 || input.StockQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant weight and stock cannot be negative")
	}

	product, err := s.repo.FindProductByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	sku := strings.TrimSpace(input.SKU)
	if sku == "" {
		suffix := strings.TrimSpace(input.SKUSuffix)
		if suffix == "" && input.Size != nil {
			suffix = strings.TrimSpace(*input.Size)
		}
		if suffix == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku or sku suffix required")
		}
		sku = BuildSKU(product.SKUPrefix, suffix)
	}

	variant := &models.ProductVariant{
		ProductID:         product.ID,
		SKU:               sku,
		Size:              input.Size,
		Color:             input.Color,
		PriceCents:        input.PriceCents,
		WeightGrams:       input.WeightGrams,
		StockQuantity:     input.StockQuantity,
		LowStockThreshold: 5,
		AllowBackorder:    input.AllowBackorder,
		Active:            true,
	}
	if input.LowStockThreshold != nil {
		variant.LowStockThreshold = *input.LowStockThreshold
	}
	if input.Active != nil {
		variant.Active = *input.Active
	}

	if _, err := s.repo.CreateVariant(ctx, variant); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create variant")
	}

	reloaded, err := s.repo.FindProductByID(ctx, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload product")
	}
	return toProductDetail(reloaded), nil
}

func (s *service) UpdateVariant(ctx context.Context, variantID uuid.UUID, input UpdateVariantInput) (*ProductDetail, error) {
	if variantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant id required")
	}
	variant, err := s.repo.FindVariantByID(ctx, variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
	}

	updates := map[string]any{}
	if input.Size != nil {
		updates["size"] = *input.Size
	}
	if input.Color != nil {
		updates["color"] = *input.Color
	}
	if input.PriceCents != nil {
		if *input.PriceCents <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant price must be positive")
		}
		updates["price_cents"] = *input.PriceCents
	}
	if input.WeightGrams != nil {
		if *input.WeightGrams < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant weight cannot be negative")
		}
		updates["weight_grams"] = *input.WeightGrams
	}
	if input.StockQuantity != nil {
		if *input.StockQuantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant stock cannot be negative")
		}
		updates["stock_quantity"] = *input.StockQuantity
	}
	if input.LowStockThreshold != nil {
		updates["low_stock_threshold"] = *input.LowStockThreshold
	}
	if input.AllowBackorder != nil {
		updates["allow_backorder"] = *input.AllowBackorder
	}
	if input.Active != nil {
		updates["active"] = *input.Active
	}

	if err := s.repo.UpdateVariant(ctx, variantID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update variant")
	}

	product, err := s.repo.FindProductByID(ctx, variant.ProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload product")
	}
	return toProductDetail(product), nil
}

func (s *service) VariantsByIDs(ctx context.Context, variantIDs []uuid.UUID) ([]models.ProductVariant, error) {
	variants, err := s.repo.FindVariantsByIDs(ctx, variantIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variants")
	}
	return variants, nil
}

// Decrement adjusts stock inside a caller supplied transaction. Order
// creation uses it so the decrement commits or rolls back with the
// order row.
func (s *service) Decrement(ctx context.Context, tx *gorm.DB, variantID uuid.UUID, qty int) error {
	return s.repo.WithTx(tx).DecrementStock(ctx, variantID, qty)
}

func toProductDetail(product *models.Product) *ProductDetail {
	detail := &ProductDetail{
		ID:          product.ID,
		Name:        product.Name,
		Slug:        product.Slug,
		SKUPrefix:   product.SKUPrefix,
		Description: product.Description,
		Category:    product.Category,
		Active:      product.Active,
		Variants:    make([]VariantDetail, 0, len(product.Variants)),
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
	for i := range product.Variants {
		variant := &product.Variants[i]
		vd := VariantDetail{
			VariantSummary:    toVariantSummary(variant),
			LowStockThreshold: variant.LowStockThreshold,
			AllowBackorder:    variant.AllowBackorder,
			Active:            variant.Active,
			PriceTiers:        make([]PriceTierView, 0, len(variant.PriceTiers)),
		}
		for _, tier := range variant.PriceTiers {
			vd.PriceTiers = append(vd.PriceTiers, PriceTierView{
				MinQuantity:     tier.MinQuantity,
				MaxQuantity:     tier.MaxQuantity,
				DiscountPercent: tier.DiscountPercent.StringFixed(2),
				PricePerUnit:    tier.PricePerUnit.StringFixed(2),
				DisplayText:     tier.DisplayText,
			})
		}
		detail.Variants = append(detail.Variants, vd)
	}
	return detail
}
