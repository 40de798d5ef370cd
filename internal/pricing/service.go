package pricing

import (
	"context"
	"fmt"

	"github.com/jocril/storefront-backend/pkg/db/models"
	pkgerrors "github.com/jocril/storefront-backend/pkg/errors"
	"github.com/jocril/storefront-backend/pkg/money"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const insertBatchSize = 500

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type variantSource interface {
	ListActiveVariants(ctx context.Context) ([]models.ProductVariant, error)
}

// Service exposes the tier regeneration and the stored configuration.
type Service interface {
	Apply(ctx context.Context, input ApplyInput) (*ApplyResult, error)
	DiscountTiers(ctx context.Context) ([]DiscountTierView, error)
}

type service struct {
	repo     Repository
	variants variantSource
	tx       txRunner
}

// NewService builds a pricing service with the required dependencies.
func NewService(repo Repository, variants variantSource, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pricing repository required")
	}
	if variants == nil {
		return nil, fmt.Errorf("variant source required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, variants: variants, tx: tx}, nil
}

// Apply replaces every variant's quantity breaks from the supplied
// configuration. Delete and reinsert run in one transaction so readers
// never observe a half regenerated catalog.
func (s *service) Apply(ctx context.Context, input ApplyInput) (*ApplyResult, error) {
	if len(input.Tiers) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one discount tier required")
	}
	for _, tier := range input.Tiers {
		if tier.MinOrderValue.LessThanOrEqual(decimal.Zero) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "tier minimum order value must be positive")
		}
		if tier.DiscountPercent.LessThanOrEqual(decimal.Zero) || tier.DiscountPercent.GreaterThan(oneHundred) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "tier discount must be above 0 and at most 100")
		}
	}

	variants, err := s.variants.ListActiveVariants(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variants")
	}
	if len(variants) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active variants to price")
	}

	var rows []models.PriceTier
	variantsUpdated := 0
	for _, variant := range variants {
		if variant.PriceCents <= 0 {
			continue
		}
		variantsUpdated++
		basePrice := money.FromCents(variant.PriceCents)
		for _, tier := range GenerateTiers(basePrice, input.Tiers) {
			rows = append(rows, models.PriceTier{
				VariantID:       variant.ID,
				MinQuantity:     tier.MinQuantity,
				MaxQuantity:     tier.MaxQuantity,
				DiscountPercent: tier.DiscountPercent,
				PricePerUnit:    tier.PricePerUnit,
				DisplayText:     tier.DisplayText,
			})
		}
	}
	if variantsUpdated == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no priced variants to update")
	}

	configRows := make([]models.DiscountTier, 0, len(input.Tiers))
	for _, tier := range input.Tiers {
		configRows = append(configRows, models.DiscountTier{
			MinOrderValue:   tier.MinOrderValue,
			DiscountPercent: tier.DiscountPercent,
		})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteAllPriceTiers(ctx); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear price tiers")
		}
		if err := repo.CreatePriceTiersInBatches(ctx, rows, insertBatchSize); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert price tiers")
		}
		if err := repo.ReplaceDiscountTiers(ctx, configRows); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store discount configuration")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ApplyResult{VariantsUpdated: variantsUpdated, TiersCreated: len(rows)}, nil
}

func (s *service) DiscountTiers(ctx context.Context) ([]DiscountTierView, error) {
	tiers, err := s.repo.ListDiscountTiers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list discount tiers")
	}
	views := make([]DiscountTierView, 0, len(tiers))
	for _, tier := range tiers {
		views = append(views, DiscountTierView{
			MinOrderValue:   tier.MinOrderValue,
			DiscountPercent: tier.DiscountPercent,
		})
	}
	return views, nil
}
