package pricing

import (
	"context"

	"github.com/jocril/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for price and discount tiers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	DeleteAllPriceTiers(ctx context.Context) error
	CreatePriceTiersInBatches(ctx context.Context, tiers []models.PriceTier, batchSize int) error
	ReplaceDiscountTiers(ctx context.Context, tiers []models.DiscountTier) error
	ListDiscountTiers(ctx context.Context) ([]models.DiscountTier, error)
}
