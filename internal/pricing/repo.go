package pricing

import (
	"context"

	"github.com/jocril/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a pricing repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) DeleteAllPriceTiers(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.PriceTier{}).Error
}

func (r *repository) CreatePriceTiersInBatches(ctx context.Context, tiers []models.PriceTier, batchSize int) error {
	if len(tiers) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&tiers, batchSize).Error
}

func (r *repository) ReplaceDiscountTiers(ctx context.Context, tiers []models.DiscountTier) error {
	err := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.DiscountTier{}).Error
	if err != nil {
		return err
	}
	if len(tiers) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&tiers).Error
}

func (r *repository) ListDiscountTiers(ctx context.Context) ([]models.DiscountTier, error) {
	var tiers []models.DiscountTier
	err := r.db.WithContext(ctx).
		Order("min_order_value ASC").
		Find(&tiers).Error
	if err != nil {
		return nil, err
	}
	return tiers, nil
}
