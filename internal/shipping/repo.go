package shipping

import (
	"context"

	"github.com/google/uuid"
	"github.com/jocril/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a shipping repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListActiveZones(ctx context.Context) ([]models.ShippingZone, error) {
	var zones []models.ShippingZone
	err := r.db.WithContext(ctx).
		Where("active = TRUE").
		Order("display_order ASC, id ASC").
		Find(&zones).Error
	if err != nil {
		return nil, err
	}
	return zones, nil
}

func (r *repository) ListZones(ctx context.Context) ([]models.ShippingZone, error) {
	var zones []models.ShippingZone
	err := r.db.WithContext(ctx).
		Order("display_order ASC, id ASC").
		Find(&zones).Error
	if err != nil {
		return nil, err
	}
	return zones, nil
}

func (r *repository) CreateZone(ctx context.Context, zone *models.ShippingZone) (*models.ShippingZone, error) {
	if err := r.db.WithContext(ctx).Create(zone).Error; err != nil {
		return nil, err
	}
	return zone, nil
}

func (r *repository) UpdateZone(ctx context.Context, zoneID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.ShippingZone{}).
		Where("id = ?", zoneID).
		Updates(updates).Error
}

func (r *repository) FindZoneByID(ctx context.Context, zoneID uuid.UUID) (*models.ShippingZone, error) {
	var zone models.ShippingZone
	err := r.db.WithContext(ctx).
		Where("id = ?", zoneID).
		First(&zone).Error
	if err != nil {
		return nil, err
	}
	return &zone, nil
}

func (r *repository) ListActiveClasses(ctx context.Context) ([]models.ShippingClass, error) {
	var classes []models.ShippingClass
	err := r.db.WithContext(ctx).
		Where("active = TRUE").
		Order("max_weight_grams ASC").
		Find(&classes).Error
	if err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *repository) CreateClass(ctx context.Context, class *models.ShippingClass) (*models.ShippingClass, error) {
	if err := r.db.WithContext(ctx).Create(class).Error; err != nil {
		return nil, err
	}
	return class, nil
}

func (r *repository) FindClassByID(ctx context.Context, classID uuid.UUID) (*models.ShippingClass, error) {
	var class models.ShippingClass
	err := r.db.WithContext(ctx).
		Where("id = ?", classID).
		First(&class).Error
	if err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *repository) FindRate(ctx context.Context, zoneID, classID uuid.UUID, weightGrams int) (*models.ShippingRate, error) {
	var rate models.ShippingRate
	err := r.db.WithContext(ctx).
		Where("zone_id = ? AND class_id = ? AND active = TRUE", zoneID, classID).
		Where("min_weight_grams <= ? AND max_weight_grams >= ?", weightGrams, weightGrams).
		Order("min_weight_grams DESC").
		First(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *repository) CreateRate(ctx context.Context, rate *models.ShippingRate) (*models.ShippingRate, error) {
	if err := r.db.WithContext(ctx).Create(rate).Error; err != nil {
		return nil, err
	}
	return rate, nil
}

func (r *repository) ListRatesForZone(ctx context.Context, zoneID uuid.UUID) ([]models.ShippingRate, error) {
	var rates []models.ShippingRate
	err := r.db.WithContext(ctx).
		Where("zone_id = ?", zoneID).
		Order("min_weight_grams ASC").
		Find(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}
