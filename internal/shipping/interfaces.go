package shipping

import (
	"context"

	"github.com/google/uuid"
	"github.com/jocril/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for zones, classes and rates.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListActiveZones(ctx context.Context) ([]models.ShippingZone, error)
	ListZones(ctx context.Context) ([]models.ShippingZone, error)
	CreateZone(ctx context.Context, zone *models.ShippingZone) (*models.ShippingZone, error)
	UpdateZone(ctx context.Context, zoneID uuid.UUID, updates map[string]any) error
	FindZoneByID(ctx context.Context, zoneID uuid.UUID) (*models.ShippingZone, error)
	ListActiveClasses(ctx context.Context) ([]models.ShippingClass, error)
	CreateClass(ctx context.Context, class *models.ShippingClass) (*models.ShippingClass, error)
	FindClassByID(ctx context.Context, classID uuid.UUID) (*models.ShippingClass, error)
	FindRate(ctx context.Context, zoneID, classID uuid.UUID, weightGrams int) (*models.ShippingRate, error)
	CreateRate(ctx context.Context, rate *models.ShippingRate) (*models.ShippingRate, error)
	ListRatesForZone(ctx context.Context, zoneID uuid.UUID) ([]models.ShippingRate, error)
}
