package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceTier is a generated quantity break for a variant. Unit prices
// are VAT inclusive; MaxQuantity is nil on the open-ended top tier.
type PriceTier struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VariantID       uuid.UUID       `gorm:"column:variant_id;type:uuid;not null;index"`
	MinQuantity     int             `gorm:"column:min_quantity;not null"`
	MaxQuantity     *int            `gorm:"column:max_quantity"`
	DiscountPercent decimal.Decimal `gorm:"column:discount_percent;type:numeric(5,2);not null"`
	PricePerUnit    decimal.Decimal `gorm:"column:price_per_unit;type:numeric(10,2);not null"`
	DisplayText     string          `gorm:"column:display_text;not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// DiscountTier is the admin supplied configuration mapping a minimum
// order value to a discount percentage. The price tier generator
// turns the active set into per variant quantity breaks.
type DiscountTier struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MinOrderValue   decimal.Decimal `gorm:"column:min_order_value;type:numeric(10,2);not null;uniqueIndex"`
	DiscountPercent decimal.Decimal `gorm:"column:discount_percent;type:numeric(5,2);not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
