package models

import (
	"time"

	"github.com/google/uuid"
)

// ShippingZone groups Portuguese postal code prefixes with an
// optional free shipping threshold. Bounds are inclusive four digit
// prefixes.
type ShippingZone struct {
	ID                         uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code                       string         `gorm:"column:code;not null;uniqueIndex"`
	Name                       string         `gorm:"column:name;not null"`
	PostalCodeStart            int            `gorm:"column:postal_code_start;not null"`
	PostalCodeEnd              int            `gorm:"column:postal_code_end;not null"`
	FreeShippingThresholdCents *int           `gorm:"column:free_shipping_threshold_cents"`
	DisplayOrder               int            `gorm:"column:display_order;not null;default:0"`
	Active                     bool           `gorm:"column:active;not null;default:true"`
	Rates                      []ShippingRate `gorm:"foreignKey:ZoneID;constraint:OnDelete:CASCADE"`
	CreatedAt                  time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                  time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// ShippingClass is a weight ceiling bucket tied to a carrier.
type ShippingClass struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code           string    `gorm:"column:code;not null;uniqueIndex"`
	Name           string    `gorm:"column:name;not null"`
	MaxWeightGrams int       `gorm:"column:max_weight_grams;not null"`
	CarrierName    string    `gorm:"column:carrier_name;not null"`
	Active         bool      `gorm:"column:active;not null;default:true"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// ShippingRate prices a zone and weight class pair over a weight band.
// ExtraKgRateCents applies per started kilogram above MinWeightGrams.
type ShippingRate struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ZoneID           uuid.UUID `gorm:"column:zone_id;type:uuid;not null;index:idx_shipping_rates_zone_class_min,unique"`
	ClassID          uuid.UUID `gorm:"column:class_id;type:uuid;not null;index:idx_shipping_rates_zone_class_min,unique"`
	MinWeightGrams   int       `gorm:"column:min_weight_grams;not null;index:idx_shipping_rates_zone_class_min,unique"`
	MaxWeightGrams   int       `gorm:"column:max_weight_grams;not null"`
	BaseRateCents    int       `gorm:"column:base_rate_cents;not null"`
	ExtraKgRateCents int       `gorm:"column:extra_kg_rate_cents;not null;default:0"`
	EstimatedDaysMin int       `gorm:"column:estimated_days_min;not null;default:1"`
	EstimatedDaysMax int       `gorm:"column:estimated_days_max;not null;default:3"`
	Active           bool      `gorm:"column:active;not null;default:true"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
