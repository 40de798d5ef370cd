package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a sellable acrylic display item with one or more variants.
type Product struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string           `gorm:"column:name;not null"`
	Slug        string           `gorm:"column:slug;not null;uniqueIndex"`
	SKUPrefix   string           `gorm:"column:sku_prefix;not null"`
	Description *string          `gorm:"column:description"`
	Category    *string          `gorm:"column:category"`
	Active      bool             `gorm:"column:active;not null;default:true"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductVariant is a concrete purchasable configuration of a product.
// Prices are stored in cents and always include VAT.
type ProductVariant struct {
	ID                uuid.UUID   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID         uuid.UUID   `gorm:"column:product_id;type:uuid;not null;index"`
	Product           *Product    `gorm:"foreignKey:ProductID"`
	SKU               string      `gorm:"column:sku;not null;uniqueIndex"`
	Size              *string     `gorm:"column:size"`
	Color             *string     `gorm:"column:color"`
	PriceCents        int         `gorm:"column:price_cents;not null"`
	WeightGrams       int         `gorm:"column:weight_grams;not null;default:0"`
	StockQuantity     int         `gorm:"column:stock_quantity;not null;default:0"`
	LowStockThreshold int         `gorm:"column:low_stock_threshold;not null;default:5"`
	AllowBackorder    bool        `gorm:"column:allow_backorder;not null;default:false"`
	Active            bool        `gorm:"column:active;not null;default:true"`
	PriceTiers        []PriceTier `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}
