package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/jocril/storefront-backend/pkg/enums"
)

// ProductFilters describe the inputs supported by the product list.
type ProductFilters struct {
	Category   *string
	ActiveOnly bool
	Query      string
}

// VariantSummary exposes the per variant fields returned in listings.
type VariantSummary struct {
	ID            uuid.UUID         `json:"id"`
	SKU           string            `json:"sku"`
	Size          *string           `json:"size,omitempty"`
	Color         *string           `json:"color,omitempty"`
	PriceCents    int               `json:"price_cents"`
	WeightGrams   int               `json:"weight_grams"`
	StockStatus   enums.StockStatus `json:"stock_status"`
	StockQuantity int               `json:"stock_quantity"`
}

// ProductSummary is the catalog listing row.
type ProductSummary struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Slug      string           `json:"slug"`
	Category  *string          `json:"category,omitempty"`
	Active    bool             `json:"active"`
	Variants  []VariantSummary `json:"variants"`
	CreatedAt time.Time        `json:"created_at"`
}

// ProductList wraps the paginated products plus the next page cursor.
type ProductList struct {
	Products   []ProductSummary `json:"products"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// PriceTierView is the quantity break shape embedded in product detail.
type PriceTierView struct {
	MinQuantity     int    `json:"min_quantity"`
	MaxQuantity     *int   `json:"max_quantity,omitempty"`
	DiscountPercent string `json:"discount_percent"`
	PricePerUnit    string `json:"price_per_unit"`
	DisplayText     string `json:"display_text"`
}

// VariantDetail is the full variant shape returned on product detail.
type VariantDetail struct {
	VariantSummary
	LowStockThreshold int             `json:"low_stock_threshold"`
	AllowBackorder    bool            `json:"allow_backorder"`
	Active            bool            `json:"active"`
	PriceTiers        []PriceTierView `json:"price_tiers"`
}

// ProductDetail is the full product shape returned by slug lookup.
type ProductDetail struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	SKUPrefix   string          `json:"sku_prefix"`
	Description *string         `json:"description,omitempty"`
	Category    *string         `json:"category,omitempty"`
	Active      bool            `json:"active"`
	Variants    []VariantDetail `json:"variants"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateProductInput carries the admin create payload.
type CreateProductInput struct {
	Name        string
	Slug        string
	SKUPrefix   string
	Description *string
	Category    *string
	Active      *bool
}

// UpdateProductInput carries the admin partial update payload.
type UpdateProductInput struct {
	Name        *string
	Slug        *string
	Description *string
	Category    *string
	Active      *bool
}

// CreateVariantInput carries the admin variant create payload. SKU is
// derived from the product prefix when empty.
type CreateVariantInput struct {
	ProductID         uuid.UUID
	SKU               string
	SKUSuffix         string
	Size              *string
	Color             *string
	PriceCents        int
	WeightGrams       int
	StockQuantity     int
	LowStockThreshold *int
	AllowBackorder    bool
	Active            *bool
}

// UpdateVariantInput carries the admin variant partial update payload.
type UpdateVariantInput struct {
	Size              *string
	Color             *string
	PriceCents        *int
	WeightGrams       *int
	StockQuantity     *int
	LowStockThreshold *int
	AllowBackorder    *bool
	Active            *bool
}
