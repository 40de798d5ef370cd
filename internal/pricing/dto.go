package pricing

import "github.com/shopspring/decimal"

// ApplyInput is the admin payload regenerating every variant's tiers.
type ApplyInput struct {
	Tiers []TierConfig
}

// ApplyResult reports how much the regeneration touched.
type ApplyResult struct {
	VariantsUpdated int `json:"variants_updated"`
	TiersCreated    int `json:"tiers_created"`
}

// DiscountTierView is the admin facing shape of the stored configuration.
type DiscountTierView struct {
	MinOrderValue   decimal.Decimal `json:"min_order_value"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}
