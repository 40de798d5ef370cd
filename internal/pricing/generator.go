package pricing

import (
	"fmt"
	"sort"

	"github.com/jocril/storefront-backend/pkg/money"
	"github.com/shopspring/decimal"
)

// TierConfig is one admin supplied discount breakpoint: orders whose
// value reaches MinOrderValue earn DiscountPercent off the unit price.
type TierConfig struct {
	MinOrderValue   decimal.Decimal
	DiscountPercent decimal.Decimal
}

// GeneratedTier is one quantity break produced for a variant.
// MaxQuantity is nil on the open ended top tier.
type GeneratedTier struct {
	MinQuantity     int
	MaxQuantity     *int
	DiscountPercent decimal.Decimal
	PricePerUnit    decimal.Decimal
	DisplayText     string
}

var oneHundred = decimal.NewFromInt(100)

// RoundToNice bumps a raw quantity up to a human friendly breakpoint.
// Small quantities stay exact; larger ones snap up to 5s, 10s, 20s,
// 50s and finally 100s.
func RoundToNice(qty int) int {
	switch {
	case qty <= 10:
		return qty
	case qty <= 50:
		return ceilTo(qty, 5)
	case qty <= 100:
		return ceilTo(qty, 10)
	case qty <= 500:
		return ceilTo(qty, 20)
	case qty <= 1000:
		return ceilTo(qty, 50)
	default:
		return ceilTo(qty, 100)
	}
}

func ceilTo(qty, step int) int {
	return (qty + step - 1) / step * step
}

// GenerateTiers converts the discount configuration into quantity
// breaks for a single variant priced at basePrice (VAT inclusive
// euros). Breakpoints that collapse onto an earlier one after rounding
// are skipped, so minimum quantities are strictly increasing.
func GenerateTiers(basePrice decimal.Decimal, configs []TierConfig) []GeneratedTier {
	if basePrice.LessThanOrEqual(decimal.Zero) || len(configs) == 0 {
		return nil
	}

	sorted := make([]TierConfig, len(configs))
	copy(sorted, configs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinOrderValue.LessThan(sorted[j].MinOrderValue)
	})

	tiers := make([]GeneratedTier, 0, len(sorted))
	prevMinQty := 0
	for i, cfg := range sorted {
		minQty := RoundToNice(minQuantityFor(cfg.MinOrderValue, basePrice))
		if minQty <= prevMinQty {
			continue
		}

		discounted := basePrice.Mul(decimal.NewFromInt(1).Sub(cfg.DiscountPercent.Div(oneHundred)))
		tier := GeneratedTier{
			MinQuantity:     minQty,
			DiscountPercent: cfg.DiscountPercent,
			PricePerUnit:    money.RoundToHalfEuro(discounted),
			DisplayText:     fmt.Sprintf("%d unidades", minQty),
		}

		if i < len(sorted)-1 {
			nextMinQty := RoundToNice(minQuantityFor(sorted[i+1].MinOrderValue, basePrice))
			if nextMinQty > minQty {
				maxQty := nextMinQty - 1
				tier.MaxQuantity = &maxQty
			}
		}

		tiers = append(tiers, tier)
		prevMinQty = minQty
	}
	return tiers
}

// minQuantityFor is the smallest unit count whose order value reaches
// the breakpoint.
func minQuantityFor(minOrderValue, basePrice decimal.Decimal) int {
	return int(minOrderValue.Div(basePrice).Ceil().IntPart())
}
