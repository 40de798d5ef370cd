package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/jocril/storefront-backend/api/responses"
	"github.com/jocril/storefront-backend/api/validators"
	"github.com/jocril/storefront-backend/internal/pricing"
	"github.com/jocril/storefront-backend/pkg/logger"
)

type applyTiersBody struct {
	Tiers []struct {
		MinValue    decimal.Decimal `json:"min_value"`
		DiscountPct decimal.Decimal `json:"discount_pct"`
	} `json:"tiers" validate:"required,min=1"`
}

// AdminApplyPriceTiers regenerates every variant's quantity breaks
// from the supplied discount configuration.
func AdminApplyPriceTiers(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body applyTiersBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := pricing.ApplyInput{}
		for _, tier := range body.Tiers {
			input.Tiers = append(input.Tiers, pricing.TierConfig{
				MinOrderValue:   tier.MinValue,
				DiscountPercent: tier.DiscountPct,
			})
		}

		result, err := svc.Apply(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminDiscountTiers returns the stored discount configuration.
func AdminDiscountTiers(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tiers, err := svc.DiscountTiers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"tiers": tiers})
	}
}
