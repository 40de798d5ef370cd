package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jocril/storefront-backend/api/responses"
	"github.com/jocril/storefront-backend/api/validators"
	"github.com/jocril/storefront-backend/internal/shipping"
	"github.com/jocril/storefront-backend/pkg/logger"
)

type shippingCalculateBody struct {
	PostalCode string `json:"postal_code" validate:"required"`
	Items      []struct {
		VariantID uuid.UUID `json:"variant_id" validate:"required"`
		Quantity  int       `json:"quantity" validate:"required,gt=0"`
	} `json:"items" validate:"required,min=1,dive"`
}

// ShippingCalculate quotes shipping for a postal code and cart.
func ShippingCalculate(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body shippingCalculateBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := shipping.CalculateInput{PostalCode: body.PostalCode}
		for _, item := range body.Items {
			input.Items = append(input.Items, shipping.CartItem{
				VariantID: item.VariantID,
				Quantity:  item.Quantity,
			})
		}

		quote, err := svc.Calculate(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// ShippingZones lists the active zones for storefront display.
func ShippingZones(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		zones, err := svc.ActiveZones(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"zones": zones})
	}
}
