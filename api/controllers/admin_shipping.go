package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jocril/storefront-backend/api/responses"
	"github.com/jocril/storefront-backend/api/validators"
	"github.com/jocril/storefront-backend/internal/shipping"
	"github.com/jocril/storefront-backend/pkg/logger"
)

type createZoneBody struct {
	Code                       string `json:"code" validate:"required"`
	Name                       string `json:"name" validate:"required"`
	PostalCodeStart            int    `json:"postal_code_start" validate:"required"`
	PostalCodeEnd              int    `json:"postal_code_end" validate:"required"`
	FreeShippingThresholdCents *int   `json:"free_shipping_threshold_cents,omitempty"`
	DisplayOrder               int    `json:"display_order"`
	Active                     *bool  `json:"active,omitempty"`
}

type updateZoneBody struct {
	Name                       *string `json:"name,omitempty"`
	PostalCodeStart            *int    `json:"postal_code_start,omitempty"`
	PostalCodeEnd              *int    `json:"postal_code_end,omitempty"`
	FreeShippingThresholdCents *int    `json:"free_shipping_threshold_cents,omitempty"`
	DisplayOrder               *int    `json:"display_order,omitempty"`
	Active                     *bool   `json:"active,omitempty"`
}

type createClassBody struct {
	Code           string `json:"code" validate:"required"`
	Name           string `json:"name" validate:"required"`
	MaxWeightGrams int    `json:"max_weight_grams" validate:"required,gt=0"`
	CarrierName    string `json:"carrier_name" validate:"required"`
	Active         *bool  `json:"active,omitempty"`
}

type createRateBody struct {
	ZoneID           uuid.UUID `json:"zone_id" validate:"required"`
	ClassID          uuid.UUID `json:"class_id" validate:"required"`
	MinWeightGrams   int       `json:"min_weight_grams"`
	MaxWeightGrams   int       `json:"max_weight_grams" validate:"required,gt=0"`
	BaseRateCents    int       `json:"base_rate_cents" validate:"required,gt=0"`
	ExtraKgRateCents int       `json:"extra_kg_rate_cents"`
	EstimatedDaysMin int       `json:"estimated_days_min"`
	EstimatedDaysMax int       `json:"estimated_days_max"`
	Active           *bool     `json:"active,omitempty"`
}

// AdminListZones lists every zone including inactive ones.
func AdminListZones(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		zones, err := svc.AllZones(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"zones": zones})
	}
}

func AdminCreateZone(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createZoneBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		zone, err := svc.CreateZone(r.Context(), shipping.CreateZoneInput{
			Code:                       body.Code,
			Name:                       body.Name,
			PostalCodeStart:            body.PostalCodeStart,
			PostalCodeEnd:              body.PostalCodeEnd,
			FreeShippingThresholdCents: body.FreeShippingThresholdCents,
			DisplayOrder:               body.DisplayOrder,
			Active:                     body.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, zone)
	}
}

func AdminUpdateZone(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		zoneID, err := validators.ParsePathUUID(chi.URLParam(r, "zoneId"), "zoneId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateZoneBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		zone, err := svc.UpdateZone(r.Context(), zoneID, shipping.UpdateZoneInput{
			Name:                       body.Name,
			PostalCodeStart:            body.PostalCodeStart,
			PostalCodeEnd:              body.PostalCodeEnd,
			FreeShippingThresholdCents: body.FreeShippingThresholdCents,
			DisplayOrder:               body.DisplayOrder,
			Active:                     body.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, zone)
	}
}

func AdminCreateShippingClass(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createClassBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		class, err := svc.CreateClass(r.Context(), shipping.CreateClassInput{
			Code:           body.Code,
			Name:           body.Name,
			MaxWeightGrams: body.MaxWeightGrams,
			CarrierName:    body.CarrierName,
			Active:         body.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, class)
	}
}

func AdminCreateShippingRate(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createRateBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rate, err := svc.CreateRate(r.Context(), shipping.CreateRateInput{
			ZoneID:           body.ZoneID,
			ClassID:          body.ClassID,
			MinWeightGrams:   body.MinWeightGrams,
			MaxWeightGrams:   body.MaxWeightGrams,
			BaseRateCents:    body.BaseRateCents,
			ExtraKgRateCents: body.ExtraKgRateCents,
			EstimatedDaysMin: body.EstimatedDaysMin,
			EstimatedDaysMax: body.EstimatedDaysMax,
			Active:           body.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, rate)
	}
}

func AdminZoneRates(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		zoneID, err := validators.ParsePathUUID(chi.URLParam(r, "zoneId"), "zoneId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rates, err := svc.RatesForZone(r.Context(), zoneID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"rates": rates})
	}
}
