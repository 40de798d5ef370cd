package shipping

import "github.com/google/uuid"

// CartItem is one storefront cart line used for weight and subtotal.
type CartItem struct {
	VariantID uuid.UUID
	Quantity  int
}

// CalculateInput carries the shipping quote request.
type CalculateInput struct {
	PostalCode string
	Items      []CartItem
}

// Quote is the computed shipping cost for a destination and cart.
type Quote struct {
	ZoneCode         string `json:"zone_code"`
	ZoneName         string `json:"zone_name"`
	ClassCode        string `json:"class_code"`
	CarrierName      string `json:"carrier_name"`
	CostCents        int    `json:"cost_cents"`
	IsFreeShipping   bool   `json:"is_free_shipping"`
	TotalWeightGrams int    `json:"total_weight_grams"`
	SubtotalCents    int    `json:"subtotal_cents"`
	EstimatedDaysMin int    `json:"estimated_days_min"`
	EstimatedDaysMax int    `json:"estimated_days_max"`
}

// ZoneView is the public zone listing row.
type ZoneView struct {
	ID                         uuid.UUID `json:"id"`
	Code                       string    `json:"code"`
	Name                       string    `json:"name"`
	PostalCodeStart            int       `json:"postal_code_start"`
	PostalCodeEnd              int       `json:"postal_code_end"`
	FreeShippingThresholdCents *int      `json:"free_shipping_threshold_cents,omitempty"`
	DisplayOrder               int       `json:"display_order"`
	Active                     bool      `json:"active"`
}

// CreateZoneInput carries the admin zone create payload.
type CreateZoneInput struct {
	Code                       string
	Name                       string
	PostalCodeStart            int
	PostalCodeEnd              int
	FreeShippingThresholdCents *int
	DisplayOrder               int
	Active                     *bool
}

// UpdateZoneInput carries the admin zone partial update payload.
type UpdateZoneInput struct {
	Name                       *string
	PostalCodeStart            *int
	PostalCodeEnd              *int
	FreeShippingThresholdCents *int
	DisplayOrder               *int
	Active                     *bool
}

// CreateClassInput carries the admin class create payload.
type CreateClassInput struct {
	Code           string
	Name           string
	MaxWeightGrams int
	CarrierName    string
	Active         *bool
}

// CreateRateInput carries the admin rate create payload.
type CreateRateInput struct {
	ZoneID           uuid.UUID
	ClassID          uuid.UUID
	MinWeightGrams   int
	MaxWeightGrams   int
	BaseRateCents    int
	ExtraKgRateCents int
	EstimatedDaysMin int
	EstimatedDaysMax int
	Active           *bool
}
