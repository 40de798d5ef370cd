package shipping

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jocril/storefront-backend/pkg/db"
	"github.com/jocril/storefront-backend/pkg/db/models"
	pkgerrors "github.com/jocril/storefront-backend/pkg/errors"
	"gorm.io/gorm"
)

type variantSource interface {
	FindVariantsByIDs(ctx context.Context, variantIDs []uuid.UUID) ([]models.ProductVariant, error)
}

// Service exposes quoting plus the admin zone/class/rate writes.
type Service interface {
	Calculate(ctx context.Context, input CalculateInput) (*Quote, error)
	ActiveZones(ctx context.Context) ([]ZoneView, error)
	AllZones(ctx context.Context) ([]ZoneView, error)
	CreateZone(ctx context.Context, input CreateZoneInput) (*ZoneView, error)
	UpdateZone(ctx context.Context, zoneID uuid.UUID, input UpdateZoneInput) (*ZoneView, error)
	CreateClass(ctx context.Context, input CreateClassInput) (*models.ShippingClass, error)
	CreateRate(ctx context.Context, input CreateRateInput) (*models.ShippingRate, error)
	RatesForZone(ctx context.Context, zoneID uuid.UUID) ([]models.ShippingRate, error)
}

type service struct {
	repo     Repository
	variants variantSource
}

// NewService builds a shipping service with the required dependencies.
func NewService(repo Repository, variants variantSource) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shipping repository required")
	}
	if variants == nil {
		return nil, fmt.Errorf("variant source required")
	}
	return &service{repo: repo, variants: variants}, nil
}

// Calculate resolves zone, class and rate for the cart and postal
// code. Free shipping applies when the zone carries a threshold and
// the cart subtotal reaches it.
func (s *service) Calculate(ctx context.Context, input CalculateInput) (*Quote, error) {
	prefix, err := PostalPrefix(input.PostalCode)
	if err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
	}

	weightGrams, subtotalCents, err := s.cartTotals(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	zone, err := s.resolveZone(ctx, prefix)
	if err != nil {
		return nil, err
	}
	class, err := s.resolveClass(ctx, weightGrams)
	if err != nil {
		return nil, err
	}

	rate, err := s.repo.FindRate(ctx, zone.ID, class.ID, weightGrams)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no shipping rate configured for this destination")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shipping rate")
	}

	cost := rate.BaseRateCents
	if excess := weightGrams - rate.MinWeightGrams; excess > 0 && rate.ExtraKgRateCents > 0 {
		startedKg := (excess + 999) / 1000
		cost += rate.ExtraKgRateCents * startedKg
	}

	quote := &Quote{
		ZoneCode:         zone.Code,
		ZoneName:         zone.Name,
		ClassCode:        class.Code,
		CarrierName:      class.CarrierName,
		CostCents:        cost,
		TotalWeightGrams: weightGrams,
		SubtotalCents:    subtotalCents,
		EstimatedDaysMin: rate.EstimatedDaysMin,
		EstimatedDaysMax: rate.EstimatedDaysMax,
	}
	if zone.FreeShippingThresholdCents != nil && subtotalCents >= *zone.FreeShippingThresholdCents {
		quote.CostCents = 0
		quote.IsFreeShipping = true
	}
	return quote, nil
}

func (s *service) cartTotals(ctx context.Context, items []CartItem) (int, int, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.VariantID)
	}
	variants, err := s.variants.FindVariantsByIDs(ctx, ids)
	if err != nil {
		return 0, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variants")
	}
	byID := make(map[uuid.UUID]*models.ProductVariant, len(variants))
	for i := range variants {
		byID[variants[i].ID] = &variants[i]
	}

	weightGrams := 0
	subtotalCents := 0
	for _, item := range items {
		variant, ok := byID[item.VariantID]
		if !ok {
			return 0, 0, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		weightGrams += variant.WeightGrams * item.Quantity
		subtotalCents += variant.PriceCents * item.Quantity
	}
	return weightGrams, subtotalCents, nil
}

// resolveZone picks the first active zone whose prefix range contains
// the destination. Zones are ordered by display_order then id, so
// overlapping ranges resolve deterministically.
func (s *service) resolveZone(ctx context.Context, prefix int) (*models.ShippingZone, error) {
	zones, err := s.repo.ListActiveZones(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shipping zones")
	}
	for i := range zones {
		if prefix >= zones[i].PostalCodeStart && prefix <= zones[i].PostalCodeEnd {
			return &zones[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no shipping zone serves this postal code")
}

// resolveClass picks the smallest class that still fits the weight.
func (s *service) resolveClass(ctx context.Context, weightGrams int) (*models.ShippingClass, error) {
	classes, err := s.repo.ListActiveClasses(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shipping classes")
	}
	for i := range classes {
		if classes[i].MaxWeightGrams >= weightGrams {
			return &classes[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no shipping class supports this weight")
}

func (s *service) ActiveZones(ctx context.Context) ([]ZoneView, error) {
	zones, err := s.repo.ListActiveZones(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shipping zones")
	}
	return toZoneViews(zones), nil
}

func (s *service) AllZones(ctx context.Context) ([]ZoneView, error) {
	zones, err := s.repo.ListZones(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shipping zones")
	}
	return toZoneViews(zones), nil
}

func (s *service) CreateZone(ctx context.Context, input CreateZoneInput) (*ZoneView, error) {
	code := strings.TrimSpace(input.Code)
	if code == "" || strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "zone code and name required")
	}
	if input.PostalCodeEnd < input.PostalCodeStart {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "postal range end must not precede start")
	}
	if input.PostalCodeStart < minPostalPrefix || input.PostalCodeEnd > maxPostalPrefix {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "postal range outside supported prefixes")
	}

	zone := &models.ShippingZone{
		Code:                       code,
		Name:                       strings.TrimSpace(input.Name),
		PostalCodeStart:            input.PostalCodeStart,
		PostalCodeEnd:              input.PostalCodeEnd,
		FreeShippingThresholdCents: input.FreeShippingThresholdCents,
		DisplayOrder:               input.DisplayOrder,
		Active:                     true,
	}
	if input.Active != nil {
		zone.Active = *input.Active
	}

	created, err := s.repo.CreateZone(ctx, zone)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "zone code already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create zone")
	}
	view := toZoneView(created)
	return &view, nil
}

func (s *service) UpdateZone(ctx context.Context, zoneID uuid.UUID, input UpdateZoneInput) (*ZoneView, error) {
	if zoneID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "zone id required")
	}
	zone, err := s.repo.FindZoneByID(ctx, zoneID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "zone not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load zone")
	}

	start := zone.PostalCodeStart
	end := zone.PostalCodeEnd
	if input.PostalCodeStart != nil {
		start = *input.PostalCodeStart
	}
	if input.PostalCodeEnd != nil {
		end = *input.PostalCodeEnd
	}
	if end < start {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "postal range end must not precede start")
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.PostalCodeStart != nil {
		updates["postal_code_start"] = start
	}
	if input.PostalCodeEnd != nil {
		updates["postal_code_end"] = end
	}
	if input.FreeShippingThresholdCents != nil {
		updates["free_shipping_threshold_cents"] = *input.FreeShippingThresholdCents
	}
	if input.DisplayOrder != nil {
		updates["display_order"] = *input.DisplayOrder
	}
	if input.Active != nil {
		updates["active"] = *input.Active
	}

	if err := s.repo.UpdateZone(ctx, zoneID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update zone")
	}
	reloaded, err := s.repo.FindZoneByID(ctx, zoneID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload zone")
	}
	view := toZoneView(reloaded)
	return &view, nil
}

func (s *service) CreateClass(ctx context.Context, input CreateClassInput) (*models.ShippingClass, error) {
	if strings.TrimSpace(input.Code) == "" || strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "class code and name required")
	}
	if input.MaxWeightGrams <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "class weight ceiling must be positive")
	}

	class := &models.ShippingClass{
		Code:           strings.TrimSpace(input.Code),
		Name:           strings.TrimSpace(input.Name),
		MaxWeightGrams: input.MaxWeightGrams,
		CarrierName:    strings.TrimSpace(input.CarrierName),
		Active:         true,
	}
	if input.Active != nil {
		class.Active = *input.Active
	}

	created, err := s.repo.CreateClass(ctx, class)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "class code already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create class")
	}
	return created, nil
}

func (s *service) CreateRate(ctx context.Context, input CreateRateInput) (*models.ShippingRate, error) {
	if input.ZoneID == uuid.Nil || input.ClassID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "zone and class ids required")
	}
	if input.MaxWeightGrams <= input.MinWeightGrams {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "weight band must span at least one gram")
	}
	if input.EstimatedDaysMax < input.EstimatedDaysMin {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "estimated days range inverted")
	}
	if input.BaseRateCents < 0 || input.ExtraKgRateCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rates cannot be negative")
	}

	if _, err := s.repo.FindZoneByID(ctx, input.ZoneID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "zone not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load zone")
	}
	if _, err := s.repo.FindClassByID(ctx, input.ClassID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "class not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load class")
	}

	rate := &models.ShippingRate{
		ZoneID:           input.ZoneID,
		ClassID:          input.ClassID,
		MinWeightGrams:   input.MinWeightGrams,
		MaxWeightGrams:   input.MaxWeightGrams,
		BaseRateCents:    input.BaseRateCents,
		ExtraKgRateCents: input.ExtraKgRateCents,
		EstimatedDaysMin: input.EstimatedDaysMin,
		EstimatedDaysMax: input.EstimatedDaysMax,
		Active:           true,
	}
	if input.Active != nil {
		rate.Active = *input.Active
	}

	created, err := s.repo.CreateRate(ctx, rate)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "rate already exists for this zone, class and band")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create rate")
	}
	return created, nil
}

func (s *service) RatesForZone(ctx context.Context, zoneID uuid.UUID) ([]models.ShippingRate, error) {
	if zoneID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "zone id required")
	}
	rates, err := s.repo.ListRatesForZone(ctx, zoneID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list rates")
	}
	return rates, nil
}

func toZoneViews(zones []models.ShippingZone) []ZoneView {
	views := make([]ZoneView, 0, len(zones))
	for i := range zones {
		views = append(views, toZoneView(&zones[i]))
	}
	return views
}

func toZoneView(zone *models.ShippingZone) ZoneView {
	return ZoneView{
		ID:                         zone.ID,
		Code:                       zone.Code,
		Name:                       zone.Name,
		PostalCodeStart:            zone.PostalCodeStart,
		PostalCodeEnd:              zone.PostalCodeEnd,
		FreeShippingThresholdCents: zone.FreeShippingThresholdCents,
		DisplayOrder:               zone.DisplayOrder,
		Active:                     zone.Active,
	}
}
