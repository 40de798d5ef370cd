package shipping

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jocril/storefront-backend/pkg/db/models"
	pkgerrors "github.com/jocril/storefront-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubShippingRepo struct {
	zones   []models.ShippingZone
	classes []models.ShippingClass
	rates   []models.ShippingRate
}

func (s *stubShippingRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubShippingRepo) ListActiveZones(ctx context.Context) ([]models.ShippingZone, error) {
	var out []models.ShippingZone
	for _, z := range s.zones {
		if z.Active {
			out = append(out, z)
		}
	}
	return out, nil
}

func (s *stubShippingRepo) ListZones(ctx context.Context) ([]models.ShippingZone, error) {
	return s.zones, nil
}

func (s *stubShippingRepo) CreateZone(ctx context.Context, zone *models.ShippingZone) (*models.ShippingZone, error) {
	for _, z := range s.zones {
		if z.Code == zone.Code {
			return nil, assert.AnError
		}
	}
	zone.ID = uuid.New()
	s.zones = append(s.zones, *zone)
	return zone, nil
}

func (s *stubShippingRepo) UpdateZone(ctx context.Context, zoneID uuid.UUID, updates map[string]any) error {
	return nil
}

func (s *stubShippingRepo) FindZoneByID(ctx context.Context, zoneID uuid.UUID) (*models.ShippingZone, error) {
	for i := range s.zones {
		if s.zones[i].ID == zoneID {
			return &s.zones[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubShippingRepo) ListActiveClasses(ctx context.Context) ([]models.ShippingClass, error) {
	return s.classes, nil
}

func (s *stubShippingRepo) CreateClass(ctx context.Context, class *models.ShippingClass) (*models.ShippingClass, error) {
	class.ID = uuid.New()
	s.classes = append(s.classes, *class)
	return class, nil
}

func (s *stubShippingRepo) FindClassByID(ctx context.Context, classID uuid.UUID) (*models.ShippingClass, error) {
	for i := range s.classes {
		if s.classes[i].ID == classID {
			return &s.classes[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubShippingRepo) FindRate(ctx context.Context, zoneID, classID uuid.UUID, weightGrams int) (*models.ShippingRate, error) {
	for i := range s.rates {
		r := &s.rates[i]
		if r.ZoneID == zoneID && r.ClassID == classID && r.Active &&
			r.MinWeightGrams <= weightGrams && r.MaxWeightGrams >= weightGrams {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubShippingRepo) CreateRate(ctx context.Context, rate *models.ShippingRate) (*models.ShippingRate, error) {
	rate.ID = uuid.New()
	s.rates = append(s.rates, *rate)
	return rate, nil
}

func (s *stubShippingRepo) ListRatesForZone(ctx context.Context, zoneID uuid.UUID) ([]models.ShippingRate, error) {
	var out []models.ShippingRate
	for _, r := range s.rates {
		if r.ZoneID == zoneID {
			out = append(out, r)
		}
	}
	return out, nil
}

type stubVariants struct {
	variants map[uuid.UUID]models.ProductVariant
}

func (s *stubVariants) FindVariantsByIDs(ctx context.Context, variantIDs []uuid.UUID) ([]models.ProductVariant, error) {
	var out []models.ProductVariant
	for _, id := range variantIDs {
		if v, ok := s.variants[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func threshold(cents int) *int { return &cents }

func buildFixture() (*stubShippingRepo, *stubVariants, uuid.UUID) {
	continente := models.ShippingZone{
		ID: uuid.New(), Code: "continente", Name: "Portugal Continental",
		PostalCodeStart: 1000, PostalCodeEnd: 8999,
		FreeShippingThresholdCents: threshold(15000),
		DisplayOrder:               0, Active: true,
	}
	madeira := models.ShippingZone{
		ID: uuid.New(), Code: "madeira", Name: "Madeira",
		PostalCodeStart: 9000, PostalCodeEnd: 9499,
		DisplayOrder: 1, Active: true,
	}

	small := models.ShippingClass{ID: uuid.New(), Code: "small", Name: "Pequeno", MaxWeightGrams: 2000, CarrierName: "CTT", Active: true}
	medium := models.ShippingClass{ID: uuid.New(), Code: "medium", Name: "Médio", MaxWeightGrams: 10000, CarrierName: "CTT Expresso", Active: true}

	repo := &stubShippingRepo{
		zones:   []models.ShippingZone{continente, madeira},
		classes: []models.ShippingClass{small, medium},
		rates: []models.ShippingRate{
			{
				ID: uuid.New(), ZoneID: continente.ID, ClassID: small.ID,
				MinWeightGrams: 0, MaxWeightGrams: 2000,
				BaseRateCents: 450, ExtraKgRateCents: 0,
				EstimatedDaysMin: 1, EstimatedDaysMax: 2, Active: true,
			},
			{
				ID: uuid.New(), ZoneID: continente.ID, ClassID: medium.ID,
				MinWeightGrams: 2001, MaxWeightGrams: 10000,
				BaseRateCents: 750, ExtraKgRateCents: 120,
				EstimatedDaysMin: 1, EstimatedDaysMax: 3, Active: true,
			},
		},
	}

	variantID := uuid.New()
	variants := &stubVariants{variants: map[uuid.UUID]models.ProductVariant{
		variantID: {ID: variantID, PriceCents: 2500, WeightGrams: 500, Active: true},
	}}
	return repo, variants, variantID
}

func TestCalculateResolvesZoneClassAndRate(t *testing.T) {
	repo, variants, variantID := buildFixture()
	svc, err := NewService(repo, variants)
	require.NoError(t, err)

	quote, err := svc.Calculate(context.Background(), CalculateInput{
		PostalCode: "1000-001",
		Items:      []CartItem{{VariantID: variantID, Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, "continente", quote.ZoneCode)
	assert.Equal(t, "small", quote.ClassCode)
	assert.Equal(t, "CTT", quote.CarrierName)
	assert.Equal(t, 450, quote.CostCents)
	assert.Equal(t, 1000, quote.TotalWeightGrams)
	assert.False(t, quote.IsFreeShipping)
}

func TestCalculateChargesStartedKilograms(t *testing.T) {
	repo, variants, variantID := buildFixture()
	svc, _ := NewService(repo, variants)

	// 6 units x 500g = 3000g: medium class band starts at 2001g, so
	// 999g of excess charges one started kilogram.
	quote, err := svc.Calculate(context.Background(), CalculateInput{
		PostalCode: "4700",
		Items:      []CartItem{{VariantID: variantID, Quantity: 6}},
	})
	require.NoError(t, err)

	assert.Equal(t, "medium", quote.ClassCode)
	assert.Equal(t, 750+120, quote.CostCents)
}

func TestCalculateFreeShippingOverThreshold(t *testing.T) {
	repo, variants, variantID := buildFixture()
	svc, _ := NewService(repo, variants)

	// 7 x 25.00 = 175.00 over the 150.00 threshold.
	quote, err := svc.Calculate(context.Background(), CalculateInput{
		PostalCode: "1000",
		Items:      []CartItem{{VariantID: variantID, Quantity: 7}},
	})
	require.NoError(t, err)

	assert.True(t, quote.IsFreeShipping)
	assert.Equal(t, 0, quote.CostCents)
	assert.Equal(t, 17500, quote.SubtotalCents)
}

func TestCalculateNoZone(t *testing.T) {
	repo, variants, variantID := buildFixture()
	svc, _ := NewService(repo, variants)

	_, err := svc.Calculate(context.Background(), CalculateInput{
		PostalCode: "9600-100",
		Items:      []CartItem{{VariantID: variantID, Quantity: 1}},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Contains(t, typed.Message(), "zone")
}

func TestCalculateNoRateForZone(t *testing.T) {
	repo, variants, variantID := buildFixture()
	svc, _ := NewService(repo, variants)

	// Madeira has no configured rates.
	_, err := svc.Calculate(context.Background(), CalculateInput{
		PostalCode: "9000-123",
		Items:      []CartItem{{VariantID: variantID, Quantity: 1}},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Contains(t, typed.Message(), "rate")
}

func TestCalculateInvalidPostalCode(t *testing.T) {
	repo, variants, variantID := buildFixture()
	svc, _ := NewService(repo, variants)

	_, err := svc.Calculate(context.Background(), CalculateInput{
		PostalCode: "999",
		Items:      []CartItem{{VariantID: variantID, Quantity: 1}},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateZoneRejectsInvertedRange(t *testing.T) {
	repo, variants, _ := buildFixture()
	svc, _ := NewService(repo, variants)

	_, err := svc.CreateZone(context.Background(), CreateZoneInput{
		Code: "test", Name: "Test", PostalCodeStart: 5000, PostalCodeEnd: 4000,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateRateRejectsInvertedBand(t *testing.T) {
	repo, variants, _ := buildFixture()
	svc, _ := NewService(repo, variants)

	_, err := svc.CreateRate(context.Background(), CreateRateInput{
		ZoneID: repo.zones[0].ID, ClassID: repo.classes[0].ID,
		MinWeightGrams: 2000, MaxWeightGrams: 1000,
		EstimatedDaysMin: 1, EstimatedDaysMax: 2,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
