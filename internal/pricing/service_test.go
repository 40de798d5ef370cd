package pricing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jocril/storefront-backend/pkg/db/models"
	pkgerrors "github.com/jocril/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubPricingRepo struct {
	deleted       bool
	inserted      []models.PriceTier
	batchSize     int
	discountTiers []models.DiscountTier
}

func (s *stubPricingRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubPricingRepo) DeleteAllPriceTiers(ctx context.Context) error {
	s.deleted = true
	return nil
}

func (s *stubPricingRepo) CreatePriceTiersInBatches(ctx context.Context, tiers []models.PriceTier, batchSize int) error {
	s.inserted = tiers
	s.batchSize = batchSize
	return nil
}

func (s *stubPricingRepo) ReplaceDiscountTiers(ctx context.Context, tiers []models.DiscountTier) error {
	s.discountTiers = tiers
	return nil
}

func (s *stubPricingRepo) ListDiscountTiers(ctx context.Context) ([]models.DiscountTier, error) {
	return s.discountTiers, nil
}

type stubVariantSource struct {
	variants []models.ProductVariant
}

func (s *stubVariantSource) ListActiveVariants(ctx context.Context) ([]models.ProductVariant, error) {
	return s.variants, nil
}

type stubTxRunner struct {
	calls int
}

func (s *stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	s.calls++
	return fn(nil)
}

func TestApplyRegeneratesAllVariants(t *testing.T) {
	repo := &stubPricingRepo{}
	variants := &stubVariantSource{variants: []models.ProductVariant{
		{ID: uuid.New(), PriceCents: 250},
		{ID: uuid.New(), PriceCents: 1000},
		{ID: uuid.New(), PriceCents: 0},
	}}
	tx := &stubTxRunner{}

	svc, err := NewService(repo, variants, tx)
	require.NoError(t, err)

	result, err := svc.Apply(context.Background(), ApplyInput{Tiers: []TierConfig{
		tierConfig(200, 0.5),
		tierConfig(400, 1),
	}})
	require.NoError(t, err)

	assert.Equal(t, 2, result.VariantsUpdated)
	assert.Equal(t, len(repo.inserted), result.TiersCreated)
	assert.True(t, repo.deleted)
	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, insertBatchSize, repo.batchSize)
	require.Len(t, repo.discountTiers, 2)
	assert.True(t, repo.discountTiers[0].MinOrderValue.Equal(decimal.NewFromInt(200)))
}

func TestApplyRejectsEmptyConfiguration(t *testing.T) {
	svc, err := NewService(&stubPricingRepo{}, &stubVariantSource{}, &stubTxRunner{})
	require.NoError(t, err)

	_, err = svc.Apply(context.Background(), ApplyInput{})
	domainErr := pkgerrors.As(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, pkgerrors.CodeValidation, domainErr.Code())
}

func TestApplyRejectsOutOfRangeDiscount(t *testing.T) {
	svc, _ := NewService(&stubPricingRepo{}, &stubVariantSource{}, &stubTxRunner{})

	_, err := svc.Apply(context.Background(), ApplyInput{Tiers: []TierConfig{tierConfig(200, 150)}})
	domainErr := pkgerrors.As(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, pkgerrors.CodeValidation, domainErr.Code())
}

func TestApplyRejectsZeroDiscount(t *testing.T) {
	svc, _ := NewService(&stubPricingRepo{}, &stubVariantSource{}, &stubTxRunner{})

	_, err := svc.Apply(context.Background(), ApplyInput{Tiers: []TierConfig{tierConfig(200, 0)}})
	domainErr := pkgerrors.As(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, pkgerrors.CodeValidation, domainErr.Code())
}

func TestApplyNoActiveVariants(t *testing.T) {
	svc, _ := NewService(&stubPricingRepo{}, &stubVariantSource{}, &stubTxRunner{})

	_, err := svc.Apply(context.Background(), ApplyInput{Tiers: []TierConfig{tierConfig(200, 1)}})
	domainErr := pkgerrors.As(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, pkgerrors.CodeNotFound, domainErr.Code())
}
