package orders

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jocril/storefront-backend/internal/shipping"
	"github.com/jocril/storefront-backend/pkg/db/models"
	"github.com/jocril/storefront-backend/pkg/enums"
	pkgerrors "github.com/jocril/storefront-backend/pkg/errors"
	"github.com/jocril/storefront-backend/pkg/outbox"
	"github.com/jocril/storefront-backend/pkg/pagination"
	"github.com/jocril/storefront-backend/pkg/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubOrdersRepo struct {
	customersByEmail map[string]*models.Customer
	orders           map[string]*models.Order
	items            []models.OrderItem
	tiers            map[uuid.UUID][]models.PriceTier
	orderUpdates     map[string]any
}

func newStubOrdersRepo() *stubOrdersRepo {
	return &stubOrdersRepo{
		customersByEmail: make(map[string]*models.Customer),
		orders:           make(map[string]*models.Order),
		tiers:            make(map[uuid.UUID][]models.PriceTier),
	}
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrdersRepo) FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	if c, ok := s.customersByEmail[email]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	s.customersByEmail[customer.Email] = customer
	return customer, nil
}

func (s *stubOrdersRepo) UpdateCustomer(ctx context.Context, customerID uuid.UUID, updates map[string]any) error {
	return nil
}

func (s *stubOrdersRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.orders[order.OrderNumber] = order
	return order, nil
}

func (s *stubOrdersRepo) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	s.items = append(s.items, items...)
	return nil
}

func (s *stubOrdersRepo) FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	if o, ok := s.orders[orderNumber]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) FindCustomerByID(ctx context.Context, customerID uuid.UUID) (*models.Customer, error) {
	for _, c := range s.customersByEmail {
		if c.ID == customerID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) ListOrders(ctx context.Context, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	return &OrderList{}, nil
}

func (s *stubOrdersRepo) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	s.orderUpdates = updates
	return nil
}

func (s *stubOrdersRepo) FindPriceTierFor(ctx context.Context, variantID uuid.UUID, quantity int) (*models.PriceTier, error) {
	var best *models.PriceTier
	for i := range s.tiers[variantID] {
		tier := &s.tiers[variantID][i]
		if tier.MinQuantity <= quantity && (tier.MaxQuantity == nil || *tier.MaxQuantity >= quantity) {
			if best == nil || tier.MinQuantity > best.MinQuantity {
				best = tier
			}
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return best, nil
}

type stubOrderTx struct{ calls int }

func (s *stubOrderTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	s.calls++
	return fn(nil)
}

type stubOutbox struct {
	events []outbox.DomainEvent
}

func (s *stubOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

type stubStock struct {
	decremented map[uuid.UUID]int
}

func (s *stubStock) Decrement(ctx context.Context, tx *gorm.DB, variantID uuid.UUID, qty int) error {
	if s.decremented == nil {
		s.decremented = make(map[uuid.UUID]int)
	}
	s.decremented[variantID] += qty
	return nil
}

type stubOrderVariants struct {
	variants map[uuid.UUID]models.ProductVariant
}

func (s *stubOrderVariants) VariantsByIDs(ctx context.Context, variantIDs []uuid.UUID) ([]models.ProductVariant, error) {
	var out []models.ProductVariant
	for _, id := range variantIDs {
		if v, ok := s.variants[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

type stubQuoter struct {
	quote *shipping.Quote
	err   error
}

func (s *stubQuoter) Calculate(ctx context.Context, input shipping.CalculateInput) (*shipping.Quote, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.quote, nil
}

func validAddress() types.OrderAddress {
	return types.OrderAddress{
		Name:       "Maria Silva",
		Line1:      "Rua das Flores 1",
		City:       "Lisboa",
		PostalCode: "1000-001",
		Country:    "PT",
	}
}

func buildOrderService(t *testing.T) (Service, *stubOrdersRepo, *stubOutbox, *stubStock, uuid.UUID) {
	t.Helper()

	repo := newStubOrdersRepo()
	ob := &stubOutbox{}
	stock := &stubStock{}

	variantID := uuid.New()
	product := &models.Product{ID: uuid.New(), Name: "Expositor De Mesa"}
	variants := &stubOrderVariants{variants: map[uuid.UUID]models.ProductVariant{
		variantID: {
			ID: variantID, ProductID: product.ID, Product: product,
			SKU: "EDM-A4", PriceCents: 250, WeightGrams: 300, Active: true,
		},
	}}
	quoter := &stubQuoter{quote: &shipping.Quote{CostCents: 450, ZoneCode: "continente"}}

	svc, err := NewService(repo, &stubOrderTx{}, ob, stock, variants, quoter)
	require.NoError(t, err)
	return svc, repo, ob, stock, variantID
}

func TestCreateOrderHappyPath(t *testing.T) {
	svc, repo, ob, stock, variantID := buildOrderService(t)

	view, err := svc.Create(context.Background(), CreateOrderInput{
		Customer:        CustomerInput{Name: "Maria Silva", Email: "Maria@Example.com"},
		ShippingAddress: validAddress(),
		Items:           []OrderItemInput{{VariantID: variantID, Quantity: 4}},
		PaymentMethod:   enums.PaymentMethodMultibanco,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(view.OrderNumber, "JCR-"), "order number %q", view.OrderNumber)
	assert.Equal(t, enums.OrderStatusPending, view.Status)
	assert.Equal(t, enums.PaymentStatusPending, view.PaymentStatus)
	assert.Equal(t, 1000, view.SubtotalCents)
	assert.Equal(t, 450, view.ShippingCents)
	assert.Equal(t, 1450, view.TotalCents)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Expositor De Mesa", view.Items[0].Name)

	// customer stored lowercased
	_, ok := repo.customersByEmail["maria@example.com"]
	assert.True(t, ok)

	assert.Equal(t, 4, stock.decremented[variantID])

	require.Len(t, ob.events, 1)
	assert.Equal(t, enums.EventOrderCreated, ob.events[0].EventType)
	assert.Equal(t, enums.AggregateOrder, ob.events[0].AggregateType)
}

func TestCreateOrderStoresVATSplit(t *testing.T) {
	svc, _, _, _, variantID := buildOrderService(t)

	view, err := svc.Create(context.Background(), CreateOrderInput{
		Customer:        CustomerInput{Name: "Maria Silva", Email: "maria@example.com"},
		ShippingAddress: validAddress(),
		Items:           []OrderItemInput{{VariantID: variantID, Quantity: 4}},
		PaymentMethod:   enums.PaymentMethodMultibanco,
	})
	require.NoError(t, err)

	// Gross amounts divided by 1.23, rounded to the cent.
	assert.Equal(t, 813, view.SubtotalExVATCents)
	assert.Equal(t, 366, view.ShippingExVATCents)
	assert.Equal(t, 1179, view.TotalExVATCents)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 203, view.Items[0].UnitPriceExVATCents)
}

func TestCreateOrderAppliesPriceTier(t *testing.T) {
	svc, repo, _, _, variantID := buildOrderService(t)

	maxQty := 159
	repo.tiers[variantID] = []models.PriceTier{{
		VariantID:    variantID,
		MinQuantity:  80,
		MaxQuantity:  &maxQty,
		PricePerUnit: decimal.NewFromFloat(2.0),
	}}

	view, err := svc.Create(context.Background(), CreateOrderInput{
		Customer:        CustomerInput{Name: "Maria", Email: "maria@example.com"},
		ShippingAddress: validAddress(),
		Items:           []OrderItemInput{{VariantID: variantID, Quantity: 100}},
		PaymentMethod:   enums.PaymentMethodMBWay,
	})
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, 200, view.Items[0].UnitPriceCents)
	assert.Equal(t, 20000, view.Items[0].TotalCents)
}

func TestCreateOrderUnknownVariant(t *testing.T) {
	svc, _, _, _, _ := buildOrderService(t)

	_, err := svc.Create(context.Background(), CreateOrderInput{
		Customer:        CustomerInput{Name: "Maria", Email: "maria@example.com"},
		ShippingAddress: validAddress(),
		Items:           []OrderItemInput{{VariantID: uuid.New(), Quantity: 1}},
		PaymentMethod:   enums.PaymentMethodMultibanco,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCreateOrderValidation(t *testing.T) {
	svc, _, _, _, variantID := buildOrderService(t)

	_, err := svc.Create(context.Background(), CreateOrderInput{
		Customer:        CustomerInput{Name: "", Email: ""},
		ShippingAddress: validAddress(),
		Items:           []OrderItemInput{{VariantID: variantID, Quantity: 1}},
		PaymentMethod:   enums.PaymentMethodMultibanco,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdateStatusForwardTransition(t *testing.T) {
	svc, repo, ob, _, _ := buildOrderService(t)

	repo.orders["JCR-1"] = &models.Order{
		ID: uuid.New(), OrderNumber: "JCR-1",
		Status: enums.OrderStatusProcessing, PaymentStatus: enums.PaymentStatusPaid,
	}

	view, err := svc.UpdateStatus(context.Background(), StatusUpdateInput{
		OrderNumber: "JCR-1",
		Status:      enums.OrderStatusShipped,
		ActorUserID: uuid.New(),
		ActorRole:   "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, view.Status)

	require.Len(t, ob.events, 1)
	assert.Equal(t, enums.EventOrderStatusChanged, ob.events[0].EventType)
}

func TestUpdateStatusRejectsBackwardTransition(t *testing.T) {
	svc, repo, _, _, _ := buildOrderService(t)

	repo.orders["JCR-2"] = &models.Order{
		ID: uuid.New(), OrderNumber: "JCR-2",
		Status: enums.OrderStatusShipped,
	}

	_, err := svc.UpdateStatus(context.Background(), StatusUpdateInput{
		OrderNumber: "JCR-2",
		Status:      enums.OrderStatusPending,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestUpdateStatusCancelSetsTimestamp(t *testing.T) {
	svc, repo, ob, _, _ := buildOrderService(t)

	repo.orders["JCR-3"] = &models.Order{
		ID: uuid.New(), OrderNumber: "JCR-3",
		Status: enums.OrderStatusConfirmed,
	}

	view, err := svc.UpdateStatus(context.Background(), StatusUpdateInput{
		OrderNumber: "JCR-3",
		Status:      enums.OrderStatusCancelled,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, view.Status)
	assert.NotNil(t, repo.orderUpdates["cancelled_at"])

	require.Len(t, ob.events, 1)
	assert.Equal(t, enums.EventOrderCancelled, ob.events[0].EventType)
}

func TestGenerateOrderNumberShape(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	number := GenerateOrderNumber(now)

	parts := strings.SplitN(number, "-", 3)
	require.Len(t, parts, 3)
	assert.Equal(t, "JCR", parts[0])
	assert.Equal(t, "1740830400000", parts[1])
	assert.Len(t, parts[2], 9)
}
