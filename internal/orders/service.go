package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jocril/storefront-backend/internal/shipping"
	"github.com/jocril/storefront-backend/pkg/db/models"
	"github.com/jocril/storefront-backend/pkg/enums"
	pkgerrors "github.com/jocril/storefront-backend/pkg/errors"
	"github.com/jocril/storefront-backend/pkg/money"
	"github.com/jocril/storefront-backend/pkg/outbox"
	"github.com/jocril/storefront-backend/pkg/pagination"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type stockAdjuster interface {
	Decrement(ctx context.Context, tx *gorm.DB, variantID uuid.UUID, qty int) error
}

type variantSource interface {
	VariantsByIDs(ctx context.Context, variantIDs []uuid.UUID) ([]models.ProductVariant, error)
}

type shippingQuoter interface {
	Calculate(ctx context.Context, input shipping.CalculateInput) (*shipping.Quote, error)
}

// Service defines order lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*OrderView, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*OrderView, error)
	Status(ctx context.Context, orderNumber string) (*OrderStatusView, error)
	List(ctx context.Context, params pagination.Params, filters OrderFilters) (*OrderList, error)
	UpdateStatus(ctx context.Context, input StatusUpdateInput) (*OrderStatusView, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	outbox   outboxPublisher
	stock    stockAdjuster
	variants variantSource
	quoter   shippingQuoter
	now      func() time.Time
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository, tx txRunner, ob outboxPublisher, stock stockAdjuster, variants variantSource, quoter shippingQuoter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ob == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock adjuster required")
	}
	if variants == nil {
		return nil, fmt.Errorf("variant source required")
	}
	if quoter == nil {
		return nil, fmt.Errorf("shipping quoter required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		outbox:   ob,
		stock:    stock,
		variants: variants,
		quoter:   quoter,
		now:      time.Now,
	}, nil
}

// Create places an order: customer upsert, order plus item snapshots,
// stock decrement and the created event all commit atomically.
func (s *service) Create(ctx context.Context, input CreateOrderInput) (*OrderView, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	variantIDs := make([]uuid.UUID, 0, len(input.Items))
	for _, item := range input.Items {
		variantIDs = append(variantIDs, item.VariantID)
	}
	variants, err := s.variants.VariantsByIDs(ctx, variantIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*models.ProductVariant, len(variants))
	for i := range variants {
		byID[variants[i].ID] = &variants[i]
	}

	items := make([]models.OrderItem, 0, len(input.Items))
	subtotalCents := 0
	for _, line := range input.Items {
		variant, ok := byID[line.VariantID]
		if !ok || !variant.Active {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}

		unitCents := variant.PriceCents
		if tier, err := s.repo.FindPriceTierFor(ctx, variant.ID, line.Quantity); err == nil {
			unitCents = money.ToCents(tier.PricePerUnit)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price tier")
		}

		items = append(items, models.OrderItem{
			VariantID:           variant.ID,
			SKU:                 variant.SKU,
			Name:                variantDisplayName(variant),
			SizeFormat:          variant.Size,
			Quantity:            line.Quantity,
			UnitPriceCents:      unitCents,
			UnitPriceExVATCents: money.CentsWithoutVAT(unitCents),
			TotalCents:          unitCents * line.Quantity,
		})
		subtotalCents += unitCents * line.Quantity
	}

	quote, err := s.quoter.Calculate(ctx, shipping.CalculateInput{
		PostalCode: input.ShippingAddress.PostalCode,
		Items:      toCartItems(input.Items),
	})
	if err != nil {
		return nil, err
	}

	totalCents := subtotalCents + quote.CostCents
	order := &models.Order{
		OrderNumber:        GenerateOrderNumber(s.now()),
		Status:             enums.OrderStatusPending,
		PaymentStatus:      enums.PaymentStatusPending,
		PaymentMethod:      input.PaymentMethod,
		SubtotalCents:      subtotalCents,
		SubtotalExVATCents: money.CentsWithoutVAT(subtotalCents),
		ShippingCents:      quote.CostCents,
		ShippingExVATCents: money.CentsWithoutVAT(quote.CostCents),
		TotalCents:         totalCents,
		TotalExVATCents:    money.CentsWithoutVAT(totalCents),
		ShippingAddress:    input.ShippingAddress,
		CustomerNotes:      input.CustomerNotes,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		customer, err := s.upsertCustomer(ctx, repo, input.Customer)
		if err != nil {
			return err
		}
		order.CustomerID = customer.ID

		if _, err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := repo.CreateOrderItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}
		for _, line := range input.Items {
			if err := s.stock.Decrement(ctx, tx, line.VariantID, line.Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
			}
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Data: OrderCreatedEvent{
				OrderID:       order.ID,
				OrderNumber:   order.OrderNumber,
				CustomerID:    customer.ID,
				CustomerEmail: customer.Email,
				PaymentMethod: order.PaymentMethod,
				SubtotalCents: order.SubtotalCents,
				ShippingCents: order.ShippingCents,
				TotalCents:    order.TotalCents,
				ItemCount:     len(items),
			},
			Version: 1,
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit order created")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Items = items
	return toOrderView(order), nil
}

func (s *service) upsertCustomer(ctx context.Context, repo Repository, input CustomerInput) (*models.Customer, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	existing, err := repo.FindCustomerByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	if existing != nil {
		updates := map[string]any{"name": strings.TrimSpace(input.Name)}
		if input.Phone != nil {
			updates["phone"] = *input.Phone
		}
		if input.NIF != nil {
			updates["nif"] = *input.NIF
		}
		if err := repo.UpdateCustomer(ctx, existing.ID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer")
		}
		return existing, nil
	}

	customer := &models.Customer{
		Email: email,
		Name:  strings.TrimSpace(input.Name),
		Phone: input.Phone,
		NIF:   input.NIF,
	}
	if _, err := repo.CreateCustomer(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
	}
	return customer, nil
}

func (s *service) GetByOrderNumber(ctx context.Context, orderNumber string) (*OrderView, error) {
	order, err := s.loadOrder(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	return toOrderView(order), nil
}

func (s *service) Status(ctx context.Context, orderNumber string) (*OrderStatusView, error) {
	order, err := s.loadOrder(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	return toStatusView(order), nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	list, err := s.repo.ListOrders(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

// UpdateStatus applies an admin transition. Backward moves and moves
// out of a terminal state are rejected.
func (s *service) UpdateStatus(ctx context.Context, input StatusUpdateInput) (*OrderStatusView, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	order, err := s.loadOrder(ctx, input.OrderNumber)
	if err != nil {
		return nil, err
	}
	if order.Status == input.Status {
		return toStatusView(order), nil
	}
	if !order.Status.CanTransitionTo(input.Status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, input.Status))
	}

	updates := map[string]any{"status": input.Status}
	if input.Status == enums.OrderStatusCancelled {
		updates["cancelled_at"] = s.now()
	}

	from := order.Status
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}

		eventType := enums.EventOrderStatusChanged
		if input.Status == enums.OrderStatusCancelled {
			eventType = enums.EventOrderCancelled
		}
		event := outbox.DomainEvent{
			EventType:     eventType,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: input.ActorUserID, Role: input.ActorRole},
			Data: OrderStatusChangedEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				FromStatus:  from,
				ToStatus:    input.Status,
			},
			Version: 1,
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit status change")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Status = input.Status
	return toStatusView(order), nil
}

func (s *service) loadOrder(ctx context.Context, orderNumber string) (*models.Order, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number required")
	}
	order, err := s.repo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func validateCreateInput(input CreateOrderInput) error {
	if strings.TrimSpace(input.Customer.Name) == "" || strings.TrimSpace(input.Customer.Email) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name and email required")
	}
	addr := input.ShippingAddress
	if strings.TrimSpace(addr.Line1) == "" || strings.TrimSpace(addr.City) == "" || strings.TrimSpace(addr.PostalCode) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping address incomplete")
	}
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order has no items")
	}
	for _, item := range input.Items {
		if item.VariantID == uuid.Nil || item.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "order items must reference a variant with positive quantity")
		}
	}
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}
	return nil
}

func toCartItems(items []OrderItemInput) []shipping.CartItem {
	out := make([]shipping.CartItem, 0, len(items))
	for _, item := range items {
		out = append(out, shipping.CartItem{VariantID: item.VariantID, Quantity: item.Quantity})
	}
	return out
}

func variantDisplayName(variant *models.ProductVariant) string {
	name := variant.SKU
	if variant.Product != nil {
		name = variant.Product.Name
	}
	if variant.Color != nil && *variant.Color != "" {
		name += " " + *variant.Color
	}
	return name
}

func toOrderView(order *models.Order) *OrderView {
	view := &OrderView{
		OrderNumber:        order.OrderNumber,
		Status:             order.Status,
		PaymentStatus:      order.PaymentStatus,
		PaymentMethod:      order.PaymentMethod,
		SubtotalCents:      order.SubtotalCents,
		SubtotalExVATCents: order.SubtotalExVATCents,
		ShippingCents:      order.ShippingCents,
		ShippingExVATCents: order.ShippingExVATCents,
		TotalCents:         order.TotalCents,
		TotalExVATCents:    order.TotalExVATCents,
		ShippingAddress:    order.ShippingAddress,
		Items:              make([]OrderItemView, 0, len(order.Items)),
		PaidAt:             order.PaidAt,
		CreatedAt:          order.CreatedAt,
	}
	for _, item := range order.Items {
		view.Items = append(view.Items, OrderItemView{
			SKU:                 item.SKU,
			Name:                item.Name,
			SizeFormat:          item.SizeFormat,
			Quantity:            item.Quantity,
			UnitPriceCents:      item.UnitPriceCents,
			UnitPriceExVATCents: item.UnitPriceExVATCents,
			TotalCents:          item.TotalCents,
		})
	}
	return view
}

func toStatusView(order *models.Order) *OrderStatusView {
	return &OrderStatusView{
		OrderNumber:   order.OrderNumber,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		PaidAt:        order.PaidAt,
	}
}
