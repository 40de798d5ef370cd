package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jocril/storefront-backend/pkg/db/models"
	"github.com/jocril/storefront-backend/pkg/enums"
	pkgerrors "github.com/jocril/storefront-backend/pkg/errors"
	"github.com/jocril/storefront-backend/pkg/eupago"
	"github.com/jocril/storefront-backend/pkg/logger"
	"github.com/jocril/storefront-backend/pkg/metrics"
	"github.com/jocril/storefront-backend/pkg/money"
	"github.com/jocril/storefront-backend/pkg/outbox"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// amountToleranceCents is how far the gateway reported amount may
// drift from the stored total before we log a mismatch. The payment
// is confirmed either way; the gateway already collected the money.
const amountToleranceCents = 1

const webhookGuardTTL = 48 * time.Hour

type gateway interface {
	CreateMultibancoReference(ctx context.Context, orderID string, amount decimal.Decimal) (*eupago.MultibancoReference, error)
	CreateMBWayPayment(ctx context.Context, orderID string, amount decimal.Decimal, phone string) (*eupago.MBWayPayment, error)
}

type guardStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	IdempotencyKey(scope, id string) string
	Del(ctx context.Context, keys ...string) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service exposes payment reference creation and webhook settlement.
type Service interface {
	RequestMultibanco(ctx context.Context, orderNumber string) (*MultibancoView, error)
	RequestMBWay(ctx context.Context, orderNumber, phone string) (*MBWayView, error)
	HandleWebhook(ctx context.Context, callback *eupago.Callback) string
}

type service struct {
	repo    Repository
	gateway gateway
	guard   guardStore
	tx      txRunner
	outbox  outboxPublisher
	metrics *metrics.PaymentMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// NewService builds a payments service with the required dependencies.
// metrics may be nil in tests.
func NewService(repo Repository, gw gateway, guard guardStore, tx txRunner, ob outboxPublisher, pm *metrics.PaymentMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if gw == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if guard == nil {
		return nil, fmt.Errorf("idempotency guard required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ob == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		gateway: gw,
		guard:   guard,
		tx:      tx,
		outbox:  ob,
		metrics: pm,
		logg:    logg,
		now:     time.Now,
	}, nil
}

// RequestMultibanco creates (or returns the existing) Multibanco
// reference for an order. Re-requests are idempotent: once a reference
// exists it is returned as-is instead of minting a duplicate at the
// gateway.
func (s *service) RequestMultibanco(ctx context.Context, orderNumber string) (*MultibancoView, error) {
	order, err := s.loadPayableOrder(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	if order.PaymentEntity != nil && order.PaymentReference != nil {
		view := &MultibancoView{
			OrderNumber:        order.OrderNumber,
			Entity:             *order.PaymentEntity,
			Reference:          *order.PaymentReference,
			ReferenceFormatted: eupago.FormatReference(*order.PaymentReference),
			AmountCents:        order.TotalCents,
		}
		if order.PaymentDeadline != nil {
			view.Deadline = *order.PaymentDeadline
		}
		return view, nil
	}

	ref, err := s.gateway.CreateMultibancoReference(ctx, order.OrderNumber, money.FromCents(order.TotalCents))
	if err != nil {
		return nil, mapGatewayError(err, "create multibanco reference")
	}

	updates := map[string]any{
		"payment_method":    enums.PaymentMethodMultibanco,
		"payment_entity":    ref.Entity,
		"payment_reference": ref.Reference,
		"payment_deadline":  ref.Deadline,
	}
	if err := s.repo.UpdateOrder(ctx, order.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store payment reference")
	}

	if s.metrics != nil {
		s.metrics.IncReference(enums.PaymentMethodMultibanco.String())
	}
	return &MultibancoView{
		OrderNumber:        order.OrderNumber,
		Entity:             ref.Entity,
		Reference:          ref.Reference,
		ReferenceFormatted: eupago.FormatReference(ref.Reference),
		AmountCents:        order.TotalCents,
		Deadline:           ref.Deadline,
	}, nil
}

// RequestMBWay pushes a payment request to the customer's phone. The
// phone is validated before any gateway call and only its masked form
// is stored or echoed back.
func (s *service) RequestMBWay(ctx context.Context, orderNumber, phone string) (*MBWayView, error) {
	if !eupago.ValidatePhoneNumber(phone) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid portuguese mobile number")
	}

	order, err := s.loadPayableOrder(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	payment, err := s.gateway.CreateMBWayPayment(ctx, order.OrderNumber, money.FromCents(order.TotalCents), phone)
	if err != nil {
		return nil, mapGatewayError(err, "create mbway payment")
	}

	masked := eupago.MaskPhoneNumber(phone)
	updates := map[string]any{
		"payment_method": enums.PaymentMethodMBWay,
		"payment_phone":  masked,
	}
	if payment.Reference != "" {
		updates["payment_reference"] = payment.Reference
	}
	if err := s.repo.UpdateOrder(ctx, order.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store payment request")
	}

	if s.metrics != nil {
		s.metrics.IncReference(enums.PaymentMethodMBWay.String())
	}
	return &MBWayView{
		OrderNumber: order.OrderNumber,
		MaskedPhone: masked,
		AmountCents: order.TotalCents,
	}, nil
}

// HandleWebhook settles a gateway confirmation. It never returns an
// error: the webhook endpoint answers 200 regardless, so retry storms
// cannot build up against a permanently unresolvable event. Every
// failure path is logged and counted instead.
func (s *service) HandleWebhook(ctx context.Context, callback *eupago.Callback) string {
	ctx = s.logg.WithOrderNumber(ctx, callback.Identificador)

	order, err := s.repo.FindByOrderNumber(ctx, callback.Identificador)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logg.Warn(ctx, "webhook for unknown order")
			return s.outcome(WebhookOutcomeUnknownOrder)
		}
		s.logg.Error(ctx, "webhook order lookup failed", err)
		return s.outcome(WebhookOutcomeError)
	}

	if order.PaymentStatus == enums.PaymentStatusPaid {
		s.logg.Info(ctx, "webhook for already paid order ignored")
		return s.outcome(WebhookOutcomeDuplicate)
	}

	guardKey := s.guard.IdempotencyKey("eupago-webhook", callback.Transacao)
	guardHeld := false
	acquired, err := s.guard.SetNX(ctx, guardKey, order.OrderNumber, webhookGuardTTL)
	switch {
	case err != nil:
		// Redis being down must not block settlement; the DB
		// compare-and-swap below still guarantees one winner.
		s.logg.Warn(ctx, "webhook idempotency guard unavailable")
	case !acquired:
		s.logg.Info(ctx, "webhook transaction already processed")
		return s.outcome(WebhookOutcomeDuplicate)
	default:
		guardHeld = true
	}

	reportedCents := money.ToCents(callback.Valor)
	if !money.CentsWithinTolerance(reportedCents, order.TotalCents, amountToleranceCents) {
		mismatchCtx := s.logg.WithFields(ctx, map[string]any{
			"reported_cents": reportedCents,
			"expected_cents": order.TotalCents,
			"transaction_id": callback.Transacao,
		})
		s.logg.Warn(mismatchCtx, "webhook amount mismatch, confirming anyway")
		if s.metrics != nil {
			s.metrics.IncWebhook(WebhookOutcomeMismatch)
		}
	}

	won := false
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ok, err := repo.MarkPaid(ctx, order.ID, s.now(), callback.Transacao)
		if err != nil {
			return err
		}
		won = ok
		if !ok {
			return nil
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderPaid,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Data: OrderPaidEvent{
				OrderID:       order.ID,
				OrderNumber:   order.OrderNumber,
				AmountCents:   reportedCents,
				TransactionID: callback.Transacao,
				PaymentMethod: order.PaymentMethod,
			},
			Version: 1,
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		// Release the guard so the gateway's redelivery can settle the
		// order; otherwise the retry is misread as a duplicate.
		if guardHeld {
			if delErr := s.guard.Del(ctx, guardKey); delErr != nil {
				s.logg.Warn(ctx, "webhook guard release failed")
			}
		}
		s.logg.Error(ctx, "webhook settlement failed", err)
		return s.outcome(WebhookOutcomeError)
	}
	if !won {
		return s.outcome(WebhookOutcomeDuplicate)
	}

	s.logg.Info(ctx, "order payment confirmed")
	return s.outcome(WebhookOutcomePaid)
}

func (s *service) outcome(outcome string) string {
	if s.metrics != nil {
		s.metrics.IncWebhook(outcome)
	}
	return outcome
}

func (s *service) loadPayableOrder(ctx context.Context, orderNumber string) (*models.Order, error) {
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
	if order.PaymentStatus == enums.PaymentStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order already paid")
	}
	if order.Status == enums.OrderStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is cancelled")
	}
	return order, nil
}

func mapGatewayError(err error, op string) error {
	var gwErr *eupago.Error
	if errors.As(err, &gwErr) {
		if gwErr.Rejected {
			return pkgerrors.New(pkgerrors.CodeGateway, gwErr.Message)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}
