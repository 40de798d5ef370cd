package payments

import (
	"time"

	"github.com/google/uuid"
	"github.com/jocril/storefront-backend/pkg/enums"
)

// MultibancoView is the payable reference returned to the storefront.
type MultibancoView struct {
	OrderNumber        string    `json:"order_number"`
	Entity             string    `json:"entity"`
	Reference          string    `json:"reference"`
	ReferenceFormatted string    `json:"reference_formatted"`
	AmountCents        int       `json:"amount_cents"`
	Deadline           time.Time `json:"deadline"`
}

// MBWayView acknowledges a push payment request. The phone is masked
// before leaving the backend.
type MBWayView struct {
	OrderNumber string `json:"order_number"`
	MaskedPhone string `json:"masked_phone"`
	AmountCents int    `json:"amount_cents"`
}

// Webhook outcomes recorded in metrics and logs.
const (
	WebhookOutcomePaid         = "paid"
	WebhookOutcomeDuplicate    = "duplicate"
	WebhookOutcomeUnknownOrder = "unknown_order"
	WebhookOutcomeMismatch     = "mismatch"
	WebhookOutcomeError        = "error"
)

// OrderPaidEvent is emitted when a webhook confirms payment.
type OrderPaidEvent struct {
	OrderID       uuid.UUID           `json:"order_id"`
	OrderNumber   string              `json:"order_number"`
	AmountCents   int                 `json:"amount_cents"`
	TransactionID string              `json:"transaction_id"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
}
