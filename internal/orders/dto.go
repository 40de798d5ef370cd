package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/jocril/storefront-backend/pkg/enums"
	"github.com/jocril/storefront-backend/pkg/types"
)

// CustomerInput is the checkout customer block. An existing customer
// matched by email is updated in place.
type CustomerInput struct {
	Name  string
	Email string
	Phone *string
	NIF   *string
}

// OrderItemInput is one requested cart line.
type OrderItemInput struct {
	VariantID uuid.UUID
	Quantity  int
}

// CreateOrderInput carries everything needed to place an order.
type CreateOrderInput struct {
	Customer        CustomerInput
	ShippingAddress types.OrderAddress
	Items           []OrderItemInput
	PaymentMethod   enums.PaymentMethod
	CustomerNotes   *string
}

// OrderItemView is the line item shape returned to callers.
type OrderItemView struct {
	SKU                 string  `json:"sku"`
	Name                string  `json:"name"`
	SizeFormat          *string `json:"size_format,omitempty"`
	Quantity            int     `json:"quantity"`
	UnitPriceCents      int     `json:"unit_price_cents"`
	UnitPriceExVATCents int     `json:"unit_price_ex_vat_cents"`
	TotalCents          int     `json:"total_cents"`
}

// OrderView is the full order shape returned to callers.
type OrderView struct {
	OrderNumber        string              `json:"order_number"`
	Status             enums.OrderStatus   `json:"status"`
	PaymentStatus      enums.PaymentStatus `json:"payment_status"`
	PaymentMethod      enums.PaymentMethod `json:"payment_method"`
	SubtotalCents      int                 `json:"subtotal_cents"`
	SubtotalExVATCents int                 `json:"subtotal_ex_vat_cents"`
	ShippingCents      int                 `json:"shipping_cents"`
	ShippingExVATCents int                 `json:"shipping_ex_vat_cents"`
	TotalCents         int                 `json:"total_cents"`
	TotalExVATCents    int                 `json:"total_ex_vat_cents"`
	ShippingAddress    types.OrderAddress  `json:"shipping_address"`
	Items              []OrderItemView     `json:"items"`
	PaidAt             *time.Time          `json:"paid_at,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
}

// OrderStatusView is the lightweight status poll shape.
type OrderStatusView struct {
	OrderNumber   string              `json:"order_number"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	PaidAt        *time.Time          `json:"paid_at,omitempty"`
}

// OrderFilters describe the inputs supported by the admin order list.
type OrderFilters struct {
	Status        *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
	CustomerEmail string
	DateFrom      *time.Time
	DateTo        *time.Time
}

// OrderSummary is the admin list row.
type OrderSummary struct {
	OrderNumber   string              `json:"order_number"`
	CustomerEmail string              `json:"customer_email"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	TotalCents    int                 `json:"total_cents"`
	CreatedAt     time.Time           `json:"created_at"`
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// StatusUpdateInput is the admin status transition request.
type StatusUpdateInput struct {
	OrderNumber string
	Status      enums.OrderStatus
	ActorUserID uuid.UUID
	ActorRole   string
}

// OrderCreatedEvent is emitted when an order is placed.
type OrderCreatedEvent struct {
	OrderID       uuid.UUID           `json:"order_id"`
	OrderNumber   string              `json:"order_number"`
	CustomerID    uuid.UUID           `json:"customer_id"`
	CustomerEmail string              `json:"customer_email"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	SubtotalCents int                 `json:"subtotal_cents"`
	ShippingCents int                 `json:"shipping_cents"`
	TotalCents    int                 `json:"total_cents"`
	ItemCount     int                 `json:"item_count"`
}

// OrderStatusChangedEvent is emitted on admin driven transitions.
type OrderStatusChangedEvent struct {
	OrderID     uuid.UUID         `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	FromStatus  enums.OrderStatus `json:"from_status"`
	ToStatus    enums.OrderStatus `json:"to_status"`
}
