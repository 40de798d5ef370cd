package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jocril/storefront-backend/pkg/enums"
	"github.com/jocril/storefront-backend/pkg/types"
)

// Order is a customer purchase. Amounts are stored in cents both VAT
// inclusive and VAT exclusive at the 23% Portuguese rate.
type Order struct {
	ID                 uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber        string              `gorm:"column:order_number;not null;uniqueIndex"`
	CustomerID         uuid.UUID           `gorm:"column:customer_id;type:uuid;not null;index"`
	Status             enums.OrderStatus   `gorm:"column:status;type:order_status;not null;default:'pending'"`
	PaymentStatus      enums.PaymentStatus `gorm:"column:payment_status;type:payment_status;not null;default:'pending'"`
	PaymentMethod      enums.PaymentMethod `gorm:"column:payment_method;type:payment_method"`
	SubtotalCents      int                 `gorm:"column:subtotal_cents;not null"`
	SubtotalExVATCents int                 `gorm:"column:subtotal_ex_vat_cents;not null;default:0"`
	ShippingCents      int                 `gorm:"column:shipping_cents;not null;default:0"`
	ShippingExVATCents int                 `gorm:"column:shipping_ex_vat_cents;not null;default:0"`
	TotalCents         int                 `gorm:"column:total_cents;not null"`
	TotalExVATCents    int                 `gorm:"column:total_ex_vat_cents;not null;default:0"`
	ShippingAddress    types.OrderAddress  `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	CustomerNotes      *string             `gorm:"column:customer_notes"`

	// EuPago payment reference fields, populated once a reference
	// or MB Way request has been created for the order.
	PaymentEntity    *string    `gorm:"column:payment_entity"`
	PaymentReference *string    `gorm:"column:payment_reference"`
	PaymentPhone     *string    `gorm:"column:payment_phone"`
	PaymentDeadline  *time.Time `gorm:"column:payment_deadline"`
	TransactionID    *string    `gorm:"column:transaction_id"`

	Items       []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PaidAt      *time.Time  `gorm:"column:paid_at"`
	CancelledAt *time.Time  `gorm:"column:cancelled_at"`
	CreatedAt   time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is a purchased line, frozen at checkout prices.
type OrderItem struct {
	ID                  uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID             uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	VariantID           uuid.UUID `gorm:"column:variant_id;type:uuid;not null"`
	SKU                 string    `gorm:"column:sku;not null"`
	Name                string    `gorm:"column:name;not null"`
	SizeFormat          *string   `gorm:"column:size_format"`
	Quantity            int       `gorm:"column:quantity;not null"`
	UnitPriceCents      int       `gorm:"column:unit_price_cents;not null"`
	UnitPriceExVATCents int       `gorm:"column:unit_price_ex_vat_cents;not null;default:0"`
	TotalCents          int       `gorm:"column:total_cents;not null"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime"`
}
