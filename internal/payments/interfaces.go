package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jocril/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines the payment persistence operations on orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	MarkPaid(ctx context.Context, orderID uuid.UUID, paidAt time.Time, transactionID string) (bool, error)
}
