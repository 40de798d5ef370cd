package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/jocril/storefront-backend/pkg/db/models"
	"github.com/jocril/storefront-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository defines persistence operations for customers and orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
	CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, customerID uuid.UUID, updates map[string]any) error
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	FindCustomerByID(ctx context.Context, customerID uuid.UUID) (*models.Customer, error)
	ListOrders(ctx context.Context, params pagination.Params, filters OrderFilters) (*OrderList, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	FindPriceTierFor(ctx context.Context, variantID uuid.UUID, quantity int) (*models.PriceTier, error)
}
