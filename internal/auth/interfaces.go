package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jocril/storefront-backend/pkg/db/models"
)

// Repository exposes the user persistence operations needed by the
// auth and authorization services.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role string) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}
