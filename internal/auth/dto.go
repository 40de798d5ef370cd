package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/jocril/storefront-backend/pkg/db/models"
	"github.com/jocril/storefront-backend/pkg/enums"
)

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the token and user produced by a successful login.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        *UserView `json:"user"`
}

// UserView is the back-office user shape returned by the API.
type UserView struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	Name        string         `json:"name"`
	Role        enums.UserRole `json:"role"`
	Active      bool           `json:"active"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// UpdateRoleInput sets a user's back-office role.
type UpdateRoleInput struct {
	UserID uuid.UUID `json:"-"`
	Role   string    `json:"role" validate:"required"`
}

// Principal is the authenticated identity extracted from a verified
// access token. It is what authorization decisions are made against.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   enums.UserRole
}

// FromModel converts a persisted user into its API view.
func FromModel(user *models.User) *UserView {
	if user == nil {
		return nil
	}
	return &UserView{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Role:        user.Role,
		Active:      user.Active,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}
