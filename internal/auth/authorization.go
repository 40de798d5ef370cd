package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jocril/storefront-backend/pkg/config"
	"github.com/jocril/storefront-backend/pkg/enums"
)

// AuthorizationService answers capability checks for a verified principal.
type AuthorizationService interface {
	IsAdmin(ctx context.Context, principal Principal) bool
}

// authorizer decides admin access with a tiered check: the role already
// carried by the token, then the configured email allowlist, then the
// user's current role in the database. The first two tiers avoid a DB
// round trip on the hot path; the last one picks up role changes made
// after the token was minted.
type authorizer struct {
	repo      Repository
	allowlist map[string]struct{}
}

// NewAuthorizer builds the admin capability check.
func NewAuthorizer(repo Repository, adminCfg config.AdminConfig) AuthorizationService {
	return &authorizer{
		repo:      repo,
		allowlist: adminCfg.EmailAllowlist(),
	}
}

func (a *authorizer) IsAdmin(ctx context.Context, principal Principal) bool {
	if principal.Role == enums.UserRoleAdmin {
		return true
	}

	email := strings.ToLower(strings.TrimSpace(principal.Email))
	if email != "" {
		if _, ok := a.allowlist[email]; ok {
			return true
		}
	}

	if a.repo == nil || principal.UserID == uuid.Nil {
		return false
	}
	user, err := a.repo.FindByID(ctx, principal.UserID)
	if err != nil {
		return false
	}
	return user.Active && user.Role == enums.UserRoleAdmin
}
