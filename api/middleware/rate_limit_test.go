package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jocril/storefront-backend/internal/auth"
	"github.com/jocril/storefront-backend/pkg/enums"
)

type stubLimiter struct {
	scopes []string
	allow  bool
	err    error
}

func (s *stubLimiter) FixedWindowAllow(_ context.Context, scope string, _ int64, _ time.Duration) (bool, int64, error) {
	s.scopes = append(s.scopes, scope)
	if s.err != nil {
		return false, 0, s.err
	}
	return s.allow, 1, nil
}

func limitHandler(store rateLimiterStore) http.Handler {
	policy := RateLimitPolicy{Name: "public", Window: time.Minute, Limit: 10}
	return RateLimit(policy, store, testMiddlewareLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRateLimitAllowsUnderLimit(t *testing.T) {
	store := &stubLimiter{allow: true}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:4411"
	resp := httptest.NewRecorder()
	limitHandler(store).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if len(store.scopes) != 1 || store.scopes[0] != "public:ip:203.0.113.9" {
		t.Fatalf("unexpected scopes %v", store.scopes)
	}
}

func TestRateLimitBlocksOverLimit(t *testing.T) {
	store := &stubLimiter{allow: false}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	limitHandler(store).ServeHTTP(resp, req)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", resp.Code)
	}
}

func TestRateLimitFailsOpenOnLimiterError(t *testing.T) {
	store := &stubLimiter{err: errors.New("redis down")}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	limitHandler(store).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestRateLimitScopesAuthenticatedRequestsPerUser(t *testing.T) {
	store := &stubLimiter{allow: true}
	principal := auth.Principal{UserID: uuid.New(), Role: enums.UserRoleAdmin}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithPrincipal(req.Context(), principal))
	resp := httptest.NewRecorder()
	limitHandler(store).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	want := "public:user:" + principal.UserID.String()
	if len(store.scopes) != 1 || store.scopes[0] != want {
		t.Fatalf("unexpected scopes %v", store.scopes)
	}
}

func TestRateLimitHonorsForwardedFor(t *testing.T) {
	store := &stubLimiter{allow: true}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
	resp := httptest.NewRecorder()
	limitHandler(store).ServeHTTP(resp, req)
	if len(store.scopes) != 1 || store.scopes[0] != "public:ip:198.51.100.7" {
		t.Fatalf("unexpected scopes %v", store.scopes)
	}
}
