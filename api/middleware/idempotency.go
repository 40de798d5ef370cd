package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jocril/storefront-backend/api/responses"
	pkgerrors "github.com/jocril/storefront-backend/pkg/errors"
	"github.com/jocril/storefront-backend/pkg/logger"
	pkgredis "github.com/jocril/storefront-backend/pkg/redis"
)

// Order creation moves money, so replays keep their stored answer for
// a full week.
const orderIdempotencyTTL = 7 * 24 * time.Hour

type idempotencyRule struct {
	method  string
	pattern string
	ttl     time.Duration
}

var idempotencyRules = []idempotencyRule{
	{method: http.MethodPost, pattern: "/api/orders", ttl: orderIdempotencyTTL},
}

// storedResponse is the replay record persisted in redis.
type storedResponse struct {
	Status      int    `json:"status"`
	Body        string `json:"body"`
	ContentType string `json:"contentType,omitempty"`
	RequestHash string `json:"requestHash"`
}

type idempotencyGuard struct {
	store pkgredis.IdempotencyStore
	logg  *logger.Logger
	next  http.Handler
}

// Idempotency replays the stored response when an Idempotency-Key is
// reused with an identical request body, and rejects reuse with a
// different body.
func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return &idempotencyGuard{store: store, logg: logg, next: next}
	}
}

func (g *idempotencyGuard) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ttl, guarded := matchIdempotentRoute(r)
	if !guarded || g.store == nil {
		g.next.ServeHTTP(w, r)
		return
	}

	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if key == "" {
		g.reject(w, r, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header required"))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		g.reject(w, r, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	requestHash := fingerprint(body)
	redisKey := g.store.IdempotencyKey(r.Method+"|"+r.URL.Path, key)

	prior, err := g.lookup(r.Context(), redisKey)
	if err != nil {
		g.reject(w, r, err)
		return
	}
	if prior != nil {
		if prior.RequestHash != requestHash {
			g.reject(w, r, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
			return
		}
		prior.replay(w)
		return
	}

	capture := &responseCapture{ResponseWriter: w}
	g.next.ServeHTTP(capture, r)
	g.persist(r.Context(), redisKey, capture, requestHash, ttl)
}

// lookup returns nil without error on a cache miss.
func (g *idempotencyGuard) lookup(ctx context.Context, redisKey string) (*storedResponse, error) {
	raw, err := g.store.Get(ctx, redisKey)
	if errors.Is(err, redis.Nil) || (err == nil && raw == "") {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency")
	}

	var record storedResponse
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record")
	}
	return &record, nil
}

func (g *idempotencyGuard) persist(ctx context.Context, redisKey string, capture *responseCapture, requestHash string, ttl time.Duration) {
	record := storedResponse{
		Status:      capture.statusCode(),
		Body:        base64.StdEncoding.EncodeToString(capture.body.Bytes()),
		ContentType: capture.Header().Get("Content-Type"),
		RequestHash: requestHash,
	}

	payload, err := json.Marshal(record)
	if err != nil {
		g.logFailure(ctx, "marshal idempotency record", err)
		return
	}
	if _, err := g.store.SetNX(ctx, redisKey, string(payload), ttl); err != nil {
		g.logFailure(ctx, "persist idempotency record", err)
	}
}

func (g *idempotencyGuard) reject(w http.ResponseWriter, r *http.Request, err error) {
	responses.WriteError(r.Context(), g.logg, w, err)
}

func (g *idempotencyGuard) logFailure(ctx context.Context, msg string, err error) {
	if g.logg != nil {
		g.logg.Error(ctx, msg, err)
	}
}

func (s *storedResponse) replay(w http.ResponseWriter) {
	if s.ContentType != "" {
		w.Header().Set("Content-Type", s.ContentType)
	}
	status := s.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if decoded, err := base64.StdEncoding.DecodeString(s.Body); err == nil {
		_, _ = w.Write(decoded)
	}
}

func fingerprint(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// matchIdempotentRoute compares the literal request path. The rule
// table holds no path parameters, and chi's route pattern is not fully
// resolved while sub-router middleware is still running.
func matchIdempotentRoute(r *http.Request) (time.Duration, bool) {
	for _, rule := range idempotencyRules {
		if rule.method == r.Method && rule.pattern == r.URL.Path {
			return rule.ttl, true
		}
	}
	return 0, false
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (r *responseCapture) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseCapture) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseCapture) statusCode() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}
