package webhooks

import (
	"context"
	"net/http"

	"github.com/jocril/storefront-backend/api/responses"
	pkgerrors "github.com/jocril/storefront-backend/pkg/errors"
	"github.com/jocril/storefront-backend/pkg/eupago"
	"github.com/jocril/storefront-backend/pkg/logger"
)

// EuPagoWebhookService settles payment confirmations.
type EuPagoWebhookService interface {
	HandleWebhook(ctx context.Context, callback *eupago.Callback) string
}

// EuPagoWebhook receives payment notifications. Structurally valid
// callbacks always answer 200 whatever the settlement outcome; a retry
// from the gateway cannot fix an unknown order or a duplicate, so
// there is no point asking for one.
func EuPagoWebhook(svc EuPagoWebhookService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}

		callback, err := eupago.ParseCallback(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid callback payload"))
			return
		}

		outcome := svc.HandleWebhook(ctx, callback)
		responses.WriteSuccess(w, map[string]string{"outcome": outcome})
	}
}

// EuPagoWebhookPing answers the gateway's callback URL verification probe.
func EuPagoWebhookPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "listening"})
	}
}
