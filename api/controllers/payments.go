package controllers

import (
	"net/http"

	"github.com/jocril/storefront-backend/api/responses"
	"github.com/jocril/storefront-backend/api/validators"
	"github.com/jocril/storefront-backend/internal/payments"
	"github.com/jocril/storefront-backend/pkg/logger"
)

type multibancoBody struct {
	OrderNumber string `json:"order_number" validate:"required"`
}

type mbwayBody struct {
	OrderNumber string `json:"order_number" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
}

// PaymentMultibanco creates or replays a Multibanco reference.
func PaymentMultibanco(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body multibancoBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.RequestMultibanco(r.Context(), body.OrderNumber)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// PaymentMBWay pushes an MB Way payment request to the customer's phone.
func PaymentMBWay(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body mbwayBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.RequestMBWay(r.Context(), body.OrderNumber, body.Phone)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
