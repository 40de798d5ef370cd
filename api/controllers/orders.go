package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jocril/storefront-backend/api/responses"
	"github.com/jocril/storefront-backend/api/validators"
	"github.com/jocril/storefront-backend/internal/orders"
	"github.com/jocril/storefront-backend/pkg/enums"
	pkgerrors "github.com/jocril/storefront-backend/pkg/errors"
	"github.com/jocril/storefront-backend/pkg/logger"
	"github.com/jocril/storefront-backend/pkg/types"
)

type orderCustomerBody struct {
	Name  string  `json:"name" validate:"required"`
	Email string  `json:"email" validate:"required,email"`
	Phone *string `json:"phone,omitempty"`
	NIF   *string `json:"nif,omitempty"`
}

type orderAddressBody struct {
	Name       string  `json:"name" validate:"required"`
	Line1      string  `json:"line1" validate:"required"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city" validate:"required"`
	PostalCode string  `json:"postal_code" validate:"required"`
	Country    string  `json:"country" validate:"required"`
	Phone      *string `json:"phone,omitempty"`
}

type orderItemBody struct {
	VariantID uuid.UUID `json:"variant_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

type createOrderBody struct {
	Customer        orderCustomerBody `json:"customer" validate:"required"`
	ShippingAddress orderAddressBody  `json:"shipping_address" validate:"required"`
	Items           []orderItemBody   `json:"items" validate:"required,min=1,dive"`
	PaymentMethod   string            `json:"payment_method" validate:"required"`
	CustomerNotes   *string           `json:"customer_notes,omitempty"`
}

// OrdersCreate places a new order from a storefront checkout.
func OrdersCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createOrderBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(body.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method"))
			return
		}

		input := orders.CreateOrderInput{
			Customer: orders.CustomerInput{
				Name:  body.Customer.Name,
				Email: body.Customer.Email,
				Phone: body.Customer.Phone,
				NIF:   body.Customer.NIF,
			},
			ShippingAddress: types.OrderAddress{
				Name:       body.ShippingAddress.Name,
				Line1:      body.ShippingAddress.Line1,
				Line2:      body.ShippingAddress.Line2,
				City:       body.ShippingAddress.City,
				PostalCode: body.ShippingAddress.PostalCode,
				Country:    body.ShippingAddress.Country,
				Phone:      body.ShippingAddress.Phone,
			},
			PaymentMethod: method,
			CustomerNotes: body.CustomerNotes,
		}
		for _, item := range body.Items {
			input.Items = append(input.Items, orders.OrderItemInput{
				VariantID: item.VariantID,
				Quantity:  item.Quantity,
			})
		}

		order, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// OrdersGet resolves a single order by its order number query parameter.
func OrdersGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderNumber := strings.TrimSpace(r.URL.Query().Get("order_number"))
		if orderNumber == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order_number query parameter required"))
			return
		}

		order, err := svc.GetByOrderNumber(r.Context(), orderNumber)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrderStatus is the lightweight status poll used by the storefront
// while it waits for a payment confirmation.
func OrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderNumber := chi.URLParam(r, "orderNumber")

		status, err := svc.Status(r.Context(), orderNumber)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}
