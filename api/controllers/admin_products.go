package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jocril/storefront-backend/api/responses"
	"github.com/jocril/storefront-backend/api/validators"
	"github.com/jocril/storefront-backend/internal/catalog"
	"github.com/jocril/storefront-backend/pkg/logger"
	"github.com/jocril/storefront-backend/pkg/pagination"
)

type createProductBody struct {
	Name        string  `json:"name" validate:"required"`
	Slug        string  `json:"slug,omitempty"`
	SKUPrefix   string  `json:"sku_prefix,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

type updateProductBody struct {
	Name        *string `json:"name,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

type createVariantBody struct {
	SKU               string  `json:"sku,omitempty"`
	SKUSuffix         string  `json:"sku_suffix,omitempty"`
	Size              *string `json:"size,omitempty"`
	Color             *string `json:"color,omitempty"`
	PriceCents        int     `json:"price_cents" validate:"required,gt=0"`
	WeightGrams       int     `json:"weight_grams" validate:"required,gt=0"`
	StockQuantity     int     `json:"stock_quantity"`
	LowStockThreshold *int    `json:"low_stock_threshold,omitempty"`
	AllowBackorder    bool    `json:"allow_backorder"`
	Active            *bool   `json:"active,omitempty"`
}

type updateVariantBody struct {
	Size              *string `json:"size,omitempty"`
	Color             *string `json:"color,omitempty"`
	PriceCents        *int    `json:"price_cents,omitempty"`
	WeightGrams       *int    `json:"weight_grams,omitempty"`
	StockQuantity     *int    `json:"stock_quantity,omitempty"`
	LowStockThreshold *int    `json:"low_stock_threshold,omitempty"`
	AllowBackorder    *bool   `json:"allow_backorder,omitempty"`
	Active            *bool   `json:"active,omitempty"`
}

// ProductsList serves the storefront catalog listing.
func ProductsList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := catalog.ProductFilters{
			ActiveOnly: true,
			Query:      strings.TrimSpace(r.URL.Query().Get("q")),
		}
		if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
			filters.Category = &category
		}

		params := pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		}

		list, err := svc.ListProducts(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ProductBySlug serves the storefront product detail page.
func ProductBySlug(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := svc.GetProductBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func AdminCreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createProductBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), catalog.CreateProductInput{
			Name:        body.Name,
			Slug:        body.Slug,
			SKUPrefix:   body.SKUPrefix,
			Description: body.Description,
			Category:    body.Category,
			Active:      body.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func AdminUpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateProductBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), productID, catalog.UpdateProductInput{
			Name:        body.Name,
			Slug:        body.Slug,
			Description: body.Description,
			Category:    body.Category,
			Active:      body.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func AdminCreateVariant(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createVariantBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateVariant(r.Context(), catalog.CreateVariantInput{
			ProductID:         productID,
			SKU:               body.SKU,
			SKUSuffix:         body.SKUSuffix,
			Size:              body.Size,
			Color:             body.Color,
			PriceCents:        body.PriceCents,
			WeightGrams:       body.WeightGrams,
			StockQuantity:     body.StockQuantity,
			LowStockThreshold: body.LowStockThreshold,
			AllowBackorder:    body.AllowBackorder,
			Active:            body.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func AdminUpdateVariant(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		variantID, err := validators.ParsePathUUID(chi.URLParam(r, "variantId"), "variantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateVariantBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateVariant(r.Context(), variantID, catalog.UpdateVariantInput{
			Size:              body.Size,
			Color:             body.Color,
			PriceCents:        body.PriceCents,
			WeightGrams:       body.WeightGrams,
			StockQuantity:     body.StockQuantity,
			LowStockThreshold: body.LowStockThreshold,
			AllowBackorder:    body.AllowBackorder,
			Active:            body.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}
