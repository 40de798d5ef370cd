package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jocril/storefront-backend/api/controllers"
	webhookcontrollers "github.com/jocril/storefront-backend/api/controllers/webhooks"
	"github.com/jocril/storefront-backend/api/middleware"
	"github.com/jocril/storefront-backend/internal/auth"
	"github.com/jocril/storefront-backend/internal/catalog"
	"github.com/jocril/storefront-backend/internal/orders"
	"github.com/jocril/storefront-backend/internal/payments"
	"github.com/jocril/storefront-backend/internal/pricing"
	"github.com/jocril/storefront-backend/internal/shipping"
	"github.com/jocril/storefront-backend/pkg/config"
	"github.com/jocril/storefront-backend/pkg/db"
	"github.com/jocril/storefront-backend/pkg/logger"
	pkgredis "github.com/jocril/storefront-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *pkgredis.Client
	Metrics     prometheus.Gatherer
	AuthService auth.Service
	Authorizer  auth.AuthorizationService
	Catalog     catalog.Service
	Pricing     pricing.Service
	Shipping    shipping.Service
	Orders      orders.Service
	Payments    payments.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	publicPolicy := middleware.RateLimitPolicy{
		Name:   "public",
		Window: cfg.RateLimit.PublicWindow,
		Limit:  cfg.RateLimit.PublicLimit,
	}
	adminPolicy := middleware.RateLimitPolicy{
		Name:   "admin",
		Window: cfg.RateLimit.AdminWindow,
		Limit:  cfg.RateLimit.AdminLimit,
	}
	loginPolicy := middleware.RateLimitPolicy{
		Name:   "login",
		Window: cfg.RateLimit.LoginWindow,
		Limit:  cfg.RateLimit.LoginIPLimit,
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/webhooks", func(r chi.Router) {
		r.Get("/eupago", webhookcontrollers.EuPagoWebhookPing())
		r.Post("/eupago", webhookcontrollers.EuPagoWebhook(deps.Payments, logg))
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.RateLimit(loginPolicy, deps.Redis, logg)).
			Post("/login", controllers.AuthLogin(deps.AuthService, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(publicPolicy, deps.Redis, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Get("/products", controllers.ProductsList(deps.Catalog, logg))
		r.Get("/products/{slug}", controllers.ProductBySlug(deps.Catalog, logg))

		r.Get("/shipping/zones", controllers.ShippingZones(deps.Shipping, logg))
		r.Post("/shipping/calculate", controllers.ShippingCalculate(deps.Shipping, logg))

		r.Post("/orders", controllers.OrdersCreate(deps.Orders, logg))
		r.Get("/orders", controllers.OrdersGet(deps.Orders, logg))
		r.Get("/orders/{orderNumber}/status", controllers.OrderStatus(deps.Orders, logg))

		r.Post("/payment/multibanco", controllers.PaymentMultibanco(deps.Payments, logg))
		r.Post("/payment/mbway", controllers.PaymentMBWay(deps.Payments, logg))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireAdmin(deps.Authorizer, logg))
		r.Use(middleware.RateLimit(adminPolicy, deps.Redis, logg))

		r.Post("/price-tiers/apply", controllers.AdminApplyPriceTiers(deps.Pricing, logg))
		r.Get("/price-tiers", controllers.AdminDiscountTiers(deps.Pricing, logg))

		r.Route("/shipping", func(r chi.Router) {
			r.Get("/zones", controllers.AdminListZones(deps.Shipping, logg))
			r.Post("/zones", controllers.AdminCreateZone(deps.Shipping, logg))
			r.Patch("/zones/{zoneId}", controllers.AdminUpdateZone(deps.Shipping, logg))
			r.Get("/zones/{zoneId}/rates", controllers.AdminZoneRates(deps.Shipping, logg))
			r.Post("/classes", controllers.AdminCreateShippingClass(deps.Shipping, logg))
			r.Post("/rates", controllers.AdminCreateShippingRate(deps.Shipping, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminCreateProduct(deps.Catalog, logg))
			r.Patch("/{productId}", controllers.AdminUpdateProduct(deps.Catalog, logg))
			r.Post("/{productId}/variants", controllers.AdminCreateVariant(deps.Catalog, logg))
		})
		r.Patch("/variants/{variantId}", controllers.AdminUpdateVariant(deps.Catalog, logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminListUsers(deps.AuthService, logg))
			r.Get("/{userId}/role", controllers.AdminGetUserRole(deps.AuthService, logg))
			r.Put("/{userId}/role", controllers.AdminSetUserRole(deps.AuthService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(deps.Orders, logg))
			r.Patch("/{orderNumber}/status", controllers.AdminUpdateOrderStatus(deps.Orders, logg))
		})
	})

	return r
}
