package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jocril/storefront-backend/api/routes"
	"github.com/jocril/storefront-backend/internal/auth"
	"github.com/jocril/storefront-backend/internal/catalog"
	"github.com/jocril/storefront-backend/internal/orders"
	"github.com/jocril/storefront-backend/internal/payments"
	"github.com/jocril/storefront-backend/internal/pricing"
	"github.com/jocril/storefront-backend/internal/shipping"
	"github.com/jocril/storefront-backend/pkg/config"
	"github.com/jocril/storefront-backend/pkg/db"
	"github.com/jocril/storefront-backend/pkg/eupago"
	"github.com/jocril/storefront-backend/pkg/logger"
	"github.com/jocril/storefront-backend/pkg/metrics"
	"github.com/jocril/storefront-backend/pkg/migrate"
	"github.com/jocril/storefront-backend/pkg/outbox"
	pkgredis "github.com/jocril/storefront-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := pkgredis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	paymentMetrics := metrics.NewPaymentMetrics(registry)

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		fatal(logg, "failed to create catalog service", err)
	}

	pricingService, err := pricing.NewService(
		pricing.NewRepository(dbClient.DB()),
		catalog.NewRepository(dbClient.DB()),
		dbClient,
	)
	if err != nil {
		fatal(logg, "failed to create pricing service", err)
	}

	shippingService, err := shipping.NewService(
		shipping.NewRepository(dbClient.DB()),
		catalog.NewRepository(dbClient.DB()),
	)
	if err != nil {
		fatal(logg, "failed to create shipping service", err)
	}

	ordersService, err := orders.NewService(
		orders.NewRepository(dbClient.DB()),
		dbClient,
		outboxService,
		catalogService,
		catalogService,
		shippingService,
	)
	if err != nil {
		fatal(logg, "failed to create orders service", err)
	}

	paymentsService, err := payments.NewService(
		payments.NewRepository(dbClient.DB()),
		eupago.NewClient(cfg.EuPago, cfg.App.SiteURL),
		redisClient,
		dbClient,
		outboxService,
		paymentMetrics,
		logg,
	)
	if err != nil {
		fatal(logg, "failed to create payments service", err)
	}

	userRepo := auth.NewRepository(dbClient.DB())
	authService, err := auth.NewService(userRepo, cfg.JWT)
	if err != nil {
		fatal(logg, "failed to create auth service", err)
	}
	authorizer := auth.NewAuthorizer(userRepo, cfg.Admin)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisClient,
			Metrics:     registry,
			AuthService: authService,
			Authorizer:  authorizer,
			Catalog:     catalogService,
			Pricing:     pricingService,
			Shipping:    shippingService,
			Orders:      ordersService,
			Payments:    paymentsService,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	errs := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
	}()

	select {
	case err := <-errs:
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

func fatal(logg *logger.Logger, msg string, err error) {
	logg.Error(context.Background(), msg, err)
	os.Exit(1)
}
