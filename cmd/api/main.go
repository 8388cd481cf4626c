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

	"github.com/shorebytelabs/nailsbyabri-sub003/api/routes"
	"github.com/shorebytelabs/nailsbyabri-sub003/internal/accounts"
	"github.com/shorebytelabs/nailsbyabri-sub003/internal/capacity"
	"github.com/shorebytelabs/nailsbyabri-sub003/internal/catalog"
	"github.com/shorebytelabs/nailsbyabri-sub003/internal/orders"
	"github.com/shorebytelabs/nailsbyabri-sub003/internal/payments"
	"github.com/shorebytelabs/nailsbyabri-sub003/internal/promos"
	"github.com/shorebytelabs/nailsbyabri-sub003/internal/uploads"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/auth/session"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/config"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/db"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/logger"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/metrics"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/migrate"
	pkgpayments "github.com/shorebytelabs/nailsbyabri-sub003/pkg/payments"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/redis"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	stripeClient, err := pkgpayments.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	accountService, err := accounts.NewService(accounts.NewRepository(dbClient.DB()), sessionManager, cfg.JWT, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create account service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	promoService, err := promos.NewService(promos.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create promo service", err)
		os.Exit(1)
	}

	capacityService, err := capacity.NewService(dbClient.DB(), logg, cfg.Capacity.WeeklySetLimit)
	if err != nil {
		logg.Error(context.Background(), "failed to create capacity service", err)
		os.Exit(1)
	}

	uploadValidator, err := uploads.NewValidator(cfg.Uploads.MaxBytes)
	if err != nil {
		logg.Error(context.Background(), "failed to create upload validator", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(
		dbClient.DB(),
		orders.NewRepository(dbClient.DB()),
		catalogService,
		promoService,
		capacityService,
		uploadValidator,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	paymentService, err := payments.NewService(stripeClient, orderService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment service", err)
		os.Exit(1)
	}

	jobMetrics := metrics.NewJobMetrics(prometheus.DefaultRegisterer)
	reconciler, err := capacity.NewReconciler(dbClient.DB(), logg, jobMetrics, cfg.Capacity.ReconcileInterval)
	if err != nil {
		logg.Error(context.Background(), "failed to create capacity reconciler", err)
		os.Exit(1)
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go reconciler.Start(rootCtx)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(rootCtx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:         cfg,
			Logger:         logg,
			DB:             dbClient,
			Redis:          redisClient,
			SessionManager: sessionManager,
			Accounts:       accountService,
			Catalog:        catalogService,
			Orders:         orderService,
			Payments:       paymentService,
			Promos:         promoService,
			Capacity:       capacityService,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-rootCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
