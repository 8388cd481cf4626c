package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shorebytelabs/nailsbyabri-sub003/api/controllers"
	ordercontrollers "github.com/shorebytelabs/nailsbyabri-sub003/api/controllers/orders"
	webhookcontrollers "github.com/shorebytelabs/nailsbyabri-sub003/api/controllers/webhooks"
	"github.com/shorebytelabs/nailsbyabri-sub003/api/middleware"
	"github.com/shorebytelabs/nailsbyabri-sub003/internal/accounts"
	"github.com/shorebytelabs/nailsbyabri-sub003/internal/capacity"
	"github.com/shorebytelabs/nailsbyabri-sub003/internal/catalog"
	"github.com/shorebytelabs/nailsbyabri-sub003/internal/orders"
	"github.com/shorebytelabs/nailsbyabri-sub003/internal/payments"
	"github.com/shorebytelabs/nailsbyabri-sub003/internal/promos"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/auth/session"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/config"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/db"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/logger"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/redis"
)

// Deps collects everything the HTTP surface needs. Grouping them keeps the
// constructor signature stable as endpoints grow.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	SessionManager session.AccessSessionChecker
	Accounts       accounts.Service
	Catalog        catalog.Service
	Orders         orders.Service
	Payments       payments.Service
	Promos         promos.Service
	Capacity       capacity.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(deps.Payments, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
			Post("/login", controllers.AuthLogin(deps.Accounts, logg))
		r.With(
			middleware.AuthRateLimit(registerPolicy, deps.Redis, logg),
			middleware.Idempotency(deps.Redis, logg),
		).Post("/register", controllers.AuthRegister(deps.Accounts, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Accounts, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Accounts, cfg.JWT, logg))
	})

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/shapes", controllers.CatalogShapes(deps.Catalog, logg))
		r.Get("/shapes/{shapeId}", controllers.CatalogShape(deps.Catalog, logg))
		r.Get("/fulfillment", controllers.CatalogFulfillment(deps.Catalog, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Get("/me", controllers.AuthProfile(deps.Accounts, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordercontrollers.List(deps.Orders, logg))
			r.Put("/draft", ordercontrollers.SaveDraft(deps.Orders, logg))
			r.Post("/quote", ordercontrollers.Quote(deps.Orders, logg))
			r.Get("/{orderId}", ordercontrollers.Detail(deps.Orders, logg))
			r.Get("/{orderId}/draft", ordercontrollers.DraftDetail(deps.Orders, logg))
			r.Post("/{orderId}/sets/{setId}/duplicate", ordercontrollers.DuplicateSet(deps.Orders, logg))
			r.Post("/{orderId}/submit", ordercontrollers.Submit(deps.Orders, logg))
			r.Post("/{orderId}/cancel", ordercontrollers.Cancel(deps.Orders, logg))
			r.Post("/{orderId}/checkout", controllers.Checkout(deps.Payments, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))
		r.Use(middleware.RequireAdmin(logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordercontrollers.AdminList(deps.Orders, logg))
			r.Post("/{orderId}/production-status", ordercontrollers.AdminSetProductionStatus(deps.Orders, logg))
		})
		r.Route("/shapes", func(r chi.Router) {
			r.Post("/", controllers.AdminShapeCreate(deps.Catalog, logg))
			r.Put("/{shapeId}", controllers.AdminShapeUpdate(deps.Catalog, logg))
			r.Delete("/{shapeId}", controllers.AdminShapeDeactivate(deps.Catalog, logg))
		})
		r.Route("/promos", func(r chi.Router) {
			r.Get("/", controllers.AdminPromoList(deps.Promos, logg))
			r.Post("/", controllers.AdminPromoCreate(deps.Promos, logg))
			r.Put("/{promoId}", controllers.AdminPromoUpdate(deps.Promos, logg))
			r.Delete("/{promoId}", controllers.AdminPromoDeactivate(deps.Promos, logg))
		})
		r.Get("/capacity", controllers.AdminCapacity(deps.Capacity, logg))
	})

	return r
}
