package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/veltapay/custody/internal/adapter/http/handler"
	"github.com/veltapay/custody/internal/adapter/http/middleware"
	"github.com/veltapay/custody/internal/domain"
	"github.com/veltapay/custody/internal/infrastructure/auth"
	"github.com/veltapay/custody/internal/infrastructure/metrics"
	"github.com/veltapay/custody/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	TransferHandler       *handler.TransferHandler
	OrderHandler          *handler.OrderHandler
	WalletHandler         *handler.WalletHandler
	OnboardingHandler     *handler.OnboardingHandler
	AuditHandler          *handler.AuditHandler
	ReconciliationHandler *handler.ReconciliationHandler
	HealthHandler         *handler.HealthHandler

	// Verifier may be nil in local development; DevActor then authenticates
	// every request.
	Verifier *auth.Verifier
	DevActor *domain.Actor

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration

	Metrics *metrics.Metrics
	Logger  zerolog.Logger
}

// NewRouter creates the HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		switch {
		case cfg.Verifier != nil:
			r.Use(middleware.NewAuthenticator(cfg.Verifier).Wrap)
		case cfg.DevActor != nil:
			r.Use(middleware.StaticActor(cfg.DevActor))
		}

		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
		}

		r.Route("/transfers", func(r chi.Router) {
			r.Post("/", cfg.TransferHandler.Create)
			r.Get("/", cfg.TransferHandler.List)
			r.Get("/{id}", cfg.TransferHandler.Get)
			r.With(middleware.RequireReviewer).Post("/{id}/complete", cfg.TransferHandler.Complete)
			r.With(middleware.RequireReviewer).Post("/{id}/fail", cfg.TransferHandler.Fail)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", cfg.OrderHandler.Create)
			r.Get("/", cfg.OrderHandler.List)
			r.Post("/manual", cfg.OrderHandler.CreateManual)
			r.Get("/{id}", cfg.OrderHandler.Get)
			r.With(middleware.RequireReviewer).Post("/{id}/status", cfg.OrderHandler.UpdateStatus)
		})

		r.Route("/wallets", func(r chi.Router) {
			r.Get("/{owner}/balance", cfg.WalletHandler.Balance)
			r.Get("/{owner}/entries", cfg.WalletHandler.Entries)
		})

		r.Route("/onboarding", func(r chi.Router) {
			r.Get("/{owner}", cfg.OnboardingHandler.GetProfile)
			r.With(middleware.RequireReviewer).Post("/{owner}/approve", cfg.OnboardingHandler.Approve)
		})

		r.Get("/audit", cfg.AuditHandler.List)
		r.Get("/reconciliation", cfg.ReconciliationHandler.Check)
	})

	return r
}
