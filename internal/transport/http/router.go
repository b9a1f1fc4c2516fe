package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/trustnet-ai/api/internal/application/auth"
	"github.com/trustnet-ai/api/internal/application/payment"
	"github.com/trustnet-ai/api/internal/application/scan"
	"github.com/trustnet-ai/api/internal/config"
	"github.com/trustnet-ai/api/internal/transport/http/handler"
	appmiddleware "github.com/trustnet-ai/api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Stripe-Signature"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — bounds code guessing on the OTP endpoints.
	otpRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	var signer auth.SessionSigner
	if deps.JWTProvider != nil {
		signer = deps.JWTProvider
	}
	authSvc := auth.NewService(auth.ServiceDeps{
		Store:    auth.NewOTPStore(deps.OTPRepo),
		UserRepo: deps.UserRepo,
		Notifier: deps.Notifier,
		Signer:   signer,
		DemoMode: cfg.DemoMode,
	})
	scanSvc := scan.NewService(deps.ScanRepo, deps.S3Store)
	paymentSvc := payment.NewService(deps.StripeClient, deps.PaymentEventRepo, deps.AlertPublisher)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	scanH := handler.NewScanHandler(scanSvc)
	paymentH := handler.NewPaymentHandler(paymentSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(otpRL.Limit).Post("/auth/send-otp", authH.SendOTP)
		r.With(otpRL.Limit).Post("/auth/verify-otp", authH.VerifyOTP)
		r.Post("/payments/create-checkout", paymentH.CreateCheckout)
		r.Post("/payments/webhook", paymentH.Webhook)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Post("/scans", scanH.Create)
			r.Get("/scans", scanH.List)
			r.Get("/scans/{id}", scanH.Get)
			r.Get("/scans/{id}/media", scanH.MediaURL)
		})
	})

	return r
}
