package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/trustnet-ai/api/internal/application/auth"
	"github.com/trustnet-ai/api/internal/application/payment"
	"github.com/trustnet-ai/api/internal/config"
	jwtinfra "github.com/trustnet-ai/api/internal/infrastructure/jwt"
	"github.com/trustnet-ai/api/internal/infrastructure/postgres"
	"github.com/trustnet-ai/api/internal/infrastructure/resendmail"
	s3infra "github.com/trustnet-ai/api/internal/infrastructure/s3"
	"github.com/trustnet-ai/api/internal/infrastructure/smtp"
	snsinfra "github.com/trustnet-ai/api/internal/infrastructure/sns"
	stripeinfra "github.com/trustnet-ai/api/internal/infrastructure/stripe"
	transporthttp "github.com/trustnet-ai/api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Postgres (runs migrations on startup).
	db, err := postgres.NewConnection(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// JWT provider (optional — graceful fallback if keys are missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// S3 store for scan media.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// Mail backend: Resend preferred, SMTP fallback, nil when neither is
	// configured (demo mode may then echo codes in responses).
	var notifier auth.Notifier
	switch {
	case cfg.ResendAPIKey != "":
		notifier = resendmail.NewMailer(cfg)
	case cfg.SMTPHost != "":
		notifier = smtp.NewMailer(cfg)
	default:
		log.Println("WARN: no mail backend configured")
	}

	// SNS alerts for payment events (optional).
	var alerts payment.AlertPublisher
	if cfg.SNSTopicARN != "" {
		if p, err := snsinfra.NewPublisher(cfg); err == nil {
			alerts = p
		} else {
			log.Printf("WARN: SNS publisher not available: %v", err)
		}
	}

	deps := &transporthttp.Deps{
		OTPRepo:          postgres.NewOTPRepo(db),
		UserRepo:         postgres.NewUserRepo(db),
		ScanRepo:         postgres.NewScanRepo(db),
		PaymentEventRepo: postgres.NewPaymentEventRepo(db),
		S3Store:          s3Store,
		StripeClient:     stripeinfra.NewClient(cfg),
		Notifier:         notifier,
		AlertPublisher:   alerts,
		JWTProvider:      jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
