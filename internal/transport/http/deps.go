package http

import (
	"github.com/trustnet-ai/api/internal/application/auth"
	"github.com/trustnet-ai/api/internal/application/payment"
	"github.com/trustnet-ai/api/internal/application/scan"
	jwtinfra "github.com/trustnet-ai/api/internal/infrastructure/jwt"
	"github.com/trustnet-ai/api/internal/infrastructure/postgres"
	s3infra "github.com/trustnet-ai/api/internal/infrastructure/s3"
	stripeinfra "github.com/trustnet-ai/api/internal/infrastructure/stripe"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	OTPRepo          *postgres.OTPRepo
	UserRepo         *postgres.UserRepo
	ScanRepo         *postgres.ScanRepo
	PaymentEventRepo *postgres.PaymentEventRepo
	S3Store          *s3infra.Store
	StripeClient     *stripeinfra.Client
	Notifier         auth.Notifier          // nil when no mail backend is configured
	AlertPublisher   payment.AlertPublisher // nil when no SNS topic is configured
	JWTProvider      *jwtinfra.Provider     // nil when key material is missing
}

var _ scan.ObjectStore = (*s3infra.Store)(nil)
