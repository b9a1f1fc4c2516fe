package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/trustnet-ai/api/internal/domain"
	"github.com/trustnet-ai/api/internal/pkg/id"
)

// notifyTimeout bounds the outbound email dispatch. A slow provider must not
// hold the login request hostage; delivery is best-effort once the code is
// persisted.
const notifyTimeout = 3 * time.Second

// Notifier delivers a login code out of band. A nil Notifier means no mail
// backend is configured, which is a first-class condition, not an error.
type Notifier interface {
	SendCode(ctx context.Context, toEmail, code string) error
}

// OTPVerifier is the store contract the controller drives.
type OTPVerifier interface {
	Issue(ctx context.Context, email string) (string, error)
	Verify(ctx context.Context, email, submitted string) (bool, error)
}

// UserProvisioner creates the durable identity on first successful login.
type UserProvisioner interface {
	EnsureByEmail(ctx context.Context, userID, email string) (*domain.User, error)
}

// SessionSigner mints the signed session token. Optional: when absent the
// response carries only the plain session fields.
type SessionSigner interface {
	Sign(email string) (string, error)
}

type SendOTPRequest struct {
	Email string `json:"email" validate:"required"`
}

type SendOTPResult struct {
	Message string
	// DebugCode echoes the generated code when no notifier is configured and
	// demo mode is on. Never populated outside demo mode.
	DebugCode string
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required"`
	Code  string `json:"code" validate:"required,len=6"`
}

// Service orchestrates issuance (generate, persist, notify) and verification
// (validate, consume, provision identity, mint session).
type Service interface {
	SendOTP(ctx context.Context, req SendOTPRequest) (*SendOTPResult, error)
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*domain.Session, error)
}

type ServiceDeps struct {
	Store    OTPVerifier
	UserRepo UserProvisioner
	Notifier Notifier      // nil when unconfigured
	Signer   SessionSigner // nil when key material is missing
	DemoMode bool
}

type service struct {
	store    OTPVerifier
	userRepo UserProvisioner
	notifier Notifier
	signer   SessionSigner
	demoMode bool
}

func NewService(deps ServiceDeps) Service {
	return &service{
		store:    deps.Store,
		userRepo: deps.UserRepo,
		notifier: deps.Notifier,
		signer:   deps.Signer,
		demoMode: deps.DemoMode,
	}
}

func (s *service) SendOTP(ctx context.Context, req SendOTPRequest) (*SendOTPResult, error) {
	if req.Email == "" {
		return nil, fmt.Errorf("email is required: %w", domain.ErrBadRequest)
	}

	code, err := s.store.Issue(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	if s.notifier == nil {
		if !s.demoMode {
			return nil, fmt.Errorf("no mail backend configured: %w", domain.ErrUnavailable)
		}
		slog.Warn("mail backend not configured, returning code in response", "email", domain.NormalizeEmail(req.Email))
		return &SendOTPResult{Message: "OTP sent (simulated)", DebugCode: code}, nil
	}

	// The code is already persisted; a failed or slow dispatch must not fail
	// the request or roll anything back.
	nctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := s.notifier.SendCode(nctx, domain.NormalizeEmail(req.Email), code); err != nil {
		slog.Warn("otp email dispatch failed", "email", domain.NormalizeEmail(req.Email), "err", err)
	}

	return &SendOTPResult{Message: "OTP sent successfully"}, nil
}

func (s *service) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*domain.Session, error) {
	if req.Email == "" || req.Code == "" {
		return nil, fmt.Errorf("email and code are required: %w", domain.ErrBadRequest)
	}
	if len(req.Code) != 6 {
		return nil, fmt.Errorf("code must be 6 digits: %w", domain.ErrBadRequest)
	}

	ok, err := s.store.Verify(ctx, req.Email, req.Code)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Wrong, expired and unknown all collapse into one answer so the
		// endpoint cannot be used as an oracle.
		return nil, fmt.Errorf("%s: %w", domain.InvalidOTPMessage, domain.ErrUnauthorized)
	}

	email := domain.NormalizeEmail(req.Email)
	user, err := s.userRepo.EnsureByEmail(ctx, id.New(), email)
	if err != nil {
		return nil, err
	}

	sess := &domain.Session{
		Email:    user.Email,
		LoggedIn: true,
		IssuedAt: time.Now().UnixMilli(),
	}
	if s.signer != nil {
		token, err := s.signer.Sign(user.Email)
		if err != nil {
			return nil, fmt.Errorf("sign session token: %w", err)
		}
		sess.Token = token
	}
	return sess, nil
}
