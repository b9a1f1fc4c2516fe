package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/trustnet-ai/api/internal/domain"
)

// OTPRepository is the persistence contract the store needs: keyed upsert,
// lookup, unconditional delete and a conditional delete used for consumption.
type OTPRepository interface {
	Upsert(ctx context.Context, rec *domain.OTPRecord) error
	Get(ctx context.Context, email string) (*domain.OTPRecord, error)
	Delete(ctx context.Context, email string) error
	DeleteMatching(ctx context.Context, email, code string) (bool, error)
}

// OTPStore owns the lifecycle of login codes: issue with expiry, single-use
// consumption, and replacement on re-issue. At most one code is live per
// email at any instant.
type OTPStore struct {
	repo OTPRepository
	now  func() time.Time
}

func NewOTPStore(repo OTPRepository) *OTPStore {
	return &OTPStore{repo: repo, now: time.Now}
}

// Issue generates a fresh 6-digit code for email, replacing any outstanding
// one, and returns it. Replacement means an old, possibly leaked code stops
// working the moment a new one is requested.
func (s *OTPStore) Issue(ctx context.Context, email string) (string, error) {
	email = domain.NormalizeEmail(email)

	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}

	rec := &domain.OTPRecord{
		Email:     email,
		Code:      code,
		ExpiresAt: s.now().Add(domain.OTPTTL),
	}
	if err := s.repo.Upsert(ctx, rec); err != nil {
		return "", err
	}
	return code, nil
}

// Verify reports whether submitted matches the live code for email.
//
//   - no record: false
//   - record past its deadline: the record is purged and the result is false
//   - mismatch: false, record left intact so the user may retry within the window
//   - match: the record is consumed (conditional delete) and the result is true;
//     a concurrent verification of the same code sees false
func (s *OTPStore) Verify(ctx context.Context, email, submitted string) (bool, error) {
	email = domain.NormalizeEmail(email)

	rec, err := s.repo.Get(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if s.now().After(rec.ExpiresAt) {
		if err := s.repo.Delete(ctx, email); err != nil {
			return false, err
		}
		return false, nil
	}

	if rec.Code != submitted {
		return false, nil
	}
	return s.repo.DeleteMatching(ctx, email, submitted)
}

// generateCode draws uniformly from [100000, 999999]. Codes never start with
// zero, so there is no padding ambiguity between "012345" and "12345".
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}
