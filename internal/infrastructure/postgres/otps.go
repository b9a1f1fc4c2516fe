package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/trustnet-ai/api/internal/domain"
)

// OTPRepo persists the single outstanding login code per email.
type OTPRepo struct {
	db *Connection
}

func NewOTPRepo(db *Connection) *OTPRepo {
	return &OTPRepo{db: db}
}

// Upsert stores rec, atomically replacing any previous code for the same
// email. The ON CONFLICT clause is what guarantees at most one live record
// per address even under concurrent issuance.
func (r *OTPRepo) Upsert(ctx context.Context, rec *domain.OTPRecord) error {
	query := `INSERT INTO otp_codes (email, code, expires_at)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (email) DO UPDATE
			  SET code = EXCLUDED.code, expires_at = EXCLUDED.expires_at`

	if _, err := r.db.Exec(ctx, query, rec.Email, rec.Code, rec.ExpiresAt); err != nil {
		return fmt.Errorf("upsert otp code: %w", err)
	}
	return nil
}

// Get returns the outstanding record for email, or domain.ErrNotFound.
func (r *OTPRepo) Get(ctx context.Context, email string) (*domain.OTPRecord, error) {
	var rec domain.OTPRecord
	query := `SELECT email, code, expires_at FROM otp_codes WHERE email = $1`

	err := r.db.QueryRow(ctx, query, email).Scan(&rec.Email, &rec.Code, &rec.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("otp code: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get otp code: %w", err)
	}
	return &rec, nil
}

// Delete removes the record for email regardless of its code. Used when an
// expired record is found on lookup.
func (r *OTPRepo) Delete(ctx context.Context, email string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM otp_codes WHERE email = $1`, email); err != nil {
		return fmt.Errorf("delete otp code: %w", err)
	}
	return nil
}

// DeleteMatching removes the record only if its stored code equals code and
// reports whether a row was deleted. Two concurrent verifications of the same
// code race on this statement and exactly one observes true, which is what
// makes a code single-use.
func (r *OTPRepo) DeleteMatching(ctx context.Context, email, code string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM otp_codes WHERE email = $1 AND code = $2`, email, code)
	if err != nil {
		return false, fmt.Errorf("consume otp code: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
