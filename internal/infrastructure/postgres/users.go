package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/trustnet-ai/api/internal/domain"
)

// UserRepo persists durable identities keyed by normalized email.
type UserRepo struct {
	db *Connection
}

func NewUserRepo(db *Connection) *UserRepo {
	return &UserRepo{db: db}
}

// EnsureByEmail creates the identity row for email if it does not exist yet
// and returns the stored row either way. The unique constraint plus
// ON CONFLICT DO NOTHING makes concurrent first-time verifications for the
// same address converge on a single row.
func (r *UserRepo) EnsureByEmail(ctx context.Context, userID, email string) (*domain.User, error) {
	insert := `INSERT INTO users (id, email, created_at)
			   VALUES ($1, $2, now())
			   ON CONFLICT (email) DO NOTHING`

	if _, err := r.db.Exec(ctx, insert, userID, email); err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}
	return r.GetByEmail(ctx, email)
}

// GetByEmail returns the identity for email, or domain.ErrNotFound.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	query := `SELECT id, email, created_at FROM users WHERE email = $1`

	err := r.db.QueryRow(ctx, query, email).Scan(&u.UserID, &u.Email, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}
