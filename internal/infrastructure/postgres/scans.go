package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/trustnet-ai/api/internal/domain"
)

// ScanRepo persists analysis requests and their verdicts.
type ScanRepo struct {
	db *Connection
}

func NewScanRepo(db *Connection) *ScanRepo {
	return &ScanRepo{db: db}
}

func (r *ScanRepo) Insert(ctx context.Context, s *domain.Scan) error {
	query := `INSERT INTO scans (id, user_email, kind, verdict, confidence, recommendation, object_key, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		s.ScanID, s.UserEmail, s.Kind, s.Verdict, s.Confidence, s.Recommendation, s.ObjectKey, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}
	return nil
}

func (r *ScanRepo) Get(ctx context.Context, scanID string) (*domain.Scan, error) {
	var s domain.Scan
	query := `SELECT id, user_email, kind, verdict, confidence, recommendation, object_key, created_at
			  FROM scans WHERE id = $1`

	err := r.db.QueryRow(ctx, query, scanID).Scan(
		&s.ScanID, &s.UserEmail, &s.Kind, &s.Verdict, &s.Confidence, &s.Recommendation, &s.ObjectKey, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("scan: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get scan: %w", err)
	}
	return &s, nil
}

// ListByEmail returns the most recent scans for a user, newest first.
func (r *ScanRepo) ListByEmail(ctx context.Context, email string, limit int) ([]domain.Scan, error) {
	query := `SELECT id, user_email, kind, verdict, confidence, recommendation, object_key, created_at
			  FROM scans WHERE user_email = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.db.Query(ctx, query, email, limit)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	defer rows.Close()

	var out []domain.Scan
	for rows.Next() {
		var s domain.Scan
		if err := rows.Scan(&s.ScanID, &s.UserEmail, &s.Kind, &s.Verdict, &s.Confidence, &s.Recommendation, &s.ObjectKey, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
