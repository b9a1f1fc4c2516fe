package postgres

import (
	"context"
	"fmt"

	"github.com/trustnet-ai/api/internal/domain"
)

// PaymentEventRepo records raw webhook events for audit.
type PaymentEventRepo struct {
	db *Connection
}

func NewPaymentEventRepo(db *Connection) *PaymentEventRepo {
	return &PaymentEventRepo{db: db}
}

// Insert stores the event. Redelivered events (same provider event id) are
// ignored so webhook retries stay idempotent.
func (r *PaymentEventRepo) Insert(ctx context.Context, e *domain.PaymentEvent) error {
	query := `INSERT INTO payment_events (event_id, event_type, payload, received_at)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (event_id) DO NOTHING`

	_, err := r.db.Exec(ctx, query, e.EventID, e.Type, []byte(e.Payload), e.ReceivedAt)
	if err != nil {
		return fmt.Errorf("insert payment event: %w", err)
	}
	return nil
}
