package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/stripe/stripe-go/v82"

	"github.com/trustnet-ai/api/internal/domain"
	stripeinfra "github.com/trustnet-ai/api/internal/infrastructure/stripe"
)

// CheckoutClient is the payment-provider surface the service needs.
type CheckoutClient interface {
	CreateCheckoutSession(in stripeinfra.CheckoutInput) (string, error)
	ParseEvent(payload []byte, signature string) (stripe.Event, bool, error)
}

// EventRepository records raw webhook events.
type EventRepository interface {
	Insert(ctx context.Context, e *domain.PaymentEvent) error
}

// AlertPublisher pushes a short summary of notable events to ops. Optional.
type AlertPublisher interface {
	Publish(ctx context.Context, subject, message string) error
}

type CreateCheckoutRequest struct {
	Plan   string `json:"plan" validate:"required"`
	Price  int64  `json:"price" validate:"required,gt=0"` // whole rupees
	Email  string `json:"email" validate:"required,email"`
	Origin string `json:"-"`
}

// Service creates checkout sessions and passes webhook events through.
// Events are logged and recorded, nothing is reconciled against them.
type Service interface {
	CreateCheckout(ctx context.Context, req CreateCheckoutRequest) (string, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type service struct {
	client    CheckoutClient
	eventRepo EventRepository
	alerts    AlertPublisher // nil when no topic is configured
}

func NewService(client CheckoutClient, eventRepo EventRepository, alerts AlertPublisher) Service {
	return &service{client: client, eventRepo: eventRepo, alerts: alerts}
}

func (s *service) CreateCheckout(ctx context.Context, req CreateCheckoutRequest) (string, error) {
	plan, ok := domain.Plans[req.Plan]
	if !ok {
		return "", fmt.Errorf("invalid plan selected: %w", domain.ErrBadRequest)
	}

	origin := req.Origin
	if origin == "" {
		origin = "http://localhost:3000"
	}

	url, err := s.client.CreateCheckoutSession(stripeinfra.CheckoutInput{
		PlanName:        plan.Name,
		PlanDescription: plan.Description,
		Interval:        plan.Interval,
		IntervalCount:   plan.IntervalCount,
		UnitAmount:      req.Price * 100,
		CustomerEmail:   domain.NormalizeEmail(req.Email),
		SuccessURL:      origin + "/index.html?payment=success&session_id={CHECKOUT_SESSION_ID}",
		CancelURL:       origin + "/index.html?payment=cancelled",
		Metadata: map[string]string{
			"plan":  req.Plan,
			"price": fmt.Sprintf("%d", req.Price),
			"email": domain.NormalizeEmail(req.Email),
		},
	})
	if err != nil {
		return "", err
	}
	return url, nil
}

func (s *service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if signature == "" {
		return fmt.Errorf("missing stripe-signature header: %w", domain.ErrBadRequest)
	}

	event, verified, err := s.client.ParseEvent(payload, signature)
	if err != nil {
		return fmt.Errorf("webhook verification failed: %w: %v", domain.ErrBadRequest, err)
	}
	if !verified {
		slog.Warn("webhook secret not set, event accepted without signature verification")
	}

	s.logEvent(event)

	rec := &domain.PaymentEvent{
		EventID:    event.ID,
		Type:       string(event.Type),
		Payload:    json.RawMessage(payload),
		ReceivedAt: time.Now().UTC(),
	}
	if err := s.eventRepo.Insert(ctx, rec); err != nil {
		return err
	}

	if s.alerts != nil {
		subject := fmt.Sprintf("payment event: %s", event.Type)
		if err := s.alerts.Publish(ctx, subject, string(payload)); err != nil {
			slog.Warn("payment alert publish failed", "event_type", event.Type, "err", err)
		}
	}
	return nil
}

func (s *service) logEvent(event stripe.Event) {
	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err == nil {
			slog.Info("payment successful",
				"session_id", sess.ID,
				"customer_email", sess.CustomerEmail,
				"plan", sess.Metadata["plan"],
				"amount_total", sess.AmountTotal,
				"payment_status", sess.PaymentStatus,
			)
			return
		}
		slog.Info("payment successful", "event_id", event.ID)
	case "customer.subscription.created", "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err == nil {
			slog.Info("subscription event", "event_type", event.Type, "subscription_id", sub.ID, "status", sub.Status)
			return
		}
		slog.Info("subscription event", "event_type", event.Type, "event_id", event.ID)
	case "invoice.payment_succeeded", "invoice.payment_failed":
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err == nil {
			slog.Info("invoice event", "event_type", event.Type, "invoice_id", inv.ID, "customer_email", inv.CustomerEmail)
			return
		}
		slog.Info("invoice event", "event_type", event.Type, "event_id", event.ID)
	default:
		slog.Info("unhandled payment event", "event_type", event.Type, "event_id", event.ID)
	}
}
