package stripeinfra

import (
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
	"github.com/trustnet-ai/api/internal/config"
)

// Client wraps the Stripe SDK for checkout-session creation and webhook
// signature verification.
type Client struct {
	webhookSecret string
}

func NewClient(cfg *config.Config) *Client {
	stripe.Key = cfg.StripeSecretKey
	return &Client{webhookSecret: cfg.StripeWebhookSecret}
}

// CheckoutInput describes one subscription checkout.
type CheckoutInput struct {
	PlanName        string
	PlanDescription string
	Interval        string // "month" | "year"
	IntervalCount   int64
	UnitAmount      int64 // smallest currency unit
	CustomerEmail   string
	SuccessURL      string
	CancelURL       string
	Metadata        map[string]string
}

// CreateCheckoutSession creates a hosted subscription checkout and returns
// its URL.
func (c *Client) CreateCheckoutSession(in CheckoutInput) (string, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		CustomerEmail:      stripe.String(in.CustomerEmail),
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("inr"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(in.PlanName),
						Description: stripe.String(in.PlanDescription),
					},
					UnitAmount: stripe.Int64(in.UnitAmount),
					Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
						Interval:      stripe.String(in.Interval),
						IntervalCount: stripe.Int64(in.IntervalCount),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(in.SuccessURL),
		CancelURL:  stripe.String(in.CancelURL),
	}
	params.Metadata = in.Metadata

	s, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return s.URL, nil
}

// ParseEvent validates the webhook payload. When no webhook secret is
// configured the payload is parsed without signature verification; callers
// log that condition loudly.
func (c *Client) ParseEvent(payload []byte, signature string) (stripe.Event, bool, error) {
	if c.webhookSecret != "" {
		event, err := webhook.ConstructEvent(payload, signature, c.webhookSecret)
		return event, true, err
	}
	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return stripe.Event{}, false, fmt.Errorf("parse webhook payload: %w", err)
	}
	return event, false, nil
}
