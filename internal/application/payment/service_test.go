package payment

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"

	"github.com/trustnet-ai/api/internal/domain"
	stripeinfra "github.com/trustnet-ai/api/internal/infrastructure/stripe"
)

// --- mocks ---

type mockClient struct{ mock.Mock }

func (m *mockClient) CreateCheckoutSession(in stripeinfra.CheckoutInput) (string, error) {
	args := m.Called(in)
	return args.String(0), args.Error(1)
}
func (m *mockClient) ParseEvent(payload []byte, signature string) (stripe.Event, bool, error) {
	args := m.Called(payload, signature)
	return args.Get(0).(stripe.Event), args.Bool(1), args.Error(2)
}

type mockEventRepo struct{ mock.Mock }

func (m *mockEventRepo) Insert(ctx context.Context, e *domain.PaymentEvent) error {
	return m.Called(ctx, e).Error(0)
}

type mockAlerts struct{ mock.Mock }

func (m *mockAlerts) Publish(ctx context.Context, subject, message string) error {
	return m.Called(ctx, subject, message).Error(0)
}

// --- CreateCheckout ---

func TestCreateCheckout_UnknownPlan(t *testing.T) {
	svc := NewService(&mockClient{}, &mockEventRepo{}, nil)
	_, err := svc.CreateCheckout(context.Background(), CreateCheckoutRequest{
		Plan: "lifetime", Price: 999, Email: "a@x.com",
	})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestCreateCheckout_BuildsSessionFromPlanCatalog(t *testing.T) {
	client := &mockClient{}
	var got stripeinfra.CheckoutInput
	client.On("CreateCheckoutSession", mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(0).(stripeinfra.CheckoutInput) }).
		Return("https://checkout.stripe.com/pay/cs_123", nil)

	svc := NewService(client, &mockEventRepo{}, nil)
	url, err := svc.CreateCheckout(context.Background(), CreateCheckoutRequest{
		Plan:   "semi-annual",
		Price:  499,
		Email:  "Buyer@X.com",
		Origin: "https://trustnet.example",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_123", url)
	assert.Equal(t, "month", got.Interval)
	assert.Equal(t, int64(6), got.IntervalCount)
	assert.Equal(t, int64(49900), got.UnitAmount, "price is converted to paise")
	assert.Equal(t, "buyer@x.com", got.CustomerEmail)
	assert.Contains(t, got.SuccessURL, "https://trustnet.example/")
	assert.Equal(t, "semi-annual", got.Metadata["plan"])
}

func TestCreateCheckout_ProviderFailure_Propagates(t *testing.T) {
	client := &mockClient{}
	client.On("CreateCheckoutSession", mock.Anything).Return("", assert.AnError)

	svc := NewService(client, &mockEventRepo{}, nil)
	_, err := svc.CreateCheckout(context.Background(), CreateCheckoutRequest{
		Plan: "monthly", Price: 99, Email: "a@x.com",
	})
	assert.ErrorIs(t, err, assert.AnError)
}

// --- HandleWebhook ---

func webhookEvent(t *testing.T, id, typ string) (stripe.Event, []byte) {
	t.Helper()
	raw := json.RawMessage(`{"id":"obj_1"}`)
	event := stripe.Event{
		ID:   id,
		Type: stripe.EventType(typ),
		Data: &stripe.EventData{Raw: raw},
	}
	payload, err := json.Marshal(map[string]any{"id": id, "type": typ, "data": map[string]any{"object": map[string]any{"id": "obj_1"}}})
	require.NoError(t, err)
	return event, payload
}

func TestHandleWebhook_MissingSignature(t *testing.T) {
	svc := NewService(&mockClient{}, &mockEventRepo{}, nil)
	err := svc.HandleWebhook(context.Background(), []byte("{}"), "")
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestHandleWebhook_BadSignature(t *testing.T) {
	client := &mockClient{}
	client.On("ParseEvent", mock.Anything, "sig").Return(stripe.Event{}, true, errors.New("signature mismatch"))

	svc := NewService(client, &mockEventRepo{}, nil)
	err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestHandleWebhook_RecordsEvent(t *testing.T) {
	event, payload := webhookEvent(t, "evt_1", "checkout.session.completed")
	client := &mockClient{}
	repo := &mockEventRepo{}
	client.On("ParseEvent", payload, "sig").Return(event, true, nil)

	var stored *domain.PaymentEvent
	repo.On("Insert", mock.Anything, mock.AnythingOfType("*domain.PaymentEvent")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.PaymentEvent) }).
		Return(nil)

	svc := NewService(client, repo, nil)
	err := svc.HandleWebhook(context.Background(), payload, "sig")

	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "evt_1", stored.EventID)
	assert.Equal(t, "checkout.session.completed", stored.Type)
	assert.WithinDuration(t, time.Now().UTC(), stored.ReceivedAt, 2*time.Second)
}

func TestHandleWebhook_AlertFailure_IsNonFatal(t *testing.T) {
	event, payload := webhookEvent(t, "evt_2", "invoice.payment_failed")
	client := &mockClient{}
	repo := &mockEventRepo{}
	alerts := &mockAlerts{}
	client.On("ParseEvent", payload, "sig").Return(event, true, nil)
	repo.On("Insert", mock.Anything, mock.Anything).Return(nil)
	alerts.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	svc := NewService(client, repo, alerts)
	err := svc.HandleWebhook(context.Background(), payload, "sig")
	assert.NoError(t, err)
	alerts.AssertExpectations(t)
}

func TestHandleWebhook_UnverifiedParse_StillRecorded(t *testing.T) {
	event, payload := webhookEvent(t, "evt_3", "customer.subscription.created")
	client := &mockClient{}
	repo := &mockEventRepo{}
	client.On("ParseEvent", payload, "sig").Return(event, false, nil)
	repo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(client, repo, nil)
	err := svc.HandleWebhook(context.Background(), payload, "sig")
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
