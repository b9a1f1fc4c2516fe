package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/trustnet-ai/api/internal/application/payment"
	"github.com/trustnet-ai/api/internal/pkg/validate"
)

// maxWebhookBytes caps the webhook body read. Stripe events are small; this
// only guards against junk traffic.
const maxWebhookBytes = 1 << 20

// PaymentHandler handles checkout creation and the provider webhook.
type PaymentHandler struct {
	svc payment.Service
}

func NewPaymentHandler(svc payment.Service) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

func (h *PaymentHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req payment.CreateCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	req.Origin = r.Header.Get("Origin")

	url, err := h.svc.CreateCheckout(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CheckoutEnvelope{URL: url})
}

func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	if err := h.svc.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
