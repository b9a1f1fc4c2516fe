package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/trustnet-ai/api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SendOTPEnvelope wraps the send-otp response. DebugCode appears only when
// the mail backend is unconfigured and demo mode is on.
type SendOTPEnvelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	DebugCode string `json:"debug_code,omitempty"`
	Error     string `json:"error,omitempty"`
}

// VerifyOTPEnvelope wraps the verify-otp response with the session claim the
// client persists.
type VerifyOTPEnvelope struct {
	Success  bool   `json:"success"`
	Email    string `json:"email,omitempty"`
	LoggedIn bool   `json:"logged_in,omitempty"`
	IssuedAt int64  `json:"issued_at,omitempty"`
	Token    string `json:"token,omitempty"`
	Error    string `json:"error,omitempty"`
}

// MediaURLEnvelope wraps the presigned media download link.
type MediaURLEnvelope struct {
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}

// CheckoutEnvelope wraps the checkout-creation response.
type CheckoutEnvelope struct {
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps domain sentinel errors onto HTTP status codes.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
