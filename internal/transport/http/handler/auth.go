package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/trustnet-ai/api/internal/application/auth"
	"github.com/trustnet-ai/api/internal/domain"
	"github.com/trustnet-ai/api/internal/pkg/validate"
)

// AuthHandler handles the passwordless login endpoints.
type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// SendOTP issues a login code and dispatches it by email.
func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req auth.SendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	result, err := h.svc.SendOTP(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SendOTPEnvelope{
		Success:   true,
		Message:   result.Message,
		DebugCode: result.DebugCode,
	})
}

// VerifyOTP consumes a submitted code and, on success, returns the session
// claim the client persists.
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req auth.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	sess, err := h.svc.VerifyOTP(r.Context(), req)
	if err != nil {
		// Verification failures always surface the same generic message.
		if errors.Is(err, domain.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, domain.InvalidOTPMessage)
			return
		}
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VerifyOTPEnvelope{
		Success:  true,
		Email:    sess.Email,
		LoggedIn: sess.LoggedIn,
		IssuedAt: sess.IssuedAt,
		Token:    sess.Token,
	})
}
