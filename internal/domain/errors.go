package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
	ErrUnavailable  = errors.New("unavailable")
)

// InvalidOTPMessage is the single user-facing message for every verification
// failure. Wrong code, expired code and unknown email are deliberately not
// distinguishable from the outside.
const InvalidOTPMessage = "invalid or expired code"
