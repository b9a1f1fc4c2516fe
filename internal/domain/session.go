package domain

import "time"

// SessionTTL is the advisory freshness window clients apply to a session.
const SessionTTL = 24 * time.Hour

// Session is the claim handed to the client after a successful verification.
// Token is a signed JWT carrying the same email and expiry; the plain fields
// are kept for clients that only store the JSON blob.
type Session struct {
	Email    string `json:"email"`
	LoggedIn bool   `json:"logged_in"`
	IssuedAt int64  `json:"issued_at"` // Unix milliseconds
	Token    string `json:"token,omitempty"`
}
