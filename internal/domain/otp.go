package domain

import (
	"strings"
	"time"
)

// OTPTTL is how long an issued code stays valid.
const OTPTTL = 5 * time.Minute

// OTPRecord is the single outstanding login code for an email address.
// The normalized email is the primary key: issuing a new code replaces
// whatever was stored before.
type OTPRecord struct {
	Email     string    `json:"email"`
	Code      string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NormalizeEmail lowercases and trims an email address so that lookups,
// upserts and identity rows all agree on the same key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
