package domain

import "time"

// User is a durable identity provisioned the first time an email completes
// OTP verification. Possession of the inbox is the only credential; no
// password or secret is ever stored.
type User struct {
	UserID    string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created"`
}
