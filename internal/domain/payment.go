package domain

import (
	"encoding/json"
	"time"
)

// Plan describes one of the fixed subscription offerings.
type Plan struct {
	Name          string
	Description   string
	Interval      string // "month" | "year"
	IntervalCount int64
}

// Plans is the catalog of purchasable subscriptions, keyed by the plan slug
// the front-end sends.
var Plans = map[string]Plan{
	"monthly": {
		Name:          "TrustNet.Ai Standard",
		Description:   "Monthly subscription - Unlimited Image Scans, Voice Scam Detection, WhatsApp Bot Access, Email Support",
		Interval:      "month",
		IntervalCount: 1,
	},
	"semi-annual": {
		Name:          "TrustNet.Ai Semi-Annual",
		Description:   "6-month subscription - All Standard Features + Video Deepfake Analysis, Priority Threat Alerts, Personal Safety Dashboard",
		Interval:      "month",
		IntervalCount: 6,
	},
	"yearly": {
		Name:          "TrustNet.Ai Premium",
		Description:   "Annual subscription - All Semi-Annual Features + 24/7 Helpline Access, Family Protection (5 Users), Direct Cyber Cell Referral",
		Interval:      "year",
		IntervalCount: 1,
	},
}

// PaymentEvent is a raw provider webhook event kept for audit. Events are
// recorded as received; nothing downstream reconciles them.
type PaymentEvent struct {
	EventID    string          `json:"id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	ReceivedAt time.Time       `json:"received"`
}
