package domain

import "time"

// Verdict is the outcome of a simulated analysis.
type Verdict string

const (
	VerdictLikelyFraudulent Verdict = "likely_fraudulent"
	VerdictSuspicious       Verdict = "suspicious"
	VerdictLikelyAuthentic  Verdict = "likely_authentic"
)

// Scan kinds accepted by the analyzer.
const (
	ScanKindImage   = "image"
	ScanKindVoice   = "voice"
	ScanKindVideo   = "video"
	ScanKindMessage = "message"
)

// Upload size caps, matching the front-end limits.
const (
	MaxMediaUploadBytes = 10 << 20
	MaxVideoUploadBytes = 20 << 20
)

// Scan is one analysis request and its (simulated) result.
type Scan struct {
	ScanID         string    `json:"id"`
	UserEmail      string    `json:"user_email"`
	Kind           string    `json:"kind"`
	Verdict        Verdict   `json:"verdict"`
	Confidence     int       `json:"confidence"` // percent, 70-95
	Recommendation string    `json:"recommendation"`
	ObjectKey      string    `json:"-"` // S3 key, empty for message scans
	CreatedAt      time.Time `json:"created"`
}
