package core

import (
	"time"
)

// Verdict is the three-valued outcome of analyzing a frame series
type Verdict int

const (
	// VerdictHealthy means the model determined the print is proceeding normally
	VerdictHealthy Verdict = iota
	// VerdictFailed means the model determined the print has failed
	VerdictFailed
	// VerdictUnknown means the model response did not contain a determination
	VerdictUnknown
)

// String returns a human-readable name for the verdict
func (v Verdict) String() string {
	switch v {
	case VerdictHealthy:
		return "healthy"
	case VerdictFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Sample is one captured frame, JPEG-encoded, plus its capture time
type Sample struct {
	Image      []byte
	CapturedAt time.Time
}

// Judgment is the parsed result of one inference call over a frame series
type Judgment struct {
	Verdict     Verdict
	Explanation string
}

// VerificationOutcome summarizes one verification pass
type VerificationOutcome struct {
	Confirmations int
	Attempts      int
}

// StatusEvent is published to the status sink after every cycle
type StatusEvent struct {
	Timestamp   time.Time
	Verdict     Verdict
	Description string
}
