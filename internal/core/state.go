package core

import (
	"sync"
	"time"
)

// CycleState holds the process-wide alerting state shared across cycles.
// Only the detection loop writes it, but the cooldown invariant is
// safety-critical so access is serialized anyway.
type CycleState struct {
	mu              sync.Mutex
	lastFailureTime time.Time
}

// NewCycleState creates an empty cycle state with no recorded failure
func NewCycleState() *CycleState {
	return &CycleState{}
}

// InCooldown reports whether an alert fired within the cooldown window
func (s *CycleState) InCooldown(now time.Time, cooldown time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastFailureTime.IsZero() {
		return false
	}
	return now.Sub(s.lastFailureTime) <= cooldown
}

// RecordFailure marks the time the current alert fired
func (s *CycleState) RecordFailure(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastFailureTime = now
}

// LastFailure returns the time of the most recent alert, zero if none
func (s *CycleState) LastFailure() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastFailureTime
}
