package core

import (
	"errors"
	"fmt"
)

// InferenceErrorKind classifies inference failures at the client boundary
type InferenceErrorKind int

const (
	// InferenceOther is any inference failure without dedicated recovery
	InferenceOther InferenceErrorKind = iota
	// InferenceThrottled means the provider rate-limited the call
	InferenceThrottled
	// InferenceExpired means the credential session is no longer valid
	InferenceExpired
)

// String returns a human-readable name for the kind
func (k InferenceErrorKind) String() string {
	switch k {
	case InferenceThrottled:
		return "throttled"
	case InferenceExpired:
		return "expired"
	default:
		return "other"
	}
}

// CaptureError indicates the frame source could not deliver a frame
type CaptureError struct {
	Stream string
	Err    error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture from %s failed: %v", e.Stream, e.Err)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}

// InferenceError wraps a vision client failure with its classification
type InferenceError struct {
	Kind InferenceErrorKind
	Err  error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference failed (%s): %v", e.Kind, e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// MalformedResponseError indicates no judgment could be extracted from the response text
type MalformedResponseError struct {
	Raw    string
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed model response: %s", e.Reason)
}

// DeliveryError indicates the notifier or status sink rejected a delivery
type DeliveryError struct {
	Target string
	Err    error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery to %s failed: %v", e.Target, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// IsThrottled reports whether err carries a throttling classification
func IsThrottled(err error) bool {
	var ie *InferenceError
	return errors.As(err, &ie) && ie.Kind == InferenceThrottled
}

// IsExpired reports whether err carries a credential-expiry classification
func IsExpired(err error) bool {
	var ie *InferenceError
	return errors.As(err, &ie) && ie.Kind == InferenceExpired
}
