package core

import (
	"context"
)

// FrameSource defines the interface for acquiring frames from the printer camera
type FrameSource interface {
	// Capture returns the most recent frame from the stream or a *CaptureError
	Capture(ctx context.Context) (*Sample, error)
}

// VisionClient defines the interface for vision model inference.
// Implementations return the flat response text and classify transport
// errors into *InferenceError at the boundary.
type VisionClient interface {
	// Analyze submits a frame series as one multi-image call and returns the raw response text
	Analyze(ctx context.Context, samples []*Sample) (string, error)
}

// Notifier defines the interface for delivering a failure alert
type Notifier interface {
	// Notify delivers the alert with the frame that triggered it
	Notify(ctx context.Context, sample *Sample, judgment *Judgment) error
}

// StatusPublisher defines the interface for the best-effort status sink
type StatusPublisher interface {
	// Publish delivers a status event; failures are logged by the caller and swallowed
	Publish(ctx context.Context, event StatusEvent) error
}
