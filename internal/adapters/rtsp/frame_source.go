package rtsp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/mikey/llm-print-monitor/internal/config"
	"github.com/mikey/llm-print-monitor/internal/core"
)

// FrameSource captures frames from an RTSP camera stream. The stream is
// opened fresh for every capture so the returned frame is the current
// one, never a stale buffered frame from a long-lived connection.
type FrameSource struct {
	url     string
	timeout time.Duration
	logger  *zap.Logger
}

// NewFrameSource creates a new RTSP frame source
func NewFrameSource(cfg config.StreamConfig, logger *zap.Logger) *FrameSource {
	return &FrameSource{
		url:     cfg.URL,
		timeout: cfg.CaptureTimeout,
		logger:  logger,
	}
}

// Capture implements core.FrameSource with a bounded timeout
func (s *FrameSource) Capture(ctx context.Context) (*core.Sample, error) {
	type grabResult struct {
		sample *core.Sample
		err    error
	}
	done := make(chan grabResult, 1)

	go func() {
		sample, err := s.grab()
		done <- grabResult{sample: sample, err: err}
	}()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case r := <-done:
		return r.sample, r.err
	case <-timer.C:
		return nil, &core.CaptureError{Stream: s.url, Err: fmt.Errorf("capture timed out after %s", s.timeout)}
	case <-ctx.Done():
		return nil, &core.CaptureError{Stream: s.url, Err: ctx.Err()}
	}
}

// grab opens the stream, reads one frame and encodes it as JPEG
func (s *FrameSource) grab() (*core.Sample, error) {
	s.logger.Debug("Capturing frame", zap.String("stream", s.url))

	capture, err := gocv.OpenVideoCapture(s.url)
	if err != nil {
		return nil, &core.CaptureError{Stream: s.url, Err: fmt.Errorf("failed to open stream: %w", err)}
	}
	defer capture.Close()

	if !capture.IsOpened() {
		return nil, &core.CaptureError{Stream: s.url, Err: errors.New("stream is not open")}
	}

	frame := gocv.NewMat()
	defer frame.Close()

	if ok := capture.Read(&frame); !ok || frame.Empty() {
		return nil, &core.CaptureError{Stream: s.url, Err: errors.New("failed to read frame")}
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, frame)
	if err != nil {
		return nil, &core.CaptureError{Stream: s.url, Err: fmt.Errorf("failed to encode frame: %w", err)}
	}
	defer buf.Close()

	encoded := make([]byte, buf.Len())
	copy(encoded, buf.GetBytes())

	s.logger.Debug("Frame captured", zap.Int("jpeg_bytes", len(encoded)))
	return &core.Sample{Image: encoded, CapturedAt: time.Now()}, nil
}
