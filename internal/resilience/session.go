package resilience

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mikey/llm-print-monitor/internal/core"
)

// RefreshFunc builds a replacement vision client after credential expiry
type RefreshFunc func(ctx context.Context) (core.VisionClient, error)

// Caller wraps a vision client with the resilience behavior the
// detection cycle relies on: exponential backoff on throttling, and a
// single session refresh plus retry on credential expiry. The wrapped
// client is a swappable handle; refresh installs a new one and never
// mutates the old.
type Caller struct {
	mu      sync.Mutex
	client  core.VisionClient
	refresh RefreshFunc
	policy  Policy
	logger  *zap.Logger
}

// NewCaller creates a resilient caller around an initial client handle
func NewCaller(client core.VisionClient, refresh RefreshFunc, policy Policy, logger *zap.Logger) *Caller {
	return &Caller{
		client:  client,
		refresh: refresh,
		policy:  policy,
		logger:  logger,
	}
}

// Analyze implements core.VisionClient
func (c *Caller) Analyze(ctx context.Context, samples []*core.Sample) (string, error) {
	raw, err := Retry(ctx, c.logger, c.policy, func(ctx context.Context) (string, error) {
		return c.current().Analyze(ctx, samples)
	})
	if err == nil || !core.IsExpired(err) {
		return raw, err
	}

	c.logger.Warn("Credentials expired, refreshing session")
	fresh, refreshErr := c.refresh(ctx)
	if refreshErr != nil {
		return "", fmt.Errorf("failed to refresh credential session: %w", refreshErr)
	}
	c.swap(fresh)

	// One retry after the refresh; a second expiry propagates as a hard
	// failure for this call.
	return c.current().Analyze(ctx, samples)
}

// Close releases the active client handle when it holds resources that
// need closing, such as a Gemini gRPC connection.
func (c *Caller) Close() error {
	if closer, ok := c.current().(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// current returns the active client handle
func (c *Caller) current() core.VisionClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client
}

// swap installs a replacement client handle
func (c *Caller) swap(client core.VisionClient) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.client = client
}
