package resilience

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/mikey/llm-print-monitor/internal/core"
)

// sessionClient fails with expiry a fixed number of times, then succeeds
type sessionClient struct {
	expiries int
	calls    int
}

func (c *sessionClient) Analyze(ctx context.Context, samples []*core.Sample) (string, error) {
	c.calls++
	if c.expiries > 0 {
		c.expiries--
		return "", &core.InferenceError{Kind: core.InferenceExpired, Err: errors.New("token expired")}
	}
	return `{"print_failed": false}`, nil
}

func TestCallerRecoversFromSingleExpiry(t *testing.T) {
	stale := &sessionClient{expiries: 1}
	fresh := &sessionClient{}

	refreshes := 0
	caller := NewCaller(stale, func(ctx context.Context) (core.VisionClient, error) {
		refreshes++
		return fresh, nil
	}, DefaultPolicy(), zap.NewNop())

	raw, err := caller.Analyze(context.Background(), nil)
	if err != nil {
		t.Fatalf("single expiry must be recovered, got %v", err)
	}
	if raw == "" {
		t.Fatalf("expected response text after refresh")
	}
	if refreshes != 1 {
		t.Fatalf("expected exactly one refresh, got %d", refreshes)
	}
	if fresh.calls != 1 {
		t.Fatalf("expected one retry on the fresh session, got %d", fresh.calls)
	}
}

func TestCallerSecondExpiryPropagates(t *testing.T) {
	stale := &sessionClient{expiries: 1}
	alsoStale := &sessionClient{expiries: 1}

	refreshes := 0
	caller := NewCaller(stale, func(ctx context.Context) (core.VisionClient, error) {
		refreshes++
		return alsoStale, nil
	}, DefaultPolicy(), zap.NewNop())

	_, err := caller.Analyze(context.Background(), nil)
	if !core.IsExpired(err) {
		t.Fatalf("second consecutive expiry must propagate, got %v", err)
	}
	if refreshes != 1 {
		t.Fatalf("refresh must happen exactly once, got %d", refreshes)
	}
}

func TestCallerRefreshFailurePropagates(t *testing.T) {
	stale := &sessionClient{expiries: 1}
	caller := NewCaller(stale, func(ctx context.Context) (core.VisionClient, error) {
		return nil, errors.New("credentials file unreadable")
	}, DefaultPolicy(), zap.NewNop())

	_, err := caller.Analyze(context.Background(), nil)
	if err == nil {
		t.Fatalf("refresh failure must propagate")
	}
}

func TestCallerPassesThroughOtherErrors(t *testing.T) {
	failing := failingClient{}
	refreshes := 0
	caller := NewCaller(failing, func(ctx context.Context) (core.VisionClient, error) {
		refreshes++
		return failing, nil
	}, DefaultPolicy(), zap.NewNop())

	_, err := caller.Analyze(context.Background(), nil)
	if err == nil || refreshes != 0 {
		t.Fatalf("non-expiry errors must not trigger a refresh, refreshes=%d err=%v", refreshes, err)
	}
}

type failingClient struct{}

func (failingClient) Analyze(ctx context.Context, samples []*core.Sample) (string, error) {
	return "", &core.InferenceError{Kind: core.InferenceOther, Err: errors.New("boom")}
}

type closableClient struct {
	sessionClient
	closed int
}

func (c *closableClient) Close() error {
	c.closed++
	return nil
}

func TestCallerCloseDelegatesToHandle(t *testing.T) {
	client := &closableClient{}
	caller := NewCaller(client, nil, DefaultPolicy(), zap.NewNop())

	if err := caller.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if client.closed != 1 {
		t.Fatalf("expected the wrapped client to be closed once, got %d", client.closed)
	}
}

func TestCallerCloseWithoutCloserIsNoop(t *testing.T) {
	caller := NewCaller(&sessionClient{}, nil, DefaultPolicy(), zap.NewNop())
	if err := caller.Close(); err != nil {
		t.Fatalf("clients without resources must close cleanly, got %v", err)
	}
}
