package resilience

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/llm-print-monitor/internal/core"
)

// Policy controls throttling backoff for inference calls
type Policy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	// Jitter is the +/- fraction applied to each delay
	Jitter float64

	// Sleep and Rand are injectable for tests
	Sleep core.SleepFunc
	Rand  func() float64
}

// DefaultPolicy returns the stock backoff policy
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries: 5,
		BaseDelay:  1 * time.Second,
		MaxDelay:   32 * time.Second,
		Jitter:     0.1,
		Sleep:      core.WaitSleep,
		Rand:       rand.Float64,
	}
}

// DelayFor returns the backoff delay for a retry, before jitter.
// Schedule: base, 2*base, 4*base, ... capped at MaxDelay.
func (p Policy) DelayFor(retry int) time.Duration {
	if retry > 30 {
		return p.MaxDelay
	}
	delay := p.BaseDelay << uint(retry)
	if delay <= 0 || delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// jittered applies the +/- jitter fraction to a delay
func (p Policy) jittered(delay time.Duration) time.Duration {
	if p.Jitter <= 0 || p.Rand == nil {
		return delay
	}
	factor := 1 + p.Jitter*(2*p.Rand()-1)
	return time.Duration(float64(delay) * factor)
}

// Retry invokes op, retrying with exponential backoff while the error
// is classified as throttling. Any other error, and throttling past the
// retry budget, surface to the caller unchanged.
func Retry(ctx context.Context, logger *zap.Logger, p Policy, op func(context.Context) (string, error)) (string, error) {
	var lastErr error

	for retry := 0; ; retry++ {
		raw, err := op(ctx)
		if err == nil {
			return raw, nil
		}
		if !core.IsThrottled(err) {
			return "", err
		}

		lastErr = err
		if retry >= p.MaxRetries {
			break
		}

		delay := p.jittered(p.DelayFor(retry))
		logger.Warn("Inference throttled, backing off",
			zap.Int("retry", retry+1),
			zap.Int("max_retries", p.MaxRetries),
			zap.Duration("delay", delay))
		p.Sleep(ctx, delay)
	}

	return "", lastErr
}
