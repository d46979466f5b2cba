package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/llm-print-monitor/internal/core"
)

func throttled() error {
	return &core.InferenceError{Kind: core.InferenceThrottled, Err: errors.New("rate exceeded")}
}

func testPolicy(sleeps *[]time.Duration) Policy {
	p := DefaultPolicy()
	p.Jitter = 0
	p.Sleep = func(ctx context.Context, d time.Duration) {
		*sleeps = append(*sleeps, d)
	}
	return p
}

func TestRetryDelaysMonotonicAndCapped(t *testing.T) {
	p := DefaultPolicy()

	var prev time.Duration
	for retry := 0; retry < 12; retry++ {
		delay := p.DelayFor(retry)
		if delay < prev {
			t.Fatalf("delay decreased at retry %d: %s < %s", retry, delay, prev)
		}
		if delay > p.MaxDelay {
			t.Fatalf("delay exceeds cap at retry %d: %s", retry, delay)
		}
		prev = delay
	}
	if p.DelayFor(11) != p.MaxDelay {
		t.Fatalf("late retries must sit at the cap")
	}
}

// Scenario: throttled four times, succeeds on the fifth attempt. The
// total backoff must follow the exponential schedule.
func TestRetryRecoversWithinBudget(t *testing.T) {
	var sleeps []time.Duration
	p := testPolicy(&sleeps)

	attempts := 0
	raw, err := Retry(context.Background(), zap.NewNop(), p, func(ctx context.Context) (string, error) {
		attempts++
		if attempts < 5 {
			return "", throttled()
		}
		return `{"print_failed": false}`, nil
	})
	if err != nil {
		t.Fatalf("Retry returned error: %v", err)
	}
	if raw == "" {
		t.Fatalf("expected the successful response to surface")
	}
	if attempts != 5 {
		t.Fatalf("expected 5 attempts, got %d", attempts)
	}

	want := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}
	if len(sleeps) != len(want) {
		t.Fatalf("expected %d backoff sleeps, got %v", len(want), sleeps)
	}
	for i := range want {
		if sleeps[i] != want[i] {
			t.Fatalf("backoff %d: expected %s, got %s", i, want[i], sleeps[i])
		}
	}
}

func TestRetryExhaustionSurfacesThrottle(t *testing.T) {
	var sleeps []time.Duration
	p := testPolicy(&sleeps)

	attempts := 0
	_, err := Retry(context.Background(), zap.NewNop(), p, func(ctx context.Context) (string, error) {
		attempts++
		return "", throttled()
	})
	if !core.IsThrottled(err) {
		t.Fatalf("exhausted retries must surface the throttle, got %v", err)
	}
	if attempts != p.MaxRetries+1 {
		t.Fatalf("expected %d attempts, got %d", p.MaxRetries+1, attempts)
	}
}

func TestRetryDoesNotRetryOtherErrors(t *testing.T) {
	var sleeps []time.Duration
	p := testPolicy(&sleeps)

	attempts := 0
	_, err := Retry(context.Background(), zap.NewNop(), p, func(ctx context.Context) (string, error) {
		attempts++
		return "", &core.InferenceError{Kind: core.InferenceOther, Err: errors.New("bad payload")}
	})
	if err == nil || attempts != 1 {
		t.Fatalf("non-throttle errors must not be retried, attempts=%d err=%v", attempts, err)
	}
	if len(sleeps) != 0 {
		t.Fatalf("no backoff expected, got %v", sleeps)
	}
}

func TestRetryJitterStaysWithinFraction(t *testing.T) {
	p := DefaultPolicy()
	p.Rand = func() float64 { return 1 } // worst case upward
	if got := p.jittered(10 * time.Second); got != 11*time.Second {
		t.Fatalf("expected +10%% jitter, got %s", got)
	}
	p.Rand = func() float64 { return 0 } // worst case downward
	if got := p.jittered(10 * time.Second); got != 9*time.Second {
		t.Fatalf("expected -10%% jitter, got %s", got)
	}
}
