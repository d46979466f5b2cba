package core

import (
	"context"
	"time"
)

// SleepFunc waits for the given duration. Injectable so tests do not
// run on wall-clock time.
type SleepFunc func(ctx context.Context, d time.Duration)

// WaitSleep is the default SleepFunc, a deadline wait cut short only by
// context cancellation.
func WaitSleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// SeriesInterval derives the spacing of a capture series from its
// sample timestamps, rounded to whole seconds.
func SeriesInterval(samples []*Sample) time.Duration {
	if len(samples) < 2 {
		return 0
	}
	return samples[1].CapturedAt.Sub(samples[0].CapturedAt).Round(time.Second)
}

// captureSeries acquires count samples spaced by interval. The first
// sample is captured immediately; any capture failure aborts the series.
func captureSeries(ctx context.Context, frames FrameSource, count int, interval time.Duration, sleep SleepFunc) ([]*Sample, error) {
	samples := make([]*Sample, 0, count)
	for i := 0; i < count; i++ {
		if i > 0 {
			sleep(ctx, interval)
		}
		sample, err := frames.Capture(ctx)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}
	return samples, nil
}
