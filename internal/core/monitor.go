package core

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// MonitorConfig controls the detection cycle
type MonitorConfig struct {
	ImagesPerSeries      int
	SampleInterval       time.Duration
	CycleInterval        time.Duration
	Cooldown             time.Duration
	MaxConsecutiveErrors int
	BreakerCooldown      time.Duration
	TestMode             bool
}

// Monitor runs the detection cycle: sample the stream, ask the model,
// verify a tentative failure, notify, then hold the cooldown.
type Monitor struct {
	frames   FrameSource
	llm      VisionClient
	notifier Notifier
	status   StatusPublisher
	verifier *Verifier
	state    *CycleState
	logger   *zap.Logger
	cfg      MonitorConfig

	consecutiveErrors int
	sleep             SleepFunc
	now               func() time.Time
}

// NewMonitor creates a new detection cycle monitor. The notifier may be
// nil when no alert channel is configured; a confirmed failure then
// still arms the cooldown.
func NewMonitor(
	frames FrameSource,
	llm VisionClient,
	notifier Notifier,
	status StatusPublisher,
	verifier *Verifier,
	state *CycleState,
	logger *zap.Logger,
	cfg MonitorConfig,
) *Monitor {
	return &Monitor{
		frames:   frames,
		llm:      llm,
		notifier: notifier,
		status:   status,
		verifier: verifier,
		state:    state,
		logger:   logger,
		cfg:      cfg,
		sleep:    WaitSleep,
		now:      time.Now,
	}
}

// Run executes detection cycles until the context is cancelled. Cycle
// errors never terminate the loop; after the consecutive-error budget
// is exhausted the loop holds the breaker cooldown and resets.
func (m *Monitor) Run(ctx context.Context) {
	if m.cfg.TestMode {
		m.logger.Info("Running in test mode - cycle suspended, waiting for shutdown")
		<-ctx.Done()
		return
	}

	m.logger.Info("Running in continuous mode",
		zap.Duration("cycle_interval", m.cfg.CycleInterval),
		zap.Int("images_per_series", m.cfg.ImagesPerSeries))

	for ctx.Err() == nil {
		if err := m.RunCycle(ctx); err != nil {
			m.consecutiveErrors++
			m.logger.Error("Detection cycle failed",
				zap.Error(err),
				zap.Int("consecutive_errors", m.consecutiveErrors))

			if m.consecutiveErrors >= m.cfg.MaxConsecutiveErrors {
				m.logger.Warn("Consecutive error budget exhausted, backing off",
					zap.Duration("breaker_cooldown", m.cfg.BreakerCooldown))
				m.sleep(ctx, m.cfg.BreakerCooldown)
				m.consecutiveErrors = 0
			}
		} else {
			m.consecutiveErrors = 0
		}

		m.sleep(ctx, m.cfg.CycleInterval)
	}
}

// RunCycle executes one full detection cycle. The returned error covers
// capture, inference and parse failures only; delivery problems are
// logged and swallowed.
func (m *Monitor) RunCycle(ctx context.Context) error {
	// Hard backpressure guard: within the cooldown window the failure is
	// already known and alerted, so the model is not contacted at all.
	if m.state.InCooldown(m.now(), m.cfg.Cooldown) {
		m.logger.Info("Cooldown active, skipping analysis",
			zap.Time("last_failure", m.state.LastFailure()),
			zap.Duration("cooldown", m.cfg.Cooldown))
		return nil
	}

	samples, err := captureSeries(ctx, m.frames, m.cfg.ImagesPerSeries, m.cfg.SampleInterval, m.sleep)
	if err != nil {
		return err
	}

	raw, err := m.llm.Analyze(ctx, samples)
	if err != nil {
		return err
	}

	judgment, err := ParseJudgment(raw)
	if err != nil {
		return err
	}

	confirmed := false
	if judgment.Verdict == VerdictFailed {
		m.logger.Info("Tentative failure signal, starting verification")
		confirmed = m.verifier.Confirm(ctx)
	}

	m.publishStatus(ctx, judgment, confirmed)

	if !confirmed {
		if judgment.Verdict == VerdictFailed {
			m.logger.Info("Tentative failure rejected by verification")
		} else {
			m.logger.Info("No print failure detected", zap.String("verdict", judgment.Verdict.String()))
		}
		return nil
	}

	return m.alert(ctx, judgment)
}

// alert captures a fresh frame and delivers the failure notification.
// The frame from the analysis series is deliberately not reused; the
// alert should show the printer as it looks right now.
func (m *Monitor) alert(ctx context.Context, judgment *Judgment) error {
	fresh, err := m.frames.Capture(ctx)
	if err != nil {
		return err
	}

	if m.notifier == nil {
		m.logger.Info("Print failure confirmed, alert channel not configured")
		m.state.RecordFailure(m.now())
		return nil
	}

	if err := m.notifier.Notify(ctx, fresh, judgment); err != nil {
		// Logged, never retried; the cooldown stays unarmed so the next
		// cycle can attempt the alert again.
		m.logger.Error("Failed to deliver alert", zap.Error(err))
		return nil
	}

	m.logger.Info("Print failure alert delivered")
	m.state.RecordFailure(m.now())
	return nil
}

// publishStatus delivers the per-cycle status event, best-effort
func (m *Monitor) publishStatus(ctx context.Context, judgment *Judgment, confirmed bool) {
	event := StatusEvent{
		Timestamp: m.now(),
	}

	switch {
	case confirmed:
		event.Verdict = VerdictFailed
		event.Description = "Print failure was detected in the image."
	case judgment.Verdict == VerdictFailed:
		event.Verdict = VerdictHealthy
		event.Description = "Tentative print failure was not confirmed by verification."
	case judgment.Verdict == VerdictHealthy:
		event.Verdict = VerdictHealthy
		event.Description = "No print failure was detected in the image."
	default:
		event.Verdict = VerdictUnknown
		event.Description = "Could not determine if a print failure was detected."
	}

	if m.status == nil {
		return
	}
	if err := m.status.Publish(ctx, event); err != nil {
		m.logger.Error("Failed to publish status", zap.Error(err))
	}
}
