package core

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// VerifierConfig controls the verification pass. RoundInterval is the
// pause between rounds; when zero it falls back to SampleInterval.
type VerifierConfig struct {
	Rounds          int
	SamplesPerRound int
	SampleInterval  time.Duration
	RoundInterval   time.Duration
	Threshold       int
}

func (c VerifierConfig) roundInterval() time.Duration {
	if c.RoundInterval > 0 {
		return c.RoundInterval
	}
	return c.SampleInterval
}

// Verifier confirms or rejects a tentative failure signal by
// independently re-sampling the scene and re-querying the model.
// A single noisy frame must not page anyone.
type Verifier struct {
	frames FrameSource
	llm    VisionClient
	logger *zap.Logger
	cfg    VerifierConfig
	sleep  SleepFunc
}

// NewVerifier creates a new verification controller
func NewVerifier(frames FrameSource, llm VisionClient, logger *zap.Logger, cfg VerifierConfig) *Verifier {
	return &Verifier{
		frames: frames,
		llm:    llm,
		logger: logger,
		cfg:    cfg,
		sleep:  WaitSleep,
	}
}

// Confirm runs the configured number of verification rounds and reports
// whether the failure is confirmed. A round that errors (capture,
// inference or parse) counts toward neither confirmations nor attempts;
// the pass still runs exactly the configured number of rounds.
func (v *Verifier) Confirm(ctx context.Context) bool {
	outcome := VerificationOutcome{}

	for round := 1; round <= v.cfg.Rounds; round++ {
		if round > 1 {
			v.sleep(ctx, v.cfg.roundInterval())
		}

		judgment, err := v.runRound(ctx)
		if err != nil {
			v.logger.Warn("Verification round skipped",
				zap.Int("round", round),
				zap.Error(err))
			continue
		}

		outcome.Attempts++
		if judgment.Verdict == VerdictFailed {
			outcome.Confirmations++
		}
	}

	confirmed := outcome.Confirmations >= v.cfg.Threshold
	v.logger.Info("Verification pass complete",
		zap.Int("confirmations", outcome.Confirmations),
		zap.Int("attempts", outcome.Attempts),
		zap.Int("threshold", v.cfg.Threshold),
		zap.Bool("confirmed", confirmed))

	return confirmed
}

// runRound captures one sample series and asks the model for a judgment
func (v *Verifier) runRound(ctx context.Context) (*Judgment, error) {
	samples, err := captureSeries(ctx, v.frames, v.cfg.SamplesPerRound, v.cfg.SampleInterval, v.sleep)
	if err != nil {
		return nil, err
	}

	raw, err := v.llm.Analyze(ctx, samples)
	if err != nil {
		return nil, err
	}

	return ParseJudgment(raw)
}
