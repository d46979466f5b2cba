package di

import (
	"context"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/llm-print-monitor/internal/config"
	"github.com/mikey/llm-print-monitor/internal/core"
	"github.com/mikey/llm-print-monitor/internal/factory"
	"github.com/mikey/llm-print-monitor/internal/logging"
	"github.com/mikey/llm-print-monitor/internal/resilience"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewSourceFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewSinkFactory); err != nil {
		return nil, err
	}

	// Register the resilient vision client. The initial session is built
	// eagerly so missing credentials fail at startup, and the factory
	// doubles as the session refresh hook.
	if err := container.Provide(func(f *factory.LLMFactory, cfg *config.Config, logger *zap.Logger) (core.VisionClient, error) {
		client, err := f.CreateVisionClient(context.Background())
		if err != nil {
			return nil, err
		}

		policy := resilience.DefaultPolicy()
		retryCfg := cfg.GetRetry()
		policy.MaxRetries = retryCfg.MaxRetries
		policy.BaseDelay = retryCfg.BaseDelay
		policy.MaxDelay = retryCfg.MaxDelay

		return resilience.NewCaller(client, f.CreateVisionClient, policy, logger), nil
	}); err != nil {
		return nil, err
	}

	// Register frame source
	if err := container.Provide(func(f *factory.SourceFactory) (core.FrameSource, error) {
		return f.CreateFrameSource()
	}); err != nil {
		return nil, err
	}

	// Register notifier and status publisher
	if err := container.Provide(func(f *factory.SinkFactory) core.Notifier {
		return f.CreateNotifier()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.SinkFactory) core.StatusPublisher {
		return f.CreateStatusPublisher()
	}); err != nil {
		return nil, err
	}

	// Register cycle state
	if err := container.Provide(core.NewCycleState); err != nil {
		return nil, err
	}

	// Register verification controller
	if err := container.Provide(func(frames core.FrameSource, llm core.VisionClient, cfg *config.Config, logger *zap.Logger) *core.Verifier {
		verifyCfg := cfg.GetVerification()
		return core.NewVerifier(frames, llm, logger, core.VerifierConfig{
			Rounds:          verifyCfg.Rounds,
			SamplesPerRound: verifyCfg.SamplesPerRound,
			SampleInterval:  verifyCfg.SampleInterval,
			RoundInterval:   verifyCfg.RoundInterval,
			Threshold:       verifyCfg.Threshold,
		})
	}); err != nil {
		return nil, err
	}

	// Register detection cycle monitor
	if err := container.Provide(func(
		frames core.FrameSource,
		llm core.VisionClient,
		notifier core.Notifier,
		status core.StatusPublisher,
		verifier *core.Verifier,
		state *core.CycleState,
		cfg *config.Config,
		logger *zap.Logger,
	) *core.Monitor {
		monitorCfg := cfg.GetMonitor()
		breakerCfg := cfg.GetBreaker()
		return core.NewMonitor(frames, llm, notifier, status, verifier, state, logger, core.MonitorConfig{
			ImagesPerSeries:      monitorCfg.ImagesPerSeries,
			SampleInterval:       monitorCfg.SampleInterval,
			CycleInterval:        monitorCfg.CycleInterval,
			Cooldown:             monitorCfg.Cooldown,
			MaxConsecutiveErrors: breakerCfg.MaxConsecutiveErrors,
			BreakerCooldown:      breakerCfg.Cooldown,
			TestMode:             monitorCfg.TestMode,
		})
	}); err != nil {
		return nil, err
	}

	return container, nil
}
