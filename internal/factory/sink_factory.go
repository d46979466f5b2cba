package factory

import (
	"go.uber.org/zap"

	"github.com/mikey/llm-print-monitor/internal/adapters/discord"
	"github.com/mikey/llm-print-monitor/internal/adapters/mqtt"
	"github.com/mikey/llm-print-monitor/internal/config"
	"github.com/mikey/llm-print-monitor/internal/core"
)

// SinkFactory creates the alert notifier and the status publisher.
// Both are optional: an unset webhook means no alert channel, an unset
// broker means status events are dropped.
type SinkFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSinkFactory creates a new sink factory
func NewSinkFactory(cfg *config.Config, logger *zap.Logger) *SinkFactory {
	return &SinkFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateNotifier creates the alert notifier, nil when unconfigured
func (f *SinkFactory) CreateNotifier() core.Notifier {
	discordCfg := f.cfg.GetDiscord()
	if discordCfg.WebhookURL == "" {
		f.logger.Info("Discord webhook not configured, alerts disabled")
		return nil
	}
	return discord.NewNotifier(discordCfg, f.logger)
}

// CreateStatusPublisher creates the status publisher. A broker that is
// configured but unreachable degrades to the no-op publisher; status
// delivery is best-effort by contract.
func (f *SinkFactory) CreateStatusPublisher() core.StatusPublisher {
	mqttCfg := f.cfg.GetMQTT()
	if mqttCfg.BrokerURL == "" || mqttCfg.Topic == "" {
		f.logger.Info("MQTT not configured, status events disabled")
		return mqtt.NopPublisher{}
	}

	publisher, err := mqtt.NewPublisher(mqttCfg, f.logger)
	if err != nil {
		f.logger.Error("Failed to connect to MQTT broker, status events disabled", zap.Error(err))
		return mqtt.NopPublisher{}
	}
	return publisher
}
