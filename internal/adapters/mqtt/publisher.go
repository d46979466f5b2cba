package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/mikey/llm-print-monitor/internal/config"
	"github.com/mikey/llm-print-monitor/internal/core"
)

// Publisher delivers status events to an MQTT topic, best-effort
type Publisher struct {
	client paho.Client
	topic  string
	logger *zap.Logger
}

// statusMessage is the wire shape of a status event
type statusMessage struct {
	Timestamp   string `json:"timestamp"`
	PrintFailed *bool  `json:"print_failed"`
	Description string `json:"description"`
}

// NewPublisher connects to the broker and returns a publisher. The
// connection auto-reconnects; publish failures afterwards are the
// caller's to swallow.
func NewPublisher(cfg config.MQTTConfig, logger *zap.Logger) (*Publisher, error) {
	opts := paho.NewClientOptions()
	opts.AddBroker(cfg.BrokerURL)
	opts.SetClientID(cfg.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = func(c paho.Client) {
		logger.Info("Connected to MQTT broker", zap.String("broker", cfg.BrokerURL))
	}
	opts.OnConnectionLost = func(c paho.Client, err error) {
		logger.Warn("MQTT connection lost, will auto-reconnect", zap.Error(err))
	}

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(5 * time.Second) {
		return nil, fmt.Errorf("mqtt connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connection failed: %w", err)
	}

	return &Publisher{
		client: client,
		topic:  cfg.Topic,
		logger: logger,
	}, nil
}

// Publish implements core.StatusPublisher
func (p *Publisher) Publish(ctx context.Context, event core.StatusEvent) error {
	msg := statusMessage{
		Timestamp:   event.Timestamp.Format(time.RFC3339),
		Description: event.Description,
	}
	switch event.Verdict {
	case core.VerdictFailed:
		failed := true
		msg.PrintFailed = &failed
	case core.VerdictHealthy:
		failed := false
		msg.PrintFailed = &failed
	}
	// VerdictUnknown publishes print_failed as null

	payload, err := json.Marshal(msg)
	if err != nil {
		return &core.DeliveryError{Target: "mqtt", Err: fmt.Errorf("failed to marshal status: %w", err)}
	}

	token := p.client.Publish(p.topic, 0, false, payload)
	if !token.WaitTimeout(2 * time.Second) {
		return &core.DeliveryError{Target: "mqtt", Err: fmt.Errorf("publish timeout")}
	}
	if err := token.Error(); err != nil {
		return &core.DeliveryError{Target: "mqtt", Err: err}
	}

	p.logger.Debug("Published status", zap.String("topic", p.topic), zap.String("verdict", event.Verdict.String()))
	return nil
}

// Close disconnects from the broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
		p.logger.Info("MQTT disconnected")
	}
}

// NopPublisher drops all status events; used when MQTT is not configured
type NopPublisher struct{}

// Publish implements core.StatusPublisher
func (NopPublisher) Publish(ctx context.Context, event core.StatusEvent) error {
	return nil
}
