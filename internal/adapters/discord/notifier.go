package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/llm-print-monitor/internal/config"
	"github.com/mikey/llm-print-monitor/internal/core"
)

// Notifier delivers failure alerts to a Discord webhook, attaching the
// frame that triggered the alert
type Notifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *zap.Logger
}

type embed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
	Timestamp   string `json:"timestamp"`
}

type webhookPayload struct {
	Content string  `json:"content"`
	Embeds  []embed `json:"embeds"`
}

// NewNotifier creates a new Discord webhook notifier
func NewNotifier(cfg config.DiscordConfig, logger *zap.Logger) *Notifier {
	return &Notifier{
		webhookURL: cfg.WebhookURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// Notify implements core.Notifier
func (n *Notifier) Notify(ctx context.Context, sample *core.Sample, judgment *core.Judgment) error {
	payload := buildPayload(judgment)
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return &core.DeliveryError{Target: "discord", Err: fmt.Errorf("failed to marshal payload: %w", err)}
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writer.WriteField("payload_json", string(payloadJSON)); err != nil {
		return &core.DeliveryError{Target: "discord", Err: err}
	}
	part, err := writer.CreateFormFile("file", "analyzed_frame.jpg")
	if err != nil {
		return &core.DeliveryError{Target: "discord", Err: err}
	}
	if _, err := part.Write(sample.Image); err != nil {
		return &core.DeliveryError{Target: "discord", Err: err}
	}
	if err := writer.Close(); err != nil {
		return &core.DeliveryError{Target: "discord", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, body)
	if err != nil {
		return &core.DeliveryError{Target: "discord", Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return &core.DeliveryError{Target: "discord", Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &core.DeliveryError{Target: "discord", Err: fmt.Errorf("webhook returned status %d", resp.StatusCode)}
	}

	n.logger.Info("Alert sent to Discord", zap.Int("status", resp.StatusCode))
	return nil
}

// buildPayload builds the webhook message for a judgment. The copy
// mirrors the status the operators already know from the status sink.
func buildPayload(judgment *core.Judgment) webhookPayload {
	failed := judgment.Verdict == core.VerdictFailed

	e := embed{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	var content string
	if failed {
		content = "⚠️ **CRITICAL: Print Failure Detected**"
		e.Title = "⚠️ CRITICAL: Print Failure Detected"
		e.Description = "Please verify in person or inspect the image above."
		e.Color = 0xFF0000
	} else {
		content = "ℹ️ Print Status: Normal"
		e.Title = "ℹ️ Print Status: Normal"
		e.Description = "Print appears to be proceeding normally."
		e.Color = 0x00FF00
	}
	if judgment.Explanation != "" {
		e.Description = judgment.Explanation + "\n" + e.Description
	}

	return webhookPayload{Content: content, Embeds: []embed{e}}
}
