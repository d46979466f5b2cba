package bedrock

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/mikey/llm-print-monitor/internal/config"
	"github.com/mikey/llm-print-monitor/internal/core"
)

// BedrockClient is an implementation of the VisionClient interface using Amazon Bedrock
type BedrockClient struct {
	client       *bedrockruntime.Client
	modelID      string
	maxTokens    int
	temperature  float32
	topP         float32
	topK         int
	systemPrompt string
	template     string
	logger       *zap.Logger
}

// NewBedrockClient creates a new Bedrock vision client
func NewBedrockClient(client *bedrockruntime.Client, cfg config.BedrockConfig, prompt config.PromptConfig, logger *zap.Logger) *BedrockClient {
	return &BedrockClient{
		client:       client,
		modelID:      cfg.InferenceProfileARN,
		maxTokens:    cfg.MaxTokens,
		temperature:  cfg.Temperature,
		topP:         cfg.TopP,
		topK:         cfg.TopK,
		systemPrompt: prompt.System,
		template:     prompt.Template,
		logger:       logger,
	}
}

// Analyze submits a frame series as one multi-image invocation and
// returns the flat response text
func (c *BedrockClient) Analyze(ctx context.Context, samples []*core.Sample) (string, error) {
	if len(samples) == 0 {
		return "", &core.InferenceError{Kind: core.InferenceOther, Err: errors.New("no samples to analyze")}
	}

	payload, err := json.Marshal(c.buildRequest(samples))
	if err != nil {
		return "", &core.InferenceError{Kind: core.InferenceOther, Err: fmt.Errorf("failed to marshal request payload: %w", err)}
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &c.modelID,
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", classify(err)
	}

	text, err := decodeResponseText(resp.Body)
	if err != nil {
		return "", &core.InferenceError{Kind: core.InferenceOther, Err: err}
	}

	c.logger.Debug("Received analysis from Bedrock", zap.Int("images", len(samples)))
	return text, nil
}

// buildRequest assembles the messages-v1 payload: the image series in
// capture order followed by the rendered prompt text
func (c *BedrockClient) buildRequest(samples []*core.Sample) map[string]interface{} {
	content := make([]map[string]interface{}, 0, len(samples)+1)
	for _, sample := range samples {
		content = append(content, map[string]interface{}{
			"image": map[string]interface{}{
				"format": "jpeg",
				"source": map[string]interface{}{
					"bytes": base64.StdEncoding.EncodeToString(sample.Image),
				},
			},
		})
	}

	prompt := core.RenderPrompt(c.template, len(samples), core.SeriesInterval(samples))
	content = append(content, map[string]interface{}{"text": prompt})

	return map[string]interface{}{
		"schemaVersion": "messages-v1",
		"system": []map[string]interface{}{
			{"text": c.systemPrompt},
		},
		"messages": []map[string]interface{}{
			{"role": "user", "content": content},
		},
		"inferenceConfig": map[string]interface{}{
			"maxTokens":   c.maxTokens,
			"temperature": c.temperature,
			"topP":        c.topP,
			"topK":        c.topK,
		},
	}
}

// decodeResponseText performs the single typed decode of the response
// envelope, isolating callers from the transport shape
func decodeResponseText(body []byte) (string, error) {
	var envelope struct {
		Output struct {
			Message struct {
				Content []struct {
					Text string `json:"text"`
				} `json:"content"`
			} `json:"message"`
		} `json:"output"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", fmt.Errorf("failed to unmarshal Bedrock response: %w", err)
	}

	for _, block := range envelope.Output.Message.Content {
		if block.Text != "" {
			return block.Text, nil
		}
	}
	return "", errors.New("empty response from Bedrock model")
}

// classify maps provider errors onto the inference error taxonomy using
// the structured API error code, never message text
func classify(err error) *core.InferenceError {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "TooManyRequestsException", "ServiceQuotaExceededException":
			return &core.InferenceError{Kind: core.InferenceThrottled, Err: err}
		case "ExpiredToken", "ExpiredTokenException", "InvalidSignatureException", "UnrecognizedClientException":
			return &core.InferenceError{Kind: core.InferenceExpired, Err: err}
		}
	}
	return &core.InferenceError{Kind: core.InferenceOther, Err: err}
}
