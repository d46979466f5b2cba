package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/mikey/llm-print-monitor/internal/config"
	"github.com/mikey/llm-print-monitor/internal/core"
)

// OpenAIClient is an implementation of the VisionClient interface using OpenAI
type OpenAIClient struct {
	client       *openai.Client
	modelName    string
	maxTokens    int
	temperature  float32
	topP         float32
	systemPrompt string
	template     string
	logger       *zap.Logger
}

// NewOpenAIClient creates a new OpenAI vision client
func NewOpenAIClient(cfg config.OpenAIConfig, prompt config.PromptConfig, logger *zap.Logger) *OpenAIClient {
	return &OpenAIClient{
		client:       openai.NewClient(cfg.APIKey),
		modelName:    cfg.ModelName,
		maxTokens:    cfg.MaxTokens,
		temperature:  cfg.Temperature,
		topP:         cfg.TopP,
		systemPrompt: prompt.System,
		template:     prompt.Template,
		logger:       logger,
	}
}

// Analyze submits a frame series as one multi-image call and returns the flat response text
func (c *OpenAIClient) Analyze(ctx context.Context, samples []*core.Sample) (string, error) {
	if len(samples) == 0 {
		return "", &core.InferenceError{Kind: core.InferenceOther, Err: errors.New("no samples to analyze")}
	}

	parts := make([]openai.ChatMessagePart, 0, len(samples)+1)
	for _, sample := range samples {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(sample.Image),
				Detail: openai.ImageURLDetailAuto,
			},
		})
	}
	parts = append(parts, openai.ChatMessagePart{
		Type: openai.ChatMessagePartTypeText,
		Text: core.RenderPrompt(c.template, len(samples), core.SeriesInterval(samples)),
	})

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: c.systemPrompt,
			},
			{
				Role:         openai.ChatMessageRoleUser,
				MultiContent: parts,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classify(err)
	}

	if len(resp.Choices) == 0 {
		return "", &core.InferenceError{Kind: core.InferenceOther, Err: errors.New("empty response from OpenAI")}
	}

	c.logger.Debug("Received analysis from OpenAI",
		zap.Int("images", len(samples)),
		zap.String("response_id", resp.ID))
	return resp.Choices[0].Message.Content, nil
}

// classify maps provider errors onto the inference error taxonomy from
// the HTTP status, never message text
func classify(err error) *core.InferenceError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return &core.InferenceError{Kind: core.InferenceThrottled, Err: err}
		case http.StatusUnauthorized, http.StatusForbidden:
			return &core.InferenceError{Kind: core.InferenceExpired, Err: err}
		}
	}
	return &core.InferenceError{Kind: core.InferenceOther, Err: fmt.Errorf("failed to create chat completion: %w", err)}
}
