package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/mikey/llm-print-monitor/internal/config"
	"github.com/mikey/llm-print-monitor/internal/core"
)

// GeminiClient is an implementation of the VisionClient interface using Google Gemini
type GeminiClient struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
	template  string
	logger    *zap.Logger
}

// NewGeminiClient creates a new Gemini vision client
func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig, prompt config.PromptConfig, logger *zap.Logger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.ModelName)
	model.SetTemperature(cfg.Temperature)
	model.SetTopP(cfg.TopP)
	model.SetMaxOutputTokens(int32(cfg.MaxTokens))
	model.SystemInstruction = genai.NewUserContent(genai.Text(prompt.System))

	return &GeminiClient{
		client:    client,
		model:     model,
		modelName: cfg.ModelName,
		template:  prompt.Template,
		logger:    logger,
	}, nil
}

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Analyze submits a frame series as one multi-image call and returns the flat response text
func (c *GeminiClient) Analyze(ctx context.Context, samples []*core.Sample) (string, error) {
	if len(samples) == 0 {
		return "", &core.InferenceError{Kind: core.InferenceOther, Err: errors.New("no samples to analyze")}
	}

	parts := make([]genai.Part, 0, len(samples)+1)
	for _, sample := range samples {
		parts = append(parts, genai.ImageData("jpeg", sample.Image))
	}
	parts = append(parts, genai.Text(core.RenderPrompt(c.template, len(samples), core.SeriesInterval(samples))))

	resp, err := c.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", classify(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &core.InferenceError{Kind: core.InferenceOther, Err: errors.New("empty response from Gemini")}
	}

	c.logger.Debug("Received analysis from Gemini", zap.Int("images", len(samples)))
	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}

// classify maps provider errors onto the inference error taxonomy from
// the HTTP status, never message text
func classify(err error) *core.InferenceError {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests:
			return &core.InferenceError{Kind: core.InferenceThrottled, Err: err}
		case http.StatusUnauthorized, http.StatusForbidden:
			return &core.InferenceError{Kind: core.InferenceExpired, Err: err}
		}
	}
	return &core.InferenceError{Kind: core.InferenceOther, Err: err}
}
