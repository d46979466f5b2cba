package factory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/llm-print-monitor/internal/adapters/bedrock"
	"github.com/mikey/llm-print-monitor/internal/adapters/gemini"
	"github.com/mikey/llm-print-monitor/internal/adapters/openai"
	"github.com/mikey/llm-print-monitor/internal/config"
	"github.com/mikey/llm-print-monitor/internal/core"
)

// LLMFactory creates vision clients. Its CreateVisionClient method is
// also the credential session refresh hook: each call builds a fresh
// client with a fresh session.
type LLMFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewLLMFactory creates a new vision client factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger) *LLMFactory {
	return &LLMFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateVisionClient creates a new vision client based on the configuration
func (f *LLMFactory) CreateVisionClient(ctx context.Context) (core.VisionClient, error) {
	llmConfig := f.cfg.GetLLM()

	switch llmConfig.Provider {
	case "bedrock":
		return bedrock.NewFactory(f.cfg, f.logger).CreateClient(ctx)
	case "gemini":
		return gemini.NewGeminiClient(ctx, f.cfg.GetGemini(), f.cfg.GetPrompt(), f.logger)
	case "openai":
		return openai.NewOpenAIClient(f.cfg.GetOpenAI(), f.cfg.GetPrompt(), f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", llmConfig.Provider)
	}
}
