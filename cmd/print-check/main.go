package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/llm-print-monitor/internal/config"
	"github.com/mikey/llm-print-monitor/internal/core"
	"github.com/mikey/llm-print-monitor/internal/factory"
	"github.com/mikey/llm-print-monitor/internal/logging"
)

var (
	// LLM provider flags
	provider    = flag.String("provider", "bedrock", "LLM provider (bedrock, gemini, openai)")
	maxTokens   = flag.Int("max-tokens", 500, "Maximum tokens for LLM response")
	temperature = flag.Float64("temperature", 0.0, "Temperature for LLM generation")

	// Bedrock flags
	bedrockRegion  = flag.String("bedrock-region", "us-west-2", "AWS region for Bedrock")
	bedrockProfile = flag.String("bedrock-profile", "default", "AWS credentials profile")
	bedrockARN     = flag.String("bedrock-arn", "", "Bedrock inference profile ARN")
	bedrockCreds   = flag.String("bedrock-creds", "/creds/credentials", "Path to AWS credentials file")

	// Gemini flags
	geminiAPIKey    = flag.String("gemini-api-key", "", "API key for Google Gemini")
	geminiModelName = flag.String("gemini-model", "gemini-1.5-flash", "Gemini model name")

	// OpenAI flags
	openaiAPIKey    = flag.String("openai-api-key", "", "API key for OpenAI")
	openaiModelName = flag.String("openai-model", "gpt-4o", "OpenAI model name")

	// Input flags
	streamURL  = flag.String("stream", "", "RTSP stream URL to capture from")
	imageFiles = flag.String("images", "", "Comma-separated JPEG files to analyze instead of capturing")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	var cfg *config.Config
	var err error

	// Initialize logger
	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load configuration from file if specified
	if *configFile != "" {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		// Create config from command line flags
		cfg = createConfigFromFlags()
	}

	ctx := context.Background()

	// Initialize vision client
	llmFactory := factory.NewLLMFactory(cfg, logger)
	llmClient, err := llmFactory.CreateVisionClient(ctx)
	if err != nil {
		logger.Fatal("Failed to create vision client", zap.Error(err))
	}

	// Load frames from files or capture from the stream
	samples, err := loadSamples(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to acquire frames", zap.Error(err))
	}

	fmt.Printf("\n=== Analysis ===\n")
	fmt.Printf("Provider: %s\n", cfg.GetString("llm.provider"))
	fmt.Printf("Frames: %d\n", len(samples))

	startTime := time.Now()
	raw, err := llmClient.Analyze(ctx, samples)
	if err != nil {
		logger.Fatal("Failed to analyze frames", zap.Error(err))
	}

	judgment, err := core.ParseJudgment(raw)
	if err != nil {
		logger.Fatal("Failed to parse model response", zap.Error(err), zap.String("raw", raw))
	}

	// Print results
	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Verdict: %s\n", judgment.Verdict)
	fmt.Printf("Explanation: %s\n", judgment.Explanation)
	fmt.Printf("Processing time: %v\n", time.Since(startTime))

	// Close any resources that need closing
	if closer, ok := llmClient.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close vision client", zap.Error(err))
		}
	}
}

// loadSamples reads the frames to analyze, either from JPEG files on
// disk or by capturing one frame from the configured stream
func loadSamples(ctx context.Context, cfg *config.Config, logger *zap.Logger) ([]*core.Sample, error) {
	if *imageFiles != "" {
		paths := strings.Split(*imageFiles, ",")
		samples := make([]*core.Sample, 0, len(paths))
		for _, path := range paths {
			data, err := os.ReadFile(strings.TrimSpace(path))
			if err != nil {
				return nil, fmt.Errorf("failed to read image file: %w", err)
			}
			samples = append(samples, &core.Sample{Image: data, CapturedAt: time.Now()})
		}
		logger.Info("Loaded frames from disk", zap.Int("count", len(samples)))
		return samples, nil
	}

	sourceFactory := factory.NewSourceFactory(cfg, logger)
	frames, err := sourceFactory.CreateFrameSource()
	if err != nil {
		return nil, err
	}
	sample, err := frames.Capture(ctx)
	if err != nil {
		return nil, err
	}
	return []*core.Sample{sample}, nil
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	// Set LLM provider
	v.Set("llm.provider", *provider)

	// Set provider-specific configuration
	switch *provider {
	case "bedrock":
		v.Set("bedrock.region", *bedrockRegion)
		v.Set("bedrock.profile", *bedrockProfile)
		v.Set("bedrock.inference_profile_arn", *bedrockARN)
		v.Set("bedrock.credentials_file", *bedrockCreds)
		v.Set("bedrock.max_tokens", *maxTokens)
		v.Set("bedrock.temperature", *temperature)
	case "gemini":
		v.Set("gemini.api_key", *geminiAPIKey)
		v.Set("gemini.model_name", *geminiModelName)
		v.Set("gemini.max_tokens", *maxTokens)
		v.Set("gemini.temperature", *temperature)
	case "openai":
		v.Set("openai.api_key", *openaiAPIKey)
		v.Set("openai.model_name", *openaiModelName)
		v.Set("openai.max_tokens", *maxTokens)
		v.Set("openai.temperature", *temperature)
	}

	// Set stream source
	if *streamURL != "" {
		v.Set("stream.url", *streamURL)
	}

	return config.NewFromViper(v)
}
