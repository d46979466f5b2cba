package config

import "time"

// LLMConfig represents the configuration for the LLM provider
type LLMConfig struct {
	Provider string
}

// StreamConfig represents the camera stream configuration
type StreamConfig struct {
	URL            string
	CaptureTimeout time.Duration
}

// MonitorConfig represents the detection cycle configuration
type MonitorConfig struct {
	ImagesPerSeries int
	SampleInterval  time.Duration
	CycleInterval   time.Duration
	Cooldown        time.Duration
	TestMode        bool
}

// VerificationConfig represents the verification pass configuration
type VerificationConfig struct {
	Rounds          int
	SamplesPerRound int
	SampleInterval  time.Duration
	RoundInterval   time.Duration
	Threshold       int
}

// RetryConfig represents the throttling backoff configuration
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// BreakerConfig represents the consecutive-error circuit breaker configuration
type BreakerConfig struct {
	MaxConsecutiveErrors int
	Cooldown             time.Duration
}

// PromptConfig represents the inference prompt configuration
type PromptConfig struct {
	System   string
	Template string
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region              string
	InferenceProfileARN string
	RoleARN             string
	CredentialsFile     string
	Profile             string
	MaxTokens           int
	Temperature         float32
	TopP                float32
	TopK                int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// DiscordConfig represents the Discord webhook notifier configuration
type DiscordConfig struct {
	WebhookURL string
}

// MQTTConfig represents the MQTT status sink configuration
type MQTTConfig struct {
	BrokerURL string
	Topic     string
	ClientID  string
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
	}
}

// GetStream returns the stream configuration
func (c *Config) GetStream() StreamConfig {
	return StreamConfig{
		URL:            c.GetString("stream.url"),
		CaptureTimeout: c.GetDuration("stream.capture_timeout"),
	}
}

// GetMonitor returns the detection cycle configuration
func (c *Config) GetMonitor() MonitorConfig {
	return MonitorConfig{
		ImagesPerSeries: c.GetInt("monitor.images_per_series"),
		SampleInterval:  c.GetDuration("monitor.sample_interval"),
		CycleInterval:   c.GetDuration("monitor.cycle_interval"),
		Cooldown:        c.GetDuration("monitor.cooldown"),
		TestMode:        c.GetBool("monitor.test_mode"),
	}
}

// GetVerification returns the verification pass configuration
func (c *Config) GetVerification() VerificationConfig {
	return VerificationConfig{
		Rounds:          c.GetInt("verification.rounds"),
		SamplesPerRound: c.GetInt("verification.samples_per_round"),
		SampleInterval:  c.GetDuration("verification.sample_interval"),
		RoundInterval:   c.GetDuration("verification.round_interval"),
		Threshold:       c.GetInt("verification.threshold"),
	}
}

// GetRetry returns the throttling backoff configuration
func (c *Config) GetRetry() RetryConfig {
	return RetryConfig{
		MaxRetries: c.GetInt("retry.max_retries"),
		BaseDelay:  c.GetDuration("retry.base_delay"),
		MaxDelay:   c.GetDuration("retry.max_delay"),
	}
}

// GetBreaker returns the circuit breaker configuration
func (c *Config) GetBreaker() BreakerConfig {
	return BreakerConfig{
		MaxConsecutiveErrors: c.GetInt("breaker.max_consecutive_errors"),
		Cooldown:             c.GetDuration("breaker.cooldown"),
	}
}

// GetPrompt returns the prompt configuration
func (c *Config) GetPrompt() PromptConfig {
	return PromptConfig{
		System:   c.GetString("prompt.system"),
		Template: c.GetString("prompt.template"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:              c.GetString("bedrock.region"),
		InferenceProfileARN: c.GetString("bedrock.inference_profile_arn"),
		RoleARN:             c.GetString("bedrock.role_arn"),
		CredentialsFile:     c.GetString("bedrock.credentials_file"),
		Profile:             c.GetString("bedrock.profile"),
		MaxTokens:           c.GetInt("bedrock.max_tokens"),
		Temperature:         float32(c.GetFloat64("bedrock.temperature")),
		TopP:                float32(c.GetFloat64("bedrock.top_p")),
		TopK:                c.GetInt("bedrock.top_k"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}

// GetDiscord returns the Discord notifier configuration
func (c *Config) GetDiscord() DiscordConfig {
	return DiscordConfig{
		WebhookURL: c.GetString("discord.webhook_url"),
	}
}

// GetMQTT returns the MQTT status sink configuration
func (c *Config) GetMQTT() MQTTConfig {
	return MQTTConfig{
		BrokerURL: c.GetString("mqtt.broker_url"),
		Topic:     c.GetString("mqtt.topic"),
		ClientID:  c.GetString("mqtt.client_id"),
	}
}
