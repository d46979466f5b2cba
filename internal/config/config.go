package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/llm-print-monitor/")
	v.AddConfigPath("$HOME/.llm-print-monitor")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("PRINT_MONITOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// LLM provider defaults
	v.SetDefault("llm.provider", "bedrock")

	// Stream defaults
	v.SetDefault("stream.url", "")
	v.SetDefault("stream.capture_timeout", "10s")

	// Monitor defaults
	v.SetDefault("monitor.images_per_series", 3)
	v.SetDefault("monitor.sample_interval", "10s")
	v.SetDefault("monitor.cycle_interval", "10s")
	v.SetDefault("monitor.cooldown", "15m")
	v.SetDefault("monitor.test_mode", false)

	// Verification defaults
	v.SetDefault("verification.rounds", 4)
	v.SetDefault("verification.samples_per_round", 3)
	v.SetDefault("verification.sample_interval", "2s")
	v.SetDefault("verification.round_interval", "2s")
	v.SetDefault("verification.threshold", 3)

	// Retry defaults
	v.SetDefault("retry.max_retries", 5)
	v.SetDefault("retry.base_delay", "1s")
	v.SetDefault("retry.max_delay", "32s")

	// Breaker defaults
	v.SetDefault("breaker.max_consecutive_errors", 5)
	v.SetDefault("breaker.cooldown", "60s")

	// Prompt defaults
	v.SetDefault("prompt.system", "You are a precise 3D printing quality inspector. You analyze images of active 3D prints and determine if a print failure is occurring.")
	v.SetDefault("prompt.template", "You are shown {count} images of a 3D printer in progress ({images}), captured {interval} seconds apart. Determine if the print has failed. A common sign of failure is loose or tangled filament (known as 'spaghetti'). Respond only with a JSON object containing two keys: 'print_failed' with a boolean value (true or false) and 'explanation' with a short string.")

	// Bedrock defaults
	v.SetDefault("bedrock.region", "us-west-2")
	v.SetDefault("bedrock.inference_profile_arn", "")
	v.SetDefault("bedrock.role_arn", "")
	v.SetDefault("bedrock.credentials_file", "/creds/credentials")
	v.SetDefault("bedrock.profile", "default")
	v.SetDefault("bedrock.max_tokens", 500)
	v.SetDefault("bedrock.temperature", 0.0)
	v.SetDefault("bedrock.top_p", 1.0)
	v.SetDefault("bedrock.top_k", 1)

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", "gemini-1.5-flash")
	v.SetDefault("gemini.max_tokens", 500)
	v.SetDefault("gemini.temperature", 0.0)
	v.SetDefault("gemini.top_p", 1.0)

	// OpenAI defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model_name", "gpt-4o")
	v.SetDefault("openai.max_tokens", 500)
	v.SetDefault("openai.temperature", 0.0)
	v.SetDefault("openai.top_p", 1.0)

	// Notification defaults
	v.SetDefault("discord.webhook_url", "")
	v.SetDefault("mqtt.broker_url", "")
	v.SetDefault("mqtt.topic", "")
	v.SetDefault("mqtt.client_id", "llm-print-monitor")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) time.Duration {
	return c.v.GetDuration(key)
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
