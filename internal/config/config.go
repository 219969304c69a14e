package config

import "time"

// Supported values for LLMConfig.Provider.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
)

// Supported values for RateLimitConfig.Backend.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// EnvDevelopment enables detailed error messages in API responses.
const EnvDevelopment = "development"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	App       AppConfig       `mapstructure:"app" validate:"required"`
	LLM       LLMConfig       `mapstructure:"llm" validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit" validate:"required"`
}

// IsDevelopment reports whether detailed error internals may be disclosed
// to callers.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == EnvDevelopment
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	LogFormat       string        `mapstructure:"log_format" validate:"required,oneof=json text"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// AppConfig holds deployment-level settings.
type AppConfig struct {
	// Env is "development", "production" or "test". Only "development"
	// discloses error details to callers.
	Env string `mapstructure:"env" validate:"required,oneof=development production test"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	Provider string `mapstructure:"provider" validate:"required,oneof=anthropic gemini openai"`
	// APIKey is checked on every request by the provider adapter.
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model" validate:"required"`
	MaxTokens int           `mapstructure:"max_tokens" validate:"gt=0,lte=64000"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0"`
	// BaseURL overrides the provider endpoint, e.g. for a proxy.
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

// RateLimitConfig contains the per-client quota settings.
type RateLimitConfig struct {
	Backend       string        `mapstructure:"backend" validate:"required,oneof=memory redis"`
	DailyLimit    int           `mapstructure:"daily_limit" validate:"gt=0"`
	Window        time.Duration `mapstructure:"window" validate:"gt=0"`
	SweepInterval time.Duration `mapstructure:"sweep_interval" validate:"gt=0"`
	MaxEntries    int           `mapstructure:"max_entries" validate:"gte=0"`
	RedisAddr     string        `mapstructure:"redis_addr" validate:"required_if=Backend redis"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db" validate:"gte=0"`
}

// DefaultModel returns the model used for provider when none is configured.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderGemini:
		return "gemini-2.0-flash"
	case ProviderOpenAI:
		return "gpt-4o-mini"
	default:
		return "claude-sonnet-4-5"
	}
}

// providerKeyEnv lists the conventional env var for each provider's key,
// consulted when SLAY_LLM_API_KEY is unset.
var providerKeyEnv = map[string]string{
	ProviderAnthropic: "ANTHROPIC_API_KEY",
	ProviderGemini:    "GEMINI_API_KEY",
	ProviderOpenAI:    "OPENAI_API_KEY",
}
