package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "SLAY"

// dotenvFiles are loaded in order; earlier files and the real environment win.
var dotenvFiles = []string{".env.local", ".env"}

// keys lists every configuration key so AutomaticEnv can populate it during
// Unmarshal even when no default exists.
var keys = []string{
	"server.port",
	"server.log_level",
	"server.log_format",
	"server.cors_origins",
	"server.shutdown_timeout",
	"app.env",
	"llm.provider",
	"llm.api_key",
	"llm.model",
	"llm.max_tokens",
	"llm.timeout",
	"llm.base_url",
	"ratelimit.backend",
	"ratelimit.daily_limit",
	"ratelimit.window",
	"ratelimit.sweep_interval",
	"ratelimit.max_entries",
	"ratelimit.redis_addr",
	"ratelimit.redis_password",
	"ratelimit.redis_db",
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	if err := loadDotenv(dotenvFiles...); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}
	if err := v.BindEnv("app.env", EnvPrefix+"_APP_ENV", "APP_ENV"); err != nil {
		return nil, fmt.Errorf("failed to bind env for app.env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyProviderFallbacks(&cfg)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "json")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("app.env", "production")

	v.SetDefault("llm.provider", ProviderAnthropic)
	v.SetDefault("llm.max_tokens", 2048)
	v.SetDefault("llm.timeout", "60s")

	v.SetDefault("ratelimit.backend", BackendMemory)
	v.SetDefault("ratelimit.daily_limit", 3)
	v.SetDefault("ratelimit.window", "24h")
	v.SetDefault("ratelimit.sweep_interval", "10m")
	v.SetDefault("ratelimit.max_entries", 100000)
	v.SetDefault("ratelimit.redis_db", 0)
}

// applyProviderFallbacks fills the model and API key from provider
// conventions when they were not set explicitly.
func applyProviderFallbacks(cfg *Config) {
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = DefaultModel(cfg.LLM.Provider)
	}
	if cfg.LLM.APIKey == "" {
		if name, ok := providerKeyEnv[cfg.LLM.Provider]; ok {
			cfg.LLM.APIKey = os.Getenv(name)
		}
	}
}

// loadDotenv loads each file that exists without overriding variables that
// are already set.
func loadDotenv(files ...string) error {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}
