package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/slaypost-api/internal/api"
	"github.com/phrazzld/slaypost-api/internal/config"
	"github.com/phrazzld/slaypost-api/internal/generation"
	"github.com/phrazzld/slaypost-api/internal/platform/anthropic"
	"github.com/phrazzld/slaypost-api/internal/platform/gemini"
	"github.com/phrazzld/slaypost-api/internal/platform/openai"
	"github.com/phrazzld/slaypost-api/internal/ratelimit"
	"github.com/phrazzld/slaypost-api/internal/service"
	"github.com/redis/go-redis/v9"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// memoryStore is set only for the in-process backend; it needs sweeping.
	memoryStore *ratelimit.MemoryStore
	redisClient *redis.Client

	limiter         *ratelimit.Limiter
	generator       generation.Generator
	postService     service.PostService
	generateHandler *api.GenerateHandler
}

// newApplication creates a new application instance with all dependencies initialized.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	store, err := app.newRateLimitStore(ctx)
	if err != nil {
		return nil, err
	}

	app.limiter, err = ratelimit.NewLimiter(store, ratelimit.Config{
		Quota:  cfg.RateLimit.DailyLimit,
		Window: cfg.RateLimit.Window,
	}, logger.With("component", "rate_limiter"))
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create rate limiter: %w", err)
	}

	app.generator, err = newGenerator(logger.With("component", "llm_generator"), cfg.LLM)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	if !generation.UsableAPIKey(cfg.LLM.APIKey) {
		logger.Warn("no usable LLM API key configured; generation requests will fail",
			"provider", cfg.LLM.Provider)
	}

	app.postService, err = service.NewPostService(app.generator, cfg.LLM.Timeout, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create post service: %w", err)
	}

	app.generateHandler, err = api.NewGenerateHandler(app.limiter, app.postService, cfg.IsDevelopment(), logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create generate handler: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// newRateLimitStore builds the configured counter store.
func (app *application) newRateLimitStore(ctx context.Context) (ratelimit.Store, error) {
	rl := app.config.RateLimit

	switch rl.Backend {
	case config.BackendRedis:
		client, err := ratelimit.NewRedisClient(ctx, rl.RedisAddr, rl.RedisPassword, rl.RedisDB)
		if err != nil {
			return nil, err
		}
		app.redisClient = client

		store, err := ratelimit.NewRedisStore(client, ratelimit.DefaultKeyPrefix)
		if err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to create redis rate limit store: %w", err)
		}
		app.logger.Info("Using redis rate limit store", "addr", rl.RedisAddr, "db", rl.RedisDB)
		return store, nil

	default:
		app.memoryStore = ratelimit.NewMemoryStore(rl.MaxEntries)
		app.logger.Info("Using in-memory rate limit store", "max_entries", rl.MaxEntries)
		return app.memoryStore, nil
	}
}

// newGenerator selects the provider adapter.
func newGenerator(logger *slog.Logger, cfg config.LLMConfig) (generation.Generator, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return gemini.NewGeminiGenerator(logger, cfg)
	case config.ProviderOpenAI:
		return openai.NewGenerator(logger, cfg)
	case config.ProviderAnthropic:
		return anthropic.NewGenerator(logger, cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.Provider)
	}
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.serve(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases external connections. It is safe to call more than once.
func (app *application) cleanup() {
	if app.redisClient != nil {
		if err := app.redisClient.Close(); err != nil {
			app.logger.Error("Error closing redis connection", "error", err)
		}
		app.redisClient = nil
	}
}
