package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/phrazzld/slaypost-api/internal/config"
	"github.com/phrazzld/slaypost-api/internal/generation"
	"github.com/phrazzld/slaypost-api/internal/platform/metrics"
	"google.golang.org/genai"
)

const providerName = "gemini"

// GeminiGenerator implements the generation.Generator interface using
// Google's Gemini API.
type GeminiGenerator struct {
	// logger is used for structured logging
	logger *slog.Logger

	// config contains LLM-specific configuration
	config config.LLMConfig

	// httpClient is passed to genai when set, mainly for tests
	httpClient *http.Client

	// mu guards client, which is created on first use
	mu     sync.Mutex
	client *genai.Client
}

// Option customizes a GeminiGenerator.
type Option func(*GeminiGenerator)

// WithHTTPClient sets the HTTP client handed to the genai library.
func WithHTTPClient(client *http.Client) Option {
	return func(g *GeminiGenerator) {
		g.httpClient = client
	}
}

// NewGeminiGenerator creates a new instance of GeminiGenerator with the
// provided dependencies. The API key is not checked here.
func NewGeminiGenerator(logger *slog.Logger, cfg config.LLMConfig, opts ...Option) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.Model == "" {
		return nil, errors.New("model name cannot be empty")
	}
	if cfg.MaxTokens <= 0 {
		return nil, errors.New("max tokens must be positive")
	}

	g := &GeminiGenerator{
		logger: logger,
		config: cfg,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// clientFor returns the cached genai client, creating it on first use.
func (g *GeminiGenerator) clientFor(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     strings.TrimSpace(g.config.APIKey),
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.httpClient,
	}
	if g.config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: g.config.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrServiceMisconfigured, err)
	}
	g.client = client
	return client, nil
}

// Generate implements generation.Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (text string, err error) {
	if !generation.UsableAPIKey(g.config.APIKey) {
		return "", &generation.MissingKeyError{EnvVar: "GEMINI_API_KEY"}
	}

	client, err := g.clientFor(ctx)
	if err != nil {
		return "", err
	}

	start := time.Now()
	defer func() {
		metrics.LLMCallTotal.WithLabelValues(providerName, g.config.Model, generation.OutcomeLabel(err)).Inc()
		metrics.LLMCallDuration.WithLabelValues(providerName, g.config.Model).Observe(time.Since(start).Seconds())
	}()

	g.logger.DebugContext(ctx, "calling Gemini API",
		"model", g.config.Model,
		"max_tokens", g.config.MaxTokens,
		"prompt_length", len(prompt))

	resp, err := client.Models.GenerateContent(ctx, g.config.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		MaxOutputTokens: int32(g.config.MaxTokens),
	})
	if err != nil {
		return "", classifyError(err)
	}

	text, ok := firstText(resp)
	if !ok {
		return "", fmt.Errorf("%w: no text content in response", generation.ErrServiceUnexpected)
	}

	g.logger.DebugContext(ctx, "Gemini call succeeded",
		"text_length", len(text),
		"latency_ms", time.Since(start).Milliseconds())
	return text, nil
}

// firstText returns the text of the first non-thought part of the first
// candidate.
func firstText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", false
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return "", false
	}
	for _, part := range candidate.Content.Parts {
		if part != nil && !part.Thought && part.Text != "" {
			return part.Text, true
		}
	}
	return "", false
}

// classifyError maps genai errors onto the generation taxonomy.
func classifyError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return generation.WrapStatus(apiErr.Code, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return generation.WrapStatus(apiErrPtr.Code, err)
	}
	return generation.WrapTransport(err)
}
