package anthropic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/phrazzld/slaypost-api/internal/config"
	"github.com/phrazzld/slaypost-api/internal/generation"
	"github.com/phrazzld/slaypost-api/internal/platform/metrics"
)

// DefaultBaseURL is the public Anthropic API endpoint.
const DefaultBaseURL = "https://api.anthropic.com"

const providerName = "anthropic"

// Generator calls the Anthropic Messages API.
type Generator struct {
	logger    *slog.Logger
	apiKey    string
	model     string
	maxTokens int
	baseURL   string
	opts      []option.RequestOption
}

// Option customizes a Generator.
type Option func(*Generator)

// WithHTTPClient replaces the HTTP client used by the SDK.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Generator) {
		g.opts = append(g.opts, option.WithHTTPClient(client))
	}
}

// NewGenerator creates a Generator. It does not validate the API key; that
// happens on every Generate call so a missing key fails requests instead of
// startup.
func NewGenerator(logger *slog.Logger, cfg config.LLMConfig, opts ...Option) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.Model == "" {
		return nil, errors.New("model name cannot be empty")
	}
	if cfg.MaxTokens <= 0 {
		return nil, errors.New("max tokens must be positive")
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	g := &Generator{
		logger:    logger,
		apiKey:    apiKey,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		baseURL:   baseURL,
		opts: []option.RequestOption{
			option.WithAPIKey(apiKey),
			option.WithBaseURL(baseURL),
			option.WithMaxRetries(0),
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate implements generation.Generator. It returns the first text block
// of the reply.
func (g *Generator) Generate(ctx context.Context, prompt string) (text string, err error) {
	if !generation.UsableAPIKey(g.apiKey) {
		return "", &generation.MissingKeyError{EnvVar: "ANTHROPIC_API_KEY"}
	}

	start := time.Now()
	defer func() {
		metrics.LLMCallTotal.WithLabelValues(providerName, g.model, generation.OutcomeLabel(err)).Inc()
		metrics.LLMCallDuration.WithLabelValues(providerName, g.model).Observe(time.Since(start).Seconds())
	}()

	g.logger.DebugContext(ctx, "calling Anthropic Messages API",
		"model", g.model,
		"max_tokens", g.maxTokens,
		"prompt_length", len(prompt))

	client := anthropic.NewClient(g.opts...)
	msg, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: int64(g.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", classifyError(err)
	}

	for _, block := range msg.Content {
		if block.Type == "text" {
			g.logger.DebugContext(ctx, "Anthropic call succeeded",
				"stop_reason", string(msg.StopReason),
				"text_length", len(block.Text),
				"latency_ms", time.Since(start).Milliseconds())
			return block.Text, nil
		}
	}

	return "", fmt.Errorf("%w: no text content in response", generation.ErrServiceUnexpected)
}

func classifyError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return generation.WrapStatus(apiErr.StatusCode, err)
	}
	return generation.WrapTransport(err)
}
