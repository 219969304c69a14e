package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/phrazzld/slaypost-api/internal/config"
	"github.com/phrazzld/slaypost-api/internal/generation"
	"github.com/phrazzld/slaypost-api/internal/platform/metrics"
)

const providerName = "openai"

// Generator calls the chat completions endpoint.
type Generator struct {
	logger    *slog.Logger
	model     string
	maxTokens int
	apiKey    string
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

// NewGenerator validates cfg and returns a Generator. A missing API key is
// not an error here; it is reported by Generate.
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

	apiKey := strings.TrimSpace(cfg.APIKey)
	g := &Generator{
		logger:    logger,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		apiKey:    apiKey,
		opts: []option.RequestOption{
			option.WithAPIKey(apiKey),
			option.WithMaxRetries(0),
		},
	}
	if cfg.BaseURL != "" {
		g.opts = append(g.opts, option.WithBaseURL(cfg.BaseURL))
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate implements generation.Generator.
func (g *Generator) Generate(ctx context.Context, prompt string) (text string, err error) {
	if !generation.UsableAPIKey(g.apiKey) {
		return "", &generation.MissingKeyError{EnvVar: "OPENAI_API_KEY"}
	}

	start := time.Now()
	defer func() {
		metrics.LLMCallTotal.WithLabelValues(providerName, g.model, generation.OutcomeLabel(err)).Inc()
		metrics.LLMCallDuration.WithLabelValues(providerName, g.model).Observe(time.Since(start).Seconds())
	}()

	client := openai.NewClient(g.opts...)
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(int64(g.maxTokens)),
	})
	if err != nil {
		return "", classifyError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: no text content in response", generation.ErrServiceUnexpected)
	}

	g.logger.DebugContext(ctx, "OpenAI call succeeded",
		"model", g.model,
		"finish_reason", resp.Choices[0].FinishReason,
		"latency_ms", time.Since(start).Milliseconds())
	return resp.Choices[0].Message.Content, nil
}

func classifyError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return generation.WrapStatus(apiErr.StatusCode, err)
	}
	return generation.WrapTransport(err)
}
