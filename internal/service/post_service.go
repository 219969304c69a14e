package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/slaypost-api/internal/domain"
	"github.com/phrazzld/slaypost-api/internal/generation"
	"github.com/phrazzld/slaypost-api/internal/platform/metrics"
)

// DefaultGenerationTimeout bounds a single model call when no timeout is configured.
const DefaultGenerationTimeout = 60 * time.Second

// maxLoggedResponse caps how much raw model text is written to debug logs.
const maxLoggedResponse = 2000

// PostService turns a validated request into a pair of posts.
type PostService interface {
	// GeneratePosts builds the prompt, calls the model once and extracts
	// both posts from its reply.
	GeneratePosts(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error)
}

// PostServiceError wraps failures that occur outside the model call itself.
type PostServiceError struct {
	// Operation is the operation that failed (e.g., "create_service")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for PostServiceError.
func (e *PostServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("post service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("post service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *PostServiceError) Unwrap() error {
	return e.Err
}

type postServiceImpl struct {
	generator generation.Generator
	timeout   time.Duration
	logger    *slog.Logger
}

// NewPostService creates a PostService. A non-positive timeout falls back to
// DefaultGenerationTimeout.
func NewPostService(
	generator generation.Generator,
	timeout time.Duration,
	logger *slog.Logger,
) (PostService, error) {
	if generator == nil {
		return nil, &PostServiceError{
			Operation: "create_service",
			Message:   "generator cannot be nil",
		}
	}
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &postServiceImpl{
		generator: generator,
		timeout:   timeout,
		logger:    logger.With("component", "post_service"),
	}, nil
}

// GeneratePosts implements PostService.
func (s *postServiceImpl) GeneratePosts(
	ctx context.Context,
	req domain.GenerationRequest,
) (result *domain.GenerationResult, err error) {
	defer func() {
		metrics.GenerationTotal.WithLabelValues(generation.OutcomeLabel(err)).Inc()
	}()

	prompt := generation.BuildPrompt(req)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	raw, err := s.generator.Generate(callCtx, prompt)
	latency := time.Since(start)
	if err != nil {
		// A deadline hit by our own timeout is reported as an overloaded
		// upstream even when the adapter did not classify it.
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, generation.ErrServiceOverloaded) {
			err = fmt.Errorf("%w: %w", generation.ErrServiceOverloaded, context.DeadlineExceeded)
		}
		s.logger.DebugContext(ctx, "model call failed",
			"prompt_version", generation.PromptVersion,
			"latency_ms", latency.Milliseconds(),
			"error", err)
		return nil, err
	}

	result, err = generation.Extract(raw)
	if err != nil {
		s.logger.DebugContext(ctx, "model reply could not be parsed",
			"prompt_version", generation.PromptVersion,
			"response_length", len(raw),
			"response", truncate(raw, maxLoggedResponse))
		return nil, err
	}

	s.logger.InfoContext(ctx, "posts generated",
		"prompt_version", generation.PromptVersion,
		"prompt_length", len(prompt),
		"latency_ms", latency.Milliseconds())
	return result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
