package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/phrazzld/slaypost-api/internal/api/shared"
	"github.com/phrazzld/slaypost-api/internal/domain"
	"github.com/phrazzld/slaypost-api/internal/ratelimit"
	"github.com/phrazzld/slaypost-api/internal/service"
)

// Rate limit response headers.
const (
	HeaderRetryAfter         = "Retry-After"
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
)

// GenerateHandler serves POST /api/generate.
type GenerateHandler struct {
	limiter      *ratelimit.Limiter
	posts        service.PostService
	dev          bool
	logger       *slog.Logger
	maxBodyBytes int64
}

// NewGenerateHandler creates a new GenerateHandler. dev switches error
// responses to their development wording.
func NewGenerateHandler(
	limiter *ratelimit.Limiter,
	posts service.PostService,
	dev bool,
	logger *slog.Logger,
) (*GenerateHandler, error) {
	if limiter == nil {
		return nil, errors.New("limiter cannot be nil")
	}
	if posts == nil {
		return nil, errors.New("post service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &GenerateHandler{
		limiter:      limiter,
		posts:        posts,
		dev:          dev,
		logger:       logger.With("component", "generate_handler"),
		maxBodyBytes: shared.MaxRequestBodyBytes,
	}, nil
}

// Generate admits the caller, validates the body and returns both posts.
// The quota is charged before the body is read, so rejected and invalid
// requests count too.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.ErrorContext(r.Context(), "recovered from panic",
				"panic", rec,
				"trace_id", shared.GetTraceID(r.Context()))
			h.respondError(w, r, Classify(fmt.Errorf("panic: %v", rec), false))
		}
	}()

	identity := shared.ClientIdentity(r)
	decision := h.limiter.Admit(r.Context(), identity)

	w.Header().Set(HeaderRateLimitLimit, strconv.Itoa(decision.Limit))
	w.Header().Set(HeaderRateLimitRemaining, strconv.Itoa(decision.Remaining()))

	if !decision.Allowed {
		retryAfter := decision.RetryAfter(h.limiter.Now())
		w.Header().Set(HeaderRetryAfter, strconv.Itoa(int(retryAfter.Seconds())))
		ce := RateLimitedError(identity, decision)
		shared.RespondWithErrorAndLog(w, r, ce.HTTPStatus, ce.PublicMessage, ce.InternalDetail,
			shared.WithLogLevel(slog.LevelInfo),
			shared.WithLogAttrs(
				slog.String("identity", identity.String()),
				slog.Int("count", decision.Count),
				slog.Time("reset_at", decision.ResetAt)))
		return
	}

	body, err := shared.ReadBody(w, r, h.maxBodyBytes)
	if err != nil {
		h.respondError(w, r, Classify(err, h.dev))
		return
	}

	req, err := domain.ParseGenerationRequest(body)
	if err != nil {
		h.respondError(w, r, Classify(err, h.dev))
		return
	}

	result, err := h.posts.GeneratePosts(r.Context(), *req)
	if err != nil {
		h.respondError(w, r, Classify(err, h.dev))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// respondError writes ce. Validation failures stay at DEBUG; upstream and
// internal failures are logged at ERROR whatever their status.
func (h *GenerateHandler) respondError(w http.ResponseWriter, r *http.Request, ce ClassifiedError) {
	level := slog.LevelError
	if ce.Kind == KindValidation {
		level = slog.LevelDebug
	}
	shared.RespondWithErrorAndLog(w, r, ce.HTTPStatus, ce.PublicMessage, ce.InternalDetail,
		shared.WithLogLevel(level),
		shared.WithLogAttrs(slog.String("error_kind", string(ce.Kind))))
}
