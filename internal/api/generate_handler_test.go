package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/slaypost-api/internal/api/shared"
	"github.com/phrazzld/slaypost-api/internal/generation"
	"github.com/phrazzld/slaypost-api/internal/mocks"
	"github.com/phrazzld/slaypost-api/internal/platform/logger"
	"github.com/phrazzld/slaypost-api/internal/ratelimit"
	"github.com/phrazzld/slaypost-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validBody = `{"topic":"Remote work","experience":"Led a distributed team","message":"Trust beats surveillance","audience":"Engineering managers"}`

const fencedReply = "Sure! Here are your posts:\n```json\n{\n  \"authorityPost\": \"A\",\n  \"relatablePost\": \"B\"\n}\n```"

type handlerFixture struct {
	handler   *GenerateHandler
	generator *mocks.MockGenerator
	now       time.Time
}

func newHandlerFixture(t *testing.T, gen *mocks.MockGenerator, dev bool) *handlerFixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)

	limiter, err := ratelimit.NewLimiter(ratelimit.NewMemoryStore(0), ratelimit.Config{
		Quota:  3,
		Window: 24 * time.Hour,
	}, logger, ratelimit.WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	posts, err := service.NewPostService(gen, time.Second, logger)
	require.NoError(t, err)

	h, err := NewGenerateHandler(limiter, posts, dev, logger)
	require.NoError(t, err)

	return &handlerFixture{handler: h, generator: gen, now: now}
}

func (f *handlerFixture) do(ip, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if ip != "" {
		req.Header.Set("X-Forwarded-For", ip)
	}
	rec := httptest.NewRecorder()
	f.handler.Generate(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestGenerate_Success(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t, mocks.NewMockGeneratorWithText(fencedReply), false)
	rec := f.do("198.51.100.1", validBody)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"authorityPost":"A","relatablePost":"B"}`, rec.Body.String())
	assert.Equal(t, "3", rec.Header().Get(HeaderRateLimitLimit))
	assert.Equal(t, "2", rec.Header().Get(HeaderRateLimitRemaining))
	assert.Equal(t, 1, f.generator.CallCount())
}

func TestGenerate_FourthRequestIsRejected(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t, mocks.NewMockGeneratorWithText(fencedReply), false)
	ip := "198.51.100.2"

	for i := 0; i < 3; i++ {
		rec := f.do(ip, validBody)
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
	}

	// Body is irrelevant once the quota is spent.
	for _, body := range []string{validBody, "not json", ""} {
		rec := f.do(ip, body)
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "Daily limit reached. You've used your 3 free generations for today.", decodeError(t, rec).Error)
		assert.Equal(t, "0", rec.Header().Get(HeaderRateLimitRemaining))
		assert.Equal(t, "86400", rec.Header().Get(HeaderRetryAfter))
	}

	assert.Equal(t, 3, f.generator.CallCount(), "rejected requests never reach the model")

	other := f.do("198.51.100.3", validBody)
	assert.Equal(t, http.StatusOK, other.Code, "identities are limited independently")
}

func TestGenerate_InvalidRequestsConsumeQuota(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t, mocks.NewMockGeneratorWithText(fencedReply), false)
	ip := "198.51.100.4"

	for i := 0; i < 3; i++ {
		rec := f.do(ip, "{")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	}
	rec := f.do(ip, validBody)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, 0, f.generator.CallCount())
}

func TestGenerate_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"malformed json", `{"topic":`, "Invalid request body."},
		{"null", `null`, "Invalid request body."},
		{"array", `[1,2]`, "Invalid request body."},
		{"missing field", `{"topic":"a","experience":"b","message":"c"}`, `Field "audience" is required.`},
		{"presence before type", `{"topic":5,"experience":"b","message":"c"}`, `Field "audience" is required.`},
		{"wrong type", `{"topic":5,"experience":"b","message":"c","audience":"d"}`, `Field "topic" must be a string.`},
		{"blank", `{"topic":"a","experience":"   ","message":"c","audience":"d"}`, `Field "experience" cannot be empty.`},
		{"too long", `{"topic":"a","experience":"b","message":"` + strings.Repeat("x", 1001) + `","audience":"d"}`, `Field "message" exceeds the 1000 character limit.`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newHandlerFixture(t, mocks.NewMockGeneratorWithText(fencedReply), false)
			rec := f.do("198.51.100.5", tc.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.message, decodeError(t, rec).Error)
			assert.Equal(t, 0, f.generator.CallCount())
		})
	}
}

func TestGenerate_OversizedBody(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t, mocks.NewMockGeneratorWithText(fencedReply), false)
	body := `{"topic":"` + strings.Repeat("x", shared.MaxRequestBodyBytes) + `"}`
	rec := f.do("198.51.100.6", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body.", decodeError(t, rec).Error)
}

func TestGenerate_UpstreamFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		dev     bool
		status  int
		message string
	}{
		{"missing key", &generation.MissingKeyError{EnvVar: "ANTHROPIC_API_KEY"}, false, http.StatusInternalServerError, "Service is not configured. Please contact support."},
		{"unauthorized", generation.WrapStatus(401, assert.AnError), false, http.StatusInternalServerError, "API authentication failed. Please contact support."},
		{"upstream 429", generation.WrapStatus(429, assert.AnError), false, http.StatusTooManyRequests, "Rate limit reached. Please wait a moment and try again."},
		{"upstream 503", generation.WrapStatus(503, assert.AnError), false, http.StatusServiceUnavailable, "The AI service is temporarily overloaded. Please try again shortly."},
		{"unexpected dev", generation.WrapStatus(500, assert.AnError), true, http.StatusInternalServerError, "Generation failed: " + generation.WrapStatus(500, assert.AnError).Error()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newHandlerFixture(t, mocks.NewMockGeneratorWithError(tc.err), tc.dev)
			rec := f.do("198.51.100.7", validBody)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.message, decodeError(t, rec).Error)
			assert.Empty(t, rec.Header().Get(HeaderRetryAfter))
		})
	}
}

func TestGenerate_MalformedReply(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t, mocks.NewMockGeneratorWithText("I would rather not."), false)
	rec := f.do("198.51.100.8", validBody)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to generate posts. Please try again.", decodeError(t, rec).Error)
	assert.NotContains(t, rec.Body.String(), "rather not")
}

func TestGenerate_RecoversFromPanic(t *testing.T) {
	t.Parallel()

	gen := &mocks.MockGenerator{
		GenerateFn: func(context.Context, string) (string, error) {
			panic("kaboom")
		},
	}
	f := newHandlerFixture(t, gen, true)
	rec := f.do("198.51.100.9", validBody)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to generate posts. Please try again.", decodeError(t, rec).Error)
}

func TestGenerate_UnknownIdentitySharesBucket(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t, mocks.NewMockGeneratorWithText(fencedReply), false)
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, f.do("", validBody).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, f.do("", validBody).Code)
}

func TestNewGenerateHandler_Validation(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	limiter, err := ratelimit.NewLimiter(ratelimit.NewMemoryStore(0), ratelimit.Config{Quota: 3, Window: time.Hour}, logger)
	require.NoError(t, err)
	posts, err := service.NewPostService(mocks.NewMockGeneratorWithText(""), time.Second, logger)
	require.NoError(t, err)

	_, err = NewGenerateHandler(nil, posts, false, logger)
	assert.Error(t, err)
	_, err = NewGenerateHandler(limiter, nil, false, logger)
	assert.Error(t, err)
	h, err := NewGenerateHandler(limiter, posts, false, nil)
	assert.NoError(t, err)
	assert.NotNil(t, h)
}

// Not parallel: captures the default logger.
func TestGenerate_LogLevels(t *testing.T) {
	logs, _ := logger.SetupTestLogger(t)

	f := newHandlerFixture(t, mocks.NewMockGeneratorWithError(generation.WrapStatus(503, assert.AnError)), false)

	levelOf := func() string {
		entry, ok := logs.FindEntry("API error response")
		require.True(t, ok, logs.String())
		return entry["level"].(string)
	}

	f.do("198.51.100.20", `{"topic":"a"}`)
	assert.Equal(t, "DEBUG", levelOf(), "validation failures are not errors")

	logs.Reset()
	f.do("198.51.100.20", validBody)
	assert.Equal(t, "ERROR", levelOf(), "upstream failures are errors")

	f.do("198.51.100.20", validBody)
	logs.Reset()
	f.do("198.51.100.20", validBody)
	assert.Equal(t, "INFO", levelOf(), "quota rejections are informational")

	entry, ok := logs.FindEntry("API error response")
	require.True(t, ok)
	assert.Contains(t, entry["error"], "rate limit quota exceeded")
	assert.Contains(t, entry["error"], "198.51.100.20")
}
