package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/slaypost-api/internal/domain"
	"github.com/phrazzld/slaypost-api/internal/generation"
	"github.com/phrazzld/slaypost-api/internal/mocks"
	"github.com/phrazzld/slaypost-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleRequest() domain.GenerationRequest {
	return domain.GenerationRequest{
		Topic:      "  remote work  ",
		Experience: "I led a distributed team for five years",
		Message:    "Trust beats surveillance",
		Audience:   "engineering managers",
	}
}

func TestNewPostService(t *testing.T) {
	t.Parallel()

	_, err := service.NewPostService(nil, time.Second, testLogger())
	var svcErr *service.PostServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "create_service", svcErr.Operation)

	svc, err := service.NewPostService(mocks.NewMockGeneratorWithText(""), 0, nil)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestGeneratePosts_Success(t *testing.T) {
	t.Parallel()

	gen := mocks.NewMockGeneratorWithText("Here you go:\n```json\n{\"authorityPost\": \" A \", \"relatablePost\": \"B\"}\n```")
	svc, err := service.NewPostService(gen, time.Second, testLogger())
	require.NoError(t, err)

	result, err := svc.GeneratePosts(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "A", result.AuthorityPost)
	assert.Equal(t, "B", result.RelatablePost)

	assert.Equal(t, 1, gen.CallCount())
	prompt := gen.LastPrompt()
	assert.Contains(t, prompt, "remote work")
	assert.NotContains(t, prompt, "  remote work  ")
	assert.Contains(t, prompt, "engineering managers")
}

func TestGeneratePosts_PropagatesClassifiedErrors(t *testing.T) {
	t.Parallel()

	for _, sentinel := range []error{
		generation.ErrServiceMisconfigured,
		generation.ErrServiceUnauthorized,
		generation.ErrServiceRateLimited,
		generation.ErrServiceOverloaded,
		generation.ErrServiceUnexpected,
	} {
		gen := mocks.NewMockGeneratorWithError(sentinel)
		svc, err := service.NewPostService(gen, time.Second, testLogger())
		require.NoError(t, err)

		_, err = svc.GeneratePosts(context.Background(), sampleRequest())
		assert.ErrorIs(t, err, sentinel)
		assert.Equal(t, 1, gen.CallCount(), "no retries")
	}
}

func TestGeneratePosts_MalformedReply(t *testing.T) {
	t.Parallel()

	gen := mocks.NewMockGeneratorWithText("sorry, I cannot help with that")
	svc, err := service.NewPostService(gen, time.Second, testLogger())
	require.NoError(t, err)

	_, err = svc.GeneratePosts(context.Background(), sampleRequest())
	assert.ErrorIs(t, err, generation.ErrMalformedResponse)
	assert.False(t, strings.Contains(err.Error(), "sorry"), "raw reply must not leak into the error")
}

func TestGeneratePosts_TimeoutIsOverloaded(t *testing.T) {
	t.Parallel()

	gen := &mocks.MockGenerator{
		GenerateFn: func(ctx context.Context, _ string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}
	svc, err := service.NewPostService(gen, 20*time.Millisecond, testLogger())
	require.NoError(t, err)

	_, err = svc.GeneratePosts(context.Background(), sampleRequest())
	assert.ErrorIs(t, err, generation.ErrServiceOverloaded)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGeneratePosts_CallerCancellation(t *testing.T) {
	t.Parallel()

	gen := &mocks.MockGenerator{
		GenerateFn: func(ctx context.Context, _ string) (string, error) {
			<-ctx.Done()
			return "", generation.WrapTransport(ctx.Err())
		},
	}
	svc, err := service.NewPostService(gen, time.Minute, testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = svc.GeneratePosts(ctx, sampleRequest())
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, generation.ErrServiceOverloaded))
}
