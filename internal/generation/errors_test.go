package generation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status   int
		expected error
	}{
		{http.StatusUnauthorized, ErrServiceUnauthorized},
		{http.StatusForbidden, ErrServiceUnauthorized},
		{http.StatusTooManyRequests, ErrServiceRateLimited},
		{http.StatusServiceUnavailable, ErrServiceOverloaded},
		{StatusSiteOverloaded, ErrServiceOverloaded},
		{http.StatusInternalServerError, ErrServiceUnexpected},
		{http.StatusBadRequest, ErrServiceUnexpected},
		{http.StatusNotFound, ErrServiceUnexpected},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprint(tc.status), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, ClassifyStatus(tc.status))

			wrapped := WrapStatus(tc.status, errors.New("upstream said no"))
			assert.ErrorIs(t, wrapped, tc.expected)
			assert.Contains(t, wrapped.Error(), "upstream said no")
		})
	}
}

func TestWrapTransport(t *testing.T) {
	t.Parallel()

	err := WrapTransport(fmt.Errorf("post: %w", context.DeadlineExceeded))
	assert.ErrorIs(t, err, ErrServiceOverloaded)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	err = WrapTransport(context.Canceled)
	assert.ErrorIs(t, err, ErrServiceUnexpected)

	err = WrapTransport(errors.New("dial tcp: connection refused"))
	assert.ErrorIs(t, err, ErrServiceUnexpected)
}

func TestUsableAPIKey(t *testing.T) {
	t.Parallel()

	unusable := []string{
		"",
		"   ",
		"your_anthropic_api_key_here",
		"YOUR_API_KEY_HERE",
		"your_key",
		"changeme",
		" <api-key> ",
	}
	for _, key := range unusable {
		assert.False(t, UsableAPIKey(key), "%q should be rejected", key)
	}

	for _, key := range []string{"sk-ant-api03-abcdef", "AIzaSyExample123", "sk-proj-xyz"} {
		assert.True(t, UsableAPIKey(key), "%q should be accepted", key)
	}
}

func TestOutcomeLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "success", OutcomeLabel(nil))
	assert.Equal(t, "misconfigured", OutcomeLabel(fmt.Errorf("%w: no key", ErrServiceMisconfigured)))
	assert.Equal(t, "unauthorized", OutcomeLabel(WrapStatus(401, errors.New("x"))))
	assert.Equal(t, "rate_limited", OutcomeLabel(WrapStatus(429, errors.New("x"))))
	assert.Equal(t, "overloaded", OutcomeLabel(WrapStatus(529, errors.New("x"))))
	assert.Equal(t, "malformed", OutcomeLabel(fmt.Errorf("%w: bad", ErrMalformedResponse)))
	assert.Equal(t, "unexpected", OutcomeLabel(errors.New("boom")))
}
