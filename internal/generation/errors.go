package generation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Errors reported by Generator implementations and the extractor. Adapters
// wrap them with fmt.Errorf("%w: ...") so the detail survives for logs.
var (
	// ErrServiceMisconfigured is returned before any outbound call when no
	// usable API credential is configured.
	ErrServiceMisconfigured = errors.New("generation service is not configured")

	// ErrServiceUnauthorized is returned when the service rejects the credential.
	ErrServiceUnauthorized = errors.New("generation service rejected credentials")

	// ErrServiceRateLimited is returned when the service throttles us.
	ErrServiceRateLimited = errors.New("generation service rate limit reached")

	// ErrServiceOverloaded is returned when the service is unavailable or the
	// call timed out.
	ErrServiceOverloaded = errors.New("generation service overloaded")

	// ErrServiceUnexpected covers every other service failure, including
	// replies without text content.
	ErrServiceUnexpected = errors.New("unexpected generation service failure")

	// ErrMalformedResponse is returned when the model's text cannot be turned
	// into a GenerationResult.
	ErrMalformedResponse = errors.New("malformed response from language model")
)

// MissingKeyError reports which credential is absent. It unwraps to
// ErrServiceMisconfigured.
type MissingKeyError struct {
	EnvVar string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s: %s is missing or a placeholder", ErrServiceMisconfigured, e.EnvVar)
}

func (e *MissingKeyError) Unwrap() error {
	return ErrServiceMisconfigured
}

// StatusSiteOverloaded is the non-standard status the Anthropic API uses when
// it is overloaded.
const StatusSiteOverloaded = 529

// ClassifyStatus maps an upstream HTTP status code to the matching sentinel
// error.
func ClassifyStatus(status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrServiceUnauthorized
	case http.StatusTooManyRequests:
		return ErrServiceRateLimited
	case http.StatusServiceUnavailable, StatusSiteOverloaded:
		return ErrServiceOverloaded
	default:
		return ErrServiceUnexpected
	}
}

// WrapStatus returns an error for a failed upstream call that carries both the
// classified sentinel and the original error.
func WrapStatus(status int, err error) error {
	return fmt.Errorf("%w: status %d: %v", ClassifyStatus(status), status, err)
}

// WrapTransport classifies an error that happened before any status code was
// received. Deadline expiry counts as overload; caller cancellation and
// everything else is unexpected.
func WrapTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrServiceOverloaded, err)
	}
	return fmt.Errorf("%w: %w", ErrServiceUnexpected, err)
}

// OutcomeLabel names the class of err for metrics labels.
func OutcomeLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrServiceMisconfigured):
		return "misconfigured"
	case errors.Is(err, ErrServiceUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrServiceRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrServiceOverloaded):
		return "overloaded"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	default:
		return "unexpected"
	}
}
