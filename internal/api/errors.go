package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/phrazzld/slaypost-api/internal/domain"
	"github.com/phrazzld/slaypost-api/internal/generation"
	"github.com/phrazzld/slaypost-api/internal/ratelimit"
	"github.com/phrazzld/slaypost-api/internal/redact"
)

// ErrorKind names a class of failure visible to clients.
type ErrorKind string

const (
	KindRateLimited         ErrorKind = "rate_limited"
	KindValidation          ErrorKind = "validation"
	KindMisconfigured       ErrorKind = "misconfigured"
	KindUnauthorized        ErrorKind = "unauthorized"
	KindUpstreamRateLimited ErrorKind = "upstream_rate_limited"
	KindOverloaded          ErrorKind = "overloaded"
	KindInternal            ErrorKind = "internal"
)

// Public messages. The dev variants may name configuration keys and include
// redacted error text; the production ones never do.
const (
	msgInvalidBody         = "Invalid request body."
	msgMisconfigured       = "Service is not configured. Please contact support."
	msgUnauthorized        = "API authentication failed. Please contact support."
	msgUnauthorizedDev     = "Authentication failed (401). Check that the API key is correct."
	msgUpstreamRateLimited = "Rate limit reached. Please wait a moment and try again."
	msgOverloaded          = "The AI service is temporarily overloaded. Please try again shortly."
	msgInternal            = "Failed to generate posts. Please try again."
)

// ClassifiedError is the single client-facing description of a failure.
type ClassifiedError struct {
	Kind          ErrorKind
	HTTPStatus    int
	PublicMessage string
	// InternalDetail is logged, never sent.
	InternalDetail error
}

// errNoError stands in as the detail when Classify is handed a nil error.
var errNoError = errors.New("failure reported without an error")

// RateLimitedError describes the quota rejection d for identity. The detail
// wraps ratelimit.ErrQuotaExceeded.
func RateLimitedError(identity domain.ClientIdentity, d ratelimit.Decision) ClassifiedError {
	detail := fmt.Errorf("%w: identity %s used %d of %d, resets at %s",
		ratelimit.ErrQuotaExceeded, identity, d.Count, d.Limit, d.ResetAt.UTC().Format(time.RFC3339))

	return ClassifiedError{
		Kind:           KindRateLimited,
		HTTPStatus:     http.StatusTooManyRequests,
		PublicMessage:  fmt.Sprintf("Daily limit reached. You've used your %d free generations for today.", d.Limit),
		InternalDetail: detail,
	}
}

// Classify maps err onto a ClassifiedError. dev selects the more specific
// development messages.
func Classify(err error, dev bool) ClassifiedError {
	if err == nil {
		err = errNoError
	}
	ce := ClassifiedError{InternalDetail: err}

	var fieldErr *domain.FieldError
	var missingKey *generation.MissingKeyError

	switch {
	case errors.As(err, &fieldErr):
		ce.Kind, ce.HTTPStatus, ce.PublicMessage = KindValidation, http.StatusBadRequest, fieldErr.Message()

	case errors.Is(err, domain.ErrInvalidBody):
		ce.Kind, ce.HTTPStatus, ce.PublicMessage = KindValidation, http.StatusBadRequest, msgInvalidBody

	case errors.Is(err, generation.ErrServiceMisconfigured):
		ce.Kind, ce.HTTPStatus, ce.PublicMessage = KindMisconfigured, http.StatusInternalServerError, msgMisconfigured
		if dev {
			envVar := "The API key"
			if errors.As(err, &missingKey) {
				envVar = missingKey.EnvVar
			}
			ce.PublicMessage = envVar + " is not configured. Add it to .env.local and restart the dev server."
		}

	case errors.Is(err, generation.ErrServiceUnauthorized):
		ce.Kind, ce.HTTPStatus, ce.PublicMessage = KindUnauthorized, http.StatusInternalServerError, msgUnauthorized
		if dev {
			ce.PublicMessage = msgUnauthorizedDev
		}

	case errors.Is(err, generation.ErrServiceRateLimited):
		ce.Kind, ce.HTTPStatus, ce.PublicMessage = KindUpstreamRateLimited, http.StatusTooManyRequests, msgUpstreamRateLimited

	case errors.Is(err, generation.ErrServiceOverloaded):
		ce.Kind, ce.HTTPStatus, ce.PublicMessage = KindOverloaded, http.StatusServiceUnavailable, msgOverloaded

	default:
		ce.Kind, ce.HTTPStatus, ce.PublicMessage = KindInternal, http.StatusInternalServerError, msgInternal
		if dev {
			ce.PublicMessage = "Generation failed: " + redact.Error(err)
		}
	}

	return ce
}
