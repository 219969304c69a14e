package generation

import (
	"context"
	"strings"
)

// Generator sends a prompt to a hosted language model and returns the text of
// its reply. Implementations make exactly one outbound call per invocation and
// never retry.
type Generator interface {
	// Generate returns the first text content of the model's reply.
	//
	// Errors wrap one of ErrServiceMisconfigured, ErrServiceUnauthorized,
	// ErrServiceRateLimited, ErrServiceOverloaded or ErrServiceUnexpected.
	Generate(ctx context.Context, prompt string) (string, error)
}

// placeholderKeys are values shipped in example env files.
var placeholderKeys = map[string]struct{}{
	"your_anthropic_api_key_here": {},
	"your_gemini_api_key_here":    {},
	"your_openai_api_key_here":    {},
	"your_api_key_here":           {},
	"changeme":                    {},
	"<api-key>":                   {},
}

// UsableAPIKey reports whether key looks like a real credential: not blank
// and not an obvious placeholder.
func UsableAPIKey(key string) bool {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return false
	}
	lower := strings.ToLower(trimmed)
	if _, ok := placeholderKeys[lower]; ok {
		return false
	}
	return !strings.HasPrefix(lower, "your_")
}
