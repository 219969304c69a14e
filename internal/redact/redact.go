// Package redact removes credentials from strings before they are logged or
// disclosed in development error responses. Errors from LLM SDKs can echo
// request URLs and headers, which may carry the API key.
package redact

import "regexp"

// Placeholders substituted for redacted content.
const (
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// rules are applied in order. Provider key formats come first so that a key
// inside a header or query string is caught by the most specific pattern.
var rules = []rule{
	// Anthropic, OpenAI and similar "sk-" secret keys
	{regexp.MustCompile(`\bsk-[A-Za-z0-9_\-]{8,}`), RedactedKeyPlaceholder},
	// Google API keys
	{regexp.MustCompile(`\bAIza[0-9A-Za-z_\-]{20,}`), RedactedKeyPlaceholder},
	// Bearer tokens in Authorization headers
	{regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9_\-.~+/=]{8,}`), "${1}" + RedactedCredentialPlaceholder},
	// key=value, key: value and header forms such as x-api-key or x-goog-api-key
	{
		regexp.MustCompile(`(?i)((?:x-(?:goog-)?)?api[_-]?key|access[_-]?token|secret|password)(["'\s:=]+)[^\s"'&,;]{4,}`),
		"${1}${2}" + RedactedCredentialPlaceholder,
	},
	// ?key=... query parameters
	{regexp.MustCompile(`([?&]key=)[^&\s"']+`), "${1}" + RedactedKeyPlaceholder},
}

// String redacts credentials from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts credentials from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
