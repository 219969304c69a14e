package generation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/phrazzld/slaypost-api/internal/domain"
)

// ParseStrategy tries to decode a JSON value out of the model's raw text.
type ParseStrategy struct {
	Name  string
	Parse func(raw string) (any, error)
}

// errNoJSONObject is returned by braceSpan when the text has no {...} span.
var errNoJSONObject = errors.New("no JSON object found in text")

// DefaultStrategies is the order the extractor tries: the whole text first,
// then the span from the first '{' to the last '}'. The span is greedy, so
// prose containing braces around the real object can still defeat it.
var DefaultStrategies = []ParseStrategy{
	{Name: "strict", Parse: strictJSON},
	{Name: "brace_span", Parse: braceSpan},
}

func strictJSON(raw string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}
	return v, nil
}

func braceSpan(raw string) (any, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, errNoJSONObject
	}
	return strictJSON(raw[start : end+1])
}

// Extract turns the model's raw reply into a GenerationResult using
// DefaultStrategies.
func Extract(raw string) (*domain.GenerationResult, error) {
	return ExtractWith(raw, DefaultStrategies)
}

// ExtractWith runs strategies in order and validates the first value any of
// them decodes. A decoded value with the wrong shape is not retried with later
// strategies. Errors wrap ErrMalformedResponse and never include the raw text.
func ExtractWith(raw string, strategies []ParseStrategy) (*domain.GenerationResult, error) {
	var (
		value  any
		parsed bool
		errs   []string
	)

	for _, strategy := range strategies {
		v, err := strategy.Parse(raw)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", strategy.Name, err))
			continue
		}
		value = v
		parsed = true
		break
	}

	if !parsed {
		return nil, fmt.Errorf("%w: failed to parse JSON (%s)", ErrMalformedResponse, strings.Join(errs, "; "))
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: reply is not a JSON object", ErrMalformedResponse)
	}

	authority, okA := obj["authorityPost"].(string)
	relatable, okR := obj["relatablePost"].(string)
	if !okA || !okR {
		return nil, fmt.Errorf("%w: authorityPost and relatablePost must be strings", ErrMalformedResponse)
	}

	result, err := domain.NewGenerationResult(authority, relatable)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return result, nil
}
