package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// MaxFieldLength is the largest number of characters accepted in any request
// field, measured before trimming.
const MaxFieldLength = 1000

// Field names, listed in the order they are validated.
const (
	FieldTopic      = "topic"
	FieldExperience = "experience"
	FieldMessage    = "message"
	FieldAudience   = "audience"
)

// RequiredFields is the fixed validation order. A body missing several fields
// always reports the earliest one.
var RequiredFields = []string{FieldTopic, FieldExperience, FieldMessage, FieldAudience}

// fieldRules is applied with validator.Var after the type check.
// notblank rejects whitespace-only values, max counts runes.
var fieldRules = fmt.Sprintf("notblank,max=%d", MaxFieldLength)

var validate = newValidator()

// newValidator returns a validator with the non-standard notblank tag
// registered.
func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("register notblank validator: %v", err))
	}
	return v
}

// GenerationRequest is the validated form submitted by a client. Values are
// kept exactly as received; trimming happens when the prompt is built.
type GenerationRequest struct {
	Topic      string `json:"topic"`
	Experience string `json:"experience"`
	Message    string `json:"message"`
	Audience   string `json:"audience"`
}

// Trimmed returns a copy of the request with surrounding whitespace removed
// from every field.
func (r GenerationRequest) Trimmed() GenerationRequest {
	return GenerationRequest{
		Topic:      strings.TrimSpace(r.Topic),
		Experience: strings.TrimSpace(r.Experience),
		Message:    strings.TrimSpace(r.Message),
		Audience:   strings.TrimSpace(r.Audience),
	}
}

// ParseGenerationRequest decodes and validates a raw request body.
//
// Checks run in a fixed order and the first failure is returned:
//  1. the body must be a JSON object (ErrInvalidBody)
//  2. every required field must be present and truthy (RuleMissing)
//  3. then, field by field: string type, non-blank, at most MaxFieldLength
//     characters (RuleWrongType, RuleEmpty, RuleTooLong)
//
// Unknown fields are ignored.
func ParseGenerationRequest(raw []byte) (*GenerationRequest, error) {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		return nil, ErrInvalidBody
	}

	for _, name := range RequiredFields {
		if !truthy(body[name]) {
			return nil, &FieldError{Field: name, Rule: RuleMissing}
		}
	}

	values := make(map[string]string, len(RequiredFields))
	for _, name := range RequiredFields {
		value, ok := body[name].(string)
		if !ok {
			return nil, &FieldError{Field: name, Rule: RuleWrongType}
		}
		if rule, failed := checkField(value); failed {
			return nil, &FieldError{Field: name, Rule: rule}
		}
		values[name] = value
	}

	return &GenerationRequest{
		Topic:      values[FieldTopic],
		Experience: values[FieldExperience],
		Message:    values[FieldMessage],
		Audience:   values[FieldAudience],
	}, nil
}

// checkField runs the string rules and maps the first failing validator tag
// to a FieldRule.
func checkField(value string) (FieldRule, bool) {
	err := validate.Var(value, fieldRules)
	if err == nil {
		return "", false
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Tag() == "max" {
		return RuleTooLong, true
	}
	return RuleEmpty, true
}

// truthy reports whether a decoded JSON value counts as present: null, false,
// zero and the empty string do not.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	default:
		return true
	}
}
