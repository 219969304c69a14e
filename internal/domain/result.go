package domain

import (
	"errors"
	"strings"
)

// ErrEmptyPost is returned when either generated post is blank.
var ErrEmptyPost = errors.New("generated post cannot be empty")

// GenerationResult holds the two post variants returned to the client.
// It is built fresh for every request and never cached.
type GenerationResult struct {
	AuthorityPost string `json:"authorityPost"`
	RelatablePost string `json:"relatablePost"`
}

// NewGenerationResult trims both posts and rejects the result if either is
// empty afterwards.
func NewGenerationResult(authorityPost, relatablePost string) (*GenerationResult, error) {
	result := &GenerationResult{
		AuthorityPost: strings.TrimSpace(authorityPost),
		RelatablePost: strings.TrimSpace(relatablePost),
	}

	if err := result.Validate(); err != nil {
		return nil, err
	}

	return result, nil
}

// Validate checks that both posts carry text.
func (r *GenerationResult) Validate() error {
	if strings.TrimSpace(r.AuthorityPost) == "" || strings.TrimSpace(r.RelatablePost) == "" {
		return ErrEmptyPost
	}
	return nil
}
