// Package anthropic implements generation.Generator against the Anthropic
// Messages API.
//
// Each Generate call checks the configured API key before doing anything
// else, sends a single user message with a fixed model and output bound, and
// returns the first text block of the reply. HTTP status codes are mapped onto
// the generation error taxonomy; nothing is retried.
package anthropic
