// Package openai implements generation.Generator on top of the OpenAI chat
// completions API using the github.com/openai/openai-go SDK.
//
// SDK-level retries are disabled so that an upstream failure is reported to
// the caller after a single attempt.
package openai
