// Package config handles configuration loading, parsing, and validation
// from environment variables, optional .env files, and an optional config
// file. It provides type-safe access to application settings needed by
// different components while keeping configuration details separate from
// business logic.
//
// The LLM API key is intentionally not validated here. A missing or
// placeholder key must surface as a per-request error from the generation
// adapter, never as a startup failure.
package config
