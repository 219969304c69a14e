// Package gemini provides an implementation of the generation.Generator
// interface that uses Google's Gemini API through the google.golang.org/genai
// client library.
//
// This package is an infrastructure adapter in the hexagonal architecture,
// connecting the post pipeline to Google's external Gemini AI service. The
// genai client is created lazily on the first call that has a usable API key,
// so a missing key is reported per request as
// generation.ErrServiceMisconfigured instead of failing startup.
//
// Gemini API errors are classified by their HTTP status code into the
// generation error taxonomy. The adapter never retries.
package gemini
