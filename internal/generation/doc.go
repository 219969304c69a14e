// Package generation defines the boundary between the post pipeline and the
// hosted LLM service. It provides the Generator interface implemented by the
// provider adapters under internal/platform, the error taxonomy those adapters
// report, the fixed prompt template, and the extractor that turns the model's
// raw text into a GenerationResult.
package generation
