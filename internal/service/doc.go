// Package service contains the application use case of the post generator:
// turning a validated request into an authority post and a relatable post.
//
// PostService coordinates the generation package (prompt construction and
// reply extraction) with whichever generation.Generator adapter was wired at
// startup. It applies the per-call timeout and records the outcome metric, but
// it never retries and never maps errors to HTTP; that is the API layer's job.
package service
