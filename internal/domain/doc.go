// Package domain contains the core entities of the post generation service:
// the validated generation request, the two-variant generation result, and
// the client identity used as a rate-limit bucket key.
//
// The package has no knowledge of HTTP, rate-limit storage, or the external
// generation service. Request validation lives here so that every delivery
// mechanism applies the same field rules in the same order.
package domain
