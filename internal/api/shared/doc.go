// Package shared holds the HTTP helpers used by both the api handlers and the
// middleware: JSON responses, trace IDs, client identity and body reading.
package shared
