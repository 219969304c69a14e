// Package middleware provides the HTTP middleware shared by every route:
// trace IDs and Prometheus request metrics.
package middleware
