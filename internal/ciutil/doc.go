// Package ciutil provides helpers for tests that depend on the environment
// they run in: CI detection and locating optional external services such as
// a Redis instance for the rate limit store tests.
package ciutil
