package ratelimit

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrStoreUnavailable is returned by stores when the backing system cannot
	// be reached.
	ErrStoreUnavailable = errors.New("rate limit store unavailable")

	// ErrQuotaExceeded describes a request rejected because its identity used
	// up the quota for the current window.
	ErrQuotaExceeded = errors.New("rate limit quota exceeded")
)

// Entry is the counting state for a single identity.
type Entry struct {
	// Count is the number of admitted requests in the current window.
	Count int
	// ResetAt is the instant after which the window is considered elapsed.
	ResetAt time.Time
}

// Store records admitted requests. Hit must perform its check and update as a
// single atomic step for a given key.
type Store interface {
	// Hit applies the fixed window policy to key at time now.
	//
	// If no entry exists or now is after its ResetAt, the entry is replaced by
	// {Count: 1, ResetAt: now+window} and the request is admitted. Otherwise
	// the request is admitted and Count incremented only while Count < quota.
	// A rejected request leaves the entry untouched.
	//
	// The returned Entry reflects the state after the call.
	Hit(ctx context.Context, key string, quota int, window time.Duration, now time.Time) (Entry, bool, error)
}
