package domain

// UnknownIdentity is used when no forwarding header identifies the caller.
const UnknownIdentity ClientIdentity = "unknown"

// ClientIdentity is the key a caller's requests are counted under by the rate
// limiter. It is derived from proxy headers and is not an authenticated
// principal.
type ClientIdentity string

// String returns the identity as a plain string.
func (c ClientIdentity) String() string {
	return string(c)
}
