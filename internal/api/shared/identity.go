package shared

import (
	"net/http"
	"strings"

	"github.com/phrazzld/slaypost-api/internal/domain"
)

// ClientIdentity derives the rate limiting key for r: the first
// X-Forwarded-For entry, then X-Real-IP, then domain.UnknownIdentity.
// Headers are trusted as sent. A present X-Forwarded-For whose first entry is
// blank never yields an empty key; lookup moves on to X-Real-IP instead.
func ClientIdentity(r *http.Request) domain.ClientIdentity {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return domain.ClientIdentity(first)
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return domain.ClientIdentity(realIP)
	}
	return domain.UnknownIdentity
}
