package shared

import (
	"fmt"
	"io"
	"net/http"

	"github.com/phrazzld/slaypost-api/internal/domain"
)

// MaxRequestBodyBytes caps the size of a request body.
const MaxRequestBodyBytes = 64 << 10

// ReadBody reads the whole request body, up to limit bytes. Any read failure,
// including an oversized body, is reported as domain.ErrInvalidBody.
func ReadBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidBody, err)
	}
	return body, nil
}
