package uploads

import (
	"errors"
	"fmt"
	"net/http"
)

// ParseForm parses a multipart request whose body may not exceed maxBytes.
// Parts beyond maxMemory spill to temporary files, which net/http removes
// once the handler returns.
func ParseForm(w http.ResponseWriter, r *http.Request, maxBytes, maxMemory int64) error {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, tooLarge.Limit)
		}
		return fmt.Errorf("parse multipart form: %w", err)
	}
	return nil
}
