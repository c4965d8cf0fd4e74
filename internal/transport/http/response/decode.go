package response

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/brooksgarrett/todo-api/internal/domain"
)

// MaxBodyBytes caps request bodies; every payload here is a few fields.
const MaxBodyBytes int64 = 1 << 20

// DecodeJSON reads exactly one JSON value from the request body into dst.
// Unknown fields are ignored. Bodies over MaxBodyBytes fail with
// body_too_large, anything else unparsable with invalid_json.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))

	if err := dec.Decode(dst); err != nil {
		return decodeErr(err)
	}

	switch err := dec.Decode(&struct{}{}); {
	case errors.Is(err, io.EOF):
		return nil
	case err != nil:
		return decodeErr(err)
	default:
		return domain.ErrInvalidJSON(errors.New("multiple JSON values"))
	}
}

func decodeErr(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return domain.ErrBodyTooLarge(tooLarge.Limit)
	}
	return domain.ErrInvalidJSON(err)
}
