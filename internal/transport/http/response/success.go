package response

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/brooksgarrett/todo-api/internal/logger"
)

const contentTypeJSON = "application/json; charset=utf-8"

// WriteJSON encodes v before touching the response, so an unencodable value
// still yields a clean 500 instead of a half-written body.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logger.Logger.Error().Err(err).Msg("encode response")
		buf.Reset()
		buf.WriteString(`{"error":{"code":"internal_error","message":"internal error"}}` + "\n")
		status = http.StatusInternalServerError
	}

	h := w.Header()
	if h.Get("Content-Type") == "" {
		h.Set("Content-Type", contentTypeJSON)
	}
	h.Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func OK(w http.ResponseWriter, v any) {
	WriteJSON(w, http.StatusOK, v)
}

// Empty writes a 200 with no body.
func Empty(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
}
