package response

import (
	"net/http"

	"github.com/brooksgarrett/todo-api/internal/domain"
	appCtx "github.com/brooksgarrett/todo-api/internal/pkg/context"
)

type ErrorBody struct {
	Error ErrorPayload `json:"error"`
}

type ErrorPayload struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Meta      map[string]string `json:"meta,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteError renders the public projection of err. Internal reasons (which
// auth check failed, causes of 500s) never reach the body.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	p := domain.Project(err)

	w.Header().Set("Content-Type", contentTypeJSON)
	WriteJSON(w, statusFromKind(p.Kind), ErrorBody{
		Error: ErrorPayload{
			Code:      p.Code,
			Message:   p.Message,
			Meta:      p.Meta,
			RequestID: appCtx.GetRequestID(r.Context()),
		},
	})
}

// statusFromKind maps domain error kinds to HTTP status codes.
func statusFromKind(kind domain.ErrKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindAuth:
		return http.StatusUnauthorized
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindStore:
		return http.StatusBadRequest
	case domain.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
