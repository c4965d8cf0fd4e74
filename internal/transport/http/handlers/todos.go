package http_handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brooksgarrett/todo-api/internal/domain"
	"github.com/brooksgarrett/todo-api/internal/transport/http/dto"
	"github.com/brooksgarrett/todo-api/internal/transport/http/middleware"
	"github.com/brooksgarrett/todo-api/internal/transport/http/response"
)

type TodoService interface {
	Create(ctx context.Context, creatorID, text string) (domain.Todo, error)
	List(ctx context.Context, creatorID string) ([]domain.Todo, error)
	Get(ctx context.Context, creatorID, id string) (domain.Todo, error)
	Delete(ctx context.Context, creatorID, id string) (domain.Todo, error)
	Update(ctx context.Context, creatorID, id string, p domain.TodoPatch) (domain.Todo, error)
}

// TodoHandler serves /todos. Every call is scoped to the authenticated user.
type TodoHandler struct {
	svc TodoService
}

func NewTodoHandler(svc TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	var req dto.CreateTodoRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	t, err := h.svc.Create(r.Context(), uid, req.Text)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewTodoView(t))
}

func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	ts, err := h.svc.List(r.Context(), uid)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewTodoList(ts))
}

func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	t, err := h.svc.Get(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.TodoEnvelope{Todo: dto.NewTodoView(t)})
}

func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	t, err := h.svc.Delete(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.TodoEnvelope{Todo: dto.NewTodoView(t)})
}

func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	var req dto.UpdateTodoRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	t, err := h.svc.Update(r.Context(), uid, chi.URLParam(r, "id"), req.Patch())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.TodoEnvelope{Todo: dto.NewTodoView(t)})
}
