package http_handlers

import (
	"context"
	"net/http"

	"github.com/brooksgarrett/todo-api/internal/application/auth"
	"github.com/brooksgarrett/todo-api/internal/domain"
	"github.com/brooksgarrett/todo-api/internal/logger"
	"github.com/brooksgarrett/todo-api/internal/transport/http/dto"
	"github.com/brooksgarrett/todo-api/internal/transport/http/middleware"
	"github.com/brooksgarrett/todo-api/internal/transport/http/response"
)

type AuthService interface {
	Register(ctx context.Context, email, password string) (auth.Session, error)
	Login(ctx context.Context, email, password string) (auth.Session, error)
	Logout(ctx context.Context, id auth.Identity) error
}

type AuthHandler struct {
	svc AuthService
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	sess, err := h.svc.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", sess.User.ID).
		Msg("user_registered")

	writeSession(w, sess)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	sess, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", sess.User.ID).
		Msg("user_logged_in")

	writeSession(w, sess)
}

// Logout revokes only the token that authenticated this request.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	if err := h.svc.Logout(r.Context(), id); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Empty(w)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}
	response.OK(w, dto.NewUserView(id.User))
}

func writeSession(w http.ResponseWriter, sess auth.Session) {
	w.Header().Set(middleware.HeaderXAuth, sess.Token)
	response.OK(w, dto.NewUserView(sess.User))
}
