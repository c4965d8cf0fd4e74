package http_handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/brooksgarrett/todo-api/internal/application/auth"
	"github.com/brooksgarrett/todo-api/internal/application/todo"
	"github.com/brooksgarrett/todo-api/internal/domain"
	"github.com/brooksgarrett/todo-api/internal/infrastructure/memory"
	"github.com/brooksgarrett/todo-api/internal/infrastructure/security"
	"github.com/brooksgarrett/todo-api/internal/transport/http/middleware"
)

// mustJSONBody marshals v to JSON and returns an io.Reader for request body.
func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	return bytes.NewReader(b)
}

func mustReadJSON(t *testing.T, r io.Reader, out any) {
	t.Helper()

	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode json failed; body=%s err=%v", string(raw), err)
	}
}

type errBody struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Meta    map[string]string `json:"meta"`
	} `json:"error"`
}

func mustErrCode(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) {
	t.Helper()

	if rr.Code != status {
		t.Fatalf("status=%d want=%d body=%s", rr.Code, status, rr.Body.String())
	}
	var eb errBody
	mustReadJSON(t, rr.Body, &eb)
	if eb.Error.Code != code {
		t.Fatalf("code=%q want=%q", eb.Error.Code, code)
	}
}

// withIdentity injects an authenticated identity, bypassing the gate.
func withIdentity(req *http.Request, u domain.User, token string) *http.Request {
	ctx := middleware.WithIdentity(req.Context(), auth.Identity{User: u, Token: token})
	return req.WithContext(ctx)
}

// withURLParam injects chi URL param (e.g. /todos/{id}) into request context.
func withURLParam(req *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)

	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	return req.WithContext(ctx)
}

type testEnv struct {
	users  *memory.UserRepo
	ledger *failingLedger
	authS  *auth.Service
	todoS  *todo.Service
}

func newTestEnv() *testEnv {
	users := memory.NewUserRepo()
	ledger := &failingLedger{Ledger: memory.NewLedger()}
	return &testEnv{
		users:  users,
		ledger: ledger,
		authS: auth.NewService(
			users,
			security.NewBcryptHasher(4),
			security.NewJWTCodec("test-secret", 0),
			ledger,
		),
		todoS: todo.NewService(memory.NewTodoRepo()),
	}
}

// failingLedger lets tests break revocation on demand.
type failingLedger struct {
	*memory.Ledger
	revokeErr error
}

func (l *failingLedger) Revoke(ctx context.Context, userID, token string) error {
	if l.revokeErr != nil {
		return l.revokeErr
	}
	return l.Ledger.Revoke(ctx, userID, token)
}

var errLedgerDown = domain.ErrStore(errors.New("ledger unavailable"))
