package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/brooksgarrett/todo-api/internal/application/auth"
	"github.com/brooksgarrett/todo-api/internal/domain"
	"github.com/brooksgarrett/todo-api/internal/logger"
)

// HeaderXAuth carries the session token on requests and on register/login
// responses.
const HeaderXAuth = "X-Auth"

type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (auth.Identity, error)
}

type WriteErrFunc func(http.ResponseWriter, *http.Request, error)

var authRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "todo_api",
		Name:      "auth_rejections_total",
		Help:      "Requests rejected by the authentication gate, by internal reason",
	},
	[]string{"reason"}, // token_missing, token_invalid, token_revoked, identity_unknown, store_error
)

// Auth resolves X-Auth to an Identity and puts it on the request context.
// Every rejection goes through writeErr, which renders one public 401; the
// specific reason only shows up in metrics and debug logs.
func Auth(authn Authenticator, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := authn.Authenticate(r.Context(), r.Header.Get(HeaderXAuth))
			if err != nil {
				reason := rejectionReason(err)
				authRejectionsTotal.WithLabelValues(reason).Inc()
				logger.WithCtx(r.Context()).Debug().
					Str("reason", reason).
					Str("path", r.URL.Path).
					Msg("auth_rejected")

				writeErr(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func rejectionReason(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Code
	}
	return "non_domain_error"
}
