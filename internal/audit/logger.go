package audit

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	appCtx "github.com/brooksgarrett/todo-api/internal/pkg/context"
)

// Logger provides structured audit logging for auth business events.
// Tokens and passwords never reach it; emails are masked.
type Logger struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Logger {
	return &Logger{
		log: log.With().Bool("audit", true).Logger(),
	}
}

func (l *Logger) Registered(ctx context.Context, userID, email string) {
	l.log.Info().
		Str("action", "user_registered").
		Str("user_id", userID).
		Str("email", maskEmail(email)).
		Str("request_id", appCtx.GetRequestID(ctx)).
		Msg("User registered")
}

func (l *Logger) LoginSuccess(ctx context.Context, userID, email string) {
	l.log.Info().
		Str("action", "login_success").
		Str("user_id", userID).
		Str("email", maskEmail(email)).
		Str("request_id", appCtx.GetRequestID(ctx)).
		Msg("User logged in successfully")
}

func (l *Logger) LoginFailed(ctx context.Context, email, reason string) {
	l.log.Warn().
		Str("action", "login_failed").
		Str("email", maskEmail(email)).
		Str("reason", reason).
		Str("remote_addr", appCtx.GetRemoteAddr(ctx)).
		Str("request_id", appCtx.GetRequestID(ctx)).
		Msg("Login attempt failed")
}

func (l *Logger) Logout(ctx context.Context, userID string) {
	l.log.Info().
		Str("action", "logout").
		Str("user_id", userID).
		Str("request_id", appCtx.GetRequestID(ctx)).
		Msg("User logged out")
}

// maskEmail keeps the first two characters of the local part and the domain.
func maskEmail(email string) string {
	if len(email) < 5 {
		return "***"
	}
	at := strings.IndexByte(email, '@')
	if at < 0 {
		return email[:2] + "***"
	}
	if at < 2 {
		return email[:1] + "***" + email[at:]
	}
	return email[:2] + "***" + email[at:]
}
