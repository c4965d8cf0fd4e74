package audit

import (
	"context"

	"github.com/brooksgarrett/todo-api/internal/application/auth"
)

// Fanout calls every auditor in order.
type Fanout []auth.Auditor

func (f Fanout) Registered(ctx context.Context, userID, email string) {
	for _, a := range f {
		a.Registered(ctx, userID, email)
	}
}

func (f Fanout) LoginSuccess(ctx context.Context, userID, email string) {
	for _, a := range f {
		a.LoginSuccess(ctx, userID, email)
	}
}

func (f Fanout) LoginFailed(ctx context.Context, email, reason string) {
	for _, a := range f {
		a.LoginFailed(ctx, email, reason)
	}
}

func (f Fanout) Logout(ctx context.Context, userID string) {
	for _, a := range f {
		a.Logout(ctx, userID)
	}
}
