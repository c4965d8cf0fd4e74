package todo

import (
	"context"
	"time"

	"github.com/brooksgarrett/todo-api/internal/domain"
)

/*
Repo
----
Every read and write is scoped by creatorID. A todo owned by someone else
is reported as domain.ErrTodoNotFound, exactly like a missing one.
*/
type Repo interface {
	Create(ctx context.Context, t domain.Todo) (domain.Todo, error)
	ListByCreator(ctx context.Context, creatorID string) ([]domain.Todo, error)
	Get(ctx context.Context, creatorID, id string) (domain.Todo, error)
	Delete(ctx context.Context, creatorID, id string) (domain.Todo, error)
	Update(ctx context.Context, creatorID, id string, ch Change) (domain.Todo, error)
}

// Change is a fully resolved update: completion state is always written,
// text only when set.
type Change struct {
	Text        *string
	Completed   bool
	CompletedAt *time.Time
}
