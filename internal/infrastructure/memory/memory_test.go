package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brooksgarrett/todo-api/internal/application/todo"
	"github.com/brooksgarrett/todo-api/internal/domain"
)

func TestUserRepo_CreateAndLookup(t *testing.T) {
	r := NewUserRepo()
	ctx := context.Background()

	u, err := r.Create(ctx, domain.User{ID: "u1", Email: " Alice@Example.com", PasswordHash: "h"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)

	got, err := r.GetByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	got, err = r.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "h", got.PasswordHash)

	_, err = r.GetByID(ctx, "nope")
	assert.True(t, domain.Is(err, "user_not_found"))

	require.NoError(t, r.Delete(ctx, "u1"))
	_, err = r.GetByEmail(ctx, "alice@example.com")
	assert.True(t, domain.Is(err, "user_not_found"))
}

func TestUserRepo_ConcurrentDuplicateEmail_OneWins(t *testing.T) {
	r := NewUserRepo()
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = r.Create(ctx, domain.User{ID: string(rune('a' + i)), Email: "same@example.com", PasswordHash: "h"})
		}(i)
	}
	wg.Wait()

	ok, dup := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case domain.Is(err, "email_already_exists"):
			dup++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, dup)
}

func TestLedger_RecordRevokeContains(t *testing.T) {
	l := NewLedger()
	ctx := context.Background()

	require.NoError(t, l.Record(ctx, "u1", domain.SessionToken{Purpose: "auth", Token: "t1"}))
	require.NoError(t, l.Record(ctx, "u1", domain.SessionToken{Purpose: "auth", Token: "t2"}))

	ok, _ := l.Contains(ctx, "u1", "t1")
	assert.True(t, ok)
	ok, _ = l.Contains(ctx, "u2", "t1")
	assert.False(t, ok, "tokens are per-user")

	require.NoError(t, l.Revoke(ctx, "u1", "t1"))
	require.NoError(t, l.Revoke(ctx, "u1", "t1"))

	ok, _ = l.Contains(ctx, "u1", "t1")
	assert.False(t, ok)

	toks, _ := l.List(ctx, "u1")
	assert.Equal(t, []domain.SessionToken{{Purpose: "auth", Token: "t2"}}, toks)
}

func TestLedger_ConcurrentRecordsAllSurvive(t *testing.T) {
	l := NewLedger()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = l.Record(ctx, "u1", domain.SessionToken{Purpose: "auth", Token: time.Duration(i).String()})
		}(i)
	}
	wg.Wait()

	toks, _ := l.List(ctx, "u1")
	assert.Len(t, toks, 50)
}

func TestTodoRepo_ScopedCRUD(t *testing.T) {
	r := NewTodoRepo()
	ctx := context.Background()
	now := time.Now().UTC()

	_, _ = r.Create(ctx, domain.Todo{ID: "t1", Text: "a", CreatorID: "u1", CreatedAt: now})
	_, _ = r.Create(ctx, domain.Todo{ID: "t2", Text: "b", CreatorID: "u2", CreatedAt: now})
	_, _ = r.Create(ctx, domain.Todo{ID: "t3", Text: "c", CreatorID: "u1", CreatedAt: now})

	list, err := r.ListByCreator(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "t1", list[0].ID)
	assert.Equal(t, "t3", list[1].ID)

	_, err = r.Get(ctx, "u2", "t1")
	assert.True(t, domain.Is(err, "todo_not_found"))

	at := now.Add(time.Minute)
	upd, err := r.Update(ctx, "u1", "t1", todo.Change{Completed: true, CompletedAt: &at})
	require.NoError(t, err)
	assert.True(t, upd.Completed)
	assert.Equal(t, "a", upd.Text)

	_, err = r.Update(ctx, "u2", "t1", todo.Change{})
	assert.True(t, domain.Is(err, "todo_not_found"))

	_, err = r.Delete(ctx, "u2", "t1")
	assert.True(t, domain.Is(err, "todo_not_found"))

	del, err := r.Delete(ctx, "u1", "t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", del.ID)

	list, _ = r.ListByCreator(ctx, "u1")
	assert.Len(t, list, 1)

	empty, _ := r.ListByCreator(ctx, "nobody")
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
