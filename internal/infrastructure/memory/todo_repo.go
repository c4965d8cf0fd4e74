package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/brooksgarrett/todo-api/internal/application/todo"
	"github.com/brooksgarrett/todo-api/internal/domain"
)

type TodoRepo struct {
	mu    sync.RWMutex
	byID  map[string]domain.Todo
	seq   map[string]int // id -> insertion order, tie-break for equal CreatedAt
	count int
}

func NewTodoRepo() *TodoRepo {
	return &TodoRepo{
		byID: make(map[string]domain.Todo),
		seq:  make(map[string]int),
	}
}

func (r *TodoRepo) Create(ctx context.Context, t domain.Todo) (domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.ID == "" {
		return domain.Todo{}, domain.ErrMissingField("id")
	}
	r.count++
	r.byID[t.ID] = t
	r.seq[t.ID] = r.count
	return t, nil
}

func (r *TodoRepo) ListByCreator(ctx context.Context, creatorID string) ([]domain.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.Todo{}
	for _, t := range r.byID {
		if t.CreatorID == creatorID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return r.seq[out[i].ID] < r.seq[out[j].ID]
	})
	return out, nil
}

// owned must be called with the lock held.
func (r *TodoRepo) owned(creatorID, id string) (domain.Todo, bool) {
	t, ok := r.byID[id]
	if !ok || t.CreatorID != creatorID {
		return domain.Todo{}, false
	}
	return t, true
}

func (r *TodoRepo) Get(ctx context.Context, creatorID, id string) (domain.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.owned(creatorID, id)
	if !ok {
		return domain.Todo{}, domain.ErrTodoNotFound()
	}
	return t, nil
}

func (r *TodoRepo) Delete(ctx context.Context, creatorID, id string) (domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.owned(creatorID, id)
	if !ok {
		return domain.Todo{}, domain.ErrTodoNotFound()
	}
	delete(r.byID, id)
	delete(r.seq, id)
	return t, nil
}

func (r *TodoRepo) Update(ctx context.Context, creatorID, id string, ch todo.Change) (domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.owned(creatorID, id)
	if !ok {
		return domain.Todo{}, domain.ErrTodoNotFound()
	}
	if ch.Text != nil {
		t.Text = *ch.Text
	}
	t.Completed = ch.Completed
	t.CompletedAt = ch.CompletedAt
	r.byID[id] = t
	return t, nil
}
