package dto

import (
	"time"

	"github.com/brooksgarrett/todo-api/internal/domain"
)

type CreateTodoRequest struct {
	Text string `json:"text" validate:"required,max=10000"`
}

func (r *CreateTodoRequest) Validate() error {
	return validateStruct(r)
}

// UpdateTodoRequest is a partial update. A non-boolean "completed" fails
// JSON decoding.
type UpdateTodoRequest struct {
	Text      *string `json:"text,omitempty" validate:"omitempty,max=10000"`
	Completed *bool   `json:"completed,omitempty"`
}

func (r *UpdateTodoRequest) Validate() error {
	return validateStruct(r)
}

func (r UpdateTodoRequest) Patch() domain.TodoPatch {
	return domain.TodoPatch{Text: r.Text, Completed: r.Completed}
}

type TodoView struct {
	ID          string  `json:"id"`
	Text        string  `json:"text"`
	Completed   bool    `json:"completed"`
	CompletedAt *string `json:"completedAt"`
	CreatorID   string  `json:"creatorId"`
}

func NewTodoView(t domain.Todo) TodoView {
	v := TodoView{
		ID:        t.ID,
		Text:      t.Text,
		Completed: t.Completed,
		CreatorID: t.CreatorID,
	}
	if t.CompletedAt != nil {
		s := t.CompletedAt.UTC().Format(time.RFC3339)
		v.CompletedAt = &s
	}
	return v
}

type TodoEnvelope struct {
	Todo TodoView `json:"todo"`
}

type TodoListEnvelope struct {
	Todos []TodoView `json:"todos"`
}

func NewTodoList(ts []domain.Todo) TodoListEnvelope {
	out := make([]TodoView, 0, len(ts))
	for _, t := range ts {
		out = append(out, NewTodoView(t))
	}
	return TodoListEnvelope{Todos: out}
}
