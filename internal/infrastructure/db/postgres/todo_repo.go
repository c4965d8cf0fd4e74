package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/brooksgarrett/todo-api/internal/application/todo"
	"github.com/brooksgarrett/todo-api/internal/domain"
)

// TodoRepo scopes every statement by creator_id, so a foreign todo is simply
// not found.
type TodoRepo struct {
	db *sql.DB
}

func NewTodoRepo(db *sql.DB) *TodoRepo {
	return &TodoRepo{db: db}
}

const todoColumns = `id, text, completed, completed_at, creator_id, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(s rowScanner) (todoRow, error) {
	var tr todoRow
	err := s.Scan(&tr.ID, &tr.Text, &tr.Completed, &tr.CompletedAt, &tr.CreatorID, &tr.CreatedAt)
	return tr, err
}

func mapTodoErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrTodoNotFound()
	}
	return domain.ErrStore(err)
}

func (r *TodoRepo) Create(ctx context.Context, t domain.Todo) (domain.Todo, error) {
	const q = `
INSERT INTO todos (id, text, completed, completed_at, creator_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + todoColumns + `;
`
	tr, err := scanTodo(r.db.QueryRowContext(ctx, q,
		t.ID, t.Text, t.Completed, nullTime(t.CompletedAt), t.CreatorID, t.CreatedAt,
	))
	if err != nil {
		return domain.Todo{}, domain.ErrStore(err)
	}
	return tr.toDomain(), nil
}

func (r *TodoRepo) ListByCreator(ctx context.Context, creatorID string) ([]domain.Todo, error) {
	const q = `
SELECT ` + todoColumns + `
FROM todos
WHERE creator_id = $1
ORDER BY created_at, id;
`
	rows, err := r.db.QueryContext(ctx, q, creatorID)
	if err != nil {
		return nil, domain.ErrStore(err)
	}
	defer rows.Close()

	out := []domain.Todo{}
	for rows.Next() {
		tr, err := scanTodo(rows)
		if err != nil {
			return nil, domain.ErrStore(err)
		}
		out = append(out, tr.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrStore(err)
	}
	return out, nil
}

func (r *TodoRepo) Get(ctx context.Context, creatorID, id string) (domain.Todo, error) {
	const q = `
SELECT ` + todoColumns + `
FROM todos
WHERE id = $1 AND creator_id = $2;
`
	tr, err := scanTodo(r.db.QueryRowContext(ctx, q, id, creatorID))
	if err != nil {
		return domain.Todo{}, mapTodoErr(err)
	}
	return tr.toDomain(), nil
}

func (r *TodoRepo) Delete(ctx context.Context, creatorID, id string) (domain.Todo, error) {
	const q = `
DELETE FROM todos
WHERE id = $1 AND creator_id = $2
RETURNING ` + todoColumns + `;
`
	tr, err := scanTodo(r.db.QueryRowContext(ctx, q, id, creatorID))
	if err != nil {
		return domain.Todo{}, mapTodoErr(err)
	}
	return tr.toDomain(), nil
}

// Update writes completed and completed_at in the same statement, so readers
// never see one without the other.
func (r *TodoRepo) Update(ctx context.Context, creatorID, id string, ch todo.Change) (domain.Todo, error) {
	const q = `
UPDATE todos
SET text = COALESCE($3, text),
    completed = $4,
    completed_at = $5
WHERE id = $1 AND creator_id = $2
RETURNING ` + todoColumns + `;
`
	var text sql.NullString
	if ch.Text != nil {
		text = sql.NullString{String: *ch.Text, Valid: true}
	}

	tr, err := scanTodo(r.db.QueryRowContext(ctx, q,
		id, creatorID, text, ch.Completed, nullTime(ch.CompletedAt),
	))
	if err != nil {
		return domain.Todo{}, mapTodoErr(err)
	}
	return tr.toDomain(), nil
}
