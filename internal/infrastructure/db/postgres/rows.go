package postgres

import (
	"database/sql"
	"time"

	"github.com/brooksgarrett/todo-api/internal/domain"
)

type userRow struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

func (ur userRow) toDomain() domain.User {
	return domain.User{
		ID:           ur.ID,
		Email:        ur.Email,
		PasswordHash: ur.PasswordHash,
	}
}

type todoRow struct {
	ID          string
	Text        string
	Completed   bool
	CompletedAt *time.Time
	CreatorID   string
	CreatedAt   time.Time
}

func (tr todoRow) toDomain() domain.Todo {
	t := domain.Todo{
		ID:        tr.ID,
		Text:      tr.Text,
		Completed: tr.Completed,
		CreatorID: tr.CreatorID,
		CreatedAt: tr.CreatedAt.UTC(),
	}
	if tr.CompletedAt != nil {
		at := tr.CompletedAt.UTC()
		t.CompletedAt = &at
	}
	return t
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
