package postgres

import (
	"context"
	"database/sql"

	"github.com/brooksgarrett/todo-api/internal/domain"
)

// LedgerRepo keeps session tokens in user_tokens, one row per token.
// Rows go away with their user (ON DELETE CASCADE).
type LedgerRepo struct {
	db *sql.DB
}

func NewLedgerRepo(db *sql.DB) *LedgerRepo {
	return &LedgerRepo{db: db}
}

func (r *LedgerRepo) Record(ctx context.Context, userID string, tok domain.SessionToken) error {
	const q = `
INSERT INTO user_tokens (user_id, purpose, token)
VALUES ($1, $2, $3);
`
	if _, err := r.db.ExecContext(ctx, q, userID, tok.Purpose, tok.Token); err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return domain.ErrUserNotFound()
		}
		return domain.ErrStore(err)
	}
	return nil
}

func (r *LedgerRepo) Revoke(ctx context.Context, userID, token string) error {
	const q = `
DELETE FROM user_tokens
WHERE user_id = $1 AND token = $2;
`
	if _, err := r.db.ExecContext(ctx, q, userID, token); err != nil {
		return domain.ErrStore(err)
	}
	return nil
}

func (r *LedgerRepo) Contains(ctx context.Context, userID, token string) (bool, error) {
	const q = `
SELECT EXISTS (
    SELECT 1 FROM user_tokens WHERE user_id = $1 AND token = $2
);
`
	var ok bool
	if err := r.db.QueryRowContext(ctx, q, userID, token).Scan(&ok); err != nil {
		return false, domain.ErrStore(err)
	}
	return ok, nil
}

func (r *LedgerRepo) List(ctx context.Context, userID string) ([]domain.SessionToken, error) {
	const q = `
SELECT purpose, token
FROM user_tokens
WHERE user_id = $1
ORDER BY id;
`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, domain.ErrStore(err)
	}
	defer rows.Close()

	out := []domain.SessionToken{}
	for rows.Next() {
		var t domain.SessionToken
		if err := rows.Scan(&t.Purpose, &t.Token); err != nil {
			return nil, domain.ErrStore(err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrStore(err)
	}
	return out, nil
}
