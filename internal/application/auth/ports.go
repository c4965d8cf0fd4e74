package auth

import (
	"context"

	"github.com/brooksgarrett/todo-api/internal/domain"
)

/*
UserRepo
--------
Persistence port for credentials.
Create must reject a second user with the same (normalized) email with
domain.ErrEmailAlreadyExists.
*/
type UserRepo interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	Delete(ctx context.Context, id string) error
}

/*
PasswordHasher
--------------
Abstracts bcrypt.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil on match, invalid_credentials on mismatch
}

/*
TokenCodec
----------
Issues and verifies signed tokens. Verify is pure: no store access.
*/
type TokenClaims struct {
	UserID  string
	Purpose string
}

type TokenCodec interface {
	Issue(userID, purpose string) (string, error)
	Verify(token string) (TokenClaims, error)
}

/*
Ledger
------
Per-user list of live session tokens. A token that verifies but is not in
the ledger has been revoked.
Revoke of an absent token is a no-op.
*/
type Ledger interface {
	Record(ctx context.Context, userID string, tok domain.SessionToken) error
	Revoke(ctx context.Context, userID, token string) error
	Contains(ctx context.Context, userID, token string) (bool, error)
	List(ctx context.Context, userID string) ([]domain.SessionToken, error)
}

// Auditor receives business events. Implementations must not block.
type Auditor interface {
	Registered(ctx context.Context, userID, email string)
	LoginSuccess(ctx context.Context, userID, email string)
	LoginFailed(ctx context.Context, email, reason string)
	Logout(ctx context.Context, userID string)
}
