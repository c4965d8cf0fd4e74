package auth

import (
	"context"
	"strings"

	"github.com/brooksgarrett/todo-api/internal/domain"
)

// Authenticate turns a raw bearer token into an Identity.
// Checks run in order: presence, signature, purpose, user, ledger. Each
// failure has its own code; callers project them to one public error.
func (s *Service) Authenticate(ctx context.Context, raw string) (Identity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Identity{}, domain.ErrTokenMissing()
	}

	claims, err := s.codec.Verify(raw)
	if err != nil {
		return Identity{}, domain.ErrTokenInvalid()
	}
	if claims.Purpose != domain.PurposeAuth || claims.UserID == "" {
		return Identity{}, domain.ErrTokenInvalid()
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if domain.Is(err, "user_not_found") {
			return Identity{}, domain.ErrIdentityUnknown()
		}
		return Identity{}, err
	}

	ok, err := s.ledger.Contains(ctx, u.ID, raw)
	if err != nil {
		return Identity{}, err
	}
	if !ok {
		return Identity{}, domain.ErrTokenRevoked()
	}

	return Identity{User: u, Token: raw}, nil
}
