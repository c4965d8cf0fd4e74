package auth

import (
	"context"

	"github.com/brooksgarrett/todo-api/internal/domain"
)

func (s *Service) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// Sessions lists the live tokens of a user, oldest first.
func (s *Service) Sessions(ctx context.Context, userID string) ([]domain.SessionToken, error) {
	return s.ledger.List(ctx, userID)
}
