package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/brooksgarrett/todo-api/internal/domain"
	"github.com/brooksgarrett/todo-api/internal/logger"
)

type SeederHasher interface {
	Hash(password string) (string, error)
}

type SeederRepo interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
}

// SeedUsers creates the development users. Safe to call on every start:
// existing emails are skipped.
func SeedUsers(ctx context.Context, repo SeederRepo, hasher SeederHasher) int {
	seeds := []struct {
		Email string
		Pass  string
	}{
		{Email: "brooks@brooksgarrett.com", Pass: "userOnePass"},
		{Email: "brooks2@brooksgarrett.com", Pass: "userTwoPass"},
	}

	created := 0
	for _, s := range seeds {
		hash, err := hasher.Hash(s.Pass)
		if err != nil {
			logger.Logger.Warn().Err(err).Str("email", s.Email).Msg("seed hash failed")
			continue
		}

		_, err = repo.Create(ctx, domain.User{
			ID:           uuid.NewString(),
			Email:        s.Email,
			PasswordHash: hash,
		})
		if err != nil {
			// ignore duplicates (restart safe)
			continue
		}
		created++
	}

	logger.Logger.Info().Int("created", created).Msg("seed users done")
	return created
}
