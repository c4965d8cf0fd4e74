package auth

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/brooksgarrett/todo-api/internal/domain"
	"github.com/brooksgarrett/todo-api/internal/logger"
)

// Register creates a credential and opens the first session for it.
func (s *Service) Register(ctx context.Context, email, password string) (Session, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return Session{}, domain.ErrMissingField("email")
	}
	if !validEmail(email) {
		return Session{}, domain.ErrInvalidField("email", "not a valid email")
	}
	if password == "" {
		return Session{}, domain.ErrMissingField("password")
	}
	// byte length, not runes: that is what bcrypt limits
	if len(password) > domain.MaxPasswordBytes {
		return Session{}, domain.ErrPasswordTooLong()
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		var de *domain.Error
		if errors.As(err, &de) {
			return Session{}, err
		}
		return Session{}, domain.ErrHashFailed(err)
	}

	created, err := s.users.Create(ctx, domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return Session{}, err
	}

	sess, err := s.issueSession(ctx, created)
	if err != nil {
		// without a session the account is unusable; drop it so a retry can
		// register the same email
		if derr := s.users.Delete(ctx, created.ID); derr != nil {
			logger.WithCtx(ctx).Error().Err(derr).Str("user_id", created.ID).Msg("register rollback failed")
		}
		return Session{}, err
	}

	s.audit.Registered(ctx, created.ID, created.Email)
	return sess, nil
}

var validate = validator.New()

func validEmail(email string) bool {
	return validate.Var(email, "email") == nil
}
