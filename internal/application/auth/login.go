package auth

import (
	"context"

	"github.com/brooksgarrett/todo-api/internal/domain"
)

// FindByCredentials resolves an email/password pair to a user.
// IMPORTANT: must not leak whether the email exists (avoid user enumeration).
func (s *Service) FindByCredentials(ctx context.Context, email, password string) (domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" || len(password) > domain.MaxPasswordBytes {
		return domain.User{}, domain.ErrInvalidCredentials()
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.Is(err, "user_not_found") {
			return domain.User{}, domain.ErrInvalidCredentials()
		}
		return domain.User{}, err
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		if domain.Is(err, "invalid_credentials") {
			return domain.User{}, domain.ErrInvalidCredentials()
		}
		return domain.User{}, err
	}
	return u, nil
}

// Login verifies credentials and opens a new session. Earlier sessions of
// the same user stay valid.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.FindByCredentials(ctx, email, password)
	if err != nil {
		if domain.Is(err, "invalid_credentials") {
			s.audit.LoginFailed(ctx, email, "invalid_credentials")
		}
		return Session{}, err
	}

	sess, err := s.issueSession(ctx, u)
	if err != nil {
		return Session{}, err
	}

	s.audit.LoginSuccess(ctx, u.ID, u.Email)
	return sess, nil
}
