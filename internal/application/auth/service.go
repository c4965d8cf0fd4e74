package auth

import (
	"context"

	"github.com/brooksgarrett/todo-api/internal/domain"
)

type Service struct {
	users  UserRepo
	hasher PasswordHasher
	codec  TokenCodec
	ledger Ledger
	audit  Auditor
}

func NewService(users UserRepo, hasher PasswordHasher, codec TokenCodec, ledger Ledger) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		codec:  codec,
		ledger: ledger,
		audit:  nopAuditor{},
	}
}

func (s *Service) WithAudit(a Auditor) *Service {
	if a != nil {
		s.audit = a
	}
	return s
}

// Session is what register/login hand back to the transport layer.
type Session struct {
	User  domain.User
	Token string
}

// Identity is attached to every authenticated request.
type Identity struct {
	User  domain.User
	Token string
}

// issueSession signs a new auth token and records it before returning it, so
// a token is never handed out that the gate would reject.
func (s *Service) issueSession(ctx context.Context, u domain.User) (Session, error) {
	tok, err := s.codec.Issue(u.ID, domain.PurposeAuth)
	if err != nil {
		return Session{}, domain.ErrTokenSignFailed(err)
	}

	if err := s.ledger.Record(ctx, u.ID, domain.SessionToken{Purpose: domain.PurposeAuth, Token: tok}); err != nil {
		return Session{}, err
	}
	return Session{User: u, Token: tok}, nil
}

type nopAuditor struct{}

func (nopAuditor) Registered(context.Context, string, string)   {}
func (nopAuditor) LoginSuccess(context.Context, string, string) {}
func (nopAuditor) LoginFailed(context.Context, string, string)  {}
func (nopAuditor) Logout(context.Context, string)               {}
