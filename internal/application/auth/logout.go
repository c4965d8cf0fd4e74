package auth

import "context"

// Logout revokes exactly the presented token. Other sessions are untouched
// and revoking twice is a no-op.
func (s *Service) Logout(ctx context.Context, id Identity) error {
	if err := s.ledger.Revoke(ctx, id.User.ID, id.Token); err != nil {
		return err
	}
	s.audit.Logout(ctx, id.User.ID)
	return nil
}
