package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/brooksgarrett/todo-api/internal/domain"
)

/*
Fakes for ports
*/

type fakeUserRepo struct {
	mu sync.Mutex

	byID    map[string]domain.User
	byEmail map[string]domain.User

	// injected errors (if set, method returns error)
	getByIDErr    error
	getByEmailErr error
	createErr     error
	deleteErr     error
	deleted       []string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    map[string]domain.User{},
		byEmail: map[string]domain.User{},
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleted = append(f.deleted, id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if u, ok := f.byID[id]; ok {
		delete(f.byEmail, u.Email)
		delete(f.byID, id)
	}
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByEmailErr != nil {
		return domain.User{}, f.getByEmailErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByIDErr != nil {
		return domain.User{}, f.getByIDErr
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) delete(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		delete(f.byEmail, u.Email)
		delete(f.byID, id)
	}
}

// fakeHasher "hashes" by prefixing.
type fakeHasher struct {
	hashErr    error
	compareErr error
}

func (h fakeHasher) Hash(pw string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + pw, nil
}

func (h fakeHasher) Compare(hash, pw string) error {
	if h.compareErr != nil {
		return h.compareErr
	}
	if hash != "hashed:"+pw {
		return domain.ErrInvalidCredentials()
	}
	return nil
}

// fakeCodec issues "<uid>|<purpose>|<n>" tokens; "bad" never verifies.
type fakeCodec struct {
	mu      sync.Mutex
	n       int
	signErr error
}

func (c *fakeCodec) Issue(userID, purpose string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.signErr != nil {
		return "", c.signErr
	}
	c.n++
	return fmt.Sprintf("%s|%s|%d", userID, purpose, c.n), nil
}

func (c *fakeCodec) Verify(token string) (TokenClaims, error) {
	parts := strings.Split(token, "|")
	if len(parts) != 3 {
		return TokenClaims{}, domain.ErrTokenInvalid()
	}
	return TokenClaims{UserID: parts[0], Purpose: parts[1]}, nil
}

type fakeLedger struct {
	mu     sync.Mutex
	tokens map[string][]domain.SessionToken

	recordErr   error
	revokeErr   error
	containsErr error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{tokens: map[string][]domain.SessionToken{}}
}

func (l *fakeLedger) Record(ctx context.Context, userID string, tok domain.SessionToken) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.recordErr != nil {
		return l.recordErr
	}
	l.tokens[userID] = append(l.tokens[userID], tok)
	return nil
}

func (l *fakeLedger) Revoke(ctx context.Context, userID, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.revokeErr != nil {
		return l.revokeErr
	}
	kept := l.tokens[userID][:0]
	for _, t := range l.tokens[userID] {
		if t.Token != token {
			kept = append(kept, t)
		}
	}
	l.tokens[userID] = kept
	return nil
}

func (l *fakeLedger) Contains(ctx context.Context, userID, token string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.containsErr != nil {
		return false, l.containsErr
	}
	for _, t := range l.tokens[userID] {
		if t.Token == token {
			return true, nil
		}
	}
	return false, nil
}

func (l *fakeLedger) List(ctx context.Context, userID string) ([]domain.SessionToken, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.SessionToken(nil), l.tokens[userID]...), nil
}

/*
Shared audit capture
*/

type fakeAuditor struct {
	mu      sync.Mutex
	actions []string
}

func (a *fakeAuditor) add(action string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
}

func (a *fakeAuditor) Registered(context.Context, string, string)   { a.add("registered") }
func (a *fakeAuditor) LoginSuccess(context.Context, string, string) { a.add("login_success") }
func (a *fakeAuditor) LoginFailed(context.Context, string, string)  { a.add("login_failed") }
func (a *fakeAuditor) Logout(context.Context, string)               { a.add("logout") }

type testDeps struct {
	users  *fakeUserRepo
	codec  *fakeCodec
	ledger *fakeLedger
	audit  *fakeAuditor
}

func newTestService() (*Service, *testDeps) {
	d := &testDeps{
		users:  newFakeUserRepo(),
		codec:  &fakeCodec{},
		ledger: newFakeLedger(),
		audit:  &fakeAuditor{},
	}
	svc := NewService(d.users, fakeHasher{}, d.codec, d.ledger).WithAudit(d.audit)
	return svc, d
}
