package memory

import (
	"context"
	"sync"

	"github.com/brooksgarrett/todo-api/internal/domain"
)

type Ledger struct {
	mu     sync.RWMutex
	tokens map[string][]domain.SessionToken // userID -> tokens, oldest first
}

func NewLedger() *Ledger {
	return &Ledger{tokens: make(map[string][]domain.SessionToken)}
}

func (l *Ledger) Record(ctx context.Context, userID string, tok domain.SessionToken) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.tokens[userID] = append(l.tokens[userID], tok)
	return nil
}

// Revoke removes every entry equal to token; absent tokens are a no-op.
func (l *Ledger) Revoke(ctx context.Context, userID, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	cur := l.tokens[userID]
	kept := make([]domain.SessionToken, 0, len(cur))
	for _, t := range cur {
		if t.Token != token {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		delete(l.tokens, userID)
		return nil
	}
	l.tokens[userID] = kept
	return nil
}

func (l *Ledger) Contains(ctx context.Context, userID, token string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, t := range l.tokens[userID] {
		if t.Token == token {
			return true, nil
		}
	}
	return false, nil
}

func (l *Ledger) List(ctx context.Context, userID string) ([]domain.SessionToken, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.SessionToken, len(l.tokens[userID]))
	copy(out, l.tokens[userID])
	return out, nil
}
