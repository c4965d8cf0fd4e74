package redis

import (
	"context"
	"errors"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/brooksgarrett/todo-api/internal/domain"
)

// Ledger keeps each user's session tokens in a Redis list:
// - key:   ledger:<uid>
// - value: "<purpose>:<token>", appended with RPUSH so LRANGE is oldest first
// Keys have no TTL; tokens live until revoked.
type Ledger struct {
	rdb    *goredis.Client
	prefix string
}

func NewLedger(c *Client) *Ledger {
	var rdb *goredis.Client
	if c != nil {
		rdb = c.rdb
	}
	return &Ledger{rdb: rdb, prefix: "ledger:"}
}

var errNotConfigured = errors.New("redis ledger not configured")

func (l *Ledger) key(userID string) string { return l.prefix + userID }

func encodeEntry(t domain.SessionToken) string { return t.Purpose + ":" + t.Token }

func decodeEntry(v string) (domain.SessionToken, error) {
	purpose, token, ok := strings.Cut(v, ":")
	if !ok || purpose == "" || token == "" {
		return domain.SessionToken{}, errors.New("malformed ledger entry")
	}
	return domain.SessionToken{Purpose: purpose, Token: token}, nil
}

func (l *Ledger) Record(ctx context.Context, userID string, tok domain.SessionToken) error {
	if strings.TrimSpace(userID) == "" {
		return domain.ErrMissingField("user_id")
	}
	if l.rdb == nil {
		return domain.ErrStore(errNotConfigured)
	}
	if err := l.rdb.RPush(ctx, l.key(userID), encodeEntry(tok)).Err(); err != nil {
		return domain.ErrStore(err)
	}
	return nil
}

// Revoke drops every entry carrying token, whatever its purpose.
func (l *Ledger) Revoke(ctx context.Context, userID, token string) error {
	if l.rdb == nil {
		return domain.ErrStore(errNotConfigured)
	}

	entries, err := l.rdb.LRange(ctx, l.key(userID), 0, -1).Result()
	if err != nil {
		return domain.ErrStore(err)
	}

	var matches []string
	for _, v := range entries {
		if e, err := decodeEntry(v); err == nil && e.Token == token {
			matches = append(matches, v)
		}
	}
	if len(matches) == 0 {
		return nil
	}

	_, err = l.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		for _, v := range matches {
			p.LRem(ctx, l.key(userID), 0, v)
		}
		return nil
	})
	if err != nil {
		return domain.ErrStore(err)
	}
	return nil
}

func (l *Ledger) Contains(ctx context.Context, userID, token string) (bool, error) {
	toks, err := l.List(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, t := range toks {
		if t.Token == token {
			return true, nil
		}
	}
	return false, nil
}

// List skips entries it cannot decode.
func (l *Ledger) List(ctx context.Context, userID string) ([]domain.SessionToken, error) {
	if l.rdb == nil {
		return nil, domain.ErrStore(errNotConfigured)
	}

	entries, err := l.rdb.LRange(ctx, l.key(userID), 0, -1).Result()
	if err != nil {
		return nil, domain.ErrStore(err)
	}

	out := make([]domain.SessionToken, 0, len(entries))
	for _, v := range entries {
		e, err := decodeEntry(v)
		if err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
