package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appCtx "github.com/brooksgarrett/todo-api/internal/pkg/context"
)

type published struct {
	key string
	evt UserEvent
}

type fakeSink struct {
	mu    sync.Mutex
	got   []published
	err   error
	block chan struct{}
}

func (s *fakeSink) Publish(_ context.Context, key string, payload any) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, published{key: key, evt: payload.(UserEvent)})
	return s.err
}

func (s *fakeSink) all() []published {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]published(nil), s.got...)
}

func TestEvents_PublishesLifecycle(t *testing.T) {
	sink := &fakeSink{}
	e := NewEvents(sink, 8)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return fixed }

	ctx := appCtx.WithRequestID(context.Background(), "rid-9")
	e.Registered(ctx, "u1", "alice@example.com")
	e.LoginSuccess(ctx, "u1", "alice@example.com")
	e.LoginFailed(ctx, "alice@example.com", "invalid_credentials")
	e.Logout(ctx, "u1")
	e.Close()

	got := sink.all()
	require.Len(t, got, 3)
	assert.Equal(t, KeyUserRegistered, got[0].key)
	assert.Equal(t, KeyUserLoggedIn, got[1].key)
	assert.Equal(t, KeyUserLoggedOut, got[2].key)
	assert.Equal(t, UserEvent{UserID: "u1", RequestID: "rid-9", At: fixed}, got[0].evt)
}

func TestEvents_SinkErrorDoesNotStopWorker(t *testing.T) {
	sink := &fakeSink{err: errors.New("broker down")}
	e := NewEvents(sink, 8)

	e.Registered(context.Background(), "u1", "")
	e.Logout(context.Background(), "u1")
	e.Close()

	assert.Len(t, sink.all(), 2)
}

func TestEvents_FullQueueDrops(t *testing.T) {
	sink := &fakeSink{block: make(chan struct{})}
	e := NewEvents(sink, 1)

	// first is taken by the worker and blocks, second fills the buffer
	e.Registered(context.Background(), "u1", "")
	require.Eventually(t, func() bool { return len(e.queue) == 0 }, time.Second, 5*time.Millisecond)
	e.Registered(context.Background(), "u2", "")
	e.Registered(context.Background(), "u3", "")

	close(sink.block)
	e.Close()

	got := sink.all()
	require.Len(t, got, 2)
	assert.Equal(t, "u1", got[0].evt.UserID)
	assert.Equal(t, "u2", got[1].evt.UserID)
}

func TestEvents_AfterCloseIsNoop(t *testing.T) {
	sink := &fakeSink{}
	e := NewEvents(sink, 1)
	e.Close()
	e.Close()

	e.Logout(context.Background(), "u1")
	assert.Empty(t, sink.all())
}

type countingAuditor struct{ n int }

func (c *countingAuditor) Registered(context.Context, string, string)   { c.n++ }
func (c *countingAuditor) LoginSuccess(context.Context, string, string) { c.n++ }
func (c *countingAuditor) LoginFailed(context.Context, string, string)  { c.n++ }
func (c *countingAuditor) Logout(context.Context, string)               { c.n++ }

func TestFanout_CallsEveryAuditor(t *testing.T) {
	a, b := &countingAuditor{}, &countingAuditor{}
	f := Fanout{a, b}

	ctx := context.Background()
	f.Registered(ctx, "u1", "e")
	f.LoginSuccess(ctx, "u1", "e")
	f.LoginFailed(ctx, "e", "r")
	f.Logout(ctx, "u1")

	assert.Equal(t, 4, a.n)
	assert.Equal(t, 4, b.n)
}
