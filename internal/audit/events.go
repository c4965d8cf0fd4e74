package audit

import (
	"context"
	"sync"
	"time"

	"github.com/brooksgarrett/todo-api/internal/logger"
	appCtx "github.com/brooksgarrett/todo-api/internal/pkg/context"
)

// Routing keys for user lifecycle events.
const (
	KeyUserRegistered = "user.registered"
	KeyUserLoggedIn   = "user.logged_in"
	KeyUserLoggedOut  = "user.logged_out"
)

// UserEvent is the message body. It never carries emails or tokens.
type UserEvent struct {
	UserID    string    `json:"user_id"`
	RequestID string    `json:"request_id,omitempty"`
	At        time.Time `json:"at"`
}

type Sink interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type queued struct {
	key string
	evt UserEvent
}

// Events forwards auth events to a Sink from a single background worker.
// Callers never wait on the broker: when the buffer is full the event is
// dropped and logged.
type Events struct {
	sink  Sink
	queue chan queued
	now   func() time.Time

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewEvents(sink Sink, buffer int) *Events {
	if buffer <= 0 {
		buffer = 256
	}
	e := &Events{
		sink:  sink,
		queue: make(chan queued, buffer),
		now:   time.Now,
		done:  make(chan struct{}),
	}
	go e.run()
	return e
}

func (e *Events) run() {
	defer close(e.done)
	for q := range e.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := e.sink.Publish(ctx, q.key, q.evt); err != nil {
			logger.Logger.Warn().Err(err).Str("routing_key", q.key).Msg("event publish failed")
		}
		cancel()
	}
}

// Close stops accepting events and waits for the queue to drain.
func (e *Events) Close() {
	e.mu.Lock()
	if !e.closed {
		e.closed = true
		close(e.queue)
	}
	e.mu.Unlock()
	<-e.done
}

func (e *Events) enqueue(ctx context.Context, key, userID string) {
	q := queued{key: key, evt: UserEvent{
		UserID:    userID,
		RequestID: appCtx.GetRequestID(ctx),
		At:        e.now().UTC(),
	}}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return
	}

	select {
	case e.queue <- q:
	default:
		logger.Logger.Warn().Str("routing_key", key).Msg("event queue full; dropped")
	}
}

func (e *Events) Registered(ctx context.Context, userID, _ string) {
	e.enqueue(ctx, KeyUserRegistered, userID)
}

func (e *Events) LoginSuccess(ctx context.Context, userID, _ string) {
	e.enqueue(ctx, KeyUserLoggedIn, userID)
}

// LoginFailed is not published: there is no user id, only an email.
func (e *Events) LoginFailed(context.Context, string, string) {}

func (e *Events) Logout(ctx context.Context, userID string) {
	e.enqueue(ctx, KeyUserLoggedOut, userID)
}
