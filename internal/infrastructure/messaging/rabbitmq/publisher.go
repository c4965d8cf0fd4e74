package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange = "todo.events"

	confirmWait = 2 * time.Second
	appID       = "todo-api"
)

var ErrClosed = errors.New("rabbitmq: publisher closed")

// confirmation is the part of *amqp.DeferredConfirmation the publisher needs.
type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

// channel is one confirm-mode AMQP channel plus the connection behind it.
type channel interface {
	publish(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error)
	healthy() bool
	close()
}

type dialFunc func(url, exchange string) (channel, error)

// Publisher sends JSON events to a durable topic exchange and waits for the
// broker confirm of each one. A broken channel is dropped and redialled on
// the next Publish.
type Publisher struct {
	url      string
	exchange string
	dial     dialFunc

	mu     sync.Mutex
	ch     channel
	closed bool
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	return newPublisher(url, exchange, dialAMQP)
}

func newPublisher(url, exchange string, dial dialFunc) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	ch, err := dial(url, exchange)
	if err != nil {
		return nil, err
	}
	return &Publisher{url: url, exchange: exchange, dial: dial, ch: ch}, nil
}

func (p *Publisher) Exchange() string { return p.exchange }

// Close is idempotent. Later Publish calls fail with ErrClosed.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	p.drop()
	return nil
}

// Publish marshals payload and blocks until the broker acks it or ctx
// (default confirmWait) expires.
func (p *Publisher) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal %s: %w", routingKey, err)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, confirmWait)
		defer cancel()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}

	conf, err := ch.publish(ctx, p.exchange, routingKey, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		AppId:        appID,
		Type:         routingKey,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		p.drop()
		return fmt.Errorf("rabbitmq: publish %s: %w", routingKey, err)
	}

	acked, err := conf.WaitContext(ctx)
	switch {
	case err != nil:
		return fmt.Errorf("rabbitmq: confirm %s: %w", routingKey, err)
	case !acked:
		return fmt.Errorf("rabbitmq: broker nacked %s", routingKey)
	}
	return nil
}

func (p *Publisher) channel() (channel, error) {
	if p.closed {
		return nil, ErrClosed
	}
	if p.ch != nil && p.ch.healthy() {
		return p.ch, nil
	}
	p.drop()

	ch, err := p.dial(p.url, p.exchange)
	if err != nil {
		return nil, err
	}
	p.ch = ch
	return ch, nil
}

func (p *Publisher) drop() {
	if p.ch != nil {
		p.ch.close()
		p.ch = nil
	}
}

/*
amqp091 adapter
*/

type amqpChannel struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func dialAMQP(url, exchange string) (channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: open channel: %w", err)
	}

	c := &amqpChannel{conn: conn, ch: ch}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		c.close()
		return nil, fmt.Errorf("rabbitmq: declare %s: %w", exchange, err)
	}
	if err := ch.Confirm(false); err != nil {
		c.close()
		return nil, fmt.Errorf("rabbitmq: confirm mode: %w", err)
	}
	return c, nil
}

func (c *amqpChannel) publish(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error) {
	dc, err := c.ch.PublishWithDeferredConfirmWithContext(ctx, exchange, key, false, false, msg)
	if err != nil {
		return nil, err
	}
	if dc == nil {
		return nil, errors.New("channel not in confirm mode")
	}
	return dc, nil
}

func (c *amqpChannel) healthy() bool {
	return !c.conn.IsClosed() && !c.ch.IsClosed()
}

func (c *amqpChannel) close() {
	_ = c.ch.Close()
	_ = c.conn.Close()
}
