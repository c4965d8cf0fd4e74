package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Client owns the go-redis connection pool shared by the ledger and the
// readiness probe.
type Client struct {
	addr string
	rdb  *goredis.Client
}

const pingTimeout = 2 * time.Second

func New(addr, password string, db int) *Client {
	return &Client{
		addr: addr,
		rdb: goredis.NewClient(&goredis.Options{
			Addr:         addr,
			Password:     password,
			DB:           db,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
			PoolTimeout:  time.Second,
		}),
	}
}

func (c *Client) Addr() string { return c.addr }

// PingContext matches *sql.DB so both satisfy the readiness Pinger.
func (c *Client) PingContext(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
