package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/brooksgarrett/todo-api/internal/logger"
)

// DBOptions controls the pgx-backed *sql.DB pool.
type DBOptions struct {
	DSN            string
	Debug          bool
	MaxOpenConns   int
	MaxIdleConns   int
	ConnectTimeout time.Duration // total budget for the startup ping
}

const dbPingInterval = 500 * time.Millisecond

func (o DBOptions) withDefaults() DBOptions {
	if o.MaxOpenConns <= 0 {
		o.MaxOpenConns = 20
	}
	if o.MaxIdleConns <= 0 || o.MaxIdleConns > o.MaxOpenConns {
		o.MaxIdleConns = o.MaxOpenConns / 2
	}
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = 10 * time.Second
	}
	return o
}

// DBOptions derives pool settings from the loaded config.
func (c *Config) DBOptions() DBOptions {
	return DBOptions{
		DSN:            c.DBAddr,
		Debug:          c.DBDebug,
		MaxOpenConns:   c.DBMaxOpenConns,
		MaxIdleConns:   c.DBMaxIdleConns,
		ConnectTimeout: c.DBConnectTimeout,
	}
}

// NewDB opens the pool and keeps pinging until the database answers or
// ConnectTimeout runs out, so the service survives a database that is still
// starting next to it.
func NewDB(o DBOptions) (*sql.DB, error) {
	if o.DSN == "" {
		return nil, errors.New("empty DB DSN")
	}
	o = o.withDefaults()

	db, err := sql.Open("pgx", o.DSN)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(o.MaxOpenConns)
	db.SetMaxIdleConns(o.MaxIdleConns)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), o.ConnectTimeout)
	defer cancel()

	if err := pingUntil(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if o.Debug {
		logConnInfo(ctx, db)
	}
	return db, nil
}

func pingUntil(ctx context.Context, db *sql.DB) error {
	t := time.NewTicker(dbPingInterval)
	defer t.Stop()

	for attempt := 1; ; attempt++ {
		err := db.PingContext(ctx)
		if err == nil {
			return nil
		}
		logger.Logger.Debug().Err(err).Int("attempt", attempt).Msg("db not ready")

		select {
		case <-ctx.Done():
			return fmt.Errorf("db ping after %d attempts: %w", attempt, err)
		case <-t.C:
		}
	}
}

func logConnInfo(ctx context.Context, db *sql.DB) {
	var who, name, ver string
	err := db.QueryRowContext(ctx,
		"SELECT current_user, current_database(), current_setting('server_version')",
	).Scan(&who, &name, &ver)
	if err != nil {
		logger.Logger.Debug().Err(err).Msg("db info unavailable")
		return
	}
	logger.Logger.Debug().
		Str("user", who).
		Str("db", name).
		Str("version", ver).
		Msg("db connected")
}
