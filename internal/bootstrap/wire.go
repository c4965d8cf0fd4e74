package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/brooksgarrett/todo-api/internal/application/auth"
	"github.com/brooksgarrett/todo-api/internal/application/todo"
	"github.com/brooksgarrett/todo-api/internal/audit"
	"github.com/brooksgarrett/todo-api/internal/config"
	"github.com/brooksgarrett/todo-api/internal/infrastructure/db/postgres"
	"github.com/brooksgarrett/todo-api/internal/infrastructure/memory"
	"github.com/brooksgarrett/todo-api/internal/infrastructure/messaging/rabbitmq"
	"github.com/brooksgarrett/todo-api/internal/infrastructure/redis"
	"github.com/brooksgarrett/todo-api/internal/infrastructure/security"
	"github.com/brooksgarrett/todo-api/internal/logger"
	http_handlers "github.com/brooksgarrett/todo-api/internal/transport/http/handlers"
	"github.com/brooksgarrett/todo-api/internal/transport/http/middleware"
	"github.com/brooksgarrett/todo-api/internal/transport/http/response"
	"github.com/brooksgarrett/todo-api/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer(cfg *config.Config) (*http.Server, func(), error) {
	return newServer(cfg, defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(cfg *config.Config, deps Deps) (*http.Server, func(), error) {
	return newServer(cfg, deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	NewDB func(config.DBOptions) (*sql.DB, error)

	Migrate func(ctx context.Context, db *sql.DB) error

	NewRedis func(addr, password string, db int) RedisClient

	NewPublisher func(url, exchange string) (Publisher, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

type Publisher interface {
	audit.Sink
	Close() error
}

type RedisClient interface {
	http_handlers.Pinger
	Close() error
}

const migrateTimeout = time.Minute

/*
========================
 Core bootstrap logic
========================
*/

func newServer(cfg *config.Config, deps Deps) (*http.Server, func(), error) {
	if cfg == nil {
		return nil, nil, errors.New("bootstrap: nil config")
	}

	// 1) db + schema
	db, err := deps.NewDB(cfg.DBOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("bootstrap: open db: %w", err)
	}

	cleanupFns := []func(){
		func() { _ = db.Close() },
	}

	mctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()
	if err := deps.Migrate(mctx, db); err != nil {
		runCleanup(cleanupFns)
		return nil, nil, fmt.Errorf("bootstrap: migrate: %w", err)
	}

	userRepo := postgres.NewUserRepo(db)
	todoRepo := postgres.NewTodoRepo(db)

	checks := map[string]http_handlers.Pinger{"database": db}

	// 2) session ledger
	var ledger auth.Ledger
	switch cfg.LedgerBackend {
	case config.LedgerRedis:
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := c.PingContext(context.Background()); err != nil {
			_ = c.Close()
			runCleanup(cleanupFns)
			return nil, nil, fmt.Errorf("bootstrap: redis ledger unavailable: %w", err)
		}
		cleanupFns = append(cleanupFns, func() { _ = c.Close() })

		rc, ok := c.(*redis.Client)
		if !ok {
			runCleanup(cleanupFns)
			return nil, nil, errors.New("bootstrap: NewRedis did not return *redis.Client")
		}
		ledger = redis.NewLedger(rc)
		checks["redis"] = rc
		logger.Logger.Info().Str("addr", rc.Addr()).Msg("redis ledger connected")
	case config.LedgerMemory:
		logger.Logger.Warn().Msg("in-memory ledger: sessions are lost on restart")
		ledger = memory.NewLedger()
	default:
		ledger = postgres.NewLedgerRepo(db)
	}

	// 3) security
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	codec := security.NewJWTCodec(cfg.JWTSecret, cfg.TokenTTL)
	if cfg.TokenTTL == 0 {
		logger.Logger.Info().Msg("session tokens do not expire; logout is the only revocation")
	}

	// seed (dev only)
	if cfg.Env == "dev" && cfg.SeedUsers {
		postgres.SeedUsers(context.Background(), userRepo, hasher)
	}

	// 4) lifecycle events (optional)
	auditors := audit.Fanout{audit.New(logger.Logger)}
	if cfg.RabbitURL != "" && deps.NewPublisher != nil {
		pub, err := deps.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			if cfg.Env != "dev" {
				runCleanup(cleanupFns)
				return nil, nil, fmt.Errorf("bootstrap: rabbitmq: %w", err)
			}
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; lifecycle events disabled")
		} else {
			events := audit.NewEvents(pub, 0)
			// drain events before closing the connection
			cleanupFns = append(cleanupFns, func() { _ = pub.Close() }, events.Close)
			auditors = append(auditors, events)
		}
	}

	if cfg.Env != "dev" && cfg.AllowsAnyOrigin() {
		logger.Logger.Warn().Str("env", cfg.Env).Msg("CORS allows any origin outside dev")
	}

	// 5) services
	authSvc := auth.NewService(userRepo, hasher, codec, ledger).WithAudit(auditors)
	todoSvc := todo.NewService(todoRepo)

	// 6) router
	mux, err := deps.NewRouter(router.Deps{
		Health:      http_handlers.NewHealthHandler(checks),
		Auth:        http_handlers.NewAuthHandler(authSvc),
		Todos:       http_handlers.NewTodoHandler(todoSvc),
		AuthMW:      middleware.Auth(authSvc, response.WriteError),
		CORSOrigins: cfg.CORSAllowedOrigins,
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 7) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		NewDB:   config.NewDB,
		Migrate: postgres.RunMigrations,
		NewRedis: func(addr, password string, db int) RedisClient {
			return redis.New(addr, password, db)
		},
		NewPublisher: func(url, exchange string) (Publisher, error) {
			return rabbitmq.NewPublisher(url, exchange)
		},
		NewRouter: router.New,
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
