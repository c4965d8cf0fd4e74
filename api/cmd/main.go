package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/brooksgarrett/todo-api/internal/bootstrap"
	"github.com/brooksgarrett/todo-api/internal/config"
	"github.com/brooksgarrett/todo-api/internal/logger"
)

const shutdownTimeout = 15 * time.Second

// httpServer is the part of *http.Server that Run drives.
type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
	Close() error
}

type serverBuilder func() (*serverHandle, error)

type serverHandle struct {
	srv     httpServer
	addr    string
	cleanup func()
}

// Run serves until ctx is cancelled or the listener fails, then drains
// in-flight requests. It returns the process exit code.
func Run(ctx context.Context, build serverBuilder, lg zerolog.Logger) int {
	h, err := build()
	if err != nil {
		lg.Error().Err(err).Msg("bootstrap failed")
		return 1
	}
	if h.cleanup != nil {
		defer h.cleanup()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		lg.Info().Str("addr", h.addr).Msg("listening")
		if err := h.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() == nil {
			// the listener failed; nothing left to drain
			return nil
		}
		lg.Info().Msg("shutdown requested")

		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := h.srv.Shutdown(sctx); err != nil {
			_ = h.srv.Close()
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		lg.Error().Err(err).Msg("server stopped")
		return 1
	}
	lg.Info().Msg("shutdown complete")
	return 0
}

func fromBootstrap(cfg *config.Config) serverBuilder {
	return func() (*serverHandle, error) {
		srv, cleanup, err := bootstrap.NewServer(cfg)
		if err != nil {
			return nil, err
		}
		return &serverHandle{srv: srv, addr: srv.Addr, cleanup: cleanup}, nil
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", "console")
		logger.Logger.Error().Err(err).Msg("config load failed")
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	logger.Logger.Info().
		Str("env", cfg.Env).
		Str("ledger", cfg.LedgerBackend).
		Bool("events", cfg.RabbitURL != "").
		Msg("starting todo-api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Run(ctx, fromBootstrap(cfg), logger.Logger)
	stop()
	os.Exit(code)
}
