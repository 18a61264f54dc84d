package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/runnerr0/snufulufugus/internal/api"
	"github.com/runnerr0/snufulufugus/internal/config"
	"github.com/runnerr0/snufulufugus/internal/schedule"
)

const shutdownTimeout = 5 * time.Second

// Execute implements the go-flags Commander interface for ServeCommand.
func (c *ServeCommand) Execute(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx, c.globals, schedule.NewReal(), c.applyOverrides)
	if err != nil {
		return err
	}
	defer s.Close()

	addr := net.JoinHostPort(s.cfg.Server.Host, strconv.Itoa(s.cfg.Server.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return c.serve(ctx, s, ln)
}

func (c *ServeCommand) applyOverrides(cfg *config.Config) {
	if c.Host != "" {
		cfg.Server.Host = c.Host
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if c.LogLevel != "" {
		cfg.Logging.Level = c.LogLevel
	}
}

// serve runs the engine and the API on ln until ctx is cancelled.
func (c *ServeCommand) serve(ctx context.Context, s *session, ln net.Listener) error {
	srv := &http.Server{
		Handler:           api.NewApp(s.cfg, s.ctrl, s.logger).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.ctrl.Start(ctx)
	s.logger.Info("serving api", zap.String("addr", ln.Addr().String()), zap.String("version", c.version))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
