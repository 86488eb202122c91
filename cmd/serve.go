package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/hookx/internal/server"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 5 * time.Second

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the cart and setup API over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Usage: "Listen host (defaults to config)"},
			&cli.IntFlag{Name: "port", Usage: "Listen port (defaults to config)"},
		},
		Before: r.ProvideCart,
		After:  r.CloseStorage,
		Action: r.Serve,
	}
}

// Serve runs the HTTP API until the context is canceled or the process receives SIGINT/SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	listen := r.config.Server
	if cmd.IsSet("host") {
		listen.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		listen.Port = int(cmd.Int("port"))
	}
	addr := listen.Addr()

	router := server.NewRouter(server.Deps{
		Cart:     r.cart,
		Setup:    r.setup,
		Defaults: r.defaults(),
		Logger:   r.logger,
	})
	srv := server.NewHTTPServer(addr, router)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	r.logger.Info("server listening", "addr", listener.Addr().String())

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	r.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
