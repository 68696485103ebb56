package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"expert-prompt/internal/app"
	"expert-prompt/internal/credentials"
	"expert-prompt/internal/httputil"
	"expert-prompt/internal/web"
)

const shutdownGrace = 10 * time.Second

func main() {
	deps, err := app.Build()
	if err != nil {
		if errors.Is(err, credentials.ErrMissingCredential) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, deps)
	stop()
	if cerr := deps.Close(); cerr != nil {
		deps.Log.Warn("close failed", "err", cerr)
	}
	if err != nil {
		deps.Log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func newServer(deps app.Deps) *http.Server {
	r := httputil.NewRouter(deps.Log, 0)
	web.NewHandler(deps.Log, deps.Service).Routes(r)
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", deps.Config.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func run(ctx context.Context, deps app.Deps) error {
	srv := newServer(deps)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		deps.Log.Info("expert prompt demo listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		deps.Log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
