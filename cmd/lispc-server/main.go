// Command lispc-server serves the transpiler over HTTP.
//
//	lispc-server -addr :3001 -cache-size 1024
//	lispc-server -sandbox lispc.wasm    # run every request in a WASI guest
//
// See package server for the routes and the response contract.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sandrolain/lispc/pkg/cache"
	"github.com/sandrolain/lispc/pkg/sandbox"
	"github.com/sandrolain/lispc/pkg/server"
	"github.com/sandrolain/lispc/pkg/transpiler"
)

func main() {
	var (
		addr           = flag.String("addr", ":3001", "Listen address")
		cacheSize      = flag.Int("cache-size", cache.DefaultCapacity, "Outcome cache capacity (0 disables caching)")
		sandboxPath    = flag.String("sandbox", "", "Path to the WASI build of lispc; when set, requests run in a wazero sandbox")
		allowOrigin    = flag.String("allow-origin", "*", "Access-Control-Allow-Origin value (empty disables CORS)")
		readTimeout    = flag.Duration("read-timeout", 10*time.Second, "HTTP read timeout")
		requestTimeout = flag.Duration("request-timeout", 5*time.Second, "Per-request transpilation timeout")
		debug          = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(logger, *addr, *cacheSize, *sandboxPath, *allowOrigin, *readTimeout, *requestTimeout, *debug); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, addr string, cacheSize int, sandboxPath, allowOrigin string,
	readTimeout, requestTimeout time.Duration, debug bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var backend server.Backend = server.Local{
		Transpiler: transpiler.New(transpiler.WithLogger(logger), transpiler.WithDebug(debug)),
	}
	if sandboxPath != "" {
		sb, err := sandbox.Load(ctx, sandboxPath, sandbox.WithLogger(logger))
		if err != nil {
			return err
		}
		defer sb.Close(context.Background())
		backend = sb
		logger.Info("sandbox enabled", "module", sandboxPath)
	}

	opts := []server.Option{
		server.WithLogger(logger),
		server.WithAllowOrigin(allowOrigin),
		server.WithRequestTimeout(requestTimeout),
	}
	if cacheSize > 0 {
		opts = append(opts, server.WithCache(cache.New(cacheSize)))
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(backend, opts...),
		ReadHeaderTimeout: readTimeout,
		ReadTimeout:       readTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
