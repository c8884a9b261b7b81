// Package sandbox runs the WASI build of the transpiler (cmd/wasm/wasi)
// inside a wazero runtime.
//
// Each call instantiates a fresh module whose only input is a JSON request
// on stdin and whose only output is the outcome JSON on stdout. The guest
// has no filesystem, network or environment, and source text never passes
// through a shell or an argument vector.
//
// # Example
//
//	sb, err := sandbox.Load(ctx, "lispc.wasm")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sb.Close(ctx)
//	out, err := sb.Transpile(ctx, "(+ 1 2)")
package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"

	"github.com/sandrolain/lispc/pkg/types"
)

// failureExitCode is the guest's exit status for a pipeline failure. The
// outcome JSON is still written to stdout in that case.
const failureExitCode = 1

// Request is the JSON document the guest reads from stdin.
type Request struct {
	Code string `json:"code"`
}

// Sandbox hosts a compiled guest module. It is safe for concurrent use;
// every call gets its own module instance.
type Sandbox struct {
	runtime wazero.Runtime
	module  wazero.CompiledModule
	opts    Options
	logger  *slog.Logger
}

// Options configures a Sandbox.
type Options struct {
	// MemoryLimitPages caps guest memory in 64 KiB pages. Zero keeps the
	// wazero default.
	MemoryLimitPages uint32
	// Logger for structured logging.
	Logger *slog.Logger
}

// Option configures a Sandbox.
type Option func(*Options)

// WithMemoryLimitPages caps guest memory.
func WithMemoryLimitPages(pages uint32) Option {
	return func(opts *Options) {
		opts.MemoryLimitPages = pages
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// Load reads a guest module from path and compiles it.
func Load(ctx context.Context, path string, opts ...Option) (*Sandbox, error) {
	wasm, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sandbox: read module: %w", err)
	}
	return New(ctx, wasm, opts...)
}

// New compiles the guest module. Compilation happens once; Transpile only
// instantiates.
func New(ctx context.Context, wasm []byte, opts ...Option) (*Sandbox, error) {
	var options Options
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	cfg := wazero.NewRuntimeConfig().WithCloseOnContextDone(true)
	if options.MemoryLimitPages > 0 {
		cfg = cfg.WithMemoryLimitPages(options.MemoryLimitPages)
	}
	r := wazero.NewRuntimeWithConfig(ctx, cfg)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r); err != nil {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("sandbox: instantiate WASI: %w", err)
	}

	compiled, err := r.CompileModule(ctx, wasm)
	if err != nil {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("sandbox: compile module: %w", err)
	}

	return &Sandbox{
		runtime: r,
		module:  compiled,
		opts:    options,
		logger:  options.Logger,
	}, nil
}

// Transpile runs one transpilation in a fresh guest instance.
//
// A pipeline failure is returned as a failed outcome with a nil error. The
// error is non-nil only when the guest itself misbehaves: it traps, exits
// with an unexpected status, is cancelled through ctx, or writes something
// that is not an outcome.
func (s *Sandbox) Transpile(ctx context.Context, source string) (types.Outcome, error) {
	req, err := json.Marshal(Request{Code: source})
	if err != nil {
		return types.Outcome{}, fmt.Errorf("sandbox: encode request: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cfg := wazero.NewModuleConfig().
		WithName("").
		WithArgs("lispc").
		WithStdin(bytes.NewReader(req)).
		WithStdout(&stdout).
		WithStderr(&stderr)

	mod, err := s.runtime.InstantiateModule(ctx, s.module, cfg)
	if mod != nil {
		defer mod.Close(ctx)
	}
	if err != nil {
		var exitErr *sys.ExitError
		if !errors.As(err, &exitErr) || exitErr.ExitCode() != failureExitCode {
			s.logger.Error("sandbox guest failed", "error", err, "stderr", strings.TrimSpace(stderr.String()))
			return types.Outcome{}, fmt.Errorf("sandbox: run module: %w", err)
		}
	}

	var out types.Outcome
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return types.Outcome{}, fmt.Errorf("sandbox: decode guest output: %w", err)
	}
	return out, nil
}

// Close releases the runtime and every module compiled in it.
func (s *Sandbox) Close(ctx context.Context) error {
	return s.runtime.Close(ctx)
}
