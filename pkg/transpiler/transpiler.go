// Package transpiler runs the full translation pipeline:
// length check, lexing and parsing, validation, kind resolution and C
// generation. The first failing stage ends the run.
//
// # Example
//
//	tr := transpiler.New()
//	out := tr.Transpile("(+ (* 2 3) (/ 10 5))")
//	if !out.OK() {
//	    log.Fatal(out.Err)
//	}
//	fmt.Print(out.Output)
//
// A Transpiler holds only immutable options. It is safe for concurrent
// use and no call can observe another.
package transpiler

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/sandrolain/lispc/pkg/codegen"
	"github.com/sandrolain/lispc/pkg/parser"
	"github.com/sandrolain/lispc/pkg/resolver"
	"github.com/sandrolain/lispc/pkg/types"
	"github.com/sandrolain/lispc/pkg/validator"
)

// Transpiler translates arithmetic s-expressions into C programs.
type Transpiler struct {
	opts   Options
	logger *slog.Logger
}

// Options configures transpiler behavior.
type Options struct {
	// Debug enables debug logging of each pipeline stage.
	Debug bool
	// Logger for structured logging.
	Logger *slog.Logger
}

// Option configures a Transpiler.
type Option func(*Options)

// WithDebug enables or disables debug logging.
func WithDebug(enabled bool) Option {
	return func(opts *Options) {
		opts.Debug = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// New creates a new Transpiler.
func New(opts ...Option) *Transpiler {
	var options Options
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	return &Transpiler{
		opts:   options,
		logger: options.Logger,
	}
}

// Transpile runs the pipeline and returns exactly one outcome: the
// generated program, or the first error.
func (t *Transpiler) Transpile(source string) (out types.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("transpiler panic", "panic", r, "stack", string(debug.Stack()))
			out = types.Failure(types.NewError(types.ErrInternal, fmt.Sprintf("internal error: %v", r), -1))
		}
	}()

	typed, err := t.typed(source)
	if err != nil {
		t.debug("pipeline failed", "error", err)
		return types.Failure(err)
	}

	program := codegen.Program(typed)
	t.debug("generated", "kind", typed.Kind, "bytes", len(program))
	return types.Success(program)
}

// Compile is Transpile in (value, error) form.
func (t *Transpiler) Compile(source string) (string, error) {
	return t.Transpile(source).Result()
}

// Typed runs the pipeline up to kind resolution and returns the typed
// tree. It is used by callers that evaluate the expression instead of
// generating code.
func (t *Transpiler) Typed(source string) (typed *resolver.Typed, err error) {
	defer func() {
		if r := recover(); r != nil {
			typed, err = nil, types.NewError(types.ErrInternal, fmt.Sprintf("internal error: %v", r), -1)
		}
	}()
	return t.typed(source)
}

func (t *Transpiler) typed(source string) (*resolver.Typed, error) {
	ast, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	t.debug("parsed", "ast", ast.String(), "depth", ast.Depth())

	if err := validator.Validate(ast); err != nil {
		return nil, err
	}
	t.debug("validated")

	typed := resolver.Resolve(ast)
	t.debug("resolved", "kind", typed.Kind)
	return typed, nil
}

func (t *Transpiler) debug(msg string, args ...any) {
	if t.opts.Debug {
		t.logger.Debug(msg, args...)
	}
}
