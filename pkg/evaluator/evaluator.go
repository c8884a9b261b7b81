package evaluator

// Package evaluator computes the value of a typed expression tree directly,
// with the same semantics as the generated C program.
//
// Integer subtrees use 64-bit signed arithmetic with truncating division,
// floating subtrees use IEEE doubles. A fold mixes kinds exactly like C's
// usual arithmetic conversions: (+ 1 2 2.5) adds 1 and 2 as integers and
// only then converts to double.
//
// # Example
//
//	ev := evaluator.New()
//	v, err := ev.Eval(resolver.Resolve(ast))
//	fmt.Println(v) // formatted like the program's printf
//
// Integer division by zero is reported as an EvalError; C leaves it
// undefined. Signed overflow wraps.

import (
	"log/slog"
	"math"
	"strconv"

	"github.com/sandrolain/lispc/pkg/resolver"
	"github.com/sandrolain/lispc/pkg/types"
)

// Value is the result of evaluating a subtree.
type Value struct {
	Kind  types.Kind
	Int   int64
	Float float64
}

// IntValue creates an integer value.
func IntValue(i int64) Value {
	return Value{Kind: types.KindInteger, Int: i}
}

// FloatValue creates a floating value.
func FloatValue(f float64) Value {
	return Value{Kind: types.KindFloating, Float: f}
}

// Float64 returns the value converted to float64.
func (v Value) Float64() float64 {
	if v.Kind == types.KindFloating {
		return v.Float
	}
	return float64(v.Int)
}

// String formats the value the way the generated program prints it
// (%lld for integers, %f for doubles).
func (v Value) String() string {
	if v.Kind == types.KindInteger {
		return strconv.FormatInt(v.Int, 10)
	}
	switch {
	case math.IsNaN(v.Float):
		return "nan"
	case math.IsInf(v.Float, 1):
		return "inf"
	case math.IsInf(v.Float, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(v.Float, 'f', 6, 64)
	}
}

// Evaluator evaluates typed expression trees.
// It holds no per-call state and is safe for concurrent use.
type Evaluator struct {
	opts   EvalOptions
	logger *slog.Logger
}

// EvalOptions configures evaluator behavior.
type EvalOptions struct {
	// Debug enables debug logging of every visited node.
	Debug bool
	// Logger for structured logging.
	Logger *slog.Logger
}

// EvalOption configures evaluation behavior.
type EvalOption func(*EvalOptions)

// WithDebug enables or disables debug logging.
func WithDebug(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Debug = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EvalOption {
	return func(opts *EvalOptions) {
		opts.Logger = logger
	}
}

// New creates a new Evaluator.
func New(opts ...EvalOption) *Evaluator {
	var options EvalOptions
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	return &Evaluator{
		opts:   options,
		logger: options.Logger,
	}
}

// Eval evaluates t.
func (e *Evaluator) Eval(t *resolver.Typed) (Value, error) {
	if t == nil || t.Node == nil {
		return Value{}, types.NewError(types.ErrInternal, "invalid expression", -1)
	}
	return e.evalNode(t)
}

func (e *Evaluator) evalNode(t *resolver.Typed) (Value, error) {
	n := t.Node

	if e.opts.Debug {
		e.logger.Debug("evaluating node",
			"type", n.Type,
			"value", n.Value,
			"kind", t.Kind)
	}

	switch n.Type {
	case types.NodeNumber:
		return evalNumber(t)
	case types.NodeOperation:
		return e.evalOperation(t)
	default:
		return Value{}, types.Errorf(types.ErrInternal, n.Position, "unhandled node type %s", n.Type)
	}
}

func evalNumber(t *resolver.Typed) (Value, error) {
	n := t.Node
	if t.Kind == types.KindFloating {
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return Value{}, types.Errorf(types.ErrNumberOutOfRange, n.Position, "Numeric literal %s is out of range", n.Value).WithCause(err)
		}
		return FloatValue(f), nil
	}
	i, err := strconv.ParseInt(n.Value, 10, 64)
	if err != nil {
		return Value{}, types.Errorf(types.ErrNumberOutOfRange, n.Position, "Numeric literal %s is out of range", n.Value).WithCause(err)
	}
	return IntValue(i), nil
}

// evalOperation folds the operands left to right.
func (e *Evaluator) evalOperation(t *resolver.Typed) (Value, error) {
	n := t.Node
	if len(t.Operands) == 0 {
		return Value{}, types.Errorf(types.ErrArity, n.OperatorPosition, "%s has no operands", n.Operator)
	}

	acc, err := e.evalNode(t.Operands[0])
	if err != nil {
		return Value{}, err
	}
	for _, operand := range t.Operands[1:] {
		v, err := e.evalNode(operand)
		if err != nil {
			return Value{}, err
		}
		acc, err = apply(n, acc, v)
		if err != nil {
			return Value{}, err
		}
	}
	return acc, nil
}

// apply combines two values under C's usual arithmetic conversions.
func apply(n *types.ASTNode, a, b Value) (Value, error) {
	if a.Kind == types.KindInteger && b.Kind == types.KindInteger {
		x, y := a.Int, b.Int
		switch n.Operator {
		case types.OpAdd:
			return IntValue(x + y), nil
		case types.OpSubtract:
			return IntValue(x - y), nil
		case types.OpMultiply:
			return IntValue(x * y), nil
		case types.OpDivide:
			if y == 0 {
				return Value{}, types.NewError(types.ErrDivisionByZero, "Integer division by zero", n.OperatorPosition).WithToken(n.Value)
			}
			return IntValue(x / y), nil
		}
	} else {
		x, y := a.Float64(), b.Float64()
		switch n.Operator {
		case types.OpAdd:
			return FloatValue(x + y), nil
		case types.OpSubtract:
			return FloatValue(x - y), nil
		case types.OpMultiply:
			return FloatValue(x * y), nil
		case types.OpDivide:
			return FloatValue(x / y), nil
		}
	}
	return Value{}, types.Errorf(types.ErrUnknownOperator, n.OperatorPosition, "Unknown operator %q", n.Value).WithToken(n.Value)
}
