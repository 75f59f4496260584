// Package exprhandler compiles markup event handlers as sandboxed
// expr-lang expressions.
//
// A handler sees two variables: `this`, the target node (SetText, SetClass,
// SetAttribute and SetStyle are callable on it and chain), and `event`, the
// dispatched payload. Example:
//
//	onClick: this.SetText(sprintf("clicked %v", event)).SetClass("active")
//
// Expressions cannot reach anything outside that environment.
package exprhandler

import (
	"errors"
	"fmt"

	"runebind/cmd/runebind/markup"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Env is the environment a handler expression runs against.
type Env struct {
	This  *markup.Target `expr:"this"`
	Event any            `expr:"event"`
}

// Compiler is a markup.HandlerCompiler backed by expr.
type Compiler struct {
	opts []expr.Option
}

var _ markup.HandlerCompiler = (*Compiler)(nil)

// New returns a Compiler. Extra options are appended to the defaults, for
// example to register more functions.
func New(opts ...expr.Option) *Compiler {
	base := []expr.Option{
		expr.Env(Env{}),
		expr.Function("sprintf", func(params ...any) (any, error) {
			if len(params) == 0 {
				return "", nil
			}
			format, ok := params[0].(string)
			if !ok {
				return nil, fmt.Errorf("sprintf: format must be a string, got %T", params[0])
			}
			return fmt.Sprintf(format, params[1:]...), nil
		}),
		expr.Function("fail", func(params ...any) (any, error) {
			return nil, errors.New(fmt.Sprint(params...))
		}),
	}
	return &Compiler{opts: append(base, opts...)}
}

// Compile type-checks source against Env. Syntax and type errors reject the
// handler.
func (c *Compiler) Compile(source string) (markup.Handler, error) {
	program, err := expr.Compile(source, c.opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", markup.ErrHandlerRejected, err)
	}
	return handler(program), nil
}

func handler(program *vm.Program) markup.Handler {
	return func(this *markup.Target, event any) error {
		out, err := expr.Run(program, Env{This: this, Event: event})
		if err != nil {
			return err
		}
		if err, ok := out.(error); ok {
			return err
		}
		return nil
	}
}
