package interp

import (
	"fmt"
	"time"

	"github.com/loxscript/glox/internal/ast"
	"github.com/loxscript/glox/internal/loxerr"
	"github.com/loxscript/glox/internal/object"
)

// Function is a user-defined Language function: a closure pairing a
// Function declaration's parameters/body with the Environment active at
// the point the `fun` declaration was evaluated. Every call creates a
// fresh Environment enclosed by that captured closure, so independent
// activations of the same function never share parameter bindings but
// all see the same captured outer state — the classic "make counter"
// pattern.
type Function struct {
	decl    *ast.Function
	closure *Environment
}

// NewFunction builds the Callable bound to a `fun` declaration at the
// point it's evaluated.
func NewFunction(decl *ast.Function, closure *Environment) *Function {
	return &Function{decl: decl, closure: closure}
}

func (*Function) value()          {}
func (f *Function) String() string { return fmt.Sprintf("<fn %s>", f.decl.Name.Lexeme) }
func (f *Function) Arity() int     { return len(f.decl.Params) }

// Call creates a fresh environment enclosed by the closure, binds
// parameters to the already-evaluated args, and runs the body as a
// block. A `return` surfaces as execResult.returning; anything else
// yields Nil.
func (f *Function) Call(caller any, args []object.Value) (object.Value, error) {
	interp := caller.(*Interpreter)

	env := NewEnvironment(f.closure)
	for i, param := range f.decl.Params {
		env.Define(param.Lexeme, args[i])
	}

	result, err := interp.executeBlock(f.decl.Body, env)
	if err != nil {
		return nil, err
	}
	if result.returning {
		return result.value, nil
	}
	return object.NilValue, nil
}

// clock is the built-in native function returning whole seconds since
// the local epoch. It's a genuine global binding, not a syntactically
// special-cased call, so it can be shadowed, reassigned, or passed
// around like any other Callable.
type clock struct{}

func (clock) value()          {}
func (clock) String() string   { return "<native fn>" }
func (clock) Arity() int       { return 0 }
func (clock) Call(any, []object.Value) (object.Value, error) {
	return object.Number(time.Now().Unix()), nil
}

// checkArity validates the evaluated argument count against a Callable's
// arity.
func checkArity(c object.Callable, args []ast.Expr, line int) error {
	if len(args) != c.Arity() {
		return &loxerr.RuntimeError{
			Line:    line,
			Message: fmt.Sprintf("Expected %d arguments but got %d.", c.Arity(), len(args)),
		}
	}
	return nil
}
