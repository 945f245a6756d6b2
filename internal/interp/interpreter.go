// Package interp implements a tree-walking evaluator: statement
// execution against a chain of Environments, short-circuit logical
// operators, function calls with captured closures, and non-local
// control transfer for `return`.
package interp

import (
	"fmt"
	"io"
	"os"

	"github.com/loxscript/glox/internal/ast"
	"github.com/loxscript/glox/internal/loxerr"
	"github.com/loxscript/glox/internal/object"
	"github.com/loxscript/glox/internal/resolver"
)

// Interpreter holds the global environment, the currently active
// environment, the resolution table accumulated from every program it
// has resolved, and the stream `print` writes to.
type Interpreter struct {
	globals *Environment
	env     *Environment
	locals  resolver.Table
	stdout  io.Writer
}

// Option configures an Interpreter constructed by New.
type Option func(*Interpreter)

// WithStdout redirects `print` output away from os.Stdout; used by tests.
func WithStdout(w io.Writer) Option {
	return func(i *Interpreter) { i.stdout = w }
}

// New constructs an Interpreter whose globals contain the `clock`
// built-in.
func New(opts ...Option) *Interpreter {
	globals := NewEnvironment(nil)
	globals.Define("clock", clock{})

	i := &Interpreter{globals: globals, env: globals, stdout: os.Stdout}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Interpret resolves and then executes a freshly-parsed program against
// this Interpreter's persistent state, so successive REPL lines share one
// global environment. Resolution happens here (rather than once at
// startup) because each REPL submission is resolved and evaluated as an
// independent, complete program.
func (i *Interpreter) Interpret(stmts []ast.Stmt) ([]*loxerr.ResolveError, error) {
	r := resolver.New()
	table, resolveErrs := r.Resolve(stmts)
	if len(resolveErrs) > 0 {
		return resolveErrs, nil
	}
	i.addLocals(table)

	for _, stmt := range stmts {
		if _, err := i.execStmt(stmt); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// execResult threads `return`'s non-local control transfer through
// execStmt without confusing it with a RuntimeError.
type execResult struct {
	returning bool
	value     object.Value
}

var noResult = execResult{}

func (i *Interpreter) execStmt(stmt ast.Stmt) (execResult, error) {
	switch s := stmt.(type) {
	case *ast.Expression:
		_, err := i.evalExpr(s.Expr)
		return noResult, err

	case *ast.Print:
		v, err := i.evalExpr(s.Expr)
		if err != nil {
			return noResult, err
		}
		fmt.Fprintln(i.stdout, v.String())
		return noResult, nil

	case *ast.Var:
		v, err := i.evalExpr(s.Initializer)
		if err != nil {
			return noResult, err
		}
		i.env.Define(s.Name.Lexeme, v)
		return noResult, nil

	case *ast.Block:
		return i.executeBlock(s.Stmts, NewEnvironment(i.env))

	case *ast.If:
		cond, err := i.evalExpr(s.Cond)
		if err != nil {
			return noResult, err
		}
		if object.IsTruthy(cond) {
			return i.execStmt(s.Then)
		}
		if s.Else != nil {
			return i.execStmt(s.Else)
		}
		return noResult, nil

	case *ast.While:
		for {
			cond, err := i.evalExpr(s.Cond)
			if err != nil {
				return noResult, err
			}
			if !object.IsTruthy(cond) {
				return noResult, nil
			}
			result, err := i.execStmt(s.Body)
			if err != nil || result.returning {
				return result, err
			}
		}

	case *ast.Function:
		i.env.Define(s.Name.Lexeme, NewFunction(s, i.env))
		return noResult, nil

	case *ast.Return:
		v, err := i.evalExpr(s.Value)
		if err != nil {
			return noResult, err
		}
		return execResult{returning: true, value: v}, nil

	default:
		panic("interp: unhandled statement type")
	}
}

// EvalExpr resolves and evaluates a single expression against this
// Interpreter's persistent environment, without running it as a
// statement. It exists for the REPL's auto-print presentation (an
// interactively entered bare expression echoes its value), and has no
// effect on file-mode execution, which only ever calls Interpret.
func (i *Interpreter) EvalExpr(expr ast.Expr) (object.Value, error) {
	table, resolveErrs := resolver.New().Resolve([]ast.Stmt{&ast.Expression{Expr: expr}})
	if len(resolveErrs) > 0 {
		return nil, resolveErrs[0]
	}
	i.addLocals(table)
	return i.evalExpr(expr)
}

// addLocals merges a freshly resolved table into the interpreter's own,
// so functions declared by earlier REPL lines keep their hop counts.
// Keys are distinct AST nodes, so entries never collide.
func (i *Interpreter) addLocals(table resolver.Table) {
	if i.locals == nil {
		i.locals = make(resolver.Table, len(table))
	}
	for expr, distance := range table {
		i.locals[expr] = distance
	}
}

// executeBlock runs stmts against env, always restoring the previously
// active environment on every exit path — normal completion, a runtime
// error, or a `return`.
func (i *Interpreter) executeBlock(stmts []ast.Stmt, env *Environment) (execResult, error) {
	previous := i.env
	i.env = env
	defer func() { i.env = previous }()

	for _, stmt := range stmts {
		result, err := i.execStmt(stmt)
		if err != nil || result.returning {
			return result, err
		}
	}
	return noResult, nil
}
