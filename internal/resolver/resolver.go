// Package resolver implements a static scope-resolution pass: for every
// Variable/Assign expression it records, in a table keyed by expression
// identity, how many enclosing local scopes separate the use from its
// defining scope. Absence means "global".
package resolver

import (
	"github.com/loxscript/glox/internal/ast"
	"github.com/loxscript/glox/internal/loxerr"
)

// Table maps a Variable or Assign expression to its resolved hop count.
// Keyed by ast.Expr identity (every node is a distinct pointer
// allocation).
type Table map[ast.Expr]int

type funcType int

const (
	funcTypeNone funcType = iota
	funcTypeFunction
)

// Resolver performs the single traversal pass. Traversal order matches
// the evaluator's own evaluation order, so errors are reported in source
// order.
type Resolver struct {
	locals   Table
	scopes   []map[string]bool
	funcType funcType
	errs     []*loxerr.ResolveError
}

// New constructs a Resolver with an empty resolution table.
func New() *Resolver {
	return &Resolver{locals: make(Table)}
}

// Resolve walks stmts once and returns the resulting Table, or the
// accumulated ResolveErrors if any rule was violated. An error does not
// stop the pass: every statement is still traversed, so independent
// mistakes in a file are all reported together.
func (r *Resolver) Resolve(stmts []ast.Stmt) (Table, []*loxerr.ResolveError) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
	return r.locals, r.errs
}

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, map[string]bool{}) }
func (r *Resolver) endScope()   { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) scopeErr(line int, message string) {
	r.errs = append(r.errs, &loxerr.ResolveError{Line: line, Message: message})
}

// declare inserts name → false ("declared but not yet initialized") in
// the innermost scope. Globals (no open scope) are not tracked.
func (r *Resolver) declare(name string, line int) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, exists := scope[name]; exists {
		r.scopeErr(line, "Already a variable with this name in this scope.")
	}
	scope[name] = false
}

func (r *Resolver) define(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name] = true
}

// resolveLocal walks scopes outward from the innermost and, on the first
// scope declaring name, records the hop count for expr. No match leaves
// expr absent from the table (global).
func (r *Resolver) resolveLocal(expr ast.Expr, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Expression:
		r.resolveExpr(s.Expr)
	case *ast.Print:
		r.resolveExpr(s.Expr)
	case *ast.Var:
		r.declare(s.Name.Lexeme, s.Name.Line)
		r.resolveExpr(s.Initializer)
		r.define(s.Name.Lexeme)
	case *ast.Block:
		r.beginScope()
		for _, inner := range s.Stmts {
			r.resolveStmt(inner)
		}
		r.endScope()
	case *ast.If:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}
	case *ast.While:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Body)
	case *ast.Function:
		// Declared and defined before the body is resolved, enabling
		// self-reference and recursion.
		r.declare(s.Name.Lexeme, s.Name.Line)
		r.define(s.Name.Lexeme)
		r.resolveFunction(s, funcTypeFunction)
	case *ast.Return:
		if r.funcType == funcTypeNone {
			r.scopeErr(s.Keyword.Line, "Can't return from top-level code.")
		}
		r.resolveExpr(s.Value)
	default:
		panic("resolver: unhandled statement type")
	}
}

func (r *Resolver) resolveFunction(fn *ast.Function, typ funcType) {
	enclosing := r.funcType
	r.funcType = typ

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param.Lexeme, param.Line)
		r.define(param.Lexeme)
	}
	for _, stmt := range fn.Body {
		r.resolveStmt(stmt)
	}
	r.endScope()

	r.funcType = enclosing
}

func (r *Resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Literal:
		// nothing to resolve
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, declared := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; declared && !defined {
				r.scopeErr(e.Name.Line, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name.Lexeme)
	case *ast.Assign:
		r.resolveExpr(e.Value)
		// Keyed by the Assign node itself, not e.Value, so the
		// interpreter can look up a hop count at assignment time without
		// re-deriving it from the right-hand side.
		r.resolveLocal(e, e.Name.Lexeme)
	case *ast.Unary:
		r.resolveExpr(e.Right)
	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Grouping:
		r.resolveExpr(e.Inner)
	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}
	default:
		panic("resolver: unhandled expression type")
	}
}
