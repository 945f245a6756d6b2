// Package ast defines the Language's abstract syntax tree: two sum types,
// Expr and Stmt, each variant fully owning its children. Node identity
// (not structural equality) is what the resolver's hop-count table keys
// on, so every variant here is used exclusively through a pointer.
package ast

import (
	"fmt"
	"strings"

	"github.com/loxscript/glox/internal/token"
)

// Expr is any expression node. The marker method seals the interface to
// this package; other packages dispatch on concrete *Expr types with a
// type switch rather than adding methods to these types themselves.
type Expr interface {
	fmt.Stringer
	exprNode()
}

// Stmt is any statement node.
type Stmt interface {
	fmt.Stringer
	stmtNode()
}

// ---- Expressions ----

// Literal is a literal value baked into the source: a number, string,
// boolean, or nil. Value holds the keyword for true/false/nil and the
// token's Literal payload for numbers and strings, so String() prints the
// normalized value (42 as "42.0", strings without quotes) rather than the
// exact source form.
type Literal struct {
	Token token.Token
	Value string // "true" | "false" | "nil" | numeric/string literal text
}

func (*Literal) exprNode() {}
func (l *Literal) String() string { return l.Value }

// Variable is a reference to a named binding.
type Variable struct {
	Name token.Token
}

func (*Variable) exprNode() {}
func (v *Variable) String() string { return v.Name.Lexeme }

// Assign is `name = value`.
type Assign struct {
	Name  token.Token
	Value Expr
}

func (*Assign) exprNode() {}
func (a *Assign) String() string { return fmt.Sprintf("%s = %s", a.Name.Lexeme, a.Value) }

// Unary is a prefix operator: `!right` or `-right`.
type Unary struct {
	Op    token.Token
	Right Expr
}

func (*Unary) exprNode() {}
func (u *Unary) String() string { return fmt.Sprintf("(%s %s)", u.Op.Lexeme, u.Right) }

// Binary is an infix arithmetic/comparison/equality operator.
type Binary struct {
	Left  Expr
	Op    token.Token
	Right Expr
}

func (*Binary) exprNode() {}
func (b *Binary) String() string { return fmt.Sprintf("(%s %s %s)", b.Op.Lexeme, b.Left, b.Right) }

// Logical is `and`/`or`: short-circuiting, evaluated specially by the
// evaluator rather than as an ordinary Binary.
type Logical struct {
	Left  Expr
	Op    token.Token
	Right Expr
}

func (*Logical) exprNode() {}
func (l *Logical) String() string { return fmt.Sprintf("(%s %s %s)", l.Op.Lexeme, l.Left, l.Right) }

// Grouping is a parenthesized expression.
type Grouping struct {
	Inner Expr
}

func (*Grouping) exprNode() {}
func (g *Grouping) String() string { return fmt.Sprintf("(group %s)", g.Inner) }

// Call is `callee(args...)`. Paren is the closing ')' token, kept for
// call-site error reporting.
type Call struct {
	Callee Expr
	Paren  token.Token
	Args   []Expr
}

func (*Call) exprNode() {}
func (c *Call) String() string {
	sb := strings.Builder{}
	sb.WriteString(c.Callee.String())
	sb.WriteByte('(')
	for i, a := range c.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// ---- Statements ----

// Expression is an expression evaluated for its side effect.
type Expression struct {
	Expr Expr
}

func (*Expression) stmtNode() {}
func (e *Expression) String() string { return e.Expr.String() + ";" }

// Print evaluates Expr and writes its textual form plus a newline.
type Print struct {
	Expr Expr
}

func (*Print) stmtNode() {}
func (p *Print) String() string { return "print " + p.Expr.String() + ";" }

// Var is a variable declaration. Initializer is never nil: an absent
// initializer is represented as a Literal{Value: "nil"}.
type Var struct {
	Name        token.Token
	Initializer Expr
}

func (*Var) stmtNode() {}
func (v *Var) String() string { return fmt.Sprintf("var %s = %s;", v.Name.Lexeme, v.Initializer) }

// Block is a `{ ... }` sequence introducing a new lexical scope.
type Block struct {
	Stmts []Stmt
}

func (*Block) stmtNode() {}
func (b *Block) String() string {
	sb := strings.Builder{}
	sb.WriteString("{\n")
	for _, s := range b.Stmts {
		sb.WriteString("  " + s.String() + "\n")
	}
	sb.WriteByte('}')
	return sb.String()
}

// If is `if (Cond) Then [else Else]`. Else is nil when absent.
type If struct {
	Cond Expr
	Then Stmt
	Else Stmt
}

func (*If) stmtNode() {}
func (i *If) String() string {
	s := fmt.Sprintf("if (%s) %s", i.Cond, i.Then)
	if i.Else != nil {
		s += " else " + i.Else.String()
	}
	return s
}

// While is `while (Cond) Body`.
type While struct {
	Cond Expr
	Body Stmt
}

func (*While) stmtNode() {}
func (w *While) String() string { return fmt.Sprintf("while (%s) %s", w.Cond, w.Body) }

// Function is a named function declaration.
type Function struct {
	Name   token.Token
	Params []token.Token
	Body   []Stmt
}

func (*Function) stmtNode() {}
func (f *Function) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Lexeme
	}
	return fmt.Sprintf("fun %s(%s) { ... }", f.Name.Lexeme, strings.Join(params, ", "))
}

// Return is `return [Value];`. Value is never nil: an absent return value
// is represented as a Literal{Value: "nil"}.
type Return struct {
	Keyword token.Token
	Value   Expr
}

func (*Return) stmtNode() {}
func (r *Return) String() string { return "return " + r.Value.String() + ";" }
