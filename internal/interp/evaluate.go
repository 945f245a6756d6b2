package interp

import (
	"strconv"

	"github.com/loxscript/glox/internal/ast"
	"github.com/loxscript/glox/internal/loxerr"
	"github.com/loxscript/glox/internal/object"
	"github.com/loxscript/glox/internal/token"
)

func (i *Interpreter) evalExpr(expr ast.Expr) (object.Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return i.evalLiteral(e)
	case *ast.Variable:
		return i.lookupVariable(e.Name, e)
	case *ast.Grouping:
		return i.evalExpr(e.Inner)
	case *ast.Unary:
		return i.evalUnary(e)
	case *ast.Binary:
		return i.evalBinary(e)
	case *ast.Logical:
		return i.evalLogical(e)
	case *ast.Assign:
		return i.evalAssign(e)
	case *ast.Call:
		return i.evalCall(e)
	default:
		panic("interp: unhandled expression type")
	}
}

func (i *Interpreter) evalLiteral(lit *ast.Literal) (object.Value, error) {
	switch lit.Token.Type {
	case token.True:
		return object.Bool(true), nil
	case token.False:
		return object.Bool(false), nil
	case token.Nil:
		return object.NilValue, nil
	case token.String:
		return object.String(lit.Value), nil
	case token.Number:
		f, _ := strconv.ParseFloat(lit.Value, 64)
		return object.Number(f), nil
	default:
		panic("interp: literal token of unexpected type")
	}
}

// lookupVariable consults the resolver's hop table (keyed by the
// Variable expression's identity) to decide between a direct jump to the
// enclosing local scope and a global lookup.
func (i *Interpreter) lookupVariable(name token.Token, expr ast.Expr) (object.Value, error) {
	if distance, ok := i.locals[expr]; ok {
		return i.env.GetAt(distance, name.Lexeme, name.Line)
	}
	return i.globals.Get(name.Lexeme, name.Line)
}

func (i *Interpreter) evalAssign(a *ast.Assign) (object.Value, error) {
	v, err := i.evalExpr(a.Value)
	if err != nil {
		return nil, err
	}

	if distance, ok := i.locals[a]; ok {
		if err := i.env.AssignAt(distance, a.Name.Lexeme, v, a.Name.Line); err != nil {
			return nil, err
		}
	} else if err := i.globals.Assign(a.Name.Lexeme, v, a.Name.Line); err != nil {
		return nil, err
	}
	return v, nil
}

func (i *Interpreter) evalUnary(u *ast.Unary) (object.Value, error) {
	right, err := i.evalExpr(u.Right)
	if err != nil {
		return nil, err
	}

	switch u.Op.Type {
	case token.Bang:
		return object.Bool(!object.IsTruthy(right)), nil
	case token.Minus:
		n, err := asNumber(right, u.Op.Line, "Operand must be a number.")
		if err != nil {
			return nil, err
		}
		return -n, nil
	default:
		panic("interp: unary operator of unexpected type")
	}
}

// evalLogical implements short-circuit `and`/`or`: the returned value is
// the operand value itself, not a coerced boolean.
func (i *Interpreter) evalLogical(l *ast.Logical) (object.Value, error) {
	left, err := i.evalExpr(l.Left)
	if err != nil {
		return nil, err
	}

	if l.Op.Type == token.Or {
		if object.IsTruthy(left) {
			return left, nil
		}
	} else {
		if !object.IsTruthy(left) {
			return left, nil
		}
	}
	return i.evalExpr(l.Right)
}

func (i *Interpreter) evalBinary(b *ast.Binary) (object.Value, error) {
	left, err := i.evalExpr(b.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evalExpr(b.Right)
	if err != nil {
		return nil, err
	}

	switch b.Op.Type {
	case token.Plus:
		return evalAdd(left, right, b.Op.Line)
	case token.Minus:
		l, r, err := asNumbers(left, right, b.Op.Line)
		if err != nil {
			return nil, err
		}
		return l - r, nil
	case token.Star:
		l, r, err := asNumbers(left, right, b.Op.Line)
		if err != nil {
			return nil, err
		}
		return l * r, nil
	case token.Slash:
		l, r, err := asNumbers(left, right, b.Op.Line)
		if err != nil {
			return nil, err
		}
		return l / r, nil
	case token.Greater:
		l, r, err := asNumbers(left, right, b.Op.Line)
		if err != nil {
			return nil, err
		}
		return object.Bool(l > r), nil
	case token.GreaterEqual:
		l, r, err := asNumbers(left, right, b.Op.Line)
		if err != nil {
			return nil, err
		}
		return object.Bool(l >= r), nil
	case token.Less:
		l, r, err := asNumbers(left, right, b.Op.Line)
		if err != nil {
			return nil, err
		}
		return object.Bool(l < r), nil
	case token.LessEqual:
		l, r, err := asNumbers(left, right, b.Op.Line)
		if err != nil {
			return nil, err
		}
		return object.Bool(l <= r), nil
	case token.EqualEqual:
		return object.Bool(object.Equal(left, right)), nil
	case token.BangEqual:
		return object.Bool(!object.Equal(left, right)), nil
	default:
		panic("interp: binary operator of unexpected type")
	}
}

func evalAdd(left, right object.Value, line int) (object.Value, error) {
	if l, ok := left.(object.Number); ok {
		if r, ok := right.(object.Number); ok {
			return l + r, nil
		}
	}
	if l, ok := left.(object.String); ok {
		if r, ok := right.(object.String); ok {
			return l + r, nil
		}
	}
	return nil, &loxerr.RuntimeError{Line: line, Message: "Operands must be two numbers or two strings."}
}

func asNumber(v object.Value, line int, message string) (object.Number, error) {
	n, ok := v.(object.Number)
	if !ok {
		return 0, &loxerr.RuntimeError{Line: line, Message: message}
	}
	return n, nil
}

func asNumbers(left, right object.Value, line int) (object.Number, object.Number, error) {
	l, lok := left.(object.Number)
	r, rok := right.(object.Number)
	if !lok || !rok {
		return 0, 0, &loxerr.RuntimeError{Line: line, Message: "Operands must be numbers."}
	}
	return l, r, nil
}

func (i *Interpreter) evalCall(c *ast.Call) (object.Value, error) {
	callee, err := i.evalExpr(c.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]object.Value, len(c.Args))
	for idx, argExpr := range c.Args {
		v, err := i.evalExpr(argExpr)
		if err != nil {
			return nil, err
		}
		args[idx] = v
	}

	fn, ok := callee.(object.Callable)
	if !ok {
		return nil, &loxerr.RuntimeError{Line: c.Paren.Line, Message: "Can only call functions and classes."}
	}
	if err := checkArity(fn, c.Args, c.Paren.Line); err != nil {
		return nil, err
	}

	return fn.Call(i, args)
}
