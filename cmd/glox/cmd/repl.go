package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/loxscript/glox/internal/ast"
	"github.com/loxscript/glox/internal/interp"
	"github.com/loxscript/glox/internal/lexer"
	"github.com/loxscript/glox/internal/loxerr"
	"github.com/loxscript/glox/internal/parser"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive prompt",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, args []string) error {
		return runREPL(c, args)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

// runREPL reads one line at a time and runs each as a complete program
// against one persistent Interpreter, so declarations and assignments
// from earlier lines remain visible to later ones. A line that parses as
// a single bare expression (anything other than an assignment) is
// auto-printed with an "=> " prefix instead of being silently discarded
// — a REPL-only presentation convenience that never runs in file mode.
func runREPL(_ *cobra.Command, _ []string) error {
	useColor := !noColor
	i := interp.New()
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Print("> ")
	for scanner.Scan() {
		line := scanner.Text()
		runREPLLine(i, line, os.Stdout, useColor)
		fmt.Print("> ")
	}
	return nil
}

func runREPLLine(i *interp.Interpreter, line string, out io.Writer, useColor bool) {
	toks := lexer.New([]byte(line)).Scan()
	stmts, parseErrs := parser.New(toks).Parse()
	if len(parseErrs) > 0 {
		for _, e := range parseErrs {
			loxerr.Report(os.Stderr, e, useColor)
		}
		return
	}

	if bare, ok := bareExpression(stmts); ok {
		v, err := i.EvalExpr(bare)
		if err != nil {
			loxerr.Report(os.Stderr, err, useColor)
			return
		}
		fmt.Fprintf(out, "=> %s\n", v.String())
		return
	}

	resolveErrs, err := i.Interpret(stmts)
	if len(resolveErrs) > 0 {
		for _, e := range resolveErrs {
			loxerr.Report(os.Stderr, e, useColor)
		}
		return
	}
	if err != nil {
		loxerr.Report(os.Stderr, err, useColor)
	}
}

// bareExpression reports whether stmts is exactly one Expression
// statement whose expression is not an assignment, the shape the REPL
// auto-prints.
func bareExpression(stmts []ast.Stmt) (ast.Expr, bool) {
	if len(stmts) != 1 {
		return nil, false
	}
	expr, ok := stmts[0].(*ast.Expression)
	if !ok {
		return nil, false
	}
	if _, isAssign := expr.Expr.(*ast.Assign); isAssign {
		return nil, false
	}
	return expr.Expr, true
}
