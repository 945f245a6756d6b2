package resolver

import (
	"testing"

	"github.com/loxscript/glox/internal/ast"
	"github.com/loxscript/glox/internal/lexer"
	"github.com/loxscript/glox/internal/parser"
)

func resolveSource(t *testing.T, src string) ([]ast.Stmt, Table, []*loxErrShim) {
	t.Helper()
	toks := lexer.New([]byte(src)).Scan()
	stmts, parseErrs := parser.New(toks).Parse()
	if len(parseErrs) != 0 {
		t.Fatalf("unexpected parse errors: %v", parseErrs)
	}
	table, resolveErrs := New().Resolve(stmts)
	shims := make([]*loxErrShim, len(resolveErrs))
	for i, e := range resolveErrs {
		shims[i] = &loxErrShim{e.Error()}
	}
	return stmts, table, shims
}

// loxErrShim avoids importing loxerr just to print messages in test failures.
type loxErrShim struct{ msg string }

func (e *loxErrShim) String() string { return e.msg }

func TestGlobalVariableHasNoTableEntry(t *testing.T) {
	stmts, table, errs := resolveSource(t, `var a = 1; print a;`)
	if len(errs) != 0 {
		t.Fatalf("unexpected resolve errors: %v", errs)
	}
	printStmt := stmts[1].(*ast.Print)
	v := printStmt.Expr.(*ast.Variable)
	if _, ok := table[v]; ok {
		t.Error("global variable reference should have no resolution table entry")
	}
}

func TestLocalVariableHopCount(t *testing.T) {
	stmts, table, errs := resolveSource(t, `
{
  var a = 1;
  {
    print a;
  }
}
`)
	if len(errs) != 0 {
		t.Fatalf("unexpected resolve errors: %v", errs)
	}
	outer := stmts[0].(*ast.Block)
	inner := outer.Stmts[1].(*ast.Block)
	printStmt := inner.Stmts[0].(*ast.Print)
	v := printStmt.Expr.(*ast.Variable)
	dist, ok := table[v]
	if !ok {
		t.Fatal("expected a resolution table entry for the local reference")
	}
	if dist != 1 {
		t.Errorf("got hop count %d, want 1", dist)
	}
}

func TestShadowingDoesNotAffectAlreadyResolvedReferences(t *testing.T) {
	// The classic "resolver shadow fix" scenario: show() must keep
	// resolving `a` to the global, even though a local
	// `a` is declared in the same block *after* show() is defined.
	stmts, table, errs := resolveSource(t, `
var a = "global";
{
  fun show() { print a; }
  show();
  var a = "local";
  show();
}
`)
	if len(errs) != 0 {
		t.Fatalf("unexpected resolve errors: %v", errs)
	}
	block := stmts[1].(*ast.Block)
	fn := block.Stmts[0].(*ast.Function)
	printStmt := fn.Body[0].(*ast.Print)
	v := printStmt.Expr.(*ast.Variable)
	if _, ok := table[v]; ok {
		t.Error("show's reference to `a` should resolve to the global (no table entry)")
	}
}

func TestReadingLocalInOwnInitializerIsError(t *testing.T) {
	_, _, errs := resolveSource(t, `{ var a = a; }`)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
}

func TestRedeclarationInSameLocalScopeIsError(t *testing.T) {
	_, _, errs := resolveSource(t, `{ var a = 1; var a = 2; }`)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
}

func TestRedeclarationAtGlobalScopeIsAllowed(t *testing.T) {
	_, _, errs := resolveSource(t, `var a = 1; var a = 2;`)
	if len(errs) != 0 {
		t.Fatalf("unexpected resolve errors: %v", errs)
	}
}

func TestReturnOutsideFunctionIsError(t *testing.T) {
	_, _, errs := resolveSource(t, `return 1;`)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
}

func TestReturnInsideFunctionIsFine(t *testing.T) {
	_, _, errs := resolveSource(t, `fun f() { return 1; }`)
	if len(errs) != 0 {
		t.Fatalf("unexpected resolve errors: %v", errs)
	}
}

func TestResolvingTwiceIsPure(t *testing.T) {
	toks := lexer.New([]byte(`
var a = "global";
{
  fun show() { print a; }
  show();
}
`)).Scan()
	stmts, _ := parser.New(toks).Parse()

	table1, errs1 := New().Resolve(stmts)
	table2, errs2 := New().Resolve(stmts)

	if len(errs1) != 0 || len(errs2) != 0 {
		t.Fatalf("unexpected resolve errors: %v %v", errs1, errs2)
	}
	if len(table1) != len(table2) {
		t.Fatalf("got tables of different size: %d vs %d", len(table1), len(table2))
	}
	for k, v := range table1 {
		if table2[k] != v {
			t.Errorf("entry for %v differs: %d vs %d", k, v, table2[k])
		}
	}
}

func TestAssignKeyedByAssignNodeNotValueExpr(t *testing.T) {
	stmts, table, errs := resolveSource(t, `
fun makeCounter() {
  var i = 0;
  fun count() {
    i = i + 1;
    return i;
  }
  return count;
}
`)
	if len(errs) != 0 {
		t.Fatalf("unexpected resolve errors: %v", errs)
	}
	makeCounter := stmts[0].(*ast.Function)
	count := makeCounter.Body[1].(*ast.Function)
	assignStmt := count.Body[0].(*ast.Expression)
	assign := assignStmt.Expr.(*ast.Assign)

	if _, ok := table[assign]; !ok {
		t.Error("expected the Assign node itself to carry the resolution table entry")
	}
	if _, ok := table[assign.Value]; ok {
		t.Error("the Assign's value sub-expression should not carry its own entry")
	}
}
