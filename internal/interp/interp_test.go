package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/loxscript/glox/internal/lexer"
	"github.com/loxscript/glox/internal/parser"
)

// run lexes, parses, and interprets src against a fresh Interpreter,
// capturing everything `print` writes. It fails the test on any parse,
// resolve, or runtime error.
func run(t *testing.T, src string) string {
	t.Helper()
	var out bytes.Buffer
	if err := runInto(&out, src); err != nil {
		t.Fatalf("unexpected error running %q: %v", src, err)
	}
	return out.String()
}

func runInto(out *bytes.Buffer, src string) error {
	toks := lexer.New([]byte(src)).Scan()
	stmts, parseErrs := parser.New(toks).Parse()
	if len(parseErrs) != 0 {
		return parseErrs[0]
	}
	interp := New(WithStdout(out))
	resolveErrs, err := interp.Interpret(stmts)
	if len(resolveErrs) != 0 {
		return resolveErrs[0]
	}
	return err
}

func TestArithmeticAndPrint(t *testing.T) {
	if got, want := run(t, `print 1 + 2;`), "3\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStringConcatenation(t *testing.T) {
	if got, want := run(t, `print "foo" + "bar";`), "foobar\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBlockShadowingPrintsInnerThenOuter(t *testing.T) {
	src := `
var a = "outer";
{
  var a = "inner";
  print a;
}
print a;
`
	if got, want := run(t, src), "inner\nouter\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestClosureCounterCapturesSharedState(t *testing.T) {
	src := `
fun makeCounter() {
  var i = 0;
  fun count() {
    i = i + 1;
    return i;
  }
  return count;
}
var counter = makeCounter();
print counter();
print counter();
`
	if got, want := run(t, src), "1\n2\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolverShadowFixPrintsGlobalTwice(t *testing.T) {
	src := `
var a = "global";
{
  fun show() { print a; }
  show();
  var a = "local";
  show();
}
`
	if got, want := run(t, src), "global\nglobal\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestArityMismatchProducesExactMessage(t *testing.T) {
	src := `
fun f(a, b) { return a + b; }
f(1);
`
	var out bytes.Buffer
	err := runInto(&out, src)
	if err == nil {
		t.Fatal("expected a runtime error")
	}
	want := "[line 3] Error: Expected 2 arguments but got 1."
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestShortCircuitOrSkipsRightOperand(t *testing.T) {
	src := `
fun boom() { print "should not run"; return true; }
print true or boom();
`
	got := run(t, src)
	if strings.Contains(got, "should not run") {
		t.Errorf("right operand of `or` evaluated despite truthy left operand, got %q", got)
	}
	if got != "true\n" {
		t.Errorf("got %q, want %q", got, "true\n")
	}
}

func TestShortCircuitAndSkipsRightOperand(t *testing.T) {
	src := `
fun boom() { print "should not run"; return true; }
print false and boom();
`
	got := run(t, src)
	if strings.Contains(got, "should not run") {
		t.Errorf("right operand of `and` evaluated despite falsy left operand, got %q", got)
	}
	if got != "false\n" {
		t.Errorf("got %q, want %q", got, "false\n")
	}
}

func TestAddingNumberAndStringIsRuntimeError(t *testing.T) {
	var out bytes.Buffer
	err := runInto(&out, `print 1 + "a";`)
	if err == nil {
		t.Fatal("expected a runtime error")
	}
	want := "Operands must be two numbers or two strings."
	if !strings.Contains(err.Error(), want) {
		t.Errorf("got %q, want it to contain %q", err.Error(), want)
	}
}

func TestComparingNonNumbersIsRuntimeError(t *testing.T) {
	var out bytes.Buffer
	err := runInto(&out, `print "a" < "b";`)
	if err == nil {
		t.Fatal("expected a runtime error")
	}
	want := "Operands must be numbers."
	if !strings.Contains(err.Error(), want) {
		t.Errorf("got %q, want it to contain %q", err.Error(), want)
	}
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	var out bytes.Buffer
	err := runInto(&out, `print undeclared;`)
	if err == nil {
		t.Fatal("expected a runtime error")
	}
	want := "Undefined variable 'undeclared'."
	if !strings.Contains(err.Error(), want) {
		t.Errorf("got %q, want it to contain %q", err.Error(), want)
	}
}

func TestWhileLoopAccumulates(t *testing.T) {
	src := `
var i = 0;
var sum = 0;
while (i < 5) {
  sum = sum + i;
  i = i + 1;
}
print sum;
`
	if got, want := run(t, src), "10\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEnvironmentRestoredAfterBlockOnNormalExit(t *testing.T) {
	interp := New()
	if interp.env != interp.globals {
		t.Fatal("interpreter should start with the global environment active")
	}
	toks := lexer.New([]byte(`{ var a = 1; }`)).Scan()
	stmts, _ := parser.New(toks).Parse()
	if _, err := interp.Interpret(stmts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if interp.env != interp.globals {
		t.Error("active environment should be restored to globals after the block exits")
	}
}

func TestEnvironmentRestoredAfterBlockOnRuntimeError(t *testing.T) {
	interp := New()
	toks := lexer.New([]byte(`{ var a = 1; print undeclared; }`)).Scan()
	stmts, _ := parser.New(toks).Parse()
	if _, err := interp.Interpret(stmts); err == nil {
		t.Fatal("expected a runtime error")
	}
	if interp.env != interp.globals {
		t.Error("active environment should be restored to globals even after a runtime error")
	}
}

func TestClockIsCallableAndShadowable(t *testing.T) {
	src := `
var before = clock();
fun clock() { return 42; }
print clock();
`
	if got, want := run(t, src), "42\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
