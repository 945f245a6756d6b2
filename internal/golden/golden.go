// Package golden runs the lex/parse/resolve/evaluate pipeline in-process
// against checked-in script fixtures and diffs the captured stdout,
// stderr, and exit code against a recorded result, instead of shelling
// out to a second reference interpreter.
package golden

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/loxscript/glox/internal/interp"
	"github.com/loxscript/glox/internal/lexer"
	"github.com/loxscript/glox/internal/loxerr"
	"github.com/loxscript/glox/internal/parser"
)

// Exit codes mirror the conventions of Unix scripting tools and are
// reused verbatim by cmd/glox: 65 for a malformed program (EX_DATAERR),
// 70 for a failure while otherwise running it (EX_SOFTWARE).
const (
	ExitOK        = 0
	ExitDataError = 65
	ExitSoftware  = 70
)

// Result is one execution's observable outcome: everything a golden
// fixture pins down.
type Result struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
}

// Case is a single `.lox` fixture paired with its recorded `.golden`
// sibling.
type Case struct {
	Name       string // base name, e.g. "closures.lox"
	SourcePath string
	GoldenPath string
}

// Discover walks dir for `*.lox` files, pairing each with a sibling
// `<name>.golden` file (which need not yet exist when -update is used).
func Discover(dir string) ([]Case, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var cases []Case
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".lox") {
			continue
		}
		cases = append(cases, Case{
			Name:       e.Name(),
			SourcePath: filepath.Join(dir, e.Name()),
			GoldenPath: filepath.Join(dir, strings.TrimSuffix(e.Name(), ".lox")+".golden"),
		})
	}
	sort.Slice(cases, func(i, j int) bool { return cases[i].Name < cases[j].Name })
	return cases, nil
}

// Run executes source through the full lex/parse/resolve/evaluate
// pipeline exactly as cmd/glox's `run` subcommand does, capturing stdout
// and diagnostics rather than writing them to the process's own streams.
func Run(source []byte) Result {
	var stdout, stderr bytes.Buffer

	toks := lexer.New(source).Scan()
	stmts, parseErrs := parser.New(toks).Parse()
	if len(parseErrs) > 0 {
		for _, e := range parseErrs {
			loxerr.Report(&stderr, e, false)
		}
		return Result{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: ExitDataError}
	}

	i := interp.New(interp.WithStdout(&stdout))
	resolveErrs, err := i.Interpret(stmts)
	if len(resolveErrs) > 0 {
		for _, e := range resolveErrs {
			loxerr.Report(&stderr, e, false)
		}
		return Result{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: ExitSoftware}
	}
	if err != nil {
		loxerr.Report(&stderr, err, false)
		return Result{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: ExitSoftware}
	}
	return Result{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: ExitOK}
}

// Load reads a recorded fixture.
func Load(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, err
	}
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return Result{}, fmt.Errorf("golden: malformed fixture %s: %w", path, err)
	}
	return r, nil
}

// Save writes got as the new recorded fixture, for `-update` runs.
func Save(path string, got Result) error {
	data, err := json.MarshalIndent(got, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0644)
}

// Diff reports the first field that disagrees between want and got.
func Diff(want, got Result) string {
	if want.ExitCode != got.ExitCode {
		return fmt.Sprintf("exit code: want %d, got %d", want.ExitCode, got.ExitCode)
	}
	if want.Stdout != got.Stdout {
		return fmt.Sprintf("stdout:\n  want %q\n  got  %q", want.Stdout, got.Stdout)
	}
	if want.Stderr != got.Stderr {
		return fmt.Sprintf("stderr:\n  want %q\n  got  %q", want.Stderr, got.Stderr)
	}
	return ""
}
