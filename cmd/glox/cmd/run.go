package cmd

import (
	"fmt"
	"os"

	"github.com/loxscript/glox/internal/interp"
	"github.com/loxscript/glox/internal/lexer"
	"github.com/loxscript/glox/internal/loxerr"
	"github.com/loxscript/glox/internal/parser"
	"github.com/spf13/cobra"
)

// Exit codes follow the sysexits.h convention: EX_DATAERR for a program
// that failed to parse, EX_SOFTWARE for one that failed while running.
const (
	exitDataError = 65
	exitSoftware  = 70
)

var runCmd = &cobra.Command{
	Use:   "run <path>",
	Short: "Run a script file",
	Args:  cobra.ExactArgs(1),
	RunE:  runFile,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runFile(_ *cobra.Command, args []string) error {
	return runPath(args[0])
}

// runPath implements the `--run <path>` / `-r` flag and the `run`
// subcommand, both of which call it: read the file, execute once, exit
// 65/70/0 per the result.
func runPath(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	useColor := !noColor

	toks := lexer.New(source).Scan()
	stmts, parseErrs := parser.New(toks).Parse()
	if len(parseErrs) > 0 {
		for _, e := range parseErrs {
			loxerr.Report(os.Stderr, e, useColor)
		}
		os.Exit(exitDataError)
	}

	i := interp.New()
	resolveErrs, runErr := i.Interpret(stmts)
	if len(resolveErrs) > 0 {
		for _, e := range resolveErrs {
			loxerr.Report(os.Stderr, e, useColor)
		}
		os.Exit(exitSoftware)
	}
	if runErr != nil {
		loxerr.Report(os.Stderr, runErr, useColor)
		os.Exit(exitSoftware)
	}
	return nil
}
