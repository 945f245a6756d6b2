package cmd

import (
	"fmt"
	"os"

	"github.com/loxscript/glox/internal/lexer"
	"github.com/loxscript/glox/internal/loxerr"
	"github.com/spf13/cobra"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <path>",
	Short: "Print the token stream for a script file (debugging aid)",
	Args:  cobra.ExactArgs(1),
	RunE:  tokenizeFile,
}

func init() {
	rootCmd.AddCommand(tokenizeCmd)
}

func tokenizeFile(_ *cobra.Command, args []string) error {
	path := args[0]
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	s := lexer.New(source)
	toks := s.Scan()
	for _, t := range toks {
		fmt.Println(t.String())
	}

	if errs := s.Errors(); len(errs) > 0 {
		for _, e := range errs {
			loxerr.Report(os.Stderr, e, !noColor)
		}
		os.Exit(exitDataError)
	}
	return nil
}
