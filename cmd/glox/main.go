// Command glox runs, tokenizes, or opens an interactive REPL for the
// Language described in internal/interp.
package main

import (
	"fmt"
	"os"

	"github.com/loxscript/glox/cmd/glox/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
