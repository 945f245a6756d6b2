// Package cmd wires the glox command tree: run, repl (the default), and
// tokenize, sharing the --no-color and --verbose persistent flags.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version is the version reported by --version; build flags may
	// override it.
	Version = "0.1.0-dev"

	noColor bool
	verbose bool
	runFlag string
)

var rootCmd = &cobra.Command{
	Use:   "glox",
	Short: "An interpreter for a small dynamically-typed scripting language",
	Long: `glox is a tree-walking interpreter for a small, dynamically-typed
scripting language: C-like statement and expression syntax, closures,
and first-class functions.

With no arguments, glox starts an interactive REPL. --run/-r runs a file
directly, equivalent to the "run" subcommand.`,
	Version:      Version,
	SilenceUsage: true,
	RunE: func(c *cobra.Command, args []string) error {
		if runFlag != "" {
			return runPath(runFlag)
		}
		return runREPL(c, args)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("glox version %s\n", Version))
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored diagnostic output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().StringVarP(&runFlag, "run", "r", "", "run a script file and exit, instead of starting the REPL")
}
