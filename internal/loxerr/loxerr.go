// Package loxerr centralizes the three error kinds the pipeline produces
// and the single diagnostic format they share:
// "[line L] Error<where>: <message>".
package loxerr

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// ParseError is a syntactic error reported at the offending token.
// Parsing recovers via panic-mode synchronization, so a single parse
// pass may accumulate several of these.
type ParseError struct {
	Line    int
	Where   string // "" or " at end" or " at 'lexeme'"
	Message string
}

func (e *ParseError) Error() string { return format(e.Line, e.Where, e.Message) }

// ResolveError is a static semantic error. Resolution is reported once
// and aborts before evaluation begins.
type ResolveError struct {
	Line    int
	Where   string
	Message string
}

func (e *ResolveError) Error() string { return format(e.Line, e.Where, e.Message) }

// RuntimeError is a dynamic error raised during evaluation. It terminates
// evaluation of the current top-level statement.
type RuntimeError struct {
	Line    int
	Message string
}

func (e *RuntimeError) Error() string { return format(e.Line, "", e.Message) }

func format(line int, where, message string) string {
	return fmt.Sprintf("[line %d] Error%s: %s", line, where, message)
}

// AtToken builds the " at 'lexeme'" / " at end" where-clause, given a
// token's lexeme and whether it is the EOF token.
func AtToken(lexeme string, isEOF bool) string {
	if isEOF {
		return " at end"
	}
	return fmt.Sprintf(" at '%s'", lexeme)
}

// Report writes err to w, one diagnostic per line. When useColor is set,
// the whole line is written bold and red through fatih/color, which
// itself leaves the codes out when standard output is not a terminal;
// Report never writes color codes when useColor is false, so piped
// output and golden-file comparisons stay plain.
func Report(w io.Writer, err error, useColor bool) {
	msg := err.Error()
	if !useColor {
		fmt.Fprintln(w, msg)
		return
	}
	bold := color.New(color.FgRed, color.Bold)
	bold.Fprintln(w, msg)
}
