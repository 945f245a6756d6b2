// Package lexer implements the single-pass scanner that turns source text
// into a token stream. It is summarized rather than designed in detail:
// a conventional byte-cursor lexer with up to two characters of
// lookahead (the second only to find the digit after a decimal point).
package lexer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/loxscript/glox/internal/token"
)

// Error reports an unexpected character or an unterminated string,
// identified by line so the caller can format it through internal/loxerr.
type Error struct {
	Line    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[line %d] %s", e.Line, e.Message)
}

// Scanner turns source bytes into tokens.
type Scanner struct {
	src  []byte
	line int
	idx  int  // index of the current character, -1 before the first next()
	ch   byte // current character

	errs []*Error
}

// New constructs a Scanner over src.
func New(src []byte) *Scanner {
	return &Scanner{src: src, line: 1, idx: -1}
}

// Scan consumes the whole source and returns the resulting token stream,
// always terminated by a single EOF token. Lexical errors (unexpected
// characters, unterminated strings) are collected rather than aborting the
// scan, and are available afterward via Errors.
func (s *Scanner) Scan() []token.Token {
	toks := make([]token.Token, 0, len(s.src)/2+1)

	for s.next() {
		switch s.ch {
		case ' ', '\t', '\r':
			// ignore
		case '\n':
			s.line++
		case '(':
			toks = append(toks, s.tok(token.LeftParen, "("))
		case ')':
			toks = append(toks, s.tok(token.RightParen, ")"))
		case '{':
			toks = append(toks, s.tok(token.LeftBrace, "{"))
		case '}':
			toks = append(toks, s.tok(token.RightBrace, "}"))
		case ',':
			toks = append(toks, s.tok(token.Comma, ","))
		case '.':
			toks = append(toks, s.tok(token.Dot, "."))
		case '-':
			toks = append(toks, s.tok(token.Minus, "-"))
		case '+':
			toks = append(toks, s.tok(token.Plus, "+"))
		case ';':
			toks = append(toks, s.tok(token.Semicolon, ";"))
		case '*':
			toks = append(toks, s.tok(token.Star, "*"))
		case '/':
			if s.peek() == '/' {
				s.lineComment()
			} else {
				toks = append(toks, s.tok(token.Slash, "/"))
			}
		case '=':
			if s.match('=') {
				toks = append(toks, s.tok(token.EqualEqual, "=="))
			} else {
				toks = append(toks, s.tok(token.Equal, "="))
			}
		case '!':
			if s.match('=') {
				toks = append(toks, s.tok(token.BangEqual, "!="))
			} else {
				toks = append(toks, s.tok(token.Bang, "!"))
			}
		case '<':
			if s.match('=') {
				toks = append(toks, s.tok(token.LessEqual, "<="))
			} else {
				toks = append(toks, s.tok(token.Less, "<"))
			}
		case '>':
			if s.match('=') {
				toks = append(toks, s.tok(token.GreaterEqual, ">="))
			} else {
				toks = append(toks, s.tok(token.Greater, ">"))
			}
		case '"':
			if tok, ok := s.stringLiteral(); ok {
				toks = append(toks, tok)
			}
		default:
			switch {
			case isDigit(s.ch):
				toks = append(toks, s.numberLiteral())
			case isAlpha(s.ch):
				toks = append(toks, s.identifier())
			default:
				s.errs = append(s.errs, &Error{
					Line:    s.line,
					Message: fmt.Sprintf("Unexpected character: %s", string(s.ch)),
				})
			}
		}
	}

	toks = append(toks, token.Token{Type: token.EOF, Line: s.line})
	return toks
}

// Errors returns the lexical errors collected by the most recent Scan.
func (s *Scanner) Errors() []*Error { return s.errs }

func (s *Scanner) tok(typ token.Type, lexeme string) token.Token {
	return token.Token{Type: typ, Lexeme: lexeme, Line: s.line}
}

// next advances the cursor and reports whether a character was consumed.
func (s *Scanner) next() bool {
	if s.idx >= len(s.src)-1 {
		return false
	}
	s.idx++
	s.ch = s.src[s.idx]
	return true
}

// peek returns the next unconsumed byte without advancing, or 0 at EOF.
func (s *Scanner) peek() byte {
	if s.idx >= len(s.src)-1 {
		return 0
	}
	return s.src[s.idx+1]
}

// peekNext returns the byte after peek, or 0 at EOF.
func (s *Scanner) peekNext() byte {
	if s.idx >= len(s.src)-2 {
		return 0
	}
	return s.src[s.idx+2]
}

// match consumes peek() if it equals want.
func (s *Scanner) match(want byte) bool {
	if s.peek() != want {
		return false
	}
	s.next()
	return true
}

func (s *Scanner) lineComment() {
	for s.peek() != '\n' && s.next() {
	}
}

func (s *Scanner) stringLiteral() (token.Token, bool) {
	start := s.idx
	startLine := s.line

	for {
		if !s.next() {
			s.errs = append(s.errs, &Error{Line: startLine, Message: "Unterminated string."})
			return token.Token{}, false
		}
		if s.ch == '\n' {
			s.line++
		}
		if s.ch == '"' {
			break
		}
	}

	lexeme := string(s.src[start : s.idx+1])
	literal := strings.Trim(lexeme, `"`)
	return token.Token{Type: token.String, Lexeme: lexeme, Literal: literal, Line: startLine}, true
}

func (s *Scanner) numberLiteral() token.Token {
	start := s.idx

	for isDigit(s.peek()) {
		s.next()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.next()
		for isDigit(s.peek()) {
			s.next()
		}
	}

	lexeme := string(s.src[start : s.idx+1])
	f, _ := strconv.ParseFloat(lexeme, 64)
	literal := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(literal, ".eE") {
		literal += ".0"
	}

	return token.Token{Type: token.Number, Lexeme: lexeme, Literal: literal, Line: s.line}
}

func (s *Scanner) identifier() token.Token {
	start := s.idx

	for isAlphaNumeric(s.peek()) {
		s.next()
	}

	lexeme := string(s.src[start : s.idx+1])
	typ, isKeyword := token.Keywords[lexeme]
	if !isKeyword {
		typ = token.Identifier
	}
	return token.Token{Type: typ, Lexeme: lexeme, Line: s.line}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }
