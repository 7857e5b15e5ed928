// errors.go: diagnostic kinds and caret-snippet rendering
//
// Two error families cross the public surface:
//
//   - *LexError / *ParseError / *ResolveError — static diagnostics. The lexer,
//     parser, and resolver each collect every error from a run into an
//     ErrorList; if the list is non-empty the pipeline stops before execution.
//   - *RuntimeError — a single execution failure that unwinds to the driver.
//     It carries the token nearest the fault so the message can name the line.
//
// All static errors render in the classic one-line shape
//
//	[line 4] Error at ')': Expect expression.
//
// and runtime errors as
//
//	Undefined variable 'x'.
//	[line 2]
//
// `WrapErrorWithSource` upgrades any of these to a multi-line caret snippet
//
//	PARSE ERROR at 3:14: Expect ')' after expression.
//
//	   2 | var x = (1 + 2
//	   3 |              ;
//	     |              ^
//	   4 | print x;
//
// with one line of context on each side. The snippet renderer clamps
// out-of-range coordinates, so it is safe on empty or truncated sources.
// Snippets are plain text (no ANSI); the REPL applies color on top.
package lox

import (
	"fmt"
	"strings"
)

/* ===========================
   PUBLIC API
   =========================== */

// LexError is a character-level scanning failure. Line is 1-based,
// Col 0-based (rendered 1-based).
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("[line %d] Error: %s", e.Line, e.Msg)
}

// ParseError is a syntax error at a specific token. The parser records one
// per panic-mode recovery, plus one per non-recovering report (invalid
// assignment target, argument/parameter limits), and keeps going.
type ParseError struct {
	Tok Token
	Msg string
}

func (e *ParseError) Error() string { return reportAt(e.Tok, e.Msg) }

// ResolveError is a static scoping error found by the resolver
// (redeclaration, `return` at top level, `this` outside a class, ...).
type ResolveError struct {
	Tok Token
	Msg string
}

func (e *ResolveError) Error() string { return reportAt(e.Tok, e.Msg) }

// RuntimeError is an execution-time failure. Exactly one unwinds per run;
// Interpret restores the global environment and returns it, and the driver
// prints it.
type RuntimeError struct {
	Tok Token
	Msg string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Msg, e.Tok.Line)
}

// ErrorList aggregates static diagnostics from one pipeline stage.
// Its Error() joins the individual reports, one per line.
type ErrorList []error

func (el *ErrorList) Error() string {
	parts := make([]string, len(*el))
	for i, e := range *el {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "\n")
}

// Errors returns the underlying slice (nil-safe).
func (el *ErrorList) Errors() []error {
	if el == nil {
		return nil
	}
	return *el
}

// WrapErrorWithSource returns an error whose message is a caret-annotated
// snippet of src. It recognizes the four diagnostic kinds above (an ErrorList
// is rendered entry by entry); any other error is returned unchanged.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with an optional source name
// ("<repl>", a file path) shown in the snippet header.
func WrapErrorWithName(err error, srcName string, src string) error {
	switch e := err.(type) {
	case *LexError:
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "LEXICAL ERROR", srcName, e.Line, e.Col+1, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "PARSE ERROR", srcName, e.Tok.Line, e.Tok.Col+1, e.Msg))
	case *ResolveError:
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "RESOLVE ERROR", srcName, e.Tok.Line, e.Tok.Col+1, e.Msg))
	case *RuntimeError:
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "RUNTIME ERROR", srcName, e.Tok.Line, e.Tok.Col+1, e.Msg))
	case *ErrorList:
		parts := make([]string, len(*e))
		for i, sub := range *e {
			parts[i] = WrapErrorWithName(sub, srcName, src).Error()
		}
		return fmt.Errorf("%s", strings.Join(parts, "\n"))
	default:
		return err
	}
}

//// END_OF_PUBLIC

/* ===========================
   PRIVATE: helpers & rendering
   =========================== */

// reportAt formats the one-line static report for a token site.
func reportAt(tok Token, msg string) string {
	if tok.Type == EOF {
		return fmt.Sprintf("[line %d] Error at end: %s", tok.Line, msg)
	}
	return fmt.Sprintf("[line %d] Error at '%s': %s", tok.Line, tok.Lexeme, msg)
}

// prettyErrorStringLabeled builds a Python-like snippet with a header and a
// caret. It shows at most one previous and one next line when available.
// Coordinates are treated as 1-based and clamped to the source bounds.
func prettyErrorStringLabeled(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	caretPad := col - 1
	if caretPad > len(lineTxt) {
		caretPad = len(lineTxt)
	}
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", caretPad))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
