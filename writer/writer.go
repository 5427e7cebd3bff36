// Package writer provides concrete [renderer.Writer] implementations: a
// plain text writer and one that styles output with ANSI escapes according
// to a closed set of syntactic classes.
//
// Colour-theme and terminal-detection logic lives outside the core — this
// package only exposes the styling *capability* the writer interface
// names. Deciding whether to use it (the "colour_mode" configuration
// option: auto, always, never) is the caller's job; see [ResolveColour]
// for the auto-detection helper built on golang.org/x/term.
package writer

import (
	"fmt"
	"io"

	"github.com/foldline/foldline/style"
	"golang.org/x/term"
)

// ColourMode mirrors the "colour_mode" configuration option.
type ColourMode int

const (
	Auto ColourMode = iota
	Always
	Never
)

// ResolveColour turns a ColourMode into a concrete yes/no decision for the
// file descriptor fd, the way a CLI boundary (never the core) is expected
// to. Auto enables colour only when fd is a terminal.
func ResolveColour(mode ColourMode, fd uintptr) bool {
	switch mode {
	case Always:
		return true
	case Never:
		return false
	default:
		return term.IsTerminal(int(fd))
	}
}

// indentWriter tracks indent level and emits newlines, shared by [Plain]
// and [Styled]; the two writers differ only in how Emit styles text.
type indentWriter struct {
	w          io.Writer
	indentUnit string
	level      int
}

func (iw *indentWriter) Indent() error {
	iw.level++
	return nil
}

func (iw *indentWriter) Dedent() error {
	if iw.level == 0 {
		return fmt.Errorf("writer: Dedent called at indent level 0")
	}
	iw.level--
	return nil
}

func (iw *indentWriter) Newline() error {
	if _, err := io.WriteString(iw.w, "\n"); err != nil {
		return err
	}
	for range iw.level {
		if _, err := io.WriteString(iw.w, iw.indentUnit); err != nil {
			return err
		}
	}
	return nil
}

// Plain writes text verbatim: indentation as repeated indent units, no
// styling. It implements [github.com/foldline/foldline/renderer.Writer].
type Plain struct {
	indentWriter
}

// NewPlain creates a Plain writer that indents with level copies of unit
// per nesting level (unit is typically a tab or a fixed number of spaces,
// per the "indent" configuration option).
func NewPlain(w io.Writer, unit string) *Plain {
	return &Plain{indentWriter{w: w, indentUnit: unit}}
}

func (p *Plain) Emit(text string, _ style.Class) error {
	_, err := io.WriteString(p.w, text)
	return err
}

// ansiCode maps a style.Class to its ANSI SGR escape sequence: small
// literal escape strings, no external colour library.
var ansiCode = map[style.Class]string{
	style.Keyword:                "\x1b[35m", // magenta
	style.Identifier:             "\x1b[0m",
	style.TypeName:               "\x1b[36m", // cyan
	style.Literal:                "\x1b[33m", // yellow
	style.Symbol:                 "\x1b[0m",
	style.Attribute:              "\x1b[32m", // green
	style.NonTerminalPathSegment: "\x1b[34m", // blue
	style.TerminalPathSegment:    "\x1b[34m", // blue
}

const ansiReset = "\x1b[0m"

// Styled writes text with ANSI colour by syntactic class. It implements
// [github.com/foldline/foldline/renderer.Writer].
type Styled struct {
	indentWriter
}

// NewStyled creates a Styled writer. Callers decide whether to construct a
// Styled or a [Plain] writer using [ResolveColour]; Styled itself never
// probes the terminal.
func NewStyled(w io.Writer, unit string) *Styled {
	return &Styled{indentWriter{w: w, indentUnit: unit}}
}

func (s *Styled) Emit(text string, class style.Class) error {
	code, ok := ansiCode[class]
	if !ok || text == "" {
		_, err := io.WriteString(s.w, text)
		return err
	}
	_, err := fmt.Fprintf(s.w, "%s%s%s", code, text, ansiReset)
	return err
}
