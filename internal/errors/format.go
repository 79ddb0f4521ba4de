package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
)

const wrapWidth = 72

// plain disables ANSI styling. NO_COLOR turns it on at start-up.
var plain atomic.Bool

func init() {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		plain.Store(true)
	}
}

// DisableColors turns off ANSI styling in Format and Fprint.
func DisableColors() { plain.Store(true) }

// EnableColors turns ANSI styling back on.
func EnableColors() { plain.Store(false) }

type style string

const (
	styleError style = "\033[1;31m"
	styleCode  style = "\033[1m"
	styleDim   style = "\033[2m"
	styleHint  style = "\033[36m"
)

func (s style) apply(text string) string {
	if plain.Load() {
		return text
	}
	return string(s) + text + "\033[0m"
}

// Format renders e as a block for the terminal:
//
//	✗ W102 Reconciliation failed [runtime]
//	  The DOM rejected a mutation while applying a new value.
//	  caused by W103 Node not found: ...
//	  → hint
func (e *Error) Format() string {
	var b strings.Builder

	b.WriteString(styleError.apply("✗ "))
	if e.Code != "" {
		b.WriteString(styleCode.apply(e.Code))
		b.WriteByte(' ')
	}
	b.WriteString(e.Message)
	if e.Category != "" {
		b.WriteString(styleDim.apply(" [" + string(e.Category) + "]"))
	}
	b.WriteByte('\n')

	for _, line := range wrapText(e.Detail, wrapWidth) {
		b.WriteString("  " + line + "\n")
	}

	for cause := e.Wrapped; cause != nil; cause = stderrors.Unwrap(cause) {
		var we *Error
		if stderrors.As(cause, &we) && we == cause {
			b.WriteString(styleDim.apply("  caused by "))
			b.WriteString(we.FormatCompact())
			b.WriteByte('\n')
			continue
		}
		b.WriteString(styleDim.apply("  caused by "))
		b.WriteString(cause.Error())
		b.WriteByte('\n')
		break
	}

	if e.Suggestion != "" {
		b.WriteString(styleHint.apply("  → " + e.Suggestion))
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatCompact renders e on one line without its cause.
func (e *Error) FormatCompact() string {
	s := e.Message
	if e.Code != "" {
		s = e.Code + ": " + s
	}
	if e.Detail != "" {
		s += " (" + e.Detail + ")"
	}
	return s
}

// wrapText breaks text into lines of at most width bytes, splitting on
// whitespace. A single word longer than width gets a line of its own.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	lines := make([]string, 0, len(text)/width+1)
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	return append(lines, line)
}

// Fprint writes err to w, as a Format block when it carries a code.
func Fprint(w io.Writer, err error) {
	var we *Error
	if stderrors.As(err, &we) {
		fmt.Fprint(w, we.Format())
		return
	}
	fmt.Fprintf(w, "%s%s\n", styleError.apply("✗ "), err.Error())
}
