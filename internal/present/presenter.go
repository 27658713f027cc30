// Package present renders content records for the terminal.
package present

import (
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/sinwaunyu/site/internal/markdown"
	"github.com/sinwaunyu/site/internal/present/format"
)

type Mode int

const (
	ModePlain Mode = iota
	ModePretty
	ModeJSON
	ModeNDJSON
)

// Table and Doc are re-exported so callers need not import format.
type (
	Table = format.Table
	Doc   = format.Doc
)

type Options struct {
	Mode       Mode
	JSONIndent bool
	Headers    bool
	Width      int
}

// ParseMode parses "plain", "pretty", "json" or "ndjson".
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plain":
		return ModePlain, true
	case "pretty":
		return ModePretty, true
	case "json":
		return ModeJSON, true
	case "ndjson":
		return ModeNDJSON, true
	default:
		return ModePlain, false
	}
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// DefaultMode is pretty on a terminal and plain otherwise.
func DefaultMode(w io.Writer) Mode {
	if IsTTY(w) {
		return ModePretty
	}
	return ModePlain
}

// TermWidth returns the terminal width of w, or 0 when unknown.
func TermWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// RenderList writes items. JSON modes encode the items themselves; the
// table modes use toTable.
func RenderList[T any](w io.Writer, items []T, toTable func([]T) Table, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		if items == nil {
			items = []T{}
		}
		return format.WriteJSON(w, items, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSON(w, items)
	case ModePretty:
		return format.WritePrettyTable(w, toTable(items))
	default:
		return format.WritePlainTable(w, toTable(items), opts.Headers)
	}
}

// RenderDoc writes a single record. JSON modes encode v; the text modes
// show d, with d.Body parsed as site markdown for plain output.
func RenderDoc(w io.Writer, v any, d Doc, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSON(w, v, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSON(w, []any{v})
	case ModePretty:
		return format.WritePrettyDoc(w, d, opts.Width)
	default:
		return format.WritePlainDoc(w, d, markdown.Parse(d.Body).PlainText())
	}
}
