package format

import (
	"io"
	"strings"
	"text/tabwriter"
)

// Table is a list rendered as columns.
type Table struct {
	Header []string
	Rows   [][]string
}

func esc(field string) string {
	field = strings.ReplaceAll(field, "\t", "\\t")
	field = strings.ReplaceAll(field, "\n", "\\n")
	return field
}

func writeRow(w io.Writer, cols []string) {
	for i, c := range cols {
		if i > 0 {
			_, _ = io.WriteString(w, "\t")
		}
		_, _ = io.WriteString(w, esc(c))
	}
	_, _ = io.WriteString(w, "\n")
}

// WritePlainTable writes t as aligned, tab-separated columns.
func WritePlainTable(w io.Writer, t Table, headers bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers && len(t.Header) > 0 {
		writeRow(tw, t.Header)
	}
	for _, r := range t.Rows {
		writeRow(tw, r)
	}
	return tw.Flush()
}

// Doc is a single record shown as a title, key/value metadata and a
// markdown body.
type Doc struct {
	Title string
	Meta  [][2]string
	Body  string
}

// WritePlainDoc writes d without styling. body is the already flattened
// text of d.Body.
func WritePlainDoc(w io.Writer, d Doc, body string) error {
	var b strings.Builder
	b.WriteString(d.Title)
	b.WriteString("\n")
	for _, kv := range d.Meta {
		if kv[1] == "" {
			continue
		}
		b.WriteString(kv[0])
		b.WriteString(": ")
		b.WriteString(kv[1])
		b.WriteString("\n")
	}
	if body != "" {
		b.WriteString("\n")
		b.WriteString(body)
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
