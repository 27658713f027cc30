package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// WritePrettyTable draws t with a styled header row.
func WritePrettyTable(w io.Writer, t Table) error {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(t.Header...).
		Rows(t.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	_, err := io.WriteString(w, tbl.Render()+"\n")
	return err
}

// docMarkdown lays d out as a markdown document for glamour.
func docMarkdown(d Doc) string {
	var b strings.Builder
	if d.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", d.Title)
	}
	var meta []string
	for _, kv := range d.Meta {
		if kv[1] != "" {
			meta = append(meta, fmt.Sprintf("**%s:** %s", kv[0], kv[1]))
		}
	}
	if len(meta) > 0 {
		b.WriteString("> " + strings.Join(meta, "  \n> ") + "\n\n")
	}
	if body := strings.TrimSpace(d.Body); body != "" {
		b.WriteString("---\n\n")
		b.WriteString(body)
		b.WriteString("\n")
	}
	return b.String()
}

// WritePrettyDoc renders d through glamour.
func WritePrettyDoc(w io.Writer, d Doc, width int) error {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(docMarkdown(d))
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
