package markdown

import (
	"strings"
	"unicode/utf8"
)

// PlainText returns the document's text without markup: one block per
// paragraph, list items prefixed with "- ", links shown by label.
func (doc Document) PlainText() string {
	parts := make([]string, 0, len(doc))
	for _, b := range doc {
		var p printer
		b.printText(&p)
		parts = append(parts, p.String())
	}
	return strings.Join(parts, "\n\n")
}

// Text returns x without markup.
func (x Inlines) Text() string {
	var p printer
	x.printText(&p)
	return p.String()
}

// Excerpt returns at most n runes of the document's plain text with line
// breaks folded into spaces. A truncated excerpt ends in "…".
func Excerpt(doc Document, n int) string {
	s := strings.Join(strings.Fields(doc.PlainText()), " ")
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return trimSpace(string(r[:n])) + "…"
}

func (b *Heading) printText(p *printer) { b.Text.printText(p) }

func (b *List) printText(p *printer) {
	for i, item := range b.Items {
		if i > 0 {
			p.WriteByte('\n')
		}
		p.WriteString("- ")
		item.Text.printText(p)
	}
}

func (b *Paragraph) printText(p *printer) { b.Text.printText(p) }

func (x Inlines) printText(p *printer) {
	for _, inl := range x {
		inl.printText(p)
	}
}

func (x *Text) printText(p *printer)   { p.WriteString(x.Text) }
func (x *Strong) printText(p *printer) { x.Inner.printText(p) }
func (x *Emph) printText(p *printer)   { x.Inner.printText(p) }
func (x *Link) printText(p *printer)   { x.Label.printText(p) }
func (*SoftBreak) printText(p *printer) { p.WriteByte('\n') }
