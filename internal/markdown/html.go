package markdown

import (
	"strconv"
	"strings"
	"unicode"
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

// unsafeSchemes are never emitted as an href.
var unsafeSchemes = []string{"javascript:", "vbscript:", "data:"}

type printer struct {
	strings.Builder
}

// html writes trusted markup.
func (p *printer) html(s string) { p.WriteString(s) }

// text writes escaped text.
func (p *printer) text(s string) { textEscaper.WriteString(&p.Builder, s) }

// RenderHTML parses text and returns the HTML fragment for the document.
func RenderHTML(text string) string {
	return ToHTML(Parse(text))
}

// ToHTML returns the HTML fragment for doc, one block per line.
func ToHTML(doc Document) string {
	var p printer
	for _, b := range doc {
		b.printHTML(&p)
	}
	return p.String()
}

// HTML returns the inner markup for x, suitable for embedding inside the
// block element that owns it.
func (x Inlines) HTML() string {
	var p printer
	x.printHTML(&p)
	return p.String()
}

func (b *Heading) printHTML(p *printer) {
	tag := "h" + strconv.Itoa(b.level())
	p.html("<" + tag + ">")
	b.Text.printHTML(p)
	p.html("</" + tag + ">\n")
}

func (b *List) printHTML(p *printer) {
	p.html("<ul>\n")
	for _, item := range b.Items {
		p.html("<li>")
		item.Text.printHTML(p)
		p.html("</li>\n")
	}
	p.html("</ul>\n")
}

func (b *Paragraph) printHTML(p *printer) {
	p.html("<p>")
	b.Text.printHTML(p)
	p.html("</p>\n")
}

func (x Inlines) printHTML(p *printer) {
	for _, inl := range x {
		inl.printHTML(p)
	}
}

func (x *Text) printHTML(p *printer) { p.text(x.Text) }

func (x *Strong) printHTML(p *printer) {
	p.html("<strong>")
	x.Inner.printHTML(p)
	p.html("</strong>")
}

func (x *Emph) printHTML(p *printer) {
	p.html("<em>")
	x.Inner.printHTML(p)
	p.html("</em>")
}

func (x *Link) printHTML(p *printer) {
	p.html(`<a href="`)
	p.html(attrEscaper.Replace(safeURL(x.URL)))
	p.html(`" target="_blank" rel="noopener noreferrer">`)
	x.Label.printHTML(p)
	p.html("</a>")
}

func (*SoftBreak) printHTML(p *printer) { p.html("<br />") }

// safeURL replaces URLs with a script-capable scheme by "#".
// Browsers ignore whitespace and control characters inside the scheme,
// so they are dropped before comparing.
func safeURL(u string) string {
	var b strings.Builder
	for _, r := range u {
		if r > ' ' && r != 0x7f {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	s := b.String()
	for _, scheme := range unsafeSchemes {
		if strings.HasPrefix(s, scheme) {
			return "#"
		}
	}
	return u
}
