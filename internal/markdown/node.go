// Package markdown renders the small Markdown subset used by content bodies
// in the site's data store: ATX headings, bullet lists and paragraphs, with
// links, strong and emphasis inside them.
//
// Parse never fails. Every string, including the empty string and
// unterminated markers, yields a (possibly empty) Document. Generated HTML is
// built from escaped input plus a fixed set of wrapper tags, so the output can
// be embedded as trusted markup.
package markdown

// A Document is the ordered sequence of blocks produced by Parse.
type Document []Block

// A Block is a top-level element: one of [*Heading], [*List], [*Paragraph].
type Block interface {
	Block()

	// Key is unique within one Document. It is derived from the block kind
	// and its position in the split input and carries no other meaning.
	Key() string

	printHTML(*printer)
	printText(*printer)
}

// A Heading is a single-line block introduced by one or more '#'.
type Heading struct {
	// Level is 1 through 6.
	Level int
	Text  Inlines

	key string
}

func (*Heading) Block()        {}
func (b *Heading) Key() string { return b.key }

// level clamps Level to the range [1, 6].
func (b *Heading) level() int {
	return max(1, min(6, b.Level))
}

// A List is a block in which every line starts with a '-' or '*' bullet.
type List struct {
	Items []*ListItem

	key string
}

func (*List) Block()        {}
func (b *List) Key() string { return b.key }

// A ListItem is one bullet line of a [List].
type ListItem struct {
	Text Inlines

	key string
}

func (x *ListItem) Key() string { return x.key }

// A Paragraph is any block that is neither a heading nor a list.
// Single newlines inside it are kept as [*SoftBreak] inlines.
type Paragraph struct {
	Text Inlines

	key string
}

func (*Paragraph) Block()        {}
func (b *Paragraph) Key() string { return b.key }

// An Inline is an element inside a block's text: one of [*Text], [*Strong],
// [*Emph], [*Link], [*SoftBreak].
type Inline interface {
	Inline()

	printHTML(*printer)
	printText(*printer)
}

// Inlines is a concatenation of inline elements.
type Inlines []Inline

// A Text is literal text. It is stored unescaped.
type Text struct {
	Text string
}

func (*Text) Inline() {}

// A Strong is text written as **text**.
type Strong struct {
	Inner Inlines
}

func (*Strong) Inline() {}

// An Emph is text written as *text*.
type Emph struct {
	Inner Inlines
}

func (*Emph) Inline() {}

// A Link is written as [label](url). The URL is opaque: no emphasis is
// resolved inside it.
type Link struct {
	URL   string
	Label Inlines
}

func (*Link) Inline() {}

// A SoftBreak is a single newline inside a paragraph.
type SoftBreak struct{}

func (*SoftBreak) Inline() {}
