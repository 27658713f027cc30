package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

// space is the whitespace class the site content was authored against: the
// ASCII set plus \v, NBSP, the Unicode space separators, the line and
// paragraph separators and the BOM. Go's \s covers only [\t\n\f\r ].
const space = `[\t\n\v\f\r \x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}]`

var (
	blockSep  = regexp.MustCompile(`\n` + space + `*\n`)
	headingRE = regexp.MustCompile(`^(#+)` + space + `+([^\n\r\x{2028}\x{2029}]*)$`)
	bulletRE  = regexp.MustCompile(`^[-*]` + space + `+`)
)

func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ',
		0x00A0, 0x1680, 0x2028, 0x2029, 0x202F, 0x205F, 0x3000, 0xFEFF:
		return true
	}
	return r >= 0x2000 && r <= 0x200A
}

func trimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

// Parse splits text into blocks and classifies each one.
// It is a pure function of text.
func Parse(text string) Document {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if trimSpace(text) == "" {
		return nil
	}
	var doc Document
	for i, raw := range blockSep.Split(text, -1) {
		if b := parseBlock(raw, i); b != nil {
			doc = append(doc, b)
		}
	}
	return doc
}

// parseBlock classifies one candidate block. It returns nil for blank blocks.
func parseBlock(raw string, index int) Block {
	trimmed := trimSpace(raw)
	if trimmed == "" {
		return nil
	}
	idx := strconv.Itoa(index)

	if m := headingRE.FindStringSubmatch(trimmed); m != nil {
		h := &Heading{Level: len(m[1]), Text: parseInline(m[2])}
		h.Level = h.level()
		h.key = "h" + strconv.Itoa(h.Level) + "-" + idx
		return h
	}

	lines := strings.Split(trimmed, "\n")
	if isList(lines) {
		l := &List{key: "ul-" + idx}
		for j, line := range lines {
			item := trimSpace(bulletRE.ReplaceAllString(line, ""))
			l.Items = append(l.Items, &ListItem{
				Text: parseInline(item),
				key:  "li-" + idx + "-" + strconv.Itoa(j),
			})
		}
		return l
	}

	return &Paragraph{Text: parseInline(trimmed), key: "p-" + idx}
}

// isList reports whether every line carries a bullet marker.
func isList(lines []string) bool {
	for _, line := range lines {
		if !bulletRE.MatchString(line) {
			return false
		}
	}
	return len(lines) > 0
}
