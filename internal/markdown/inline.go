package markdown

import (
	"regexp"
	"strings"
)

var linkRE = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

// A unit is one position of the inline scanner: either a single byte of
// source text or an already-resolved span. Resolved spans are opaque to later
// passes, which is what keeps a '*' inside a URL or next to generated markup
// from ever pairing with another one.
type unit struct {
	b    byte
	node Inline
}

func (u unit) is(c byte) bool { return u.node == nil && u.b == c }

// parseInline resolves spans in precedence order: links, then strong, then
// emphasis. Each pass is leftmost and non-overlapping.
func parseInline(s string) Inlines {
	return toInlines(emphasis(resolveLinks(s)))
}

func emphasis(units []unit) []unit {
	units = resolveDelim(units, 2, func(in Inlines) Inline { return &Strong{Inner: in} })
	return resolveDelim(units, 1, func(in Inlines) Inline { return &Emph{Inner: in} })
}

func resolveLinks(s string) []unit {
	units := make([]unit, 0, len(s))
	last := 0
	for _, m := range linkRE.FindAllStringSubmatchIndex(s, -1) {
		units = appendBytes(units, s[last:m[0]])
		label := emphasis(appendBytes(nil, s[m[2]:m[3]]))
		units = append(units, unit{node: &Link{URL: s[m[4]:m[5]], Label: toInlines(label)}})
		last = m[1]
	}
	return appendBytes(units, s[last:])
}

func appendBytes(units []unit, s string) []unit {
	for i := 0; i < len(s); i++ {
		units = append(units, unit{b: s[i]})
	}
	return units
}

// resolveDelim wraps every run delimited by n '*' bytes on each side whose
// content is non-empty and contains no unresolved '*'.
func resolveDelim(in []unit, n int, wrap func(Inlines) Inline) []unit {
	out := make([]unit, 0, len(in))
	for i := 0; i < len(in); {
		if hasStars(in, i, n) {
			j := i + n
			k := j
			for k < len(in) && !in[k].is('*') {
				k++
			}
			if k > j && hasStars(in, k, n) {
				out = append(out, unit{node: wrap(toInlines(in[j:k]))})
				i = k + n
				continue
			}
		}
		out = append(out, in[i])
		i++
	}
	return out
}

func hasStars(units []unit, at, n int) bool {
	if at+n > len(units) {
		return false
	}
	for _, u := range units[at : at+n] {
		if !u.is('*') {
			return false
		}
	}
	return true
}

// toInlines groups byte runs into Text, splitting newlines into SoftBreak.
func toInlines(units []unit) Inlines {
	var out Inlines
	var buf strings.Builder
	flush := func() {
		if buf.Len() == 0 {
			return
		}
		for i, line := range strings.Split(buf.String(), "\n") {
			if i > 0 {
				out = append(out, &SoftBreak{})
			}
			if line != "" {
				out = append(out, &Text{Text: line})
			}
		}
		buf.Reset()
	}
	for _, u := range units {
		if u.node != nil {
			flush()
			out = append(out, u.node)
			continue
		}
		buf.WriteByte(u.b)
	}
	flush()
	return out
}
