package markdown

import "encoding/json"

// Node kinds as they appear in JSON.
const (
	KindHeading   = "heading"
	KindList      = "list"
	KindListItem  = "item"
	KindParagraph = "paragraph"
)

// A Node is the wire form of a block: the block kind, its key and the inner
// markup a page layer injects into the matching element.
type Node struct {
	Kind  string `json:"kind"`
	Key   string `json:"key"`
	Level int    `json:"level,omitempty"`
	HTML  string `json:"html,omitempty"`
	Items []Node `json:"items,omitempty"`
}

// Nodes converts doc to its wire form. The result is never nil.
func Nodes(doc Document) []Node {
	out := make([]Node, 0, len(doc))
	for _, b := range doc {
		switch b := b.(type) {
		case *Heading:
			out = append(out, Node{Kind: KindHeading, Key: b.key, Level: b.level(), HTML: b.Text.HTML()})
		case *List:
			n := Node{Kind: KindList, Key: b.key, Items: make([]Node, 0, len(b.Items))}
			for _, item := range b.Items {
				n.Items = append(n.Items, Node{Kind: KindListItem, Key: item.key, HTML: item.Text.HTML()})
			}
			out = append(out, n)
		case *Paragraph:
			out = append(out, Node{Kind: KindParagraph, Key: b.key, HTML: b.Text.HTML()})
		}
	}
	return out
}

func (doc Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(Nodes(doc))
}
