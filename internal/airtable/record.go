package airtable

import (
	"strings"
	"time"
)

// Record is one row as returned by the Airtable REST API.
type Record struct {
	ID          string         `json:"id"`
	CreatedTime time.Time      `json:"createdTime"`
	Fields      map[string]any `json:"fields"`
}

// Attachment is one entry of an attachment field.
type Attachment struct {
	URL      string `json:"url" mapstructure:"url"`
	Filename string `json:"filename,omitempty" mapstructure:"filename"`
	Size     int64  `json:"size,omitempty" mapstructure:"size"`
	Type     string `json:"type,omitempty" mapstructure:"type"`
}

// IsVideo reports whether the attachment has a video MIME type.
func (a Attachment) IsVideo() bool { return strings.HasPrefix(a.Type, "video/") }

// Attachments returns the attachments held in a field value. Plain strings
// are treated as a single URL so that text columns can stand in for
// attachment columns. Entries without a URL are dropped.
func Attachments(field any) []Attachment {
	switch v := field.(type) {
	case string:
		if v == "" {
			return nil
		}
		return []Attachment{{URL: v}}
	case []Attachment:
		return v
	case []any:
		out := make([]Attachment, 0, len(v))
		for _, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			a := Attachment{
				URL:      stringOf(m["url"]),
				Filename: stringOf(m["filename"]),
				Type:     stringOf(m["type"]),
			}
			if n, ok := m["size"].(float64); ok {
				a.Size = int64(n)
			}
			if a.URL != "" {
				out = append(out, a)
			}
		}
		return out
	}
	return nil
}

func stringOf(v any) string {
	s, _ := v.(string)
	return s
}
