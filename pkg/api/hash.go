package api

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Hash returns a deterministic BLAKE3 hash of parts. Parts are separated by
// a null byte so that ("ab", "c") and ("a", "bc") differ.
func Hash(parts ...string) string {
	h := blake3.New()
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ETag returns a strong entity tag for a response body.
func ETag(body []byte) string {
	sum := blake3.Sum256(body)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

// Hash identifies the visible content of a news item; it changes whenever
// anything a reader can see changes.
func (n News) Hash() string {
	return Hash(n.ID, n.Slug, n.Title, n.CategoryOrDefault(), n.Summary, n.Body, n.PublishedAt)
}

func (r Recruit) Hash() string {
	return Hash(r.ID, r.Slug, r.Title, r.EmploymentTypeOrDefault(), r.LocationOrDefault(),
		r.Description, r.Requirements, r.WorkTime, r.Holiday, r.SalaryText(), r.ContactEmail, r.PublishedAt)
}
