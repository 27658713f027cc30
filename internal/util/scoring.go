package util

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Suggest returns up to n candidates that fuzzily match input, best first.
// It is used to propose slugs when a lookup misses.
func Suggest(input string, candidates []string, n int) []string {
	input = strings.TrimSpace(input)
	if input == "" || len(candidates) == 0 {
		return nil
	}
	matches := fuzzy.Find(input, candidates)
	if len(matches) == 0 {
		// fall back to shared prefixes so "truck-2024" still finds "truck-2023"
		matches = fuzzy.Find(commonStem(input), candidates)
	}
	limit := len(matches)
	if n > 0 && n < limit {
		limit = n
	}
	out := make([]string, 0, limit)
	for _, m := range matches[:limit] {
		out = append(out, m.Str)
	}
	return out
}

// commonStem trims input to the part before its last separator.
func commonStem(input string) string {
	if i := strings.LastIndexAny(input, "-_/"); i > 0 {
		return input[:i]
	}
	return input
}
