// Package textutil holds small pure-text display transforms.
package textutil

import (
	"strings"
	"unicode"
)

// SplitCamelCase turns an identifier-style compound name into a lowercase
// human-readable phrase: a space is inserted before every uppercase letter
// that immediately follows a lowercase one, and the result is lowercased.
// Boundary detection is Unicode-aware so extended Latin letters (ä/Ä, ö/Ö,
// ü/Ü, ...) split the same way ASCII does.
//
//	SplitCamelCase("LoadBalancer") == "load balancer"
//	SplitCamelCase("GrößereEinheit") == "größere einheit"
func SplitCamelCase(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)

	prev := rune(0)
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(prev) {
			b.WriteRune(' ')
		}
		b.WriteRune(unicode.ToLower(r))
		prev = r
	}
	return b.String()
}
