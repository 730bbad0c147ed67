package catalog

import (
	"fmt"
	"strings"
	"unicode"
)

// Slugify lowercases the name and collapses every non-alphanumeric run into
// a single dash.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// uniqueSlug resolves collisions by suffixing -1, -2, ... until the slug is
// unused.
func uniqueSlug(taken map[string]bool, base string) string {
	if base == "" {
		base = "item"
	}
	if !taken[base] {
		return base
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if !taken[candidate] {
			return candidate
		}
	}
}
