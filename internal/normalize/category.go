// internal/normalize/category.go
package normalize

import (
	"regexp"
	"strings"
)

var categoryEnumerator = regexp.MustCompile(`^[\d.)]*\s*`)

// CleanCategory strips cosmetic decoration from a category label: leading
// enumerators like "1." or ")" and a trailing colon. Every category
// comparison in the system happens on the cleaned form so a renumbered
// source file never breaks exclusion lists or the category-id map.
func CleanCategory(raw string) string {
	if raw == "" {
		return ""
	}
	s := categoryEnumerator.ReplaceAllString(raw, "")
	s = strings.TrimSuffix(s, ":")
	return strings.TrimSpace(s)
}
