package placeholder

import (
	"strings"
	"unicode/utf8"
)

// HasKeyword reports whether keyword appears as a whole word in sql outside
// quoted literals. Matching ignores case. Quotes follow the same rule as
// Rewrite; scanning stops at a quote that is never closed.
func HasKeyword(sql, keyword string) bool {
	if keyword == "" {
		return false
	}
	for i := 0; i < len(sql); {
		c := sql[i]
		if c == '\'' || c == '"' {
			end, ok := skipQuoted(sql, i)
			if !ok {
				return false
			}
			i = end
			continue
		}
		r, size := utf8.DecodeRuneInString(sql[i:])
		if !isWordRune(r) {
			i += size
			continue
		}
		start := i
		for i < len(sql) {
			r, size = utf8.DecodeRuneInString(sql[i:])
			if !isWordRune(r) {
				break
			}
			i += size
		}
		if strings.EqualFold(sql[start:i], keyword) {
			return true
		}
	}
	return false
}
