package rules

import "strings"

// CanonicalPair orders two agent ids so the smaller one comes first.
func CanonicalPair(a, b string) (string, string) {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if b < a {
		return b, a
	}
	return a, b
}
