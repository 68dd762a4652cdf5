package common

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// HasAny reports whether s contains any of subs, ignoring case.
func HasAny(s string, subs ...string) bool {
	s = strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(s, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// NormalizeKey lower-cases and trims a free-text place name for use as a
// cache key.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
