// Package urlenc percent-encodes query values and path segments the way the
// directory service expects: every byte outside the unreserved set is
// escaped, so reserved characters such as '/', '&' and '$' never leak into
// the URL structure and spaces become %20.
package urlenc

import "strings"

const upperhex = "0123456789ABCDEF"

// Component escapes s for use as a path segment or query value.
func Component(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

// Toggle renders a boolean the way the service reads switches.
func Toggle(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}
