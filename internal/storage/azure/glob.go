package azure

import (
	"path"
	"strings"
)

// wildcardChars are the characters that end the fixed listing prefix. The
// service matches on prefix only, so everything before the first of these is
// pushed down to the listing call and the rest is matched client side.
const wildcardChars = "*[\\"

// HasWildcard reports whether p contains any glob wildcard character.
func HasWildcard(p string) bool {
	return strings.ContainsAny(p, wildcardChars)
}

// ListPrefix returns the substring of p before its first wildcard character.
func ListPrefix(p string) string {
	if i := strings.IndexAny(p, wildcardChars); i >= 0 {
		return p[:i]
	}
	return p
}

// SplitSegments splits a blob key or pattern on "/".
func SplitSegments(p string) []string {
	return strings.Split(p, "/")
}

// Match reports whether the key segments satisfy the pattern segments. A
// "**" pattern segment matches zero or more whole key segments; every other
// segment is matched with single-segment glob semantics and never crosses a
// "/". Both sequences must be fully consumed for a match.
func Match(key, pattern []string) bool {
	for len(key) > 0 && len(pattern) > 0 {
		if pattern[0] == "**" {
			if len(pattern) == 1 {
				return true
			}
			for len(key) > 0 {
				if Match(key, pattern[1:]) {
					return true
				}
				key = key[1:]
			}
			return false
		}
		if ok, err := path.Match(pattern[0], key[0]); err != nil || !ok {
			return false
		}
		key = key[1:]
		pattern = pattern[1:]
	}
	return len(key) == 0 && len(pattern) == 0
}
