package azure

import (
	"testing"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		pattern string
		want    bool
	}{
		{"exact", "a/b/c", "a/b/c", true},
		{"exact mismatch", "a/b/c", "a/b/d", false},
		{"star in last segment", "data/file.parquet", "data/*.parquet", true},
		{"star does not cross slash", "data/sub/file.parquet", "data/*.parquet", false},
		{"question mark", "a/b1/c", "a/b?/c", true},
		{"char class", "a/b1/c", "a/b[0-9]/c", true},
		{"char class mismatch", "a/bx/c", "a/b[0-9]/c", false},
		{"terminal doublestar", "a/b/c/d", "a/**", true},
		{"doublestar zero segments", "a/c", "a/**/c", true},
		{"doublestar one segment", "a/b/c", "a/**/c", true},
		{"doublestar many segments", "a/x/y/z/c", "a/**/c", true},
		{"doublestar no suffix match", "a/x/y", "a/**/c", false},
		{"doublestar then pattern", "a/x/file.csv", "a/**/*.csv", true},
		{"pattern longer than key", "a/b", "a/b/c", false},
		{"key longer than pattern", "a/b/c", "a/b", false},
		{"terminal doublestar with empty remainder", "a", "a/**", false},
		{"empty key empty pattern", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(SplitSegments(tt.key), SplitSegments(tt.pattern))
			if got != tt.want {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.key, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestHasWildcard(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"data/file.parquet", false},
		{"data/*.parquet", true},
		{"data/[ab].parquet", true},
		{`data/\x.parquet`, true},
		{"data/file?.parquet", false}, // '?' does not start a listing wildcard
	}
	for _, tt := range tests {
		if got := HasWildcard(tt.path); got != tt.want {
			t.Errorf("HasWildcard(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestListPrefix(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"data/*.parquet", "data/"},
		{"data/year=[0-9]/file", "data/year="},
		{"plain/path", "plain/path"},
		{"*.parquet", ""},
	}
	for _, tt := range tests {
		if got := ListPrefix(tt.path); got != tt.want {
			t.Errorf("ListPrefix(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
