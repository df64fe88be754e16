package config

import (
	"path"
	"strings"
)

// NormalizePrefix cleans a bucket key prefix: forward slashes, no empty
// segments, no leading or trailing slash.
func NormalizePrefix(prefix string) string {
	segs := strings.FieldsFunc(prefix, func(r rune) bool { return r == '/' || r == '\\' })
	if len(segs) == 0 {
		return ""
	}
	return path.Clean(strings.Join(segs, "/"))
}

// SourcePrefix is NormalizePrefix with the trailing slash a listing needs.
// Empty input stays empty.
func SourcePrefix(prefix string) string {
	if p := NormalizePrefix(prefix); p != "" {
		return p + "/"
	}
	return ""
}
