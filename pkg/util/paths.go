package util

import (
	"path/filepath"
	"strings"
)

// SafeFilePath cleans a relative path and reports whether it stays inside
// the directory it is joined to. Absolute paths, empty paths and paths that
// still contain a ".." segment after cleaning are rejected. Backslashes count
// as separators for the traversal check on every platform.
func SafeFilePath(p string) (string, bool) {
	if p == "" {
		return "", false
	}
	if filepath.IsAbs(p) || strings.HasPrefix(p, "/") || strings.HasPrefix(p, `\`) || filepath.VolumeName(p) != "" {
		return "", false
	}

	cleaned := filepath.Clean(p)
	segments := strings.FieldsFunc(cleaned, func(r rune) bool { return r == '/' || r == '\\' })
	for _, seg := range segments {
		if seg == ".." {
			return "", false
		}
	}
	return cleaned, true
}
