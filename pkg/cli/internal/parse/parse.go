// Package parse provides string parsing utilities for CLI commands.
package parse

import (
	"fmt"
	"strings"

	"github.com/sesuite-go/sesuite/pkg/attribute"
)

// KeyValue parses a "key:value" or "key=value" string.
// If delimiters are provided, uses the first one found; otherwise defaults to ':'.
// Returns the key, value, and a boolean indicating success.
func KeyValue(s string, delimiters ...rune) (key, value string, ok bool) {
	if len(delimiters) == 0 {
		delimiters = []rune{':'}
	}

	for i, c := range s {
		for _, d := range delimiters {
			if c == d {
				return s[:i], s[i+1:], true
			}
		}
	}
	return "", "", false
}

// Fields parses repeated "id=value" flags into ordered fields. Ids are
// trimmed; values are kept as given. An entry without '=' or with an empty id
// is an error.
func Fields(pairs []string) ([]attribute.Field, error) {
	fields := make([]attribute.Field, 0, len(pairs))
	for _, p := range pairs {
		id, value, ok := KeyValue(p, '=')
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid field %q: expected id=value", p)
		}
		fields = append(fields, attribute.F(id, value))
	}
	return fields, nil
}

// Map parses repeated "key=value" flags into a map. Later keys win.
func Map(pairs []string) (map[string]string, error) {
	m := make(map[string]string, len(pairs))
	for _, p := range pairs {
		key, value, ok := KeyValue(p, '=')
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid value %q: expected key=value", p)
		}
		m[key] = value
	}
	return m, nil
}
