package util

import (
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		maxSize int
		want    string
	}{
		{"under limit", "<a/>", 100, "<a/>"},
		{"exact length", "<a/>", 4, "<a/>"},
		{"one over", "<a>x</a>", 7, "<a>x</a[... 1 bytes omitted]"},
		{"zero maxSize uses default", "<a/>", 0, "<a/>"},
		{"negative maxSize uses default", "<a/>", -1, "<a/>"},
		{"empty", "", 10, ""},
		// "ç" and "ã" are two bytes each.
		{"backs off inside first rune", "<a>ção</a>", 4, "<a>[... 9 bytes omitted]"},
		{"cut on rune start", "<a>ção</a>", 5, "<a>ç[... 7 bytes omitted]"},
		{"backs off inside second rune", "<a>ção</a>", 6, "<a>ç[... 7 bytes omitted]"},
		{"multibyte first rune", "ção", 1, "[... 5 bytes omitted]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := TruncateBody(tt.data, tt.maxSize)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got), "result must stay valid UTF-8")
		})
	}
}

func TestTruncateBody_DefaultMaxSize(t *testing.T) {
	t.Parallel()

	body := "<soapenv:Envelope>" + strings.Repeat("QUJD", MaxLogBodySize) + "</soapenv:Envelope>"

	got := TruncateBody(body, 0)
	assert.True(t, strings.HasPrefix(got, body[:MaxLogBodySize]))
	assert.True(t, strings.HasSuffix(got, "bytes omitted]"))
	assert.Contains(t, got, "[... "+strconv.Itoa(len(body)-MaxLogBodySize)+" bytes omitted]")

	short := body[:MaxLogBodySize]
	assert.Equal(t, short, TruncateBody(short, 0))
}
