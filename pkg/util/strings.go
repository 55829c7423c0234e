package util

import (
	"strconv"
	"unicode/utf8"
)

// MaxLogBodySize is the default number of bytes of a SOAP body that gets
// logged. Attachment requests carry whole files in base64, so the limit is
// kept small.
const MaxLogBodySize = 4 * 1024

// TruncateBody shortens a SOAP body for logging. The cut never splits a UTF-8
// sequence, and the marker reports how many bytes were dropped:
//
//	<soapenv:Envelope ...>[... 18342 bytes omitted]
//
// If maxSize <= 0, MaxLogBodySize is used.
func TruncateBody(data string, maxSize int) string {
	if maxSize <= 0 {
		maxSize = MaxLogBodySize
	}
	if len(data) <= maxSize {
		return data
	}
	cut := maxSize
	for cut > 0 && !utf8.RuneStart(data[cut]) {
		cut--
	}
	return data[:cut] + "[... " + strconv.Itoa(len(data)-cut) + " bytes omitted]"
}
