package soap

import (
	"errors"
	"fmt"
	"io"

	"github.com/beevik/etree"
	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/language"
)

// ErrInvalidXML is returned when a response body is not a well-formed XML document.
var ErrInvalidXML = errors.New("invalid XML")

// envelopeHead and envelopeTail are the number of entries the service wraps
// around key/value lists in table responses.
const (
	envelopeHead = 1
	envelopeTail = 3
)

// Value is the text of a matched element. Valid is false when the element
// carries no text.
type Value struct {
	Text  string
	Valid bool
}

// Document is a parsed response bound to a single namespace.
type Document struct {
	doc       *etree.Document
	prefix    string
	namespace string
}

// Parse parses data and binds it to the namespace of prefix (urn:<prefix>).
// Documents declaring a non UTF-8 encoding in their prolog are decoded first.
func Parse(data []byte, prefix string) (*Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidXML, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidXML)
	}

	return &Document{
		doc:       doc,
		prefix:    prefix,
		namespace: NamespaceFor(prefix),
	}, nil
}

// In returns a view of the same parsed document bound to the namespace of
// prefix. Responses that mix namespaces are parsed once and queried through
// one view per namespace.
func (d *Document) In(prefix string) *Document {
	return &Document{
		doc:       d.doc,
		prefix:    prefix,
		namespace: NamespaceFor(prefix),
	}
}

// Namespace returns the namespace URI the document is bound to.
func (d *Document) Namespace() string {
	return d.namespace
}

// FindOne returns the text of the first descendant named <prefix>:<tag>.
// ok is false if nothing matches or the match has no text.
func (d *Document) FindOne(tag string) (string, bool) {
	matches := d.find(tag, 1)
	if len(matches) == 0 {
		return "", false
	}
	v := textOf(matches[0])
	return v.Text, v.Valid
}

// FindMany returns the text of every descendant named <prefix>:<tag> in
// document order.
func (d *Document) FindMany(tag string) []Value {
	matches := d.find(tag, 0)
	values := make([]Value, 0, len(matches))
	for _, m := range matches {
		values = append(values, textOf(m))
	}
	return values
}

// FindDict collects keyTag and valueTag matches, drops the first and the last
// three entries of each list and pairs the rest positionally. Pairing stops at
// the shorter list. Keys are lower-cased; missing keys and values become "".
func (d *Document) FindDict(keyTag, valueTag string) map[string]string {
	keys := stripEnvelope(d.FindMany(keyTag))
	values := stripEnvelope(d.FindMany(valueTag))

	n := min(len(keys), len(values))
	lower := cases.Lower(language.Und)
	result := make(map[string]string, n)
	for i := range n {
		key := ""
		if keys[i].Valid {
			key = lower.String(keys[i].Text)
		}
		result[key] = values[i].Text
	}
	return result
}

// find walks the tree below the root in document order and returns up to
// limit matches (0 means no limit).
func (d *Document) find(tag string, limit int) []*etree.Element {
	var matches []*etree.Element

	var walk func(e *etree.Element) bool
	walk = func(e *etree.Element) bool {
		for _, child := range e.ChildElements() {
			if child.Tag == tag && child.NamespaceURI() == d.namespace {
				matches = append(matches, child)
				if limit > 0 && len(matches) >= limit {
					return false
				}
			}
			if !walk(child) {
				return false
			}
		}
		return true
	}
	walk(d.doc.Root())

	return matches
}

// charsetReader decodes input from the IANA charset label.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

func textOf(e *etree.Element) Value {
	text := e.Text()
	return Value{Text: text, Valid: text != ""}
}

func stripEnvelope(values []Value) []Value {
	if len(values) <= envelopeHead+envelopeTail {
		return nil
	}
	return values[envelopeHead : len(values)-envelopeTail]
}

// FindOne parses data in the namespace of component c and returns the first
// match of tag.
func FindOne(data []byte, c Component, tag string) (string, bool, error) {
	doc, err := Parse(data, c.Name())
	if err != nil {
		return "", false, err
	}
	v, ok := doc.FindOne(tag)
	return v, ok, nil
}

// FindMany parses data in the namespace of component c and returns every match of tag.
func FindMany(data []byte, c Component, tag string) ([]Value, error) {
	doc, err := Parse(data, c.Name())
	if err != nil {
		return nil, err
	}
	return doc.FindMany(tag), nil
}

// FindDict parses data in the namespace of component c and pairs keyTag and
// valueTag matches. See Document.FindDict.
func FindDict(data []byte, c Component, keyTag, valueTag string) (map[string]string, error) {
	doc, err := Parse(data, c.Name())
	if err != nil {
		return nil, err
	}
	return doc.FindDict(keyTag, valueTag), nil
}
