package template

import (
	"bytes"
	"embed"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"text/template"
)

//go:embed templates
var embedded embed.FS

// templateRoot is the directory inside the embedded FS holding the templates.
const templateRoot = "templates"

// ErrTemplateNotFound is returned when rendering an unknown template name.
var ErrTemplateNotFound = errors.New("template not found")

// Fragment is already-rendered XML. It is embedded into templates verbatim.
type Fragment string

// Values are the named inputs of a template.
type Values map[string]any

// Engine renders named XML templates.
// Templates are parsed once; an Engine is safe for concurrent use.
type Engine struct {
	root  *template.Template
	names []string
}

// New creates an engine over the built-in SE Suite templates.
// It panics if the embedded templates do not parse.
func New() *Engine {
	sub, err := fs.Sub(embedded, templateRoot)
	if err != nil {
		panic(err)
	}
	e, err := NewFromFS(sub)
	if err != nil {
		panic(err)
	}
	return e
}

// NewFromFS creates an engine from every *.xml file in fsys. Template names
// are the slash-separated paths relative to the root of fsys, for example
// "actions/execute_activity.xml".
func NewFromFS(fsys fs.FS) (*Engine, error) {
	root := template.New("sesuite").Option("missingkey=default")
	var names []string

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".xml" {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("failed to read template %q: %w", p, err)
		}
		if _, err := root.New(p).Parse(string(data)); err != nil {
			return fmt.Errorf("failed to parse template %q: %w", p, err)
		}
		names = append(names, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(names)
	return &Engine{root: root, names: names}, nil
}

// Names returns the loaded template names in sorted order.
func (e *Engine) Names() []string {
	out := make([]string, len(e.names))
	copy(out, e.names)
	return out
}

// Has reports whether a template with the given name is loaded.
func (e *Engine) Has(name string) bool {
	return e.root.Lookup(name) != nil
}

// Render fills the named template with values and returns the XML.
//
// Plain values are XML-escaped before substitution. Fragment and []Fragment
// values are inserted unchanged. A nil value renders as empty text.
func (e *Engine) Render(name string, values Values) (string, error) {
	tmpl := e.root.Lookup(name)
	if tmpl == nil {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}

	escaped := make(map[string]any, len(values))
	for k, v := range values {
		escaped[k] = escapeValue(v)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, escaped); err != nil {
		return "", fmt.Errorf("failed to render template %q: %w", name, err)
	}
	return buf.String(), nil
}

// RenderFragment renders name and trims surrounding whitespace so the result
// can be embedded in another template.
func (e *Engine) RenderFragment(name string, values Values) (Fragment, error) {
	out, err := e.Render(name, values)
	if err != nil {
		return "", err
	}
	return Fragment(strings.TrimSpace(out)), nil
}

// escapeValue prepares a single template input.
func escapeValue(v any) any {
	switch x := v.(type) {
	case nil:
		return ""
	case Fragment:
		return string(x)
	case []Fragment:
		out := make([]string, len(x))
		for i, f := range x {
			out[i] = string(f)
		}
		return out
	case string:
		return Escape(x)
	case []string:
		out := make([]string, len(x))
		for i, s := range x {
			out[i] = Escape(s)
		}
		return out
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return x
	case fmt.Stringer:
		return Escape(x.String())
	default:
		return Escape(fmt.Sprint(x))
	}
}

// Escape returns s with XML special characters replaced by entities.
func Escape(s string) string {
	var b strings.Builder
	// strings.Builder never returns a write error.
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
