// Copyright (c) 2014 Alex Kalyvitis
// Portions Copyright (c) 2016 Ning Sun (handlebars-rust)

package handlebars

import (
	"bytes"
	"io"
	"strings"
	"sync"
)

// Registry is the shared, long-lived store of named templates, helpers,
// decorators and the escape function, mirroring the reference
// implementation's single `Handlebars` instance. It is safe for
// concurrent use: lookups and registrations may happen from multiple
// goroutines serving independent renders over the same Registry.
type Registry struct {
	mu sync.RWMutex

	templates  map[string]*Template
	helpers    map[string]HelperFunc
	decorators map[string]DecoratorFunc
	escapeFn   func(string) string

	strictMode bool
}

// NewRegistry returns a Registry pre-populated with the built-in helpers
// (if/each/with/unless/lookup/log/blockHelperMissing/helperMissing) and the
// default HTML escape function.
func NewRegistry() *Registry {
	r := &Registry{
		templates:  make(map[string]*Template),
		helpers:    make(map[string]HelperFunc),
		decorators: make(map[string]DecoratorFunc),
		escapeFn:   escapeHTML,
	}
	registerBuiltins(r)
	return r
}

// SetStrictMode records the strict-mode flag, readable through StrictMode.
// Navigate stays total (a missing property still resolves to Null) and no
// built-in helper consults the flag; it is metadata that user-registered
// helpers may read.
func (r *Registry) SetStrictMode(b bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strictMode = b
}

func (r *Registry) StrictMode() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.strictMode
}

// RegisterTemplate stores an already-parsed template under name for lookup
// by {{> name}} partial references.
func (r *Registry) RegisterTemplate(name string, t *Template) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[name] = t
}

func (r *Registry) Template(name string) (*Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[name]
	return t, ok
}

func (r *Registry) RegisterHelper(name string, fn HelperFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.helpers[name] = fn
}

func (r *Registry) Helper(name string) (HelperFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.helpers[name]
	return fn, ok
}

func (r *Registry) RegisterDecorator(name string, fn DecoratorFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decorators[name] = fn
}

func (r *Registry) Decorator(name string) (DecoratorFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.decorators[name]
	return fn, ok
}

// SetEscapeFn overrides the output-escaping function, e.g. to swap HTML
// escaping for the reference implementation's JSON-string escaping mode.
func (r *Registry) SetEscapeFn(fn func(string) string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.escapeFn = fn
}

func (r *Registry) EscapeFn() func(string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.escapeFn
}

// RenderTemplate looks up name and renders it against data, the convenience
// entry point a caller reaches for instead of threading *Template/*Context
// by hand.
func (r *Registry) RenderTemplate(name string, data interface{}, w io.Writer) error {
	t, ok := r.Template(name)
	if !ok {
		return NewRenderErrorf("Template not found: %q", name)
	}
	ctx := NewContext(FromGo(data))
	return t.Render(r, ctx, w)
}

// escapeHTML replicates the teacher's mustache escaping table, keeping
// "&apos;"/"&quot;" rather than the numeric entities text/template uses.
func escapeHTML(s string) string {
	if !strings.ContainsAny(s, `'"&<>`) {
		return s
	}
	var b bytes.Buffer
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&apos;")
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
