// Copyright (c) 2014 Alex Kalyvitis
// Portions Copyright (c) 2016 Ning Sun (handlebars-rust)

package handlebars

import (
	"io"
	"strings"
)

// localHelperTable is the shared, reference-counted local-helper map. A
// helper may re-enter the engine recursively and must outlive nested
// frames even after its registering block exits, so the table is never
// copied by RenderContext.Derive — only the pointer is shared.
type localHelperTable struct {
	m map[string]HelperFunc
}

func newLocalHelperTable() *localHelperTable {
	return &localHelperTable{m: make(map[string]HelperFunc)}
}

// RenderContext carries the mutable, lexically-scoped state of a single
// render invocation: current path, local path roots, local variables,
// block contexts, the local partial/helper tables, the output writer and
// error-attribution template name trail.
type RenderContext struct {
	registry *Registry
	context  *Context

	path          string
	localPathRoot []string

	localVariables map[string]Value
	blockContext   []*Context

	partials map[string]*Template
	helpers  *localHelperTable

	writer io.Writer

	currentTemplate string
	rootTemplate    string
	disableEscape   bool
}

// NewRenderContext creates the root RenderContext of a render call.
func NewRenderContext(registry *Registry, ctx *Context, w io.Writer) *RenderContext {
	return &RenderContext{
		registry:       registry,
		context:        ctx,
		path:           ".",
		localVariables: make(map[string]Value),
		partials:       make(map[string]*Template),
		helpers:        newLocalHelperTable(),
		writer:         w,
	}
}

// Derive produces a child RenderContext as described by the data model: the
// clone owns independent copies of path, local path roots, local
// variables, block contexts, partials, template names and the escape
// flag; it shares the local helper table and the base Context, and reuses
// the SAME writer unless the caller redirects it afterwards.
func (rc *RenderContext) Derive() *RenderContext {
	child := &RenderContext{
		registry:        rc.registry,
		context:         rc.context,
		path:            rc.path,
		localPathRoot:   append([]string(nil), rc.localPathRoot...),
		localVariables:  make(map[string]Value, len(rc.localVariables)),
		blockContext:    append([]*Context(nil), rc.blockContext...),
		partials:        make(map[string]*Template, len(rc.partials)),
		helpers:         rc.helpers,
		writer:          rc.writer,
		currentTemplate: rc.currentTemplate,
		rootTemplate:    rc.rootTemplate,
		disableEscape:   rc.disableEscape,
	}
	for k, v := range rc.localVariables {
		child.localVariables[k] = v
	}
	for k, v := range rc.partials {
		child.partials[k] = v
	}
	return child
}

func (rc *RenderContext) Context() *Context { return rc.context }

func (rc *RenderContext) Path() string      { return rc.path }
func (rc *RenderContext) SetPath(p string)  { rc.path = p }

func (rc *RenderContext) LocalPathRoot() []string { return rc.localPathRoot }

// PushLocalPathRoot installs p as the new root-most entry of the local path
// root stack, read by Context.Navigate when resolving leading `../`.
func (rc *RenderContext) PushLocalPathRoot(p string) {
	rc.localPathRoot = append([]string{p}, rc.localPathRoot...)
}

func (rc *RenderContext) PopLocalPathRoot() {
	if len(rc.localPathRoot) == 0 {
		return
	}
	rc.localPathRoot = rc.localPathRoot[1:]
}

// PushBlockContext pushes v (the helper's block-parameter binding, e.g. the
// current element of an #each iteration) onto the block-context stack.
func (rc *RenderContext) PushBlockContext(v Value) {
	rc.blockContext = append([]*Context{{data: v}}, rc.blockContext...)
}

func (rc *RenderContext) PopBlockContext() {
	if len(rc.blockContext) == 0 {
		return
	}
	rc.blockContext = rc.blockContext[1:]
}

// EvaluateInBlockContext walks the block-context stack front to back and
// returns the first non-null navigation result for name, implementing
// Handlebars block-parameter resolution (`{{#each items as |item|}}`).
func (rc *RenderContext) EvaluateInBlockContext(name string) (Value, bool) {
	for _, bc := range rc.blockContext {
		v := bc.Navigate(".", rc.localPathRoot, name)
		if !v.IsNull() {
			return v, true
		}
	}
	return NULL, false
}

// SetLocalVar inserts value under name, which must begin with "@".
func (rc *RenderContext) SetLocalVar(name string, value Value) {
	rc.localVariables[name] = value
}

func (rc *RenderContext) LocalVar(name string) (Value, bool) {
	v, ok := rc.localVariables[name]
	return v, ok
}

func (rc *RenderContext) ClearLocalVars() {
	rc.localVariables = make(map[string]Value)
}

// PromoteLocalVars rewrites every key "@x" to "@../x", implementing the
// scope-walking trick that lets a nested block reach an enclosing block's
// locals via "@../index". Promotion is idempotent in effect on
// already-promoted names: they simply gain another "../" prefix.
func (rc *RenderContext) PromoteLocalVars() {
	next := make(map[string]Value, len(rc.localVariables))
	for k, v := range rc.localVariables {
		next["@../"+k[1:]] = v
	}
	rc.localVariables = next
}

// DemoteLocalVars is the inverse of PromoteLocalVars: it strips one
// leading "@../" from every key, discarding entries that have no further
// parent scope (i.e. that do not carry the prefix).
func (rc *RenderContext) DemoteLocalVars() {
	next := make(map[string]Value, len(rc.localVariables))
	for k, v := range rc.localVariables {
		if strings.HasPrefix(k, "@../") {
			next["@"+k[4:]] = v
		}
	}
	rc.localVariables = next
}

func (rc *RenderContext) GetPartial(name string) (*Template, bool) {
	t, ok := rc.partials[name]
	return t, ok
}

func (rc *RenderContext) SetPartial(name string, t *Template) {
	rc.partials[name] = t
}

// RegisterLocalHelper installs def into the SHARED local-helper table,
// returning the previous entry if any. Callers are responsible for pairing
// this with UnregisterLocalHelper at block exit; the table itself outlives
// any single block since helper closures may re-enter recursively.
func (rc *RenderContext) RegisterLocalHelper(name string, def HelperFunc) (HelperFunc, bool) {
	prev, had := rc.helpers.m[name]
	rc.helpers.m[name] = def
	return prev, had
}

func (rc *RenderContext) UnregisterLocalHelper(name string) {
	delete(rc.helpers.m, name)
}

func (rc *RenderContext) LocalHelper(name string) (HelperFunc, bool) {
	h, ok := rc.helpers.m[name]
	return h, ok
}

func (rc *RenderContext) Writer() io.Writer { return rc.writer }

func (rc *RenderContext) DisableEscape() bool     { return rc.disableEscape }
func (rc *RenderContext) SetDisableEscape(b bool) { rc.disableEscape = b }

func (rc *RenderContext) CurrentTemplate() string     { return rc.currentTemplate }
func (rc *RenderContext) SetCurrentTemplate(n string) { rc.currentTemplate = n }
func (rc *RenderContext) RootTemplate() string        { return rc.rootTemplate }
func (rc *RenderContext) SetRootTemplate(n string)     { rc.rootTemplate = n }

// renderToString derives a child RenderContext writing into a fresh string
// builder and renders t into it, used by subexpressions and partial
// expansion's string-capture needs.
func renderToString(t *Template, rc *RenderContext, disableEscape bool) (string, error) {
	var sb strings.Builder
	child := rc.Derive()
	child.writer = &sb
	child.disableEscape = disableEscape
	if err := t.renderInto(child); err != nil {
		return "", err
	}
	return sb.String(), nil
}
