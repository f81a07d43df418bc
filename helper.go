// Copyright (c) 2014 Alex Kalyvitis
// Portions Copyright (c) 2016 Ning Sun (handlebars-rust)

package handlebars

// Helper is the immutable view passed to a helper implementation. All
// positional and named parameters are resolved eagerly (once), so the
// helper sees a stable snapshot regardless of how many times it
// re-renders its templates.
type Helper struct {
	name       string
	params     []ValueRef
	hash       map[string]ValueRef
	hashOrder  []string
	block      bool
	main       *Template
	inverse    *Template
	blockParam BlockParam
}

func newHelperView(ht *HelperTemplate, rc *RenderContext) (*Helper, error) {
	params := make([]ValueRef, len(ht.Params))
	for i, p := range ht.Params {
		v, err := ResolveParameter(p, rc)
		if err != nil {
			return nil, err
		}
		params[i] = v
	}
	hash := make(map[string]ValueRef, len(ht.Hash))
	for _, k := range ht.HashOrder {
		v, err := ResolveParameter(ht.Hash[k], rc)
		if err != nil {
			return nil, err
		}
		hash[k] = v
	}
	return &Helper{
		name:       ht.Name,
		params:     params,
		hash:       hash,
		hashOrder:  append([]string(nil), ht.HashOrder...),
		block:      ht.Block,
		main:       ht.Main,
		inverse:    ht.Inverse,
		blockParam: ht.BlockVar,
	}, nil
}

func (h *Helper) Name() string             { return h.name }
func (h *Helper) Params() []ValueRef       { return h.params }
func (h *Helper) Param(i int) (ValueRef, bool) {
	if i < 0 || i >= len(h.params) {
		return ValueRef{}, false
	}
	return h.params[i], true
}
func (h *Helper) HashKeys() []string { return h.hashOrder }
func (h *Helper) Hash(key string) (ValueRef, bool) {
	v, ok := h.hash[key]
	return v, ok
}
func (h *Helper) Main() *Template    { return h.main }
func (h *Helper) Inverse() *Template { return h.inverse }
func (h *Helper) IsBlock() bool      { return h.block }

// BlockParamSingle returns the single `as |x|` name, if declared.
func (h *Helper) BlockParamSingle() (string, bool) {
	if len(h.blockParam.Names) == 1 {
		return h.blockParam.Names[0], true
	}
	return "", false
}

// BlockParamPair returns the `as |x y|` name pair, if declared.
func (h *Helper) BlockParamPair() (string, string, bool) {
	if len(h.blockParam.Names) == 2 {
		return h.blockParam.Names[0], h.blockParam.Names[1], true
	}
	return "", "", false
}

// RenderMain renders h's main template into rc's writer, the way a helper
// invokes its block body.
func (h *Helper) RenderMain(rc *RenderContext) error {
	if h.main == nil {
		return nil
	}
	return h.main.renderInto(rc)
}

// RenderInverse renders h's inverse (else) template into rc's writer.
func (h *Helper) RenderInverse(rc *RenderContext) error {
	if h.inverse == nil {
		return nil
	}
	return h.inverse.renderInto(rc)
}

// HelperFunc is the contract consumed by user code registering a helper:
// `call(helper_view, registry, &mut render_context) -> Result<(), error>`.
type HelperFunc func(h *Helper, registry *Registry, rc *RenderContext) error

// Directive is the render-time view passed to a decorator. It is the same
// shape as Helper minus Inverse and BlockParam, since directives run for
// side effects on the RenderContext and must not write output themselves.
type Directive struct {
	name      string
	params    []ValueRef
	hash      map[string]ValueRef
	hashOrder []string
	main      *Template
}

func newDirectiveView(name string, dt *DirectiveTemplate, rc *RenderContext) (*Directive, error) {
	params := make([]ValueRef, len(dt.Params))
	for i, p := range dt.Params {
		v, err := ResolveParameter(p, rc)
		if err != nil {
			return nil, err
		}
		params[i] = v
	}
	hash := make(map[string]ValueRef, len(dt.Hash))
	for _, k := range dt.HashOrder {
		v, err := ResolveParameter(dt.Hash[k], rc)
		if err != nil {
			return nil, err
		}
		hash[k] = v
	}
	return &Directive{
		name:      name,
		params:    params,
		hash:      hash,
		hashOrder: append([]string(nil), dt.HashOrder...),
		main:      dt.Main,
	}, nil
}

func (d *Directive) Name() string       { return d.name }
func (d *Directive) Params() []ValueRef { return d.params }
func (d *Directive) Param(i int) (ValueRef, bool) {
	if i < 0 || i >= len(d.params) {
		return ValueRef{}, false
	}
	return d.params[i], true
}
func (d *Directive) HashKeys() []string { return d.hashOrder }
func (d *Directive) Hash(key string) (ValueRef, bool) {
	v, ok := d.hash[key]
	return v, ok
}
func (d *Directive) Main() *Template { return d.main }

// DecoratorFunc is the contract consumed by user code registering a
// decorator: identical signature to HelperFunc, applied to a Directive.
type DecoratorFunc func(d *Directive, registry *Registry, rc *RenderContext) error
