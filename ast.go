// Copyright (c) 2014 Alex Kalyvitis
// Portions Copyright (c) 2016 Ning Sun (handlebars-rust)

package handlebars

import "io"

// Position is the (line, column) source mapping the parser attaches to
// every template element, consumed by error enrichment.
type Position struct {
	Line, Column int
}

// Element is one node of a parsed template: raw text, an expression, a
// helper/directive/partial invocation (inline or block form), or a
// comment. The tag set matches §6 of the specification exactly.
type Element interface {
	Render(rc *RenderContext) error
}

// BlockParam names the `as |x|` or `as |x y|` binding a block helper
// introduces for its inner template.
type BlockParam struct {
	Names []string // len 1 (single) or 2 (pair); empty when absent
}

// Template is a parsed sequence of Elements plus the per-element source
// mapping used for error enrichment.
type Template struct {
	Name     string
	Elements []Element
	Mapping  []Position // parallel to Elements; Mapping[i] may be zero-value
}

// renderInto walks t's elements in order, writing to rc and enriching any
// error with this frame's template name and, when unset, the failing
// element's (line, column).
func (t *Template) renderInto(rc *RenderContext) error {
	prevTemplate := rc.CurrentTemplate()
	rc.SetCurrentTemplate(t.Name)
	defer rc.SetCurrentTemplate(prevTemplate)

	for i, el := range t.Elements {
		if err := el.Render(rc); err != nil {
			re := asRenderError(err)
			if i < len(t.Mapping) {
				m := t.Mapping[i]
				re.enrich(t.Name, m.Line, m.Column)
			} else {
				re.enrich(t.Name, 0, 0)
			}
			return re
		}
	}
	return nil
}

// Render renders t as the top-level entry point of a render call.
func (t *Template) Render(registry *Registry, ctx *Context, w io.Writer) error {
	rc := NewRenderContext(registry, ctx, w)
	rc.SetRootTemplate(t.Name)
	return t.renderInto(rc)
}

// RawText is verbatim template text; it ignores the render context.
type RawText string

func (n RawText) Render(rc *RenderContext) error {
	_, err := io.WriteString(rc.Writer(), string(n))
	return err
}

// Expression is `{{param}}`: resolved, rendered to text, then escaped
// through the registry's escape function unless escaping is disabled.
type Expression struct {
	Param Parameter
}

func (n *Expression) Render(rc *RenderContext) error {
	ref, err := ResolveParameter(n.Param, rc)
	if err != nil {
		return err
	}
	out := ref.Value.Render()
	if !rc.DisableEscape() {
		out = rc.registry.EscapeFn()(out)
	}
	_, err = io.WriteString(rc.Writer(), out)
	return err
}

// HTMLExpression is `{{{param}}}` or `{{&param}}`: resolved, rendered, and
// written without escaping.
type HTMLExpression struct {
	Param Parameter
}

func (n *HTMLExpression) Render(rc *RenderContext) error {
	ref, err := ResolveParameter(n.Param, rc)
	if err != nil {
		return err
	}
	_, err = io.WriteString(rc.Writer(), ref.Value.Render())
	return err
}

// CommentElement produces no output.
type CommentElement string

func (n CommentElement) Render(rc *RenderContext) error { return nil }

// HelperTemplate is the shared shape of `{{helper args}}` (inline) and
// `{{#helper args}}...{{/helper}}` (block) invocations; Block distinguishes
// the two forms the way the reference implementation's single enum
// variant pair does.
type HelperTemplate struct {
	Name      string
	Params    []Parameter
	Hash      map[string]Parameter
	HashOrder []string
	Block     bool
	Main      *Template
	Inverse   *Template
	BlockVar  BlockParam
}

func (n *HelperTemplate) Render(rc *RenderContext) error {
	helper, err := newHelperView(n, rc)
	if err != nil {
		return err
	}

	if def, ok := rc.LocalHelper(n.Name); ok {
		return def(helper, rc.registry, rc)
	}

	if def, ok := rc.registry.Helper(n.Name); ok {
		return def(helper, rc.registry, rc)
	}

	fallbackName := "helperMissing"
	if n.Block {
		fallbackName = "blockHelperMissing"
	}
	if def, ok := rc.registry.Helper(fallbackName); ok {
		return def(helper, rc.registry, rc)
	}
	return NewRenderErrorf("Helper not defined: %q", n.Name)
}

// DirectiveTemplate is the shared shape of `{{*directive}}` /
// `{{#*directive}}...{{/directive}}` and the partial tag variants built on
// top of it. It is the same shape as HelperTemplate minus Inverse and
// BlockVar, matching §4.6.
type DirectiveTemplate struct {
	NameParam Parameter
	Params    []Parameter
	Hash      map[string]Parameter
	HashOrder []string
	Block     bool
	Main      *Template
}

func (n *DirectiveTemplate) Render(rc *RenderContext) error {
	name, err := ResolveParameterName(n.NameParam, rc)
	if err != nil {
		return err
	}
	directive, err := newDirectiveView(name, n, rc)
	if err != nil {
		return err
	}
	def, ok := rc.registry.Decorator(name)
	if !ok {
		return NewRenderErrorf("Directive not defined: %q", name)
	}
	return def(directive, rc.registry, rc)
}

// PartialTemplate is `{{> name}}` / `{{#> name}}...{{/name}}`. It carries
// the same shape as a directive invocation; expansion is handled by
// expandPartial (partial.go).
type PartialTemplate struct {
	NameParam Parameter
	Params    []Parameter
	Hash      map[string]Parameter
	HashOrder []string
	Block     bool
	Main      *Template
}

func (n *PartialTemplate) Render(rc *RenderContext) error {
	name, err := ResolveParameterName(n.NameParam, rc)
	if err != nil {
		return err
	}
	directive, err := newDirectiveView(name, &DirectiveTemplate{
		NameParam: n.NameParam,
		Params:    n.Params,
		Hash:      n.Hash,
		HashOrder: n.HashOrder,
		Block:     n.Block,
		Main:      n.Main,
	}, rc)
	if err != nil {
		return err
	}
	return expandPartial(name, directive, n, rc)
}
