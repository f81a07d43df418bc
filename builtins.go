// Copyright (c) 2014 Alex Kalyvitis
// Portions Copyright (c) 2016 Ning Sun (handlebars-rust)

package handlebars

import (
	"fmt"
	"log/slog"
)

// registerBuiltins installs the built-in helper library (§9 of the
// expanded spec): if, each, with, unless, lookup, log, the
// blockHelperMissing/helperMissing fallbacks, and the "inline" decorator
// that backs `{{#*inline "name"}}...{{/inline}}`.
func registerBuiltins(r *Registry) {
	r.RegisterHelper("if", helperIf)
	r.RegisterHelper("unless", helperUnless)
	r.RegisterHelper("each", helperEach)
	r.RegisterHelper("with", helperWith)
	r.RegisterHelper("lookup", helperLookup)
	r.RegisterHelper("log", helperLog)
	r.RegisterHelper("blockHelperMissing", helperBlockHelperMissing)
	r.RegisterHelper("helperMissing", helperHelperMissing)
	r.RegisterDecorator("inline", decoratorInline)
}

func firstParamValue(h *Helper) Value {
	if v, ok := h.Param(0); ok {
		return v.Value
	}
	return NULL
}

func helperIf(h *Helper, registry *Registry, rc *RenderContext) error {
	if firstParamValue(h).Truthy() {
		return h.RenderMain(rc)
	}
	return h.RenderInverse(rc)
}

func helperUnless(h *Helper, registry *Registry, rc *RenderContext) error {
	if !firstParamValue(h).Truthy() {
		return h.RenderMain(rc)
	}
	return h.RenderInverse(rc)
}

// helperWith re-points the render path at the first param's value and
// renders the block body against it, installing a local path root so
// `../` inside the block reaches back to the enclosing context.
func helperWith(h *Helper, registry *Registry, rc *RenderContext) error {
	ref, ok := h.Param(0)
	if !ok || !ref.Value.Truthy() {
		return h.RenderInverse(rc)
	}
	child := rc.Derive()
	child.PushLocalPathRoot(rc.Path())
	if ref.HasPath {
		child.SetPath(combinePath(rc.Path(), ref.Path))
	}
	if name, ok := h.BlockParamSingle(); ok {
		child.PushBlockContext(ref.Value)
		child.SetLocalVar("@"+name, ref.Value)
	}
	return renderHelperMain(h, child)
}

// helperEach iterates an array or object, rendering the block body once
// per element with @index/@key and the block-param bindings installed,
// mirroring the teacher's sectionNode element loop generalized to
// objects and named block params.
func helperEach(h *Helper, registry *Registry, rc *RenderContext) error {
	ref, ok := h.Param(0)
	if !ok {
		return NewRenderError("Param not found for helper \"each\"")
	}
	v := ref.Value

	switch v.Kind() {
	case KindArray:
		items := v.ArrayValue()
		if len(items) == 0 {
			return h.RenderInverse(rc)
		}
		for i, item := range items {
			child := rc.Derive()
			child.PushLocalPathRoot(rc.Path())
			if ref.HasPath {
				child.SetPath(combinePath(rc.Path(), fmt.Sprintf("%s.[%d]", ref.Path, i)))
			}
			child.SetLocalVar("@index", Number(float64(i)))
			child.SetLocalVar("@first", Bool(i == 0))
			child.SetLocalVar("@last", Bool(i == len(items)-1))
			child.PushBlockContext(item)
			if name, ok := h.BlockParamSingle(); ok {
				child.SetLocalVar("@"+name, item)
			}
			if k, idx, ok := h.BlockParamPair(); ok {
				child.SetLocalVar("@"+k, item)
				child.SetLocalVar("@"+idx, Number(float64(i)))
			}
			if err := renderHelperMain(h, child); err != nil {
				return err
			}
		}
		return nil

	case KindObject:
		obj := v.Object()
		if obj.Len() == 0 {
			return h.RenderInverse(rc)
		}
		for i, key := range obj.Keys() {
			item, _ := obj.Get(key)
			child := rc.Derive()
			child.PushLocalPathRoot(rc.Path())
			if ref.HasPath {
				child.SetPath(combinePath(rc.Path(), fmt.Sprintf(`%s.[%s]`, ref.Path, key)))
			}
			child.SetLocalVar("@key", String(key))
			child.SetLocalVar("@index", Number(float64(i)))
			child.SetLocalVar("@first", Bool(i == 0))
			child.SetLocalVar("@last", Bool(i == obj.Len()-1))
			child.PushBlockContext(item)
			if name, ok := h.BlockParamSingle(); ok {
				child.SetLocalVar("@"+name, item)
			}
			if v2, k2, ok := h.BlockParamPair(); ok {
				child.SetLocalVar("@"+v2, item)
				child.SetLocalVar("@"+k2, String(key))
			}
			if err := renderHelperMain(h, child); err != nil {
				return err
			}
		}
		return nil

	default:
		return h.RenderInverse(rc)
	}
}

// renderHelperMain renders h's main template directly into child, the
// frame the calling helper derived and prepared for this render.
func renderHelperMain(h *Helper, child *RenderContext) error {
	if h.Main() == nil {
		return nil
	}
	return h.Main().renderInto(child)
}

// helperLookup implements `{{lookup obj key}}`: array indexing when obj
// is an array and key parses as a non-negative integer, object field
// lookup otherwise.
func helperLookup(h *Helper, registry *Registry, rc *RenderContext) error {
	obj, _ := h.Param(0)
	key, _ := h.Param(1)
	result := lookupValue(obj.Value, key.Value)
	_, err := rc.Writer().Write([]byte(result.Render()))
	return err
}

func lookupValue(obj, key Value) Value {
	switch obj.Kind() {
	case KindArray:
		idx, ok := parseUint(key.Render())
		arr := obj.ArrayValue()
		if !ok || idx < 0 || idx >= len(arr) {
			return NULL
		}
		return arr[idx]
	case KindObject:
		v, ok := obj.Object().Get(key.Render())
		if !ok {
			return NULL
		}
		return v
	default:
		return NULL
	}
}

// helperLog writes every positional param through the structured logger
// at info level, matching the reference implementation's `log` helper.
func helperLog(h *Helper, registry *Registry, rc *RenderContext) error {
	args := make([]any, 0, len(h.Params())*2)
	for i, p := range h.Params() {
		args = append(args, fmt.Sprintf("arg%d", i), p.Value.Render())
	}
	slog.Info("handlebars log helper", args...)
	return nil
}

// helperBlockHelperMissing is invoked when a block tag's name does not
// match any registered helper; it treats the resolved value as an
// implicit #each/#if per mustache section semantics: arrays iterate,
// falsy values render the inverse, anything else renders the main
// body once against that value as the new context.
func helperBlockHelperMissing(h *Helper, registry *Registry, rc *RenderContext) error {
	ref := firstParamValue(h)
	if ref.Kind() == KindArray {
		return helperEach(h, registry, rc)
	}
	if !ref.Truthy() {
		return h.RenderInverse(rc)
	}
	child := rc.Derive()
	child.PushBlockContext(ref)
	return renderHelperMain(h, child)
}

// helperHelperMissing is invoked for a non-block tag whose name matched
// no helper; per the reference implementation this is always an error
// when any argument was supplied (a bare unresolved name never reaches
// a helper invocation — it would have been parsed as a plain Expression).
func helperHelperMissing(h *Helper, registry *Registry, rc *RenderContext) error {
	return NewRenderErrorf("Missing helper: %q", h.Name())
}

// decoratorInline implements `{{#*inline "name"}}...{{/inline}}`: it
// registers the directive's main template under rc's local partial
// table keyed by the resolved name parameter, shadowing any registry
// partial/template of the same name for the remainder of this render
// frame and its descendants.
func decoratorInline(d *Directive, registry *Registry, rc *RenderContext) error {
	ref, ok := d.Param(0)
	if !ok {
		return NewRenderError("inline: missing name argument")
	}
	name := ref.Value.Render()
	if d.Main() == nil {
		return NewRenderErrorf("inline %q: missing body", name)
	}
	rc.SetPartial(name, d.Main())
	return nil
}
