// Copyright (c) 2014 Alex Kalyvitis
// Portions Copyright (c) 2016 Ning Sun (handlebars-rust)

package handlebars

// expandPartial implements the resolution and rendering contract of §4.5:
// a partial name resolves first against rc's local (inline) partial
// table, which shadows the registry's named templates; if neither
// resolves and pt is a block form, the block body itself is the
// fallback render. The resolved template renders in a derived
// RenderContext whose base path is the optional first positional
// argument and whose Context is extended with the hash arguments.
func expandPartial(name string, d *Directive, pt *PartialTemplate, rc *RenderContext) error {
	tmpl, ok := rc.GetPartial(name)
	if !ok {
		tmpl, ok = rc.registry.Template(name)
	}
	if !ok {
		if pt.Block && pt.Main != nil {
			return pt.Main.renderInto(rc.Derive())
		}
		return NewRenderErrorf("Partial not found: %q", name)
	}

	child := rc.Derive()

	if len(d.params) > 0 {
		base := d.params[0]
		if base.HasPath {
			child.SetPath(combinePath(rc.Path(), base.Path))
		}
	}

	if len(d.hashOrder) > 0 {
		hash := NewObject()
		for _, k := range d.hashOrder {
			v, _ := d.Hash(k)
			hash.Set(k, v.Value)
		}
		child.context = rc.Context().Extend(hash)
	}

	return tmpl.renderInto(child)
}
