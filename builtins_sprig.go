// Copyright (c) 2014 Alex Kalyvitis

package handlebars

import (
	"reflect"

	"github.com/Masterminds/sprig/v3"
)

// sprigHelperNames is the subset of sprig's text function map exposed as
// Handlebars helpers, grounded on quintans-copycat and helm's use of
// sprig.TxtFuncMap() as the function namespace fed to text/template.
// Only the string/number-oriented, side-effect-free functions are wired:
// sprig also exports date/random/crypto/network functions that have no
// natural fit as a logic-less template's inline value transforms.
var sprigHelperNames = []string{
	"upper", "lower", "title", "trim", "trimAll", "trimPrefix", "trimSuffix",
	"repeat", "substr", "nospace", "trunc", "abbrev", "initials", "swapCase",
	"camelcase", "snakecase", "kebabcase", "wrap", "quote", "squote",
	"default", "empty", "coalesce", "ternary",
	"add", "sub", "mul", "div", "mod", "max", "min",
	"b64enc", "b64dec", "sha1sum", "sha256sum",
	"plural", "contains", "hasPrefix", "hasSuffix", "replace", "indent",
}

// RegisterSprigHelpers installs each of sprigHelperNames as a Handlebars
// helper on r, adapting sprig's loosely-typed Go functions (as consumed by
// text/template) to the engine's Value/Helper calling convention via
// reflection: positional params are converted to the adapted function's
// declared parameter types, and its single return value is converted back
// to a Value and written (or, for subexpression use, captured) the same
// way any other helper's output is.
func RegisterSprigHelpers(r *Registry) {
	fm := sprig.TxtFuncMap()
	for _, name := range sprigHelperNames {
		fn, ok := fm[name]
		if !ok {
			continue
		}
		r.RegisterHelper(name, adaptSprigFunc(name, fn))
	}
}

func adaptSprigFunc(name string, fn interface{}) HelperFunc {
	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	return func(h *Helper, registry *Registry, rc *RenderContext) error {
		args := make([]reflect.Value, 0, len(h.Params()))
		variadic := ft.IsVariadic()
		for i, p := range h.Params() {
			var target reflect.Type
			switch {
			case variadic && i >= ft.NumIn()-1:
				target = ft.In(ft.NumIn() - 1).Elem()
			case i < ft.NumIn():
				target = ft.In(i)
			default:
				return NewRenderErrorf("helper %q: too many arguments", name)
			}
			args = append(args, sprigArg(p.Value, target))
		}
		if len(args) < ft.NumIn()-boolToInt(variadic) {
			return NewRenderErrorf("helper %q: too few arguments", name)
		}
		out := fv.Call(args)
		if len(out) == 0 {
			return nil
		}
		result := goToValue(out[len(out)-1])
		text := result.Render()
		if !rc.DisableEscape() {
			text = rc.registry.EscapeFn()(text)
		}
		_, err := rc.Writer().Write([]byte(text))
		return err
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// sprigArg converts v to target's static type, the handful of shapes
// sprig's string-processing functions actually declare: string,
// interface{}, int and float64. Anything else falls back to the
// rendered text form so the call never panics on a type mismatch.
func sprigArg(v Value, target reflect.Type) reflect.Value {
	switch target.Kind() {
	case reflect.String:
		return reflect.ValueOf(v.Render())
	case reflect.Interface:
		return reflect.ValueOf(goValue(v))
	case reflect.Int, reflect.Int64:
		n := int64(v.NumberValue())
		rv := reflect.New(target).Elem()
		rv.SetInt(n)
		return rv
	case reflect.Float64, reflect.Float32:
		rv := reflect.New(target).Elem()
		rv.SetFloat(v.NumberValue())
		return rv
	case reflect.Bool:
		return reflect.ValueOf(v.Truthy())
	default:
		return reflect.ValueOf(v.Render())
	}
}

// goValue unwraps a Value to the nearest plain Go type, used when an
// adapted sprig function declares an interface{} parameter.
func goValue(v Value) interface{} {
	switch v.Kind() {
	case KindString:
		return v.StringValue()
	case KindNumber:
		return v.NumberValue()
	case KindBool:
		return v.BoolValue()
	case KindNull:
		return nil
	default:
		return v.Render()
	}
}

// goToValue converts a sprig function's reflect.Value return into a Value.
func goToValue(rv reflect.Value) Value {
	if !rv.IsValid() {
		return NULL
	}
	switch rv.Kind() {
	case reflect.String:
		return String(rv.String())
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Number(float64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return Number(rv.Float())
	case reflect.Interface:
		return FromGo(rv.Interface())
	default:
		return FromGo(rv.Interface())
	}
}
