// Copyright (c) 2014 Alex Kalyvitis
// Portions Copyright (c) 2016 Ning Sun (handlebars-rust)

package handlebars

// ParamKind tags a Parameter.
type ParamKind int

const (
	ParamName ParamKind = iota
	ParamLiteral
	ParamSubexpression
)

// Parameter is an argument to a helper, directive or expression: a path
// name to resolve, a literal value, or a parenthesized subexpression.
type Parameter struct {
	Kind    ParamKind
	Name    string
	Literal Value
	Sub     *Template
}

func NameParam(name string) Parameter           { return Parameter{Kind: ParamName, Name: name} }
func LiteralParam(v Value) Parameter             { return Parameter{Kind: ParamLiteral, Literal: v} }
func SubexpressionParam(t *Template) Parameter   { return Parameter{Kind: ParamSubexpression, Sub: t} }

// ValueRef is the result of resolving a Parameter against a RenderContext:
// Path is set when the value is referenced from the context chain (and so
// may be traced back, e.g. by the `lookup` helper); it is None for literals
// and subexpression results.
type ValueRef struct {
	Path    string
	HasPath bool
	Value   Value
}

// ResolveParameter resolves p against rc, following §4.3:
//   - Name(n) starting with "@" that matches a local variable: the local,
//     with no path.
//   - Name(n) matched in the block-context stack: that value, path=n.
//   - Name(n) otherwise: Context.Navigate from the current path and local
//     path roots (total — missing values resolve to Null), path=n.
//   - Literal(v): v, no path.
//   - Subexpression(t): t rendered into a capture buffer with escaping
//     disabled, wrapped as a String value, no path.
func ResolveParameter(p Parameter, rc *RenderContext) (ValueRef, error) {
	switch p.Kind {
	case ParamName:
		name := p.Name
		if len(name) > 0 && name[0] == '@' {
			if v, ok := rc.LocalVar(name); ok {
				return ValueRef{Value: v}, nil
			}
		}
		if v, ok := rc.EvaluateInBlockContext(name); ok {
			return ValueRef{Path: name, HasPath: true, Value: v}, nil
		}
		v := rc.Context().Navigate(rc.Path(), rc.LocalPathRoot(), name)
		return ValueRef{Path: name, HasPath: true, Value: v}, nil
	case ParamLiteral:
		return ValueRef{Value: p.Literal}, nil
	case ParamSubexpression:
		s, err := renderToString(p.Sub, rc, true)
		if err != nil {
			return ValueRef{}, err
		}
		return ValueRef{Value: String(s)}, nil
	}
	return ValueRef{Value: NULL}, nil
}

// ResolveParameterName resolves p the way a directive/partial name
// position does: Name yields the literal name string, Subexpression
// renders (with escaping disabled) and uses the rendered text as the
// name, Literal renders the literal's text form.
func ResolveParameterName(p Parameter, rc *RenderContext) (string, error) {
	switch p.Kind {
	case ParamName:
		return p.Name, nil
	case ParamSubexpression:
		return renderToString(p.Sub, rc, true)
	case ParamLiteral:
		return p.Literal.Render(), nil
	}
	return "", nil
}
