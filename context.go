// Copyright (c) 2014 Alex Kalyvitis
// Portions Copyright (c) 2016 Ning Sun (handlebars-rust)

package handlebars

// Context owns a JSON-shaped root value that a template renders over. It is
// immutable through the rendering pipeline except via Extend, which returns
// a new Context and never mutates the receiver.
type Context struct {
	data Value
}

// NewContext wraps v (converted with FromGo if it is not already a Value)
// as the root of a new Context.
func NewContext(v interface{}) *Context {
	return &Context{data: FromGo(v)}
}

// NullContext returns a Context whose data is Null.
func NullContext() *Context {
	return &Context{data: NULL}
}

// Data returns the root value.
func (c *Context) Data() Value { return c.data }

// Extend returns a NEW Context whose value is the receiver's value merged
// with an additional mapping: if the receiver's value is an Object,
// added keys overlay it (added keys win on conflict); otherwise the old
// value is wrapped under the key "this" before the overlay is applied.
// Extend never mutates the receiver.
func (c *Context) Extend(hash *Object) *Context {
	var base *Object
	if c.data.Kind() == KindObject {
		base = c.data.Object().Clone()
	} else {
		base = NewObject()
		base.Set("this", c.data)
	}
	if hash != nil {
		for _, k := range hash.Keys() {
			v, _ := hash.Get(k)
			base.Set(k, v)
		}
	}
	return &Context{data: ObjectValue(base)}
}

// Navigate resolves relativePath against the receiver's data, starting from
// basePath and honoring localPathRoot overrides installed by block helpers.
// It never fails: missing keys, wrong-typed indexing and empty paths all
// yield NULL.
//
// The algorithm:
//  1. Count the relative path's leading Up segments (depth d).
//  2. Choose a starting base path: when d >= 1, use
//     localPathRoot[d-1] if present, else fall back to basePath.
//  3. Build a segment stack by contributing the chosen base path's
//     segments first, then the full relative path's segments (including
//     its own leading Ups, which pop against what the base path just
//     pushed — this is what makes `../x` inside a block resolve to a
//     sibling of the block's iteration target rather than a literal pop).
//  4. Walk the data following the segment stack.
func (c *Context) Navigate(basePath string, localPathRoot []string, relativePath string) Value {
	relSegs := ParsePath(relativePath)
	d := leadingUps(relSegs)

	chosenBase := basePath
	if d >= 1 {
		idx := d - 1
		if idx < len(localPathRoot) {
			chosenBase = localPathRoot[idx]
		}
	}

	var stack []string
	stack = contributePath(stack, chosenBase)
	stack = contributePath(stack, relativePath)

	return walk(c.data, stack)
}

func walk(root Value, stack []string) Value {
	data := root
	for _, p := range stack {
		if p == "this" {
			if data.Kind() == KindObject {
				if _, ok := data.Object().Get("this"); !ok {
					continue
				}
			} else {
				continue
			}
		}
		switch data.Kind() {
		case KindArray:
			idx, ok := parseUint(p)
			arr := data.ArrayValue()
			if !ok || idx < 0 || idx >= len(arr) {
				return NULL
			}
			data = arr[idx]
		case KindObject:
			v, ok := data.Object().Get(p)
			if !ok {
				return NULL
			}
			data = v
		default:
			return NULL
		}
	}
	return data
}

func parseUint(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
