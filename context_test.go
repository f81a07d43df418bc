// Copyright (c) 2014 Alex Kalyvitis
// Portions Copyright (c) 2016 Ning Sun (handlebars-rust)

package handlebars

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleContext() *Context {
	addr := NewObject()
	addr.Set("city", String("Beijing"))
	addr.Set("country", String("China"))

	root := NewObject()
	root.Set("name", String("Ning Sun"))
	root.Set("addr", ObjectValue(addr))
	root.Set("titles", Array(String("programmer"), String("cartographier")))
	root.Set("age", Number(27))

	return NewContext(ObjectValue(root))
}

func TestContextNavigateScenario1(t *testing.T) {
	c := sampleContext()

	got := c.Navigate(".", nil, "./name/../addr/country")
	require.Equal(t, KindString, got.Kind())
	assert.Equal(t, "China", got.StringValue())

	got = c.Navigate(".", nil, "addr.['country']")
	assert.Equal(t, "China", got.StringValue())

	got = c.Navigate(".", nil, "titles[0]/../../age")
	assert.Equal(t, float64(27), got.NumberValue())
}

func TestContextNavigateIsTotal(t *testing.T) {
	c := sampleContext()
	assert.True(t, c.Navigate(".", nil, "nonexistent.deeply.nested").IsNull())
	assert.True(t, c.Navigate(".", nil, "titles[99]").IsNull())
	assert.True(t, c.Navigate(".", nil, "name.nope").IsNull())
}

func TestContextThisPassThrough(t *testing.T) {
	c := sampleContext()
	got := c.Navigate(".", nil, "this")
	assert.Equal(t, c.Data(), got)
}

func TestContextThisAsRealKey(t *testing.T) {
	o := NewObject()
	o.Set("this", String("shadowed"))
	c := NewContext(ObjectValue(o))
	got := c.Navigate(".", nil, "this")
	assert.Equal(t, "shadowed", got.StringValue())
}

func TestContextExtendIdempotence(t *testing.T) {
	base := NewContext(Bool(true))
	h := NewObject()
	h.Set("x", Number(1))

	once := base.Extend(h)
	twice := base.Extend(h).Extend(h)
	assert.True(t, once.Data().Equal(twice.Data()))
}

func TestContextExtendWrapsNonObjectUnderThis(t *testing.T) {
	base := NewContext(Bool(true))
	extended := base.Extend(nil)
	v, ok := extended.Data().Object().Get("this")
	require.True(t, ok)
	assert.True(t, v.BoolValue())
}

// TestContextParentRootOverride mirrors what a single level of
// {{#with a}} installs: localPathRoot[0] holds the path active before
// entering the block ("."), so `../x` from within reaches the root's own
// "x", not the "x" inside "a".
func TestContextParentRootOverride(t *testing.T) {
	a := NewObject()
	a.Set("x", String("nested-x"))
	root := NewObject()
	root.Set("a", ObjectValue(a))
	root.Set("x", String("top-x"))
	c := NewContext(ObjectValue(root))

	got := c.Navigate("a", []string{"."}, "../x")
	assert.Equal(t, "top-x", got.StringValue())
}

// TestContextParentRootOverrideDiverges pins the invariant by name: with
// localPathRoot = ["./a/sub"] and base "./b/sub2", `../x` must resolve
// against "./a/sub" (reaching a.x) and not against the base path (b.x).
func TestContextParentRootOverrideDiverges(t *testing.T) {
	sub := NewObject()
	a := NewObject()
	a.Set("sub", ObjectValue(sub))
	a.Set("x", String("from-a"))

	sub2 := NewObject()
	b := NewObject()
	b.Set("sub2", ObjectValue(sub2))
	b.Set("x", String("from-b"))

	root := NewObject()
	root.Set("a", ObjectValue(a))
	root.Set("b", ObjectValue(b))
	c := NewContext(ObjectValue(root))

	got := c.Navigate("./b/sub2", []string{"./a/sub"}, "../x")
	assert.Equal(t, "from-a", got.StringValue())
}
