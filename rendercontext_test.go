// Copyright (c) 2014 Alex Kalyvitis
// Portions Copyright (c) 2016 Ning Sun (handlebars-rust)

package handlebars

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRC() *RenderContext {
	reg := NewRegistry()
	ctx := NewContext(Bool(true))
	var sb strings.Builder
	return NewRenderContext(reg, ctx, &sb)
}

func TestRenderContextPromoteDemoteRoundTrip(t *testing.T) {
	rc := newTestRC()
	rc.SetLocalVar("@index", Number(3))

	rc.PromoteLocalVars()
	v, ok := rc.LocalVar("@../index")
	require.True(t, ok)
	assert.Equal(t, float64(3), v.NumberValue())
	_, stillBare := rc.LocalVar("@index")
	assert.False(t, stillBare)

	rc.DemoteLocalVars()
	v, ok = rc.LocalVar("@index")
	require.True(t, ok)
	assert.Equal(t, float64(3), v.NumberValue())
}

func TestRenderContextDemoteDropsUnprefixed(t *testing.T) {
	rc := newTestRC()
	rc.SetLocalVar("@index", Number(1))
	rc.DemoteLocalVars()
	_, ok := rc.LocalVar("@index")
	assert.False(t, ok)
}

func TestRenderContextDeriveSharesHelperTableNotLocals(t *testing.T) {
	rc := newTestRC()
	rc.SetLocalVar("@x", Number(1))
	rc.RegisterLocalHelper("mine", func(h *Helper, r *Registry, rc *RenderContext) error { return nil })

	child := rc.Derive()
	child.SetLocalVar("@x", Number(2))

	orig, _ := rc.LocalVar("@x")
	derived, _ := child.LocalVar("@x")
	assert.Equal(t, float64(1), orig.NumberValue())
	assert.Equal(t, float64(2), derived.NumberValue())

	_, ok := child.LocalHelper("mine")
	assert.True(t, ok)
}

func TestRenderContextDerivePartialsIndependentAfterCopy(t *testing.T) {
	rc := newTestRC()
	tmpl := &Template{Name: "seg"}
	rc.SetPartial("seg", tmpl)

	child := rc.Derive()
	child.SetPartial("other", tmpl)

	_, ok := rc.GetPartial("other")
	assert.False(t, ok)
	_, ok = child.GetPartial("seg")
	assert.True(t, ok)
}

func TestRenderContextBlockContextStack(t *testing.T) {
	rc := newTestRC()
	outer := NewObject()
	outer.Set("name", String("outer"))
	inner := NewObject()
	inner.Set("name", String("inner"))

	rc.PushBlockContext(ObjectValue(outer))
	rc.PushBlockContext(ObjectValue(inner))

	v, ok := rc.EvaluateInBlockContext("name")
	require.True(t, ok)
	assert.Equal(t, "inner", v.StringValue())

	rc.PopBlockContext()
	v, ok = rc.EvaluateInBlockContext("name")
	require.True(t, ok)
	assert.Equal(t, "outer", v.StringValue())
}
