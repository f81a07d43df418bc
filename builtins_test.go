// Copyright (c) 2014 Alex Kalyvitis
// Portions Copyright (c) 2016 Ning Sun (handlebars-rust)

package handlebars

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRender(t *testing.T, src string, data interface{}) string {
	t.Helper()
	tmpl, err := ParseTemplate("t", src)
	require.NoError(t, err)
	var sb strings.Builder
	require.NoError(t, tmpl.Render(NewRegistry(), NewContext(FromGo(data)), &sb))
	return sb.String()
}

func TestHelperIfUnless(t *testing.T) {
	out := mustRender(t, "{{#if ok}}yes{{else}}no{{/if}}", map[string]interface{}{"ok": true})
	assert.Equal(t, "yes", out)

	out = mustRender(t, "{{#if ok}}yes{{else}}no{{/if}}", map[string]interface{}{"ok": false})
	assert.Equal(t, "no", out)

	out = mustRender(t, "{{#unless ok}}yes{{else}}no{{/unless}}", map[string]interface{}{"ok": false})
	assert.Equal(t, "yes", out)
}

func TestHelperEachArray(t *testing.T) {
	data := map[string]interface{}{"items": []interface{}{"a", "b", "c"}}
	out := mustRender(t, "{{#each items}}{{@index}}:{{this}} {{/each}}", data)
	assert.Equal(t, "0:a 1:b 2:c ", out)
}

func TestHelperEachEmptyRendersInverse(t *testing.T) {
	data := map[string]interface{}{"items": []interface{}{}}
	out := mustRender(t, "{{#each items}}x{{else}}empty{{/each}}", data)
	assert.Equal(t, "empty", out)
}

func TestHelperEachObject(t *testing.T) {
	data := map[string]interface{}{"m": map[string]interface{}{"a": 1}}
	out := mustRender(t, "{{#each m}}{{@key}}={{this}}{{/each}}", data)
	assert.Equal(t, "a=1", out)
}

func TestHelperEachMissingArgIsError(t *testing.T) {
	tmpl, err := ParseTemplate("t", "{{#each}}{{/each}}")
	require.NoError(t, err)
	var sb strings.Builder
	err = tmpl.Render(NewRegistry(), NewContext(NULL), &sb)
	assert.Error(t, err)
}

func TestHelperWithRepointsPathAndParentReaches(t *testing.T) {
	data := map[string]interface{}{
		"name": "root",
		"addr": map[string]interface{}{"city": "Beijing"},
	}
	out := mustRender(t, "{{#with addr}}{{city}} ({{../name}}){{/with}}", data)
	assert.Equal(t, "Beijing (root)", out)
}

func TestHelperWithFalsyRendersInverse(t *testing.T) {
	data := map[string]interface{}{}
	out := mustRender(t, "{{#with missing}}x{{else}}y{{/with}}", data)
	assert.Equal(t, "y", out)
}

func TestHelperLookupArrayAndObject(t *testing.T) {
	data := map[string]interface{}{
		"items": []interface{}{"a", "b"},
		"idx":   1,
		"obj":   map[string]interface{}{"k": "v"},
		"key":   "k",
	}
	out := mustRender(t, "{{lookup items idx}}-{{lookup obj key}}", data)
	assert.Equal(t, "b-v", out)
}

func TestHelperBlockParamsEach(t *testing.T) {
	data := map[string]interface{}{"items": []interface{}{"a", "b"}}
	out := mustRender(t, "{{#each items as |val i|}}{{@i}}:{{@val}} {{/each}}", data)
	assert.Equal(t, "0:a 1:b ", out)
}

func TestDecoratorInlineDefinesLocalPartial(t *testing.T) {
	reg := NewRegistry()
	tmpl, err := ParseTemplate("t", `{{#*inline "greet"}}hi {{name}}{{/inline}}{{> greet}}`)
	require.NoError(t, err)
	var sb strings.Builder
	require.NoError(t, tmpl.Render(reg, NewContext(FromGo(map[string]interface{}{"name": "Sam"})), &sb))
	assert.Equal(t, "hi Sam", sb.String())
}

func TestHelperMissingIsRenderError(t *testing.T) {
	tmpl, err := ParseTemplate("t", "{{nopeHelper a b}}")
	require.NoError(t, err)
	var sb strings.Builder
	err = tmpl.Render(NewRegistry(), NewContext(NULL), &sb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nopeHelper")
}
