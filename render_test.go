// Copyright (c) 2014 Alex Kalyvitis
// Portions Copyright (c) 2016 Ning Sun (handlebars-rust)

package handlebars

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderString(t *testing.T, tmpl *Template, r *Registry, data interface{}) string {
	t.Helper()
	var sb strings.Builder
	err := tmpl.Render(r, NewContext(FromGo(data)), &sb)
	require.NoError(t, err)
	return sb.String()
}

// Scenario 1: path navigation.
func TestScenarioPathNavigation(t *testing.T) {
	data := map[string]interface{}{
		"name": "Ning Sun",
		"addr": map[string]interface{}{
			"city":    "Beijing",
			"country": "China",
		},
		"titles": []interface{}{"programmer", "cartographier"},
		"age":    27,
	}
	ctx := NewContext(FromGo(data))

	assert.Equal(t, "China", ctx.Navigate(".", nil, "./name/../addr/country").StringValue())
	assert.Equal(t, "China", ctx.Navigate(".", nil, "addr.['country']").StringValue())
	assert.Equal(t, float64(27), ctx.Navigate(".", nil, "titles[0]/../../age").NumberValue())
}

// Scenario 2: {{this}} on a scalar root.
func TestScenarioThisOnScalar(t *testing.T) {
	tmpl, err := ParseTemplate("scenario2", "{{this}}")
	require.NoError(t, err)
	out := renderString(t, tmpl, NewRegistry(), true)
	assert.Equal(t, "true", out)
}

// Scenario 3: escaped expression vs triple-stash.
func TestScenarioEscapeVsRaw(t *testing.T) {
	tmpl, err := ParseTemplate("scenario3", "{{hello}}|{{{hello}}}")
	require.NoError(t, err)
	out := renderString(t, tmpl, NewRegistry(), map[string]interface{}{"hello": "<p></p>"})
	assert.Equal(t, "&lt;p&gt;&lt;/p&gt;|<p></p>", out)
}

// Scenario 4: nested subexpression + helper.
func TestScenarioNestedSubexpressionHelper(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterHelper("format", func(h *Helper, r *Registry, rc *RenderContext) error {
		v, _ := h.Param(0)
		_, err := rc.Writer().Write([]byte(v.Value.Render()))
		return err
	})

	tmpl, err := ParseTemplate("scenario4", "{{format (format a)}}")
	require.NoError(t, err)
	out := renderString(t, tmpl, reg, map[string]interface{}{"a": "123"})
	assert.Equal(t, "123", out)
}

// Scenario 5: render error position attribution.
func TestScenarioRenderErrorPosition(t *testing.T) {
	src := "<h1>\n{{#if true}}\n  {{#each}}{{/each}}\n{{/if}}"
	tmpl, err := ParseTemplate("invalid_template", src)
	require.NoError(t, err)

	var sb strings.Builder
	renderErr := tmpl.Render(NewRegistry(), NewContext(NULL), &sb)
	require.Error(t, renderErr)

	re, ok := renderErr.(*RenderError)
	require.True(t, ok)
	assert.Equal(t, 3, re.LineNo)
	assert.Equal(t, 3, re.ColumnNo)
	assert.Equal(t, "invalid_template", re.TemplateName)
}

// Scenario 6: inline partial shadows the registry fallback.
func TestScenarioInlinePartialShadowing(t *testing.T) {
	reg := NewRegistry()

	parentTmpl, err := ParseTemplate("parent", "<html>{{> layout}}</html>")
	require.NoError(t, err)
	reg.RegisterTemplate("parent", parentTmpl)

	segTmpl, err := ParseTemplate("seg", "1234")
	require.NoError(t, err)
	reg.RegisterTemplate("seg", segTmpl)

	childSrc := `{{#*inline "layout"}}content{{/inline}}{{#> parent}}{{> seg}}{{/parent}}`
	childTmpl, err := ParseTemplate("child", childSrc)
	require.NoError(t, err)

	out := renderString(t, childTmpl, reg, nil)
	assert.Equal(t, "<html>content</html>", out)
}
