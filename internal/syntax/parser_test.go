package syntax

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		layout string
		want   string
	}{
		{"empty", ``, `Layout`},
		{"text only", `hello`, `Layout[Text("hello")]`},
		{"backslash outside renderer", `a\b`, `Layout[Text("a\\b")]`},
		{"single renderer", `${longdate}`, `Layout[Renderer(longdate)]`},
		{"name is lower-cased and trimmed", `${ LongDate }`, `Layout[Renderer(longdate)]`},
		{"text and renderers", `${longdate}|${level}`, `Layout[Renderer(longdate) Text("|") Renderer(level)]`},
		{
			"named param",
			`${date:format=HH\:mm}`,
			`Layout[Renderer(date)[Param(format)[Layout[Text("HH:mm")]]]]`,
		},
		{
			"param name is lower-cased",
			`${level:upperCase=true}`,
			`Layout[Renderer(level)[Param(uppercase)[Layout[Text("true")]]]]`,
		},
		{
			"default param",
			`${literal:hello}`,
			`Layout[Renderer(literal)[Param()[Layout[Text("hello")]]]]`,
		},
		{
			"default param with nested renderer",
			`${uppercase:${level}}`,
			`Layout[Renderer(uppercase)[Param()[Layout[Renderer(level)]]]]`,
		},
		{
			"default param then named",
			`${pad:10:inner=${message}}`,
			`Layout[Renderer(pad)[Param()[Layout[Text("10")]] Param(inner)[Layout[Renderer(message)]]]]`,
		},
		{
			"equals without name is part of the default value",
			`${literal:=x}`,
			`Layout[Renderer(literal)[Param()[Layout[Text("=x")]]]]`,
		},
		{
			"equals inside value",
			`${when:when=level==1:inner=x}`,
			`Layout[Renderer(when)[Param(when)[Layout[Text("level==1")]] Param(inner)[Layout[Text("x")]]]]`,
		},
		{
			"empty default param",
			`${a:}`,
			`Layout[Renderer(a)[Param()[Layout]]]`,
		},
		{
			"unknown names accepted",
			`${no-such:whatever=1}`,
			`Layout[Renderer(no-such)[Param(whatever)[Layout[Text("1")]]]]`,
		},
		{
			"stray closing brace is text",
			`a}b`,
			`Layout[Text("a}b")]`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Parse(tt.layout)
			require.NoError(t, err)
			assert.Equal(t, tt.want, root.String())
		})
	}
}

func TestParse_DefaultParamKeepsLeadingText(t *testing.T) {
	root, err := Parse(`${literal: a b}`)
	require.NoError(t, err)
	value := root.Children[0].Children[0].Children[0]
	text, ok := value.Text()
	require.True(t, ok)
	assert.Equal(t, " a b", text)
	assert.Equal(t, Span{Start: 10, End: 14}, value.Span)
}

func TestParse_Spans(t *testing.T) {
	layout := `ab${level:format=Name}cd`
	root, err := Parse(layout)
	require.NoError(t, err)
	require.Len(t, root.Children, 3)

	assert.Equal(t, Span{Start: 0, End: 2}, root.Children[0].Span)
	r := root.Children[1]
	assert.Equal(t, Span{Start: 2, End: 22}, r.Span)
	assert.Equal(t, "${level:format=Name}", layout[r.Span.Start:r.Span.End])
	assert.Equal(t, "${level}", r.Description)

	param := r.Children[0]
	assert.Equal(t, "format=Name", layout[param.Span.Start:param.Span.End])
	value := param.Children[0]
	assert.Equal(t, "Name", layout[value.Span.Start:value.Span.End])

	assert.Equal(t, Span{Start: 22, End: 24}, root.Children[2].Span)
	assert.Equal(t, Span{Start: 0, End: len(layout)}, root.Span)
}

func TestParse_Errors(t *testing.T) {
	for _, layout := range []string{`${`, `${longdate`, `${date:format=x`, `${a:b=${c}`, `${${a}}`} {
		t.Run(layout, func(t *testing.T) {
			_, err := Parse(layout)
			require.Error(t, err)
			var synErr *SyntaxError
			assert.True(t, errors.As(err, &synErr))
		})
	}
}

func TestNode_ParamValue(t *testing.T) {
	root, err := Parse(`${pad:padding=-5:padCharacter=x}`)
	require.NoError(t, err)
	r := root.Children[0]
	v, ok := r.ParamValue("padding").Text()
	require.True(t, ok)
	assert.Equal(t, "-5", v)
	assert.Nil(t, r.ParamValue("missing"))
	assert.Nil(t, r.Param("inner"))
}
